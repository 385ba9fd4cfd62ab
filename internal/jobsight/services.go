package jobsight

import (
	"context"
	"io"
	"net/http"

	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/roadmap"
)

const (
	quizResultPath     = "/api/quiz/result"
	resumeAnalyzePath  = "/api/resume/analyze"
	roadmapBuildPath   = "/api/roadmap/build"
	roadmapPrecisePath = "/api/roadmap/precise"
)

var (
	_ quiz.Submitter           = (*Client)(nil)
	_ roadmap.Backend          = (*Client)(nil)
	_ roadmap.PreciseGenerator = (*Client)(nil)
)

func (c *Client) PostQuizResult(ctx context.Context, s *quiz.Submission) error {
	return c.sendJSON(ctx, http.MethodPost, quizResultPath, s, nil)
}

// AnalyzeResume uploads a resume and returns the skills found in it.
func (c *Client) AnalyzeResume(ctx context.Context, filename string, r io.Reader) ([]string, error) {
	var body struct {
		Skills []string `json:"skills"`
	}
	if err := c.postFile(ctx, resumeAnalyzePath, "file", filename, r, &body); err != nil {
		return nil, err
	}
	return body.Skills, nil
}

func (c *Client) BuildRoadmap(ctx context.Context, major string, skills []string) (*roadmap.Plan, error) {
	in := struct {
		Major  string   `json:"major"`
		Skills []string `json:"skills"`
	}{Major: major, Skills: skills}
	if in.Skills == nil {
		in.Skills = []string{}
	}

	// An empty body leaves plan nil.
	var plan *roadmap.Plan
	if err := c.sendJSON(ctx, http.MethodPost, roadmapBuildPath, in, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (c *Client) GeneratePrecise(ctx context.Context, req *roadmap.PreciseRequest) (*roadmap.PreciseResult, error) {
	var out roadmap.PreciseResult
	if err := c.sendJSON(ctx, http.MethodPost, roadmapPrecisePath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
