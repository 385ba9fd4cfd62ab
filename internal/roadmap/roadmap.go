// Package roadmap resolves a learning plan from CV skills, a chosen major,
// quiz results or a free-form precise request.
package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/quiz"
)

var (
	ErrNoSkills     = errors.New("no skills extracted from the resume")
	ErrNoQuizResult = errors.New("no saved quiz result")
	ErrUnknownMajor = errors.New("unknown major")
)

const (
	cvSuffix   = " (inferred from CV)"
	quizSuffix = " (from quiz)"
)

type Item struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type Track struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Plan is a titled set of tracks.
type Plan struct {
	Title  string  `json:"title"`
	Tracks []Track `json:"tracks"`
}

// Backend builds plans remotely.
type Backend interface {
	BuildRoadmap(ctx context.Context, major string, skills []string) (*Plan, error)
}

// PreciseGenerator writes a free-form plan for a target role.
type PreciseGenerator interface {
	GeneratePrecise(ctx context.Context, req *PreciseRequest) (*PreciseResult, error)
}

// Result is the outcome of any request mode. Plan is set for the major based
// modes, Text for the precise one.
type Result struct {
	Major string
	Plan  *Plan
	Text  string
	Model string
}

// Request is one of CV, Major, Quiz or Precise.
type Request interface {
	resolve(ctx context.Context, b *Builder) (*Result, error)
}

// CV infers the major from skills extracted from a resume.
type CV struct {
	Skills []string
}

// Major uses a major key picked by the user.
type Major struct {
	Key string
}

// Quiz uses the top major of a cached quiz result.
type Quiz struct {
	Cached *quiz.Cached
}

// Precise asks a generator for a plan tailored to a target role.
type Precise struct {
	Request PreciseRequest
}

type Builder struct {
	Catalog *Catalog
	Quiz    *quiz.Catalog
	// Backend may be nil; plans are then built locally.
	Backend   Backend
	Generator PreciseGenerator
	Logger    *zap.Logger
}

func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("roadmap request is required")
	}
	return req.resolve(ctx, b)
}

// plan asks the backend and falls back to the local catalog when the call
// fails or the reply carries no plan. A successful reply is kept as is.
func (b *Builder) plan(ctx context.Context, major string, skills []string) *Plan {
	if b.Backend != nil {
		plan, err := b.Backend.BuildRoadmap(ctx, major, skills)
		if err == nil && plan != nil {
			return plan
		}
		if b.Logger != nil {
			b.Logger.Debug("backend roadmap unavailable, using local plan",
				zap.String("major", major),
				zap.Error(err),
			)
		}
	}
	return b.Catalog.Local(major)
}

func (r CV) resolve(ctx context.Context, b *Builder) (*Result, error) {
	if len(r.Skills) == 0 {
		return nil, ErrNoSkills
	}
	major := b.Catalog.InferMajor(r.Skills)
	plan := b.plan(ctx, major, r.Skills)
	plan.Title += cvSuffix
	return &Result{Major: major, Plan: plan}, nil
}

func (r Major) resolve(ctx context.Context, b *Builder) (*Result, error) {
	m, ok := b.Catalog.Major(r.Key)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMajor, r.Key)
	}
	return &Result{Major: m.Key, Plan: b.plan(ctx, m.Key, []string{})}, nil
}

func (r Quiz) resolve(ctx context.Context, b *Builder) (*Result, error) {
	if r.Cached == nil || len(r.Cached.Result.TopMajors) == 0 {
		return nil, ErrNoQuizResult
	}
	code, ok := b.Quiz.RoadmapCode(r.Cached.Result.TopMajors[0])
	if !ok {
		return nil, ErrNoQuizResult
	}
	plan := b.plan(ctx, code, []string{})
	plan.Title += quizSuffix
	return &Result{Major: code, Plan: plan}, nil
}

func (r Precise) resolve(ctx context.Context, b *Builder) (*Result, error) {
	req := r.Request
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if b.Generator == nil {
		return nil, errors.New("precise roadmap generator is not configured")
	}
	out, err := b.Generator.GeneratePrecise(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("generate precise roadmap: %w", err)
	}
	return &Result{Text: strings.TrimSpace(out.Plan), Model: out.Model}, nil
}
