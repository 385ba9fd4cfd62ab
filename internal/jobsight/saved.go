package jobsight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spigell/jobsight/internal/jobs"
	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/roadmap"
)

const (
	savedSearchesPath = "/api/saved/searches"
	savedComparesPath = "/api/saved/compares"
	savedQuizPath     = "/api/saved/quiz"
	savedRoadmapsPath = "/api/saved/roadmaps"
)

// SavedSearch is a stored explore query. Older records carry the place as
// location instead of where.
type SavedSearch struct {
	ID        ID        `json:"id,omitempty"`
	What      string    `json:"what"`
	Where     string    `json:"where,omitempty"`
	Location  string    `json:"location,omitempty"`
	FullTime  bool      `json:"fullTime"`
	Permanent bool      `json:"permanent"`
	SortBy    string    `json:"sortBy"`
	Page      string    `json:"page,omitempty"`
	Size      string    `json:"size,omitempty"`
	SavedAt   string    `json:"savedAt,omitempty"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

func (s *SavedSearch) Place() string {
	if s.Where != "" {
		return s.Where
	}
	return s.Location
}

type SavedCompare struct {
	ID        ID        `json:"id,omitempty"`
	Title     string    `json:"title"`
	JobsJSON  string    `json:"jobsJson"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

// Jobs decodes the stored pick snapshot.
func (s *SavedCompare) Jobs() ([]*jobs.Job, error) {
	var picks []*jobs.Job
	if err := json.Unmarshal([]byte(s.JobsJSON), &picks); err != nil {
		return nil, fmt.Errorf("decode compare %s: %w", s.ID, err)
	}
	return picks, nil
}

type SavedQuizResult struct {
	ID         ID        `json:"id,omitempty"`
	ResultJSON string    `json:"resultJson"`
	CreatedAt  Timestamp `json:"createdAt,omitempty"`
}

func (s *SavedQuizResult) Result() (*quiz.Result, error) {
	var result quiz.Result
	if err := json.Unmarshal([]byte(s.ResultJSON), &result); err != nil {
		return nil, fmt.Errorf("decode quiz result %s: %w", s.ID, err)
	}
	return &result, nil
}

type SavedRoadmap struct {
	ID        ID             `json:"id,omitempty"`
	Title     string         `json:"title"`
	Source    string         `json:"source"`
	PlanJSON  map[string]any `json:"planJson,omitempty"`
	PlanText  string         `json:"planText"`
	CreatedAt Timestamp      `json:"createdAt,omitempty"`
}

// NewSavedSearch builds the payload stored for params. Only server sort modes
// are kept.
func NewSavedSearch(params *SearchParams, now time.Time) *SavedSearch {
	sortBy := params.SortBy
	if sortBy != "date" && sortBy != "relevance" {
		sortBy = "date"
	}
	return &SavedSearch{
		What:      params.What,
		Where:     params.Where,
		FullTime:  params.FullTime,
		Permanent: params.Permanent,
		SortBy:    sortBy,
		Page:      "0",
		Size:      strconv.Itoa(PageSize),
		SavedAt:   now.UTC().Format(time.RFC3339),
	}
}

func (c *Client) SavedSearches(ctx context.Context) ([]SavedSearch, error) {
	var out []SavedSearch
	if err := c.getJSON(ctx, savedSearchesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveSearch(ctx context.Context, s *SavedSearch) (*SavedSearch, error) {
	var out SavedSearch
	if err := c.sendJSON(ctx, http.MethodPost, savedSearchesPath, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSearch(ctx context.Context, id ID) error {
	return c.sendJSON(ctx, http.MethodDelete, savedSearchesPath+"/"+id.String(), nil, nil)
}

func (c *Client) SavedCompares(ctx context.Context) ([]SavedCompare, error) {
	var out []SavedCompare
	if err := c.getJSON(ctx, savedComparesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveCompare stores picks as one compare set.
func (c *Client) SaveCompare(ctx context.Context, title string, picks []*jobs.Job) (*SavedCompare, error) {
	data, err := json.Marshal(picks)
	if err != nil {
		return nil, fmt.Errorf("encode picks: %w", err)
	}

	var out SavedCompare
	in := &SavedCompare{Title: title, JobsJSON: string(data)}
	if err := c.sendJSON(ctx, http.MethodPost, savedComparesPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCompare(ctx context.Context, id ID) error {
	return c.sendJSON(ctx, http.MethodDelete, savedComparesPath+"/"+id.String(), nil, nil)
}

func (c *Client) SavedQuizResults(ctx context.Context) ([]SavedQuizResult, error) {
	var out []SavedQuizResult
	if err := c.getJSON(ctx, savedQuizPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SavedRoadmaps(ctx context.Context) ([]SavedRoadmap, error) {
	var out []SavedRoadmap
	if err := c.getJSON(ctx, savedRoadmapsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveRoadmap(ctx context.Context, p *roadmap.SavePayload) (*SavedRoadmap, error) {
	var out SavedRoadmap
	if err := c.sendJSON(ctx, http.MethodPost, savedRoadmapsPath, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRoadmap(ctx context.Context, id ID) error {
	return c.sendJSON(ctx, http.MethodDelete, savedRoadmapsPath+"/"+id.String(), nil, nil)
}
