// Package compare keeps the bounded list of jobs picked for side-by-side comparison.
package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/jobsight/internal/jobs"
	"github.com/spigell/jobsight/internal/scoring"
	"github.com/spigell/jobsight/internal/storage"
)

const (
	StorageKey = "jobsight_compare_v1"
	MaxPicks   = 3
)

var (
	ErrAlreadyAdded = errors.New("Already added")
	ErrLimitReached = errors.New("You can compare up to 3 jobs")
)

// Picks is the persisted pick list. Every mutation is written through immediately.
type Picks struct {
	store storage.Store
}

func New(store storage.Store) *Picks {
	return &Picks{store: store}
}

// List returns the stored picks. A malformed stored value reads as empty.
func (p *Picks) List(ctx context.Context) ([]*jobs.Job, error) {
	items, err := storage.LoadJSON[[]*jobs.Job](ctx, p.store, StorageKey, nil)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

// Add appends a snapshot of job unless it is already present or the list is full.
// On failure the stored list is left untouched.
func (p *Picks) Add(ctx context.Context, job *jobs.Job) ([]*jobs.Job, error) {
	if job == nil {
		return nil, errors.New("nil job")
	}
	items, err := p.List(ctx)
	if err != nil {
		return nil, err
	}

	identity := job.Identity()
	for _, item := range items {
		if item.Identity() == identity {
			return items, ErrAlreadyAdded
		}
	}
	if len(items) >= MaxPicks {
		return items, ErrLimitReached
	}

	snapshot := *job
	items = append(items, &snapshot)
	if err := p.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops the pick whose id or key equals idOrKey.
func (p *Picks) Remove(ctx context.Context, idOrKey string) ([]*jobs.Job, error) {
	items, err := p.List(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]*jobs.Job, 0, len(items))
	for _, item := range items {
		if item.Identity() == idOrKey || item.Key == idOrKey {
			continue
		}
		kept = append(kept, item)
	}
	if err := p.save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (p *Picks) Clear(ctx context.Context) error {
	return p.save(ctx, []*jobs.Job{})
}

func (p *Picks) save(ctx context.Context, items []*jobs.Job) error {
	if err := storage.SaveJSON(ctx, p.store, StorageKey, items); err != nil {
		return fmt.Errorf("save compare picks: %w", err)
	}
	return nil
}

// Row is one compared job with the heuristics recomputed for display.
type Row struct {
	Job             *jobs.Job
	Median          float64
	HasMedian       bool
	Currency        string
	Level           scoring.Level
	Difficulty      scoring.Score
	Competitiveness scoring.Score
	// Fit is nil without a cached quiz result.
	Fit *scoring.Fit
}

// Evaluate scores every pick. quizMajors are the majors suggested by the last quiz.
func Evaluate(tables *scoring.Tables, picks []*jobs.Job, quizMajors []string) []Row {
	rows := make([]Row, 0, len(picks))
	for _, job := range picks {
		row := Row{
			Job:             job,
			Currency:        job.Currency,
			Level:           tables.Level(job.Title),
			Difficulty:      tables.Difficulty(job),
			Competitiveness: tables.Competitiveness(job),
		}
		if row.Currency == "" {
			row.Currency = tables.InferCurrency(job.Location)
		}
		row.Median, row.HasMedian = job.MedianSalary()
		if fit, ok := tables.QuizFit(job, quizMajors); ok {
			row.Fit = &fit
		}
		rows = append(rows, row)
	}
	return rows
}
