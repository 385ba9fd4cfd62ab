package quiz

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Cached is the locally stored outcome of the last completed quiz.
type Cached struct {
	Result Result `json:"result"`
	Scores Scores `json:"scores"`
	// At is epoch milliseconds.
	At int64 `json:"at"`
}

// Submission is the body posted to the backend when a quiz completes.
type Submission struct {
	Answers []int  `json:"answers"`
	Scores  Scores `json:"scores"`
	Result  Result `json:"result"`
}

type Cache interface {
	SaveQuizResult(ctx context.Context, c *Cached) error
}

type Submitter interface {
	PostQuizResult(ctx context.Context, s *Submission) error
}

// Recorder finishes a quiz: it scores the answers, posts them when a submitter
// is configured and caches the result locally.
type Recorder struct {
	Catalog   *Catalog
	Cache     Cache
	Submitter Submitter
	Logger    *zap.Logger
	Now       func() time.Time
}

// Record returns the cached outcome. Submission failures are logged and ignored.
func (r *Recorder) Record(ctx context.Context, answers []int) (*Cached, error) {
	scores := r.Catalog.Scores(answers)
	result := r.Catalog.Rank(scores)

	if r.Submitter != nil {
		err := r.Submitter.PostQuizResult(ctx, &Submission{Answers: answers, Scores: scores, Result: result})
		if err != nil && r.Logger != nil {
			r.Logger.Debug("posting quiz result failed", zap.Error(err))
		}
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	cached := &Cached{Result: result, Scores: scores, At: now().UnixMilli()}
	if err := r.Cache.SaveQuizResult(ctx, cached); err != nil {
		return cached, fmt.Errorf("cache quiz result: %w", err)
	}
	return cached, nil
}
