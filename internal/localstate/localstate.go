// Package localstate names the documents the client keeps on this machine.
package localstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/storage"
)

const (
	ProfileKey = "jobsight_profile_v1"
	QuizKey    = "jobsight_quiz_result"
	PrefillKey = "jobsight_explore_prefill_v1"
)

// Profile holds the user-editable fields shown in the cabinet.
type Profile struct {
	DisplayName string `json:"displayName"`
	Country     string `json:"country"`
	Headline    string `json:"headline"`
}

// Prefill hands a saved search over to the next explore run.
type Prefill struct {
	What      string `json:"what"`
	Where     string `json:"where"`
	FullTime  bool   `json:"fullTime"`
	Permanent bool   `json:"permanent"`
	SortBy    string `json:"sortBy"`
}

type State struct {
	store storage.Store
}

func New(store storage.Store) *State {
	return &State{store: store}
}

func (s *State) Profile(ctx context.Context) (Profile, error) {
	return storage.LoadJSON(ctx, s.store, ProfileKey, Profile{})
}

func (s *State) SaveProfile(ctx context.Context, p Profile) error {
	return storage.SaveJSON(ctx, s.store, ProfileKey, p)
}

// QuizResult returns the last cached quiz outcome, or nil when there is none.
func (s *State) QuizResult(ctx context.Context) (*quiz.Cached, error) {
	return storage.LoadJSON[*quiz.Cached](ctx, s.store, QuizKey, nil)
}

func (s *State) SaveQuizResult(ctx context.Context, c *quiz.Cached) error {
	return storage.SaveJSON(ctx, s.store, QuizKey, c)
}

// QuizMajors returns the majors suggested by the cached quiz, if any.
func (s *State) QuizMajors(ctx context.Context) ([]string, error) {
	cached, err := s.QuizResult(ctx)
	if err != nil || cached == nil {
		return nil, err
	}
	return cached.Result.TopMajors, nil
}

func (s *State) SavePrefill(ctx context.Context, p Prefill) error {
	if p.SortBy == "" {
		p.SortBy = "date"
	}
	return storage.SaveJSON(ctx, s.store, PrefillKey, p)
}

// TakePrefill returns the pending prefill and removes it, so it applies once.
func (s *State) TakePrefill(ctx context.Context) (*Prefill, error) {
	p, err := storage.LoadJSON[*Prefill](ctx, s.store, PrefillKey, nil)
	if err != nil || p == nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, PrefillKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return p, fmt.Errorf("clear prefill: %w", err)
	}
	return p, nil
}
