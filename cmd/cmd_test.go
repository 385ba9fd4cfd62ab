package cmd

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/spigell/jobsight/internal/ai"
	"github.com/spigell/jobsight/internal/jobsight"
	"github.com/spigell/jobsight/internal/roadmap"
	"github.com/spigell/jobsight/internal/storage"
)

func TestParseAnswers(t *testing.T) {
	if _, err := parseAnswers("1,2", 3); err == nil {
		t.Fatalf("expected error for wrong count")
	}
	if _, err := parseAnswers("1,5,0", 3); err == nil {
		t.Fatalf("expected error for out of range answer")
	}
	if _, err := parseAnswers("1,x,0", 3); err == nil {
		t.Fatalf("expected error for non number")
	}

	got, err := parseAnswers(" 4, 0 ,2", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 4 || got[1] != 0 || got[2] != 2 {
		t.Fatalf("unexpected answers: %v", got)
	}
}

func TestGetConfigDefaults(t *testing.T) {
	cfg, err := getConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != jobsight.DefaultAPIURL {
		t.Fatalf("unexpected api url %q", cfg.APIURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.Storage.Driver != storage.DriverFile {
		t.Fatalf("unexpected storage driver %q", cfg.Storage.Driver)
	}
	if !cfg.Session.Remember {
		t.Fatalf("expected session.remember to default to true")
	}
	if cfg.Search.Sort != "date" || cfg.Search.Page != 0 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Roadmap.Precise.Provider != ai.ProviderBackend {
		t.Fatalf("unexpected provider %q", cfg.Roadmap.Precise.Provider)
	}
}

func TestGetConfigReadsNestedKeys(t *testing.T) {
	viper.Set("search.what", "golang")
	viper.Set("filters.min-monthly", 8000)
	viper.Set("roadmap.precise.gemini.model", "gemini-test")
	t.Cleanup(func() {
		viper.Set("search.what", "")
		viper.Set("filters.min-monthly", 0)
		viper.Set("roadmap.precise.gemini.model", "")
	})

	cfg, err := getConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.What != "golang" {
		t.Fatalf("expected search.what to decode, got %+v", cfg.Search)
	}
	if cfg.Filters.MinMonthly != 8000 {
		t.Fatalf("expected filters.min-monthly to decode, got %+v", cfg.Filters)
	}
	if cfg.Roadmap.Precise.Gemini == nil || cfg.Roadmap.Precise.Gemini.Model != "gemini-test" {
		t.Fatalf("expected gemini model to decode")
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"login"}, {"register"}, {"logout"}, {"whoami"},
		{"explore"}, {"compare", "remove"}, {"compare", "save"},
		{"quiz", "show"}, {"roadmap", "precise"}, {"roadmap", "cv"},
		{"cabinet", "searches", "run"}, {"cabinet", "roadmaps", "download"},
		{"version"},
	} {
		c, _, err := rootCmd.Find(path)
		if err != nil || c == rootCmd {
			t.Fatalf("command %v not registered: %v", path, err)
		}
	}
}

func TestRoadmapMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
		ok   bool
	}{
		{err: roadmap.ErrNoSkills, want: noSkillsMessage, ok: true},
		{err: fmt.Errorf("build: %w", roadmap.ErrNoQuizResult), want: noQuizResultMessage, ok: true},
		{err: roadmap.ErrEmptyPlan, want: emptyPlanMessage, ok: true},
		{err: errors.New("boom")},
		{err: nil},
	}

	for _, tt := range tests {
		got, ok := roadmapMessage(tt.err)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("roadmapMessage(%v) = %q, %v; want %q, %v", tt.err, got, ok, tt.want, tt.ok)
		}
	}
}
