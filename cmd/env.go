package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/ai"
	"github.com/spigell/jobsight/internal/ai/gemini"
	"github.com/spigell/jobsight/internal/compare"
	"github.com/spigell/jobsight/internal/jobsight"
	"github.com/spigell/jobsight/internal/localstate"
	"github.com/spigell/jobsight/internal/logger"
	"github.com/spigell/jobsight/internal/quiz"
	"github.com/spigell/jobsight/internal/report"
	"github.com/spigell/jobsight/internal/roadmap"
	"github.com/spigell/jobsight/internal/scoring"
	"github.com/spigell/jobsight/internal/secrets"
	"github.com/spigell/jobsight/internal/session"
	"github.com/spigell/jobsight/internal/storage"
)

// env holds the state every command shares. It is created once per run and
// closed when the command returns.
type env struct {
	ctx     context.Context
	cfg     *Config
	logger  *zap.Logger
	client  *jobsight.Client
	store   storage.Store
	state   *localstate.State
	picks   *compare.Picks
	session *session.Manager
	tables  *scoring.Tables
	quiz    *quiz.Catalog
	out     *report.Printer

	restored bool
}

func setup(cmd *cobra.Command) *env {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	l = logger.ForCommand(l, cmd.CommandPath(), "")

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}
	l.Debug("starting", zap.String("version", version), zap.String("api_url", config.APIURL))

	client, err := jobsight.New(l, jobsight.Options{
		APIURL:    config.APIURL,
		UserAgent: config.UserAgent,
		Timeout:   config.Timeout,
	})
	if err != nil {
		l.Fatal("creating the api client", zap.Error(err))
	}

	store, err := storage.Open(ctx, config.Storage)
	if err != nil {
		l.Fatal("opening local storage",
			zap.Error(err),
			zap.String("driver", config.Storage.Driver),
			zap.String("hint", "set storage.path or JOBSIGHT_STORAGE_PATH"),
		)
	}

	var tokens session.TokenStore = &session.MemoryTokens{}
	if config.Session.Remember {
		tokens = session.NewKeyringTokens(config.Session.Account)
	}

	return &env{
		ctx:     ctx,
		cfg:     config,
		logger:  l,
		client:  client,
		store:   store,
		state:   localstate.New(store),
		picks:   compare.New(store),
		session: session.NewManager(client, tokens, l),
		tables:  scoring.Default(),
		quiz:    quiz.Default(),
		out:     report.New(os.Stdout),
	}
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing local storage", zap.Error(err))
	}
	_ = e.logger.Sync()
}

// user restores the session once per run. Nil means logged out.
func (e *env) user() *jobsight.User {
	if !e.restored {
		e.restored = true
		override := ""
		if e.cfg.Session.TokenFile != "" {
			token, err := secrets.Load(secrets.Source{Name: "session token", File: e.cfg.Session.TokenFile})
			if err != nil {
				e.logger.Fatal("loading session token", zap.Error(err))
			}
			override = token
		}
		if _, err := e.session.Restore(e.ctx, override); err != nil {
			e.logger.Debug("restoring session", zap.Error(err))
		}
		if u := e.session.Current(); u != nil {
			e.logger = logger.WithFields(e.logger, zap.String(logger.FieldUser, u.Email))
		}
	}
	return e.session.Current()
}

// requireUser stops the command when nobody is signed in.
func (e *env) requireUser() *jobsight.User {
	u := e.user()
	if u == nil {
		e.logger.Fatal("not signed in", zap.String("hint", "run 'jobsight login' first"))
	}
	return u
}

func (e *env) quizMajors() []string {
	majors, err := e.state.QuizMajors(e.ctx)
	if err != nil {
		e.logger.Debug("reading quiz result", zap.Error(err))
	}
	return majors
}

func (e *env) builder() *roadmap.Builder {
	b := &roadmap.Builder{
		Catalog:   roadmap.DefaultCatalog(),
		Quiz:      e.quiz,
		Backend:   e.client,
		Generator: e.client,
		Logger:    e.logger,
	}

	cfg := e.cfg.Roadmap.Precise
	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", ai.ProviderBackend:
	case ai.ProviderGemini:
		writer, err := newGeminiWriter(e.ctx, cfg.Gemini, e.logger)
		if err != nil {
			e.logger.Fatal("configuring gemini", zap.Error(err))
		}
		b.Generator = writer
	default:
		e.logger.Fatal("unsupported roadmap provider",
			zap.String("provider", cfg.Provider),
			zap.Strings("supported", ai.Providers()),
		)
	}

	return b
}

func newGeminiWriter(ctx context.Context, cfg *GeminiConfig, l *zap.Logger) (*gemini.RoadmapWriter, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set roadmap.precise.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		return nil, err
	}

	return gemini.NewRoadmapWriter(generator, l, cfg.MaxLogLength), nil
}
