// Package session owns the signed in identity and its bearer token.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/jobsight"
	"github.com/spigell/jobsight/internal/utils"
)

// MinPasswordLength matches what the backend accepts.
const MinPasswordLength = 6

var validate = validator.New()

// API is the part of the backend client the session needs.
type API interface {
	Me(ctx context.Context) (*jobsight.User, error)
	Login(ctx context.Context, creds jobsight.Credentials) (*jobsight.AuthResponse, error)
	Register(ctx context.Context, creds jobsight.Credentials) (*jobsight.AuthResponse, error)
	Logout(ctx context.Context) error
	SetBearer(token string)
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Manager is the single writer of the session. Views read it through Current.
type Manager struct {
	api    API
	tokens TokenStore
	logger *zap.Logger

	mu   sync.RWMutex
	user *jobsight.User
}

func NewManager(api API, tokens TokenStore, logger *zap.Logger) *Manager {
	if tokens == nil {
		tokens = &MemoryTokens{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{api: api, tokens: tokens, logger: logger}
}

// Current returns the signed in user or nil.
func (m *Manager) Current() *jobsight.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) Email() string {
	if u := m.Current(); u != nil {
		return u.Email
	}
	return ""
}

// Restore puts a stored token back on the client and probes the identity.
// An override token, when set, replaces the stored one for this run.
func (m *Manager) Restore(ctx context.Context, override string) (*jobsight.User, error) {
	token := strings.TrimSpace(override)
	if token == "" {
		stored, err := m.tokens.Load()
		if err != nil {
			m.logger.Debug("loading stored token failed", zap.Error(err))
		}
		token = stored
	}
	m.api.SetBearer(token)

	return m.Refresh(ctx)
}

// Refresh probes who the backend thinks we are. Any failure is the logged
// out state: the identity is cleared and nil is returned without error.
func (m *Manager) Refresh(ctx context.Context) (*jobsight.User, error) {
	user, err := m.api.Me(ctx)
	if err != nil || user == nil || user.Email == "" {
		if err != nil {
			m.logger.Debug("identity probe failed", zap.Error(err))
		}
		m.setUser(nil)
		return nil, nil
	}

	m.setUser(user)
	return m.Current(), nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*jobsight.User, error) {
	return m.authenticate(ctx, email, password, m.api.Login)
}

func (m *Manager) Register(ctx context.Context, email, password string) (*jobsight.User, error) {
	return m.authenticate(ctx, email, password, m.api.Register)
}

func (m *Manager) authenticate(ctx context.Context, email, password string, call func(context.Context, jobsight.Credentials) (*jobsight.AuthResponse, error)) (*jobsight.User, error) {
	creds := jobsight.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	resp, err := call(ctx, creds)
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		m.api.SetBearer(resp.Token)
		if err := m.tokens.Save(resp.Token); err != nil {
			m.logger.Warn("storing token failed", zap.Error(err))
		}
	}
	m.logger.Debug("signed in",
		zap.String("email", resp.User.Email),
		zap.String("token", utils.MaskSecret(resp.Token)),
	)

	user := resp.User
	m.setUser(&user)
	return m.Current(), nil
}

// Logout tells the backend and clears local state whatever it answers.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.Debug("logout call failed", zap.Error(err))
	}

	m.api.SetBearer("")
	m.setUser(nil)
	if err := m.tokens.Clear(); err != nil {
		return fmt.Errorf("clear stored token: %w", err)
	}
	return nil
}

func (m *Manager) setUser(u *jobsight.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u
}

func validateCredentials(c jobsight.Credentials) error {
	err := validate.Struct(credentials{Email: c.Email, Password: c.Password})
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
