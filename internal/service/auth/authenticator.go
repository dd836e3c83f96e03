// Package auth implements the administrator credential check: one login
// identifier and one secret from configuration grant the administrator role.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/phrazzld/patientedu/internal/config"
	"github.com/phrazzld/patientedu/internal/platform/logger"
	"github.com/phrazzld/patientedu/internal/platform/metrics"
)

// Authenticator checks the administrator credential pair.
type Authenticator struct {
	login    []byte
	verifier PasswordVerifier
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthenticator builds an Authenticator from the admin configuration.
// A configured password hash takes precedence over a literal password.
func NewAuthenticator(cfg config.AdminConfig, m *metrics.Metrics, log *slog.Logger) (*Authenticator, error) {
	var verifier PasswordVerifier
	switch {
	case cfg.PasswordHash != "":
		verifier = NewBcryptVerifier(cfg.PasswordHash)
	case cfg.Password != "":
		verifier = NewLiteralVerifier(cfg.Password)
	default:
		return nil, ErrNoSecret
	}

	var limiter *rate.Limiter
	if cfg.LoginAttemptsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.LoginAttemptsPerMinute)), cfg.LoginAttemptsPerMinute)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Authenticator{
		login:    []byte(cfg.Login),
		verifier: verifier,
		limiter:  limiter,
		metrics:  m,
		logger:   log.With(slog.String("component", "authenticator")),
	}, nil
}

// Login reports whether the pair matches the configured credentials.
// A mismatch is not an error. ErrTooManyAttempts is returned when checks
// arrive faster than the configured rate.
func (a *Authenticator) Login(ctx context.Context, login, password string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	if a.limiter != nil && !a.limiter.Allow() {
		a.metrics.RecordLogin("throttled")
		log.Warn("login attempt throttled")
		return false, ErrTooManyAttempts
	}

	return a.Check(ctx, login, password), nil
}

// Check compares the pair without throttling. It is used for per-request
// credentials on administrator routes.
func (a *Authenticator) Check(ctx context.Context, login, password string) bool {
	log := logger.FromContextOrDefault(ctx, a.logger)

	loginOK := subtle.ConstantTimeCompare(a.login, []byte(login)) == 1
	secretErr := a.verifier.Verify(password)
	if loginOK && secretErr == nil {
		a.metrics.RecordLogin("success")
		return true
	}

	a.metrics.RecordLogin("failure")
	if secretErr != nil && !errors.Is(secretErr, ErrMismatch) {
		log.Error("secret verification failed", slog.String("error", secretErr.Error()))
	} else {
		log.Info("admin credentials rejected")
	}
	return false
}

// Session holds the administrator role flag of one interactive session.
type Session struct {
	auth *Authenticator

	mu      sync.RWMutex
	isAdmin bool
}

// NewSession creates a session without the administrator role.
func NewSession(a *Authenticator) *Session {
	if a == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("authenticator cannot be nil for Session")
	}
	return &Session{auth: a}
}

// Login checks the credentials and grants the role on a match. A failed
// attempt leaves the flag as it was.
func (s *Session) Login(ctx context.Context, login, password string) (bool, error) {
	ok, err := s.auth.Login(ctx, login, password)
	if err != nil || !ok {
		return false, err
	}
	s.mu.Lock()
	s.isAdmin = true
	s.mu.Unlock()
	return true, nil
}

// Logout clears the role flag.
func (s *Session) Logout() {
	s.mu.Lock()
	s.isAdmin = false
	s.mu.Unlock()
}

// IsAdmin reports the role flag.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}
