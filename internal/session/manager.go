// Package session owns the authentication pair: the bearer token and the
// user it belongs to. Both are persisted and exposed as latest-value
// streams so UI surfaces update the moment either changes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/platform/metrics"
	"storefront/internal/store"
	"storefront/internal/stream"
)

// SynthesizedUserID is stored as the user identifier after every login.
// The upstream login response carries no user identity, so the original
// client fabricated id 1 for everyone; this constant keeps that stand-in
// visible instead of burying a magic number.
const SynthesizedUserID = 1

const (
	tokenKey = "token"
	userKey  = "user"
)

// AuthClient is the slice of the catalog client the manager needs.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}

// Config holds the manager's collaborators.
type Config struct {
	Store store.Store
	Auth  AuthClient
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// OnLogout, when set, runs after a successful logout. The web client
	// navigates to the public landing view here.
	OnLogout func()
}

// Manager keeps token and user in lockstep: they are persisted and
// published together, and a failed persist of either leaves no half-pair
// behind.
type Manager struct {
	store    store.Store
	auth     AuthClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	onLogout func()

	mu    sync.Mutex // serializes login/logout persist sequences
	token *stream.Value[string]
	user  *stream.Value[*domain.User]

	synthWarn sync.Once
}

// NewManager hydrates the session from the store. A missing or malformed
// stored user degrades to signed-out state rather than failing.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("session: Store is required")
	}
	if cfg.Auth == nil {
		return nil, fmt.Errorf("session: Auth is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		store:    cfg.Store,
		auth:     cfg.Auth,
		logger:   logger,
		metrics:  cfg.Metrics,
		onLogout: cfg.OnLogout,
	}

	token, user, err := m.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	m.token = stream.NewValue(token)
	m.user = stream.NewValue(user)
	return m, nil
}

func (m *Manager) hydrate(ctx context.Context) (string, *domain.User, error) {
	token, err := m.store.Get(ctx, tokenKey)
	if errors.Is(err, store.ErrNotFound) {
		token = ""
	} else if err != nil {
		return "", nil, fmt.Errorf("session: load token: %w", err)
	}

	raw, err := m.store.Get(ctx, userKey)
	if errors.Is(err, store.ErrNotFound) {
		return token, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("session: load user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.Warn("stored user record is malformed, treating as signed out", "error", err)
		return token, nil, nil
	}
	return token, &user, nil
}

// Login exchanges credentials for a token, persists the pair, and
// publishes both streams. On any failure nothing is mutated or published.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.metrics.LoginFailed()
		return err
	}

	m.synthWarn.Do(func() {
		m.logger.Warn("login response carries no user identity; storing synthesized user id",
			"id", SynthesizedUserID)
	})
	user := domain.User{ID: SynthesizedUserID, Email: email}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, tokenKey, token); err != nil {
		m.metrics.LoginFailed()
		return fmt.Errorf("session: persist token: %w", err)
	}

	encoded, err := json.Marshal(user)
	if err != nil {
		_ = m.store.Remove(ctx, tokenKey)
		return fmt.Errorf("session: encode user: %w", err)
	}
	if err := m.store.Set(ctx, userKey, string(encoded)); err != nil {
		// Roll the token back so no token-without-user pair survives.
		_ = m.store.Remove(ctx, tokenKey)
		m.metrics.LoginFailed()
		return fmt.Errorf("session: persist user: %w", err)
	}

	m.token.Set(token)
	m.user.Set(&user)
	m.metrics.LoginSucceeded()
	m.logger.Info("logged in", "email", email)
	return nil
}

// Logout clears both persisted entries and publishes the signed-out state.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	if err := m.store.Remove(ctx, tokenKey); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("session: remove token: %w", err)
	}
	if err := m.store.Remove(ctx, userKey); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("session: remove user: %w", err)
	}

	m.token.Set("")
	m.user.Set(nil)
	m.mu.Unlock()

	m.logger.Info("logged out")
	if m.onLogout != nil {
		m.onLogout()
	}
	return nil
}

// IsAuthenticated reports whether a token is currently held.
func (m *Manager) IsAuthenticated() bool {
	return m.token.Get() != ""
}

// Token returns the current bearer token, empty when signed out.
func (m *Manager) Token() string {
	return m.token.Get()
}

// User returns the current user snapshot.
func (m *Manager) User() (domain.User, bool) {
	u := m.user.Get()
	if u == nil {
		return domain.User{}, false
	}
	return *u, true
}

// TokenChanges is the latest-value token stream; the empty string means
// signed out. Values are delivered while the manager's lock is held:
// callbacks must not call back into the manager synchronously.
func (m *Manager) TokenChanges() stream.Source[string] {
	return m.token
}

// UserChanges is the latest-value user stream; nil means signed out.
func (m *Manager) UserChanges() stream.Source[*domain.User] {
	return m.user
}

// TokenSource adapts the manager for the catalog client's bearer
// injection.
func (m *Manager) TokenSource() func() (string, bool) {
	return func() (string, bool) {
		token := m.token.Get()
		return token, token != ""
	}
}
