package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recipehub/internal/backend"
	"recipehub/internal/model"
)

// CredentialStore is the persistence boundary for the token pair. The sqlite
// store implements it; tests swap in a mock.
type CredentialStore interface {
	Save(ctx context.Context, pair model.TokenPair) error
	Load(ctx context.Context) (model.TokenPair, bool, error)
	Clear(ctx context.Context) error
}

// Manager owns the authenticated-identity lifecycle: login, registration,
// logout, the current-user cache, and the authorization credential handed to
// every other component. It is the only writer of the persisted pair.
type Manager struct {
	api   backend.AuthAPI
	store CredentialStore

	mu   sync.Mutex
	pair model.TokenPair
	user *model.User
}

func NewManager(api backend.AuthAPI, store CredentialStore) *Manager {
	return &Manager{api: api, store: store}
}

// Init rehydrates the session from persistent storage. A pair whose access
// token has already expired is discarded outright, since every call it backs
// would fail anyway. With a live pair the identity cache is refreshed.
func (m *Manager) Init(ctx context.Context) error {
	pair, ok, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("rehydrate session: %w", err)
	}
	if !ok {
		return nil
	}
	if tokenExpired(pair.Access) {
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("discard expired session: %w", err)
		}
		return nil
	}

	m.mu.Lock()
	m.pair = pair
	m.mu.Unlock()

	if err := m.RefreshUser(ctx); err != nil {
		// An unauthorized answer means the token was revoked server-side.
		if isAuthFailure(err) {
			return m.Invalidate(ctx)
		}
		log.Printf("session: identity refresh failed: %v", err)
	}
	return nil
}

// Login exchanges credentials, persists the pair and refreshes the identity
// cache. A failed login leaves session state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	pair, err := m.api.Login(ctx, &model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := m.store.Save(ctx, pair); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.pair = pair
	m.mu.Unlock()

	if err := m.RefreshUser(ctx); err != nil {
		log.Printf("session: identity refresh after login failed: %v", err)
	}
	return nil
}

// Register creates an account. The password confirmation is checked locally
// before any network call. Success does not authenticate; onboarding opens
// the profile overlay instead.
func (m *Manager) Register(ctx context.Context, req *model.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := m.api.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout clears both persisted credentials and the cached identity.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	m.mu.Lock()
	m.pair = model.TokenPair{}
	m.user = nil
	m.mu.Unlock()
	return nil
}

// Invalidate tears the session down after the backend rejected its
// credential. Identical to Logout; the name records why it happened.
func (m *Manager) Invalidate(ctx context.Context) error {
	return m.Logout(ctx)
}

// RefreshUser fetches the profile and replaces the identity cache.
func (m *Manager) RefreshUser(ctx context.Context) error {
	user, err := m.api.Profile(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// UpdateProfile saves edited profile fields and refreshes the cache with the
// backend's answer.
func (m *Manager) UpdateProfile(ctx context.Context, fields *model.ProfileUpdate) (*model.User, error) {
	user, err := m.api.UpdateProfile(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// CurrentUser is a synchronous read of the cached identity; nil when signed
// out or while the background refresh has not landed yet.
func (m *Manager) CurrentUser() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Authenticated reports whether a credential pair is held.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair.Valid()
}

// AuthorizationHeader implements backend.CredentialSource.
func (m *Manager) AuthorizationHeader() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pair.Valid() {
		return "", false
	}
	return "Bearer " + m.pair.Access, true
}

func isAuthFailure(err error) bool {
	return errors.Is(err, model.ErrAuthRequired)
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the backend's job. Unparseable tokens count as
// expired, tokens without an exp claim as live.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
