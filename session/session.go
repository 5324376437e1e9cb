package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"bestprice_client/api"
	"bestprice_client/models"
)

// TokenStore persists the auth token across process restarts. Implemented
// by storage.SQLiteStore; no validation happens at this layer.
type TokenStore interface {
	SetToken(token string) error
	GetToken() (string, error)
	ClearToken() error
}

// Manager owns the authentication lifecycle: startup token validation,
// login, registration and logout. Every other component reads auth state
// through it.
type Manager struct {
	client *api.Client
	store  TokenStore

	mu           sync.RWMutex
	user         *models.User
	bootstrapped bool
	listeners    []func(authenticated bool)
}

func NewManager(client *api.Client, store TokenStore) *Manager {
	return &Manager{
		client: client,
		store:  store,
	}
}

// OnChange registers a callback fired after every authentication
// transition (login, logout, bootstrap outcome). Register before Bootstrap.
func (m *Manager) OnChange(fn func(authenticated bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify(authenticated bool) {
	m.mu.RLock()
	listeners := make([]func(bool), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(authenticated)
	}
}

// Bootstrap validates a stored token against /auth/me, once per process
// start. An invalid or rejected token is cleared and the session stays
// unauthenticated; that is not an error.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.bootstrapped {
		m.mu.Unlock()
		return nil
	}
	m.bootstrapped = true
	m.mu.Unlock()

	token, err := m.store.GetToken()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	user, err := m.client.Me(ctx)
	if err != nil {
		log.Printf("Session: stored token rejected, clearing: %v", err)
		if clearErr := m.store.ClearToken(); clearErr != nil {
			return clearErr
		}
		m.notify(false)
		return nil
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	log.Printf("Session: restored for %s", user.Username)
	m.notify(true)
	return nil
}

// Login exchanges credentials for a token, persists it, then loads the
// profile. On failure the session and token store are untouched and the
// returned error carries the server's message.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, err := m.client.Login(ctx, username, password)
	if err != nil {
		return errors.New(messageFromErr(err, "Login failed"))
	}

	// Persist before the profile fetch so the request carries the token.
	if err := m.store.SetToken(token.AccessToken); err != nil {
		return err
	}

	user, err := m.client.Me(ctx)
	if err != nil {
		return errors.New(messageFromErr(err, "Login failed"))
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	log.Printf("Session: logged in as %s", user.Username)
	m.notify(true)
	return nil
}

// Register creates an account and logs straight in with the same
// credentials; registration alone does not authenticate. Validation runs
// before any network call.
func (m *Manager) Register(ctx context.Context, username, email, password, confirmPassword, fullName string) error {
	if password != confirmPassword {
		return errors.New("Passwords do not match")
	}
	if len(password) < 6 {
		return errors.New("Password must be at least 6 characters long")
	}

	if _, err := m.client.Register(ctx, username, email, password, fullName); err != nil {
		return errors.New(messageFromErr(err, "Registration failed"))
	}

	return m.Login(ctx, username, password)
}

// Logout clears the token and session synchronously. No network call.
func (m *Manager) Logout() {
	if err := m.store.ClearToken(); err != nil {
		log.Printf("Session: failed to clear token: %v", err)
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	log.Println("Session: logged out")
	m.notify(false)
}

// Token returns the persisted token, or "" when none is stored.
func (m *Manager) Token() string {
	token, err := m.store.GetToken()
	if err != nil {
		log.Printf("Session: token read failed: %v", err)
		return ""
	}
	return token
}

// User returns the current profile, or nil when unauthenticated.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

func (m *Manager) IsAuthenticated() bool {
	return m.User() != nil
}

// messageFromErr pulls the server's error detail out of an API error;
// transport failures fall back to the generic message.
func messageFromErr(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
