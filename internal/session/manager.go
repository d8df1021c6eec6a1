// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"sync"
)

// =============================================================================
// LIFECYCLE STATES
// =============================================================================

// State is the session lifecycle state.
type State int

const (
	// StateUnauthenticated means no valid session is held.
	StateUnauthenticated State = iota
	// StateVerifying means a persisted session is being checked at startup.
	StateVerifying
	// StateAuthenticated means a verified session is active.
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is the slice of the API client the lifecycle controller needs.
type Backend interface {
	// Verify checks a token against the server with a single request.
	Verify(ctx context.Context, token string) (bool, error)
	// Logout notifies the server the session is ending.
	Logout(ctx context.Context) error
	// SetToken installs the bearer token for protected requests.
	SetToken(token string)
	// ClearToken removes the bearer token.
	ClearToken()
	// SetUnauthorizedHook registers the forced-logout callback for 401s.
	SetUnauthorizedHook(hook func())
}

// =============================================================================
// LIFECYCLE CONTROLLER
// =============================================================================

// Manager owns the session lifecycle. Every transition updates in-memory
// state, the durable store, and the backend client's token in the same
// operation, so the three can never disagree.
//
// Mutex-guarded: bubbletea commands and the 401 hook call in from their
// own goroutines.
type Manager struct {
	mu      sync.Mutex
	store   *Store
	backend Backend

	state    State
	token    string
	username string

	// expired is a transient flag set by a forced logout. The UI consumes
	// it once to route back to the login screen without an error banner.
	expired bool

	resetHooks []func()
}

// NewManager creates a lifecycle controller and wires itself up as the
// backend's forced-logout hook.
func NewManager(store *Store, backend Backend) *Manager {
	m := &Manager{
		store:   store,
		backend: backend,
		state:   StateUnauthenticated,
	}
	backend.SetUnauthorizedHook(m.Expire)
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Username returns the current username, empty when unauthenticated.
func (m *Manager) Username() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.username
}

// Token returns the current token, empty when unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// IsAuthenticated reports whether a verified session is active.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// ConsumeExpired returns true once after a forced logout, then resets.
func (m *Manager) ConsumeExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expired := m.expired
	m.expired = false
	return expired
}

// RegisterResetHook adds a callback run on every logout or expiry, used by
// the UI to drop per-user state (history, progress, form contents).
func (m *Manager) RegisterResetHook(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetHooks = append(m.resetHooks, fn)
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Startup restores a persisted session. With nothing stored it returns
// immediately without touching the network. A stored pair gets exactly one
// verification request; failure clears the stored pair so the next start
// skips the check.
func (m *Manager) Startup(ctx context.Context) State {
	token, username, ok := m.store.Load()
	if !ok {
		return StateUnauthenticated
	}

	m.mu.Lock()
	m.state = StateVerifying
	m.mu.Unlock()

	valid, err := m.backend.Verify(ctx, token)
	if err != nil {
		log.Printf("session verification failed: %v", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !valid {
		m.store.Clear()
		m.state = StateUnauthenticated
		return m.state
	}

	m.token = token
	m.username = username
	m.backend.SetToken(token)
	m.state = StateAuthenticated
	return m.state
}

// Login installs a fresh session after a successful /login call. The
// transition is unconditional: the token was just issued by the server.
func (m *Manager) Login(token, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.username = username
	m.expired = false
	m.backend.SetToken(token)
	if err := m.store.Save(token, username); err != nil {
		// Best effort: the session still works for this process.
		log.Printf("could not persist session: %v", err)
	}
	m.state = StateAuthenticated
}

// Logout ends the session. The backend call is fire-and-forget: a failed
// /logout is logged and swallowed, because the local teardown must win.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.backend.Logout(ctx); err != nil {
		log.Printf("server logout failed (continuing local logout): %v", err)
	}
	m.teardown(false)
}

// Expire performs the local teardown after a forced logout (401). The
// backend call is skipped: the server already considers the session dead.
func (m *Manager) Expire() {
	m.teardown(true)
}

// teardown clears memory, store and client token together, then runs the
// registered UI reset hooks.
func (m *Manager) teardown(expired bool) {
	m.mu.Lock()
	m.token = ""
	m.username = ""
	m.expired = expired
	m.backend.ClearToken()
	m.store.Clear()
	m.state = StateUnauthenticated
	hooks := make([]func(), len(m.resetHooks))
	copy(hooks, m.resetHooks)
	m.mu.Unlock()

	// Hooks run outside the lock; they may call back into the manager.
	for _, fn := range hooks {
		fn()
	}
}
