// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"
)

// fakeBackend implements Backend for controller tests.
type fakeBackend struct {
	verifyCalls  int
	verifyResult bool
	verifyErr    error

	logoutCalls int
	logoutErr   error

	token string
	hook  func()
}

func (f *fakeBackend) Verify(ctx context.Context, token string) (bool, error) {
	f.verifyCalls++
	return f.verifyResult, f.verifyErr
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeBackend) SetToken(token string) { f.token = token }

func (f *fakeBackend) ClearToken() { f.token = "" }

func (f *fakeBackend) SetUnauthorizedHook(hook func()) { f.hook = hook }

func newTestManager(t *testing.T, backend *fakeBackend) (*Manager, *Store) {
	t.Helper()
	store := NewStore(t.TempDir())
	return NewManager(store, backend), store
}

func TestStartup_NoStoredSession(t *testing.T) {
	backend := &fakeBackend{}
	m, _ := newTestManager(t, backend)

	state := m.Startup(context.Background())

	if state != StateUnauthenticated {
		t.Errorf("state = %v", state)
	}
	// The whole point: no stored pair means zero network traffic.
	if backend.verifyCalls != 0 {
		t.Errorf("verify called %d times, want 0", backend.verifyCalls)
	}
}

func TestStartup_ValidStoredSession(t *testing.T) {
	backend := &fakeBackend{verifyResult: true}
	m, store := newTestManager(t, backend)
	store.Save("tok-1", "alice")

	state := m.Startup(context.Background())

	if state != StateAuthenticated {
		t.Fatalf("state = %v", state)
	}
	if backend.verifyCalls != 1 {
		t.Errorf("verify called %d times, want 1", backend.verifyCalls)
	}
	if m.Username() != "alice" || m.Token() != "tok-1" {
		t.Errorf("session = (%q, %q)", m.Username(), m.Token())
	}
	if backend.token != "tok-1" {
		t.Error("token not installed on backend client")
	}
}

func TestStartup_InvalidStoredSession(t *testing.T) {
	backend := &fakeBackend{verifyResult: false}
	m, store := newTestManager(t, backend)
	store.Save("stale", "alice")

	state := m.Startup(context.Background())

	if state != StateUnauthenticated {
		t.Fatalf("state = %v", state)
	}
	// The stale pair is gone: next startup skips verification entirely.
	if _, _, ok := store.Load(); ok {
		t.Error("invalid stored session should be cleared")
	}
	if m.Username() != "" || m.Token() != "" {
		t.Error("memory should stay empty after failed verification")
	}
}

func TestStartup_TransportErrorTreatedAsInvalid(t *testing.T) {
	backend := &fakeBackend{verifyResult: false, verifyErr: errors.New("connection refused")}
	m, store := newTestManager(t, backend)
	store.Save("tok", "alice")

	if state := m.Startup(context.Background()); state != StateUnauthenticated {
		t.Errorf("state = %v", state)
	}
	if _, _, ok := store.Load(); ok {
		t.Error("stored session should be cleared on verification failure")
	}
}

func TestLogin(t *testing.T) {
	backend := &fakeBackend{}
	m, store := newTestManager(t, backend)

	m.Login("tok-new", "bob")

	if m.State() != StateAuthenticated {
		t.Errorf("state = %v", m.State())
	}
	if backend.token != "tok-new" {
		t.Error("token not installed on backend client")
	}

	token, username, ok := store.Load()
	if !ok || token != "tok-new" || username != "bob" {
		t.Errorf("persisted = (%q, %q, %v)", token, username, ok)
	}
}

func TestLogout(t *testing.T) {
	backend := &fakeBackend{}
	m, store := newTestManager(t, backend)
	m.Login("tok", "alice")

	var resetCalls int
	m.RegisterResetHook(func() { resetCalls++ })

	m.Logout(context.Background())

	if backend.logoutCalls != 1 {
		t.Errorf("backend logout calls = %d", backend.logoutCalls)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v", m.State())
	}
	if backend.token != "" {
		t.Error("backend token should be cleared")
	}
	if _, _, ok := store.Load(); ok {
		t.Error("store should be cleared")
	}
	if resetCalls != 1 {
		t.Errorf("reset hooks ran %d times", resetCalls)
	}
	// A user-initiated logout is not an expiry.
	if m.ConsumeExpired() {
		t.Error("logout should not set the expired flag")
	}
}

func TestLogout_BackendFailureSwallowed(t *testing.T) {
	backend := &fakeBackend{logoutErr: errors.New("server down")}
	m, store := newTestManager(t, backend)
	m.Login("tok", "alice")

	m.Logout(context.Background())

	if m.State() != StateUnauthenticated {
		t.Error("local teardown must win even when the server call fails")
	}
	if _, _, ok := store.Load(); ok {
		t.Error("store should be cleared despite backend failure")
	}
}

func TestExpire(t *testing.T) {
	backend := &fakeBackend{}
	m, store := newTestManager(t, backend)
	m.Login("tok", "alice")

	var resetCalls int
	m.RegisterResetHook(func() { resetCalls++ })

	// Simulate the gateway's 401 hook.
	backend.hook()

	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v", m.State())
	}
	// No /logout on expiry: the server already killed the session.
	if backend.logoutCalls != 0 {
		t.Errorf("backend logout calls = %d, want 0", backend.logoutCalls)
	}
	if _, _, ok := store.Load(); ok {
		t.Error("store should be cleared on expiry")
	}
	if resetCalls != 1 {
		t.Errorf("reset hooks ran %d times", resetCalls)
	}

	// Transient flag reads true exactly once.
	if !m.ConsumeExpired() {
		t.Error("first ConsumeExpired should be true")
	}
	if m.ConsumeExpired() {
		t.Error("second ConsumeExpired should be false")
	}
}

func TestLogin_ClearsExpiredFlag(t *testing.T) {
	backend := &fakeBackend{}
	m, _ := newTestManager(t, backend)
	m.Login("tok", "alice")
	m.Expire()

	m.Login("tok-2", "alice")
	if m.ConsumeExpired() {
		t.Error("login should clear the stale expired flag")
	}
}
