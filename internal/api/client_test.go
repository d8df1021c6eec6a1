// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second)
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decoding credentials: %v", err)
		}
		if creds.Username != "alice" || creds.Password != "s3cret" {
			t.Errorf("credentials = %+v", creds)
		}
		json.NewEncoder(w).Encode(LoginResponse{
			Success:      true,
			SessionToken: "tok-123",
			Username:     "alice",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.SessionToken != "tok-123" || resp.Username != "alice" {
		t.Errorf("response = %+v", resp)
	}
	// Login must not install the token; that's the controller's job.
	if c.HasToken() {
		t.Error("Login should not install the token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	// A failed login is a user error; it must not look like session expiry.
	if errors.Is(err, ErrSessionExpired) {
		t.Error("failed login should not be ErrSessionExpired")
	}
}

func TestRegister_ClientSideValidation(t *testing.T) {
	// No server: validation must reject before any request is made.
	c := newTestClient("http://127.0.0.1:1")

	if _, err := c.Register(context.Background(), "ab", "goodpass"); !errors.Is(err, ErrUsernameTooShort) {
		t.Errorf("short username: err = %v", err)
	}
	if _, err := c.Register(context.Background(), "alice", "abc"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password: err = %v", err)
	}
}

func TestGateway_SetsHeaders(t *testing.T) {
	var gotAuth, gotUA, gotReqID, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotReqID = r.Header.Get("X-Request-ID")
		gotCT = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(Profile{Username: "alice", UserID: 1})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok-abc")

	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotReqID == "" {
		t.Error("X-Request-ID not set")
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
}

func TestGateway_NotAuthenticated(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	if _, err := c.Profile(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestGateway_ExpiredSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid or expired session"})
	}))
	defer srv.Close()

	var hookCalls int32
	c := newTestClient(srv.URL)
	c.SetToken("stale-token")
	c.SetUnauthorizedHook(func() {
		atomic.AddInt32(&hookCalls, 1)
	})

	_, err := c.History(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	if n := atomic.LoadInt32(&hookCalls); n != 1 {
		t.Errorf("hook called %d times, want 1", n)
	}
	if c.HasToken() {
		t.Error("token should be cleared after 401")
	}

	// A second call finds no token: hook must not fire again.
	if _, err := c.History(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("second call err = %v, want ErrNotAuthenticated", err)
	}
	if n := atomic.LoadInt32(&hookCalls); n != 1 {
		t.Errorf("hook called %d times after second call, want 1", n)
	}
}

func TestGateway_TransportErrorIsNotExpiry(t *testing.T) {
	var hookCalls int32
	c := newTestClient("http://127.0.0.1:1") // nothing listening
	c.SetToken("tok")
	c.SetUnauthorizedHook(func() { atomic.AddInt32(&hookCalls, 1) })

	_, err := c.History(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("transport failure must not be treated as session expiry")
	}
	if atomic.LoadInt32(&hookCalls) != 0 {
		t.Error("hook must not fire on transport failure")
	}
	if !c.HasToken() {
		t.Error("token should survive a transport failure")
	}
}

func TestGateway_Non401ErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok")

	_, err := c.History(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.Status)
	}
	if !c.HasToken() {
		t.Error("non-401 errors must not tear down the session")
	}
}

func TestVerify(t *testing.T) {
	var hookCalls int32
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.Header.Get("Authorization") == "Bearer good" {
			json.NewEncoder(w).Encode(Profile{Username: "alice"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetUnauthorizedHook(func() { atomic.AddInt32(&hookCalls, 1) })

	valid, err := c.Verify(context.Background(), "good")
	if err != nil || !valid {
		t.Errorf("Verify(good) = %v, %v", valid, err)
	}

	valid, err = c.Verify(context.Background(), "bad")
	if err != nil || valid {
		t.Errorf("Verify(bad) = %v, %v", valid, err)
	}

	// Verification 401s must not fire the forced-logout hook.
	if atomic.LoadInt32(&hookCalls) != 0 {
		t.Error("Verify must not fire the unauthorized hook")
	}
	if atomic.LoadInt32(&requests) != 2 {
		t.Errorf("requests = %d, want 2 (no retries)", requests)
	}
}

func TestVerify_TransportError(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	valid, err := c.Verify(context.Background(), "tok")
	if valid {
		t.Error("transport failure must count as invalid")
	}
	if err == nil {
		t.Error("expected transport error")
	}
}

func TestLogout_SwallowsExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("stale")

	if err := c.Logout(context.Background()); err != nil {
		t.Errorf("Logout on expired session should succeed, got %v", err)
	}
}

func TestSubmitFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req FeedbackRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Topics) != 2 || req.Topics[0] != "algebra" {
			t.Errorf("topics = %v", req.Topics)
		}
		json.NewEncoder(w).Encode(FeedbackResponse{
			ID:           7,
			Feedback:     "## Keep going\nSolid work on algebra.",
			SummaryScore: 75,
			FeedbackMode: "ai",
			Resources:    []Resource{{Title: "Khan Academy", URL: "https://example.com"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok")

	resp, err := c.SubmitFeedback(context.Background(), FeedbackRequest{
		Topics:       []string{"  algebra ", "geometry"},
		Scores:       []float64{80, 70},
		FeedbackMode: "ai",
	})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if resp.ID != 7 || resp.SummaryScore != 75 {
		t.Errorf("response = %+v", resp)
	}
}

func TestHistory_DropsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(HistoryResponse{Submissions: []Submission{
			{ID: 1, Topics: []string{"a"}, Scores: []float64{50}, SummaryScore: 50},
			{ID: 2, Topics: []string{"a", "b"}, Scores: []float64{50}}, // mismatched
			{ID: 3, Topics: []string{"a"}, Scores: []float64{150}},    // out of range
		}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok")

	subs, err := c.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != 1 {
		t.Errorf("submissions = %+v", subs)
	}
}

func TestExportCSV(t *testing.T) {
	csv := "ID, Timestamp, Topics\n1, 2026-01-01, algebra\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/csv" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csv))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.SetToken("tok")

	data, err := c.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if string(data) != csv {
		t.Errorf("data = %q", data)
	}
}
