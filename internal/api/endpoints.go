// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// =============================================================================
// AUTH ENDPOINTS (public)
// =============================================================================

// Login authenticates against POST /login and returns the session token and
// canonical username. It does not install the token on the client; the
// session controller owns that transition.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	res, err := c.doPublic(ctx, http.MethodPost, "/login", Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(res.Body, &loginResp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	if !loginResp.Success || loginResp.SessionToken == "" {
		return nil, &APIError{Status: res.Status, Message: "login rejected"}
	}
	return &loginResp, nil
}

// Register creates an account via POST /register. Username and password are
// validated client-side first, matching the backend's minimums, so obviously
// bad input never leaves the machine.
func (c *Client) Register(ctx context.Context, username, password string) (*RegisterResponse, error) {
	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if len(password) < 4 {
		return nil, ErrPasswordTooShort
	}

	res, err := c.doPublic(ctx, http.MethodPost, "/register", Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}

	var regResp RegisterResponse
	if err := json.Unmarshal(res.Body, &regResp); err != nil {
		return nil, fmt.Errorf("failed to parse register response: %w", err)
	}
	return &regResp, nil
}

// Verify checks whether token is still accepted by the backend with a single
// GET /profile. Any non-2xx status or transport failure counts as invalid;
// there is no retry. This bypasses the gateway on purpose: a 401 during
// startup verification must not fire the forced-logout hook, because nothing
// is logged in yet.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	resp, _, err := c.send(ctx, http.MethodGet, "/profile", nil, token)
	if err != nil {
		return false, err
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// =============================================================================
// PROTECTED ENDPOINTS
// =============================================================================

// Profile fetches the current user's profile via GET /profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	res, err := c.do(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}
	if res.Expired() {
		return nil, ErrSessionExpired
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}

	var profile Profile
	if err := json.Unmarshal(res.Body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &profile, nil
}

// Logout notifies the backend via POST /logout. The response body is
// ignored; an expired session is not an error here since the goal state is
// "logged out" either way.
func (c *Client) Logout(ctx context.Context) error {
	res, err := c.do(ctx, http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	if res.Expired() || res.OK() {
		return nil
	}
	return apiErrorFrom(res)
}

// SubmitFeedback sends an assessment via POST /feedback and returns the
// generated feedback. Topics are normalized before sending.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	req.Topics = NormalizeTopics(req.Topics)

	res, err := c.do(ctx, http.MethodPost, "/feedback", req)
	if err != nil {
		return nil, err
	}
	if res.Expired() {
		return nil, ErrSessionExpired
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}

	var fbResp FeedbackResponse
	if err := json.Unmarshal(res.Body, &fbResp); err != nil {
		return nil, fmt.Errorf("failed to parse feedback response: %w", err)
	}
	return &fbResp, nil
}

// History fetches past submissions via GET /history. Entries that violate
// the topics/scores invariants are dropped with a warning rather than
// poisoning the whole list.
func (c *Client) History(ctx context.Context) ([]Submission, error) {
	res, err := c.do(ctx, http.MethodGet, "/history", nil)
	if err != nil {
		return nil, err
	}
	if res.Expired() {
		return nil, ErrSessionExpired
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}

	var histResp HistoryResponse
	if err := json.Unmarshal(res.Body, &histResp); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}

	submissions := histResp.Submissions[:0]
	for _, s := range histResp.Submissions {
		if err := s.Validate(); err != nil {
			log.Printf("dropping malformed submission %d: %v", s.ID, err)
			continue
		}
		submissions = append(submissions, s)
	}
	return submissions, nil
}

// Progress fetches the progress series via GET /progress.
func (c *Client) Progress(ctx context.Context) ([]ProgressPoint, error) {
	res, err := c.do(ctx, http.MethodGet, "/progress", nil)
	if err != nil {
		return nil, err
	}
	if res.Expired() {
		return nil, ErrSessionExpired
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}

	var progResp ProgressResponse
	if err := json.Unmarshal(res.Body, &progResp); err != nil {
		return nil, fmt.Errorf("failed to parse progress response: %w", err)
	}
	return progResp.Progress, nil
}

// ExportCSV fetches the server-side CSV export via GET /export/csv and
// returns the raw bytes.
func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	res, err := c.do(ctx, http.MethodGet, "/export/csv", nil)
	if err != nil {
		return nil, err
	}
	if res.Expired() {
		return nil, ErrSessionExpired
	}
	if !res.OK() {
		return nil, apiErrorFrom(res)
	}
	return res.Body, nil
}
