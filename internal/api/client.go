// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the backend client.
const (
	// DefaultBaseURL is the default assessment backend URL.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// userAgent identifies the client in request headers.
	userAgent = "skillmap/0.1.0"

	// Client-side rate limit on outgoing requests. Generous enough that an
	// interactive user never hits it; only runaway loops get throttled.
	rateLimit = rate.Limit(10)
	rateBurst = 20
)

// Error variables for common client errors.
var (
	// ErrNotAuthenticated indicates a protected endpoint was called with no token.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired indicates the backend rejected the token (HTTP 401).
	ErrSessionExpired = errors.New("session expired")

	// ErrUsernameTooShort indicates the username failed client-side validation.
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")

	// ErrPasswordTooShort indicates the password failed client-side validation.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")
)

// APIError represents a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of one gateway request. A 401 does not surface as a
// plain status for callers to inspect; it is tagged so every call site
// short-circuits the same way instead of each inventing its own check.
type Result struct {
	Status  int
	Body    []byte
	expired bool
}

// Expired reports whether the request was rejected with HTTP 401 and the
// session has been torn down.
func (r *Result) Expired() bool {
	return r.expired
}

// OK reports whether the response status was 2xx.
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with the skillmap assessment backend.
//
// The zero value is not usable; construct with NewClient. Token state is
// mutex-guarded because bubbletea commands call endpoint methods from
// their own goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu             sync.Mutex
	token          string
	onUnauthorized func()
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rateLimit, rateBurst),
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken installs the bearer token used for protected endpoints.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// HasToken reports whether a bearer token is installed.
func (c *Client) HasToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// SetUnauthorizedHook registers the forced-logout hook invoked when a
// protected request comes back 401. The hook runs at most once per
// installed token: the 401 handler clears the token before calling it, so
// concurrent in-flight requests that also hit 401 find no token and skip it.
func (c *Client) SetUnauthorizedHook(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = hook
}

// tokenFingerprint returns a SHA-256 fingerprint of the token for logging.
// SECURITY: The token itself must never appear in logs.
func tokenFingerprint(token string) string {
	if token == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// REQUEST GATEWAY
// =============================================================================

// do is the single chokepoint for protected endpoints. It attaches the
// bearer token, waits on the rate limiter, and converts a 401 into a
// tagged expired Result after tearing down the session.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*Result, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		return nil, ErrNotAuthenticated
	}

	resp, respBody, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(token)
		log.Printf("session rejected by server (token fingerprint=%s)", tokenFingerprint(token))
		return &Result{Status: resp.StatusCode, Body: respBody, expired: true}, nil
	}

	return &Result{Status: resp.StatusCode, Body: respBody}, nil
}

// doPublic performs a request to an unauthenticated endpoint (/login,
// /register). 401 responses pass through as ordinary statuses here: a
// failed login is a user error, not a session teardown.
func (c *Client) doPublic(ctx context.Context, method, path string, body interface{}) (*Result, error) {
	resp, respBody, err := c.send(ctx, method, path, body, "")
	if err != nil {
		return nil, err
	}
	return &Result{Status: resp.StatusCode, Body: respBody}, nil
}

// send builds and executes one HTTP request. A non-empty token is attached
// as the Authorization header and can never be overridden by callers.
func (c *Client) send(ctx context.Context, method, path string, body interface{}, token string) (*http.Response, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req, token)

	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after the request so
	// the token cannot leak through request dumps.
	req.Header.Del("Authorization")

	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, nil, err
	}

	return resp, respBody, nil
}

// setHeaders sets the standard headers on an outgoing request.
func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// expire tears down the session after a 401. The token comparison makes the
// teardown idempotent: only the request that observes the still-installed
// token clears it and fires the hook.
func (c *Client) expire(token string) {
	c.mu.Lock()
	var hook func()
	if c.token != "" && c.token == token {
		c.token = ""
		hook = c.onUnauthorized
	}
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// readResponse reads the response body with size limits.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// apiErrorFrom builds an APIError from a non-2xx result, surfacing the
// backend's {error: ...} message when present.
func apiErrorFrom(res *Result) error {
	var errResp errorResponse
	if err := json.Unmarshal(res.Body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{Status: res.Status, Message: errResp.Error}
	}
	return &APIError{Status: res.Status}
}
