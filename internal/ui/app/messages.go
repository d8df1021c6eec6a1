// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the main Bubble Tea model for the skillmap TUI.
//
// This file defines all Bubble Tea message types used by the interface.
// Network results carry the request generation they were issued under;
// results from a previous login session are discarded on arrival.
package app

import (
	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/session"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// StartupDoneMsg reports the result of startup session verification.
type StartupDoneMsg struct {
	State session.State
}

// LoginResultMsg reports the result of a login attempt.
type LoginResultMsg struct {
	Resp *api.LoginResponse
	Err  error
}

// RegisterResultMsg reports the result of a registration attempt.
type RegisterResultMsg struct {
	Resp *api.RegisterResponse
	Err  error
}

// LogoutDoneMsg signals that the session teardown finished.
type LogoutDoneMsg struct{}

// SessionExpiredMsg signals that the gateway saw a 401 and the session
// was torn down. The UI returns to the login screen with a notice.
type SessionExpiredMsg struct{}

// =============================================================================
// DATA MESSAGES
// =============================================================================

// FeedbackResultMsg delivers the result of a feedback submission.
type FeedbackResultMsg struct {
	Gen  int
	Resp *api.FeedbackResponse
	Err  error
}

// HistoryResultMsg delivers the refreshed submission history.
type HistoryResultMsg struct {
	Gen         int
	Submissions []api.Submission
	FromCache   bool
	Err         error
}

// ProgressResultMsg delivers the refreshed progress series.
type ProgressResultMsg struct {
	Gen    int
	Points []api.ProgressPoint
	Err    error
}

// ExportResultMsg reports where an export was written.
type ExportResultMsg struct {
	Gen  int
	Path string
	Err  error
}

// FeedbackRenderedMsg carries feedback markdown rendered by glamour.
type FeedbackRenderedMsg struct {
	Gen      int
	Rendered string
}
