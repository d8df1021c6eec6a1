// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Network calls run as Bubble Tea commands so the interface never blocks.
// Each command captures the generation counter at issue time; Update drops
// results whose generation no longer matches.

package app

import (
	"context"
	"errors"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/export"
)

// startupCmd verifies any stored session before showing a screen.
func (m Model) startupCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		state := sessions.Startup(context.Background())
		return StartupDoneMsg{State: state}
	}
}

// loginCmd attempts a login with the given credentials.
func (m Model) loginCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Login(context.Background(), username, password)
		return LoginResultMsg{Resp: resp, Err: err}
	}
}

// registerCmd attempts to create a new account.
func (m Model) registerCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Register(context.Background(), username, password)
		return RegisterResultMsg{Resp: resp, Err: err}
	}
}

// logoutCmd tears the session down. Backend failures are already
// swallowed by the manager; local state is gone either way.
func (m Model) logoutCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		sessions.Logout(context.Background())
		return LogoutDoneMsg{}
	}
}

// submitFeedbackCmd submits the staged topic/score rows.
func (m Model) submitFeedbackCmd(req api.FeedbackRequest) tea.Cmd {
	client := m.client
	gen := m.currentGen()
	return func() tea.Msg {
		resp, err := client.SubmitFeedback(context.Background(), req)
		return FeedbackResultMsg{Gen: gen, Resp: resp, Err: err}
	}
}

// historyCmd refreshes the submission history. On success the local cache
// is replaced with the server's list; on network failure the cached rows
// are served instead so the history tab still works offline.
func (m Model) historyCmd() tea.Cmd {
	client := m.client
	cache := m.cache
	username := m.sessions.Username()
	gen := m.currentGen()

	return func() tea.Msg {
		subs, err := client.History(context.Background())
		if err == nil {
			if cache != nil {
				if cerr := cache.Replace(username, subs); cerr != nil {
					log.Printf("history cache refresh failed: %v", cerr)
				}
			}
			return HistoryResultMsg{Gen: gen, Submissions: subs}
		}

		// Auth errors must not be masked by the cache.
		if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNotAuthenticated) {
			return HistoryResultMsg{Gen: gen, Err: err}
		}

		if cache != nil {
			cached, cerr := cache.List(username)
			if cerr == nil && len(cached) > 0 {
				return HistoryResultMsg{Gen: gen, Submissions: cached, FromCache: true}
			}
		}
		return HistoryResultMsg{Gen: gen, Err: err}
	}
}

// progressCmd refreshes the progress series.
func (m Model) progressCmd() tea.Cmd {
	client := m.client
	gen := m.currentGen()
	return func() tea.Msg {
		points, err := client.Progress(context.Background())
		return ProgressResultMsg{Gen: gen, Points: points, Err: err}
	}
}

// exportCmd writes the server's CSV export to the configured output
// directory. When the server is unreachable, the export is rebuilt from
// the local cache in the same column layout.
func (m Model) exportCmd() tea.Cmd {
	client := m.client
	cache := m.cache
	username := m.sessions.Username()
	gen := m.currentGen()
	opts := &export.Options{OutputDir: m.cfg.Export.OutputDir}

	return func() tea.Msg {
		data, err := client.ExportCSV(context.Background())
		if err == nil {
			path, werr := export.WriteRaw(username, data, ".csv", opts)
			return ExportResultMsg{Gen: gen, Path: path, Err: werr}
		}

		if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNotAuthenticated) {
			return ExportResultMsg{Gen: gen, Err: err}
		}

		if cache != nil {
			cached, cerr := cache.List(username)
			if cerr == nil && len(cached) > 0 {
				path, werr := export.ExportToFile(username, cached, export.NewCSVExporter(), opts)
				return ExportResultMsg{Gen: gen, Path: path, Err: werr}
			}
		}
		return ExportResultMsg{Gen: gen, Err: err}
	}
}

// renderFeedbackCmd renders feedback markdown with glamour. Rendering
// failures fall back to the raw text rather than failing the submission.
func (m Model) renderFeedbackCmd(markdown string, width int) tea.Cmd {
	gen := m.currentGen()
	return func() tea.Msg {
		if width < 20 {
			width = 20
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return FeedbackRenderedMsg{Gen: gen, Rendered: markdown}
		}
		rendered, err := renderer.Render(markdown)
		if err != nil {
			return FeedbackRenderedMsg{Gen: gen, Rendered: markdown}
		}
		return FeedbackRenderedMsg{Gen: gen, Rendered: rendered}
	}
}
