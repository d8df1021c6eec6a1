// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skillmap-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusError
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status.
// ACCESSIBILITY: distinct shapes alongside colors for colorblind users.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusLoading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusOffline:
		return styles.StatusIndicators.Warning
	default:
		return "?"
	}
}

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom status bar: connection state, the signed-in
// user, the server, and key hints.
type StatusBar struct {
	Username      string
	ServerURL     string
	Status        Status
	Width         int
	ShowShortcuts bool
	Shortcuts     []Shortcut

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetSize updates the available width.
func (b *StatusBar) SetSize(width int) {
	b.Width = width
}

// View renders the status bar.
func (b *StatusBar) View() string {
	var statusColor lipgloss.AdaptiveColor
	switch b.Status {
	case StatusReady:
		statusColor = styles.Emerald
	case StatusLoading:
		statusColor = styles.Purple
	case StatusError:
		statusColor = styles.Rose
	case StatusOffline:
		statusColor = styles.Amber
	default:
		statusColor = styles.TextMuted
	}

	statusView := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(b.Status.Icon() + " " + b.Status.String())

	var parts []string
	parts = append(parts, statusView)

	if b.Username != "" {
		parts = append(parts, b.theme.HeaderUser.Render(b.Username))
	}
	if b.ServerURL != "" {
		parts = append(parts, b.theme.ShortcutDesc.Render(b.ServerURL))
	}

	if b.ShowShortcuts && len(b.Shortcuts) > 0 {
		hints := make([]string, 0, len(b.Shortcuts))
		for _, sc := range b.Shortcuts {
			hints = append(hints, b.theme.ShortcutKey.Render(sc.Key)+" "+b.theme.ShortcutDesc.Render(sc.Desc))
		}
		parts = append(parts, strings.Join(hints, "  "))
	}

	sep := b.theme.ShortcutDesc.Render(" | ")
	bar := strings.Join(parts, sep)

	return b.theme.StatusBar.Width(b.Width).Render(bar)
}
