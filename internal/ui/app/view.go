// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/skillmap-tui/internal/ui/components"
	"github.com/jeranaias/skillmap-tui/internal/ui/styles"
	"github.com/jeranaias/skillmap-tui/internal/util"
)

// View renders the current screen.
func (m Model) View() string {
	switch m.screen {
	case ScreenStartup:
		return m.viewStartup()
	case ScreenLogin:
		return m.viewLogin()
	case ScreenMain:
		return m.viewMain()
	default:
		return ""
	}
}

// =============================================================================
// STARTUP SCREEN
// =============================================================================

func (m Model) viewStartup() string {
	content := m.theme.LoadingText.Render("Verifying stored session...")
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// =============================================================================
// LOGIN SCREEN
// =============================================================================

func (m Model) viewLogin() string {
	title := "skillmap - Log In"
	if m.registerMode {
		title = "skillmap - Register"
	}

	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Username"))
	b.WriteString(" " + m.usernameInput.View())
	b.WriteString("\n")
	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString(" " + m.passwordInput.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(m.theme.LoadingText.Render("Contacting server..."))
	} else if m.registerMode {
		b.WriteString(m.theme.FormHelp.Render("Enter submits - username min 3 chars, password min 4"))
	} else {
		b.WriteString(m.theme.FormHelp.Render("Enter submits - Ctrl+N to register instead"))
	}

	if m.authErr != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.RenderError(m.authErr))
	}
	if m.authNotice != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.RenderInfo(m.authNotice))
	}

	box := m.theme.FormBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// =============================================================================
// MAIN SCREEN
// =============================================================================

func (m Model) viewMain() string {
	var b strings.Builder

	// Header
	header := m.theme.HeaderTitle.Render("skillmap") + "  " +
		m.theme.HeaderSubtitle.Render("Welcome back, ") +
		m.theme.HeaderUser.Render(m.sessions.Username())
	b.WriteString(header)
	b.WriteString("\n")

	// Tab bar
	tabs := make([]string, 0, tabCount)
	for i := 0; i < tabCount; i++ {
		tab := Tab(i)
		if tab == m.activeTab {
			tabs = append(tabs, m.theme.TabActive.Render(tab.String()))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(tab.String()))
		}
	}
	b.WriteString(m.theme.TabBar.Render(strings.Join(tabs, " ")))
	b.WriteString("\n\n")

	switch m.activeTab {
	case TabAssessment:
		b.WriteString(m.viewAssessment())
	case TabHistory:
		b.WriteString(m.viewHistory())
	case TabProgress:
		b.WriteString(m.viewProgress())
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar.View())

	view := b.String()

	// Toast overlay.
	if m.toasts.HasToasts() {
		view += "\n" + components.RenderToastStack(m.toasts.Toasts(), m.width, 0)
	}

	return view
}

// =============================================================================
// ASSESSMENT TAB
// =============================================================================

func (m Model) viewAssessment() string {
	var b strings.Builder

	b.WriteString(m.theme.FormLabel.Render("Topic"))
	b.WriteString(" " + m.topicInput.View())
	b.WriteString("\n")
	b.WriteString(m.theme.FormLabel.Render("Score"))
	b.WriteString(" " + m.scoreInput.View())
	b.WriteString("\n\n")

	if len(m.rows) > 0 {
		topics := make([]string, len(m.rows))
		scores := make([]float64, len(m.rows))
		for i, row := range m.rows {
			topics[i] = row.Topic
			scores[i] = row.Score
		}
		b.WriteString(components.RenderScoreChart(topics, scores, m.contentWidth()))
		b.WriteString("\n\n")
	}

	mode := "AI"
	if m.feedbackMode == "rule" {
		mode = "rule-based"
	}
	b.WriteString(m.theme.FormHelp.Render(
		"Enter adds a topic - Ctrl+S submits - Ctrl+T feedback mode (" + mode + ") - Ctrl+D removes last"))
	b.WriteString("\n")

	if m.formErr != "" {
		b.WriteString(styles.RenderError(m.formErr))
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString("\n")
		b.WriteString(m.theme.LoadingText.Render("Generating feedback..."))
		b.WriteString("\n")
	}

	if m.feedback != nil {
		b.WriteString("\n")
		b.WriteString(m.viewFeedback())
	}

	return b.String()
}

func (m Model) viewFeedback() string {
	var b strings.Builder

	b.WriteString(m.theme.FeedbackTitle.Render("Feedback"))
	b.WriteString("  ")
	b.WriteString(components.RenderBandLabel(m.feedback.SummaryScore))
	b.WriteString("\n")

	body := m.feedbackView.View()
	if strings.TrimSpace(body) == "" {
		body = m.feedbackRaw
	}
	b.WriteString(body)

	if len(m.feedback.Resources) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.HeaderSubtitle.Render("Suggested resources"))
		b.WriteString("\n")
		for _, res := range m.feedback.Resources {
			b.WriteString("  - " + m.theme.ResourceLink.Render(res.Title))
			if res.URL != "" {
				b.WriteString(" " + m.theme.ResourceDetail.Render(res.URL))
			}
			b.WriteString("\n")
			if res.Description != "" {
				b.WriteString("    " + m.theme.ResourceDetail.Render(res.Description))
				b.WriteString("\n")
			}
		}
	}

	return m.theme.FeedbackBox.Render(b.String())
}

// =============================================================================
// HISTORY TAB
// =============================================================================

func (m Model) viewHistory() string {
	if len(m.history) == 0 {
		return m.theme.HeaderSubtitle.Render("No submissions yet.")
	}

	var b strings.Builder

	if m.historyOffline {
		b.WriteString(m.theme.OfflineBadge.Render("[offline] showing cached history"))
		b.WriteString("\n\n")
	}

	for i, sub := range m.history {
		line := m.theme.HistoryTimestamp.Render(util.TruncateRunes(sub.Timestamp, 19)) + " " +
			components.RenderBandLabel(sub.SummaryScore) + " " +
			m.theme.HistoryMeta.Render(strings.Join(sub.Topics, ", "))

		if i == m.historySel {
			b.WriteString(m.theme.HistoryItemSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.HistoryItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	// Detail pane for the selected submission.
	if m.historySel < len(m.history) {
		sel := m.history[m.historySel]
		b.WriteString("\n")
		if sel.FeedbackMode != "" {
			b.WriteString(m.theme.HistoryMeta.Render("feedback mode: " + sel.FeedbackMode))
			b.WriteString("\n")
		}
		b.WriteString(components.RenderScoreChart(sel.Topics, sel.Scores, m.contentWidth()))
		if sel.Feedback != "" {
			b.WriteString("\n\n")
			b.WriteString(m.theme.FeedbackBox.Render(util.TruncateRunes(sel.Feedback, 500)))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.FormHelp.Render("up/down select - r refresh - e export CSV"))

	return b.String()
}

// =============================================================================
// PROGRESS TAB
// =============================================================================

func (m Model) viewProgress() string {
	var b strings.Builder

	b.WriteString(components.RenderProgressTrend(m.progress, m.contentWidth()))
	b.WriteString("\n")

	if stats := components.RenderProgressStats(m.progress); stats != "" {
		b.WriteString(stats)
		b.WriteString("\n")
	}

	// Per-topic breakdown over every topic seen, latest score each.
	if topics, scores := components.TopicLatest(m.progress); len(topics) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.HeaderSubtitle.Render("Topics"))
		b.WriteString("\n")
		b.WriteString(components.RenderScoreChart(topics, scores, m.contentWidth()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.FormHelp.Render("r refresh"))

	return b.String()
}

// contentWidth returns the usable width for tab content.
func (m Model) contentWidth() int {
	if m.width <= 4 {
		return 76
	}
	return m.width - 4
}
