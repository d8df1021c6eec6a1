// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/session"
	"github.com/jeranaias/skillmap-tui/internal/ui/components"
)

// Init starts session verification and the toast ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startupCmd(), components.ToastTickCmd())
}

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.statusBar.SetSize(msg.Width)
		m.feedbackView.Width = msg.Width - 4
		m.feedbackView.Height = msg.Height / 2
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenLogin:
			return m.updateLogin(msg)
		case ScreenMain:
			return m.updateMain(msg)
		default:
			return m, nil
		}

	case StartupDoneMsg:
		return m.handleStartupDone(msg)

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case RegisterResultMsg:
		return m.handleRegisterResult(msg)

	case LogoutDoneMsg:
		m.bumpGen()
		m.resetForms()
		m.screen = ScreenLogin
		m.statusBar.Username = ""
		m.statusBar.Status = components.StatusReady
		m.busy = false
		return m, nil

	case SessionExpiredMsg:
		return m.toExpiredLogin()

	case FeedbackResultMsg:
		return m.handleFeedbackResult(msg)

	case FeedbackRenderedMsg:
		if m.staleGen(msg.Gen) {
			return m, nil
		}
		m.feedbackView.SetContent(msg.Rendered)
		m.feedbackView.GotoTop()
		return m, nil

	case HistoryResultMsg:
		return m.handleHistoryResult(msg)

	case ProgressResultMsg:
		return m.handleProgressResult(msg)

	case ExportResultMsg:
		return m.handleExportResult(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

func (m Model) handleStartupDone(msg StartupDoneMsg) (tea.Model, tea.Cmd) {
	if msg.State == session.StateAuthenticated {
		return m.enterMain()
	}
	m.screen = ScreenLogin
	if m.sessions.ConsumeExpired() {
		m.authNotice = "Session expired. Please log in again."
	}
	return m, nil
}

// enterMain switches to the main screen and prefetches the data tabs.
func (m Model) enterMain() (tea.Model, tea.Cmd) {
	m.screen = ScreenMain
	m.activeTab = TabAssessment
	m.authErr = ""
	m.authNotice = ""
	m.statusBar.Username = m.sessions.Username()
	m.statusBar.Status = components.StatusReady
	m.topicInput.Focus()
	m.scoreInput.Blur()
	m.focusIdx = 0
	return m, tea.Batch(m.historyCmd(), m.progressCmd())
}

// toExpiredLogin handles a forced logout after the gateway saw a 401.
func (m Model) toExpiredLogin() (tea.Model, tea.Cmd) {
	m.sessions.ConsumeExpired()
	m.bumpGen()
	m.resetForms()
	m.screen = ScreenLogin
	m.authNotice = "Session expired. Please log in again."
	m.statusBar.Username = ""
	m.statusBar.Status = components.StatusReady
	m.busy = false
	return m, nil
}

// authFailure routes an error from an authenticated request: session
// expiry returns to login, anything else becomes a toast.
func (m Model) authFailure(err error) (tea.Model, tea.Cmd, bool) {
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNotAuthenticated) {
		model, cmd := m.toExpiredLogin()
		return model, cmd, true
	}
	return m, nil, false
}

// =============================================================================
// LOGIN SCREEN
// =============================================================================

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.ToggleReg):
		m.registerMode = !m.registerMode
		m.authErr = ""
		m.authNotice = ""
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.focusIdx == 0 {
			m.focusIdx = 1
			m.usernameInput.Blur()
			return m, m.passwordInput.Focus()
		}
		return m.submitAuth()

	case key.Matches(msg, m.keyMap.NextField), key.Matches(msg, m.keyMap.PrevField):
		m.focusIdx = 1 - m.focusIdx
		if m.focusIdx == 0 {
			m.passwordInput.Blur()
			return m, m.usernameInput.Focus()
		}
		m.usernameInput.Blur()
		return m, m.passwordInput.Focus()
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.usernameInput.Value())
	password := m.passwordInput.Value()

	if username == "" || password == "" {
		m.authErr = "username and password are required"
		return m, nil
	}

	m.authErr = ""
	m.authNotice = ""
	m.busy = true
	m.statusBar.Status = components.StatusLoading

	if m.registerMode {
		return m, m.registerCmd(username, password)
	}
	return m, m.loginCmd(username, password)
}

func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.statusBar.Status = components.StatusReady

	if msg.Err != nil {
		m.authErr = msg.Err.Error()
		m.passwordInput.Reset()
		return m, nil
	}

	m.sessions.Login(msg.Resp.SessionToken, msg.Resp.Username)
	m.passwordInput.Reset()
	return m.enterMain()
}

func (m Model) handleRegisterResult(msg RegisterResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.statusBar.Status = components.StatusReady

	if msg.Err != nil {
		m.authErr = msg.Err.Error()
		return m, nil
	}

	m.registerMode = false
	m.passwordInput.Reset()
	m.authNotice = "Account created. Please log in."
	if msg.Resp != nil && msg.Resp.Message != "" {
		m.authNotice = msg.Resp.Message + " Please log in."
	}
	return m, nil
}

// =============================================================================
// MAIN SCREEN
// =============================================================================

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.NextTab):
		m.activeTab = Tab((int(m.activeTab) + 1) % tabCount)
		return m.onTabChange()

	case key.Matches(msg, m.keyMap.PrevTab):
		m.activeTab = Tab((int(m.activeTab) + tabCount - 1) % tabCount)
		return m.onTabChange()

	case key.Matches(msg, m.keyMap.Logout):
		m.busy = true
		m.statusBar.Status = components.StatusLoading
		return m, m.logoutCmd()
	}

	switch m.activeTab {
	case TabAssessment:
		return m.updateAssessment(msg)
	case TabHistory:
		return m.updateHistory(msg)
	case TabProgress:
		return m.updateProgress(msg)
	}
	return m, nil
}

// onTabChange moves focus into or out of the assessment inputs.
func (m Model) onTabChange() (tea.Model, tea.Cmd) {
	if m.activeTab == TabAssessment {
		m.scoreInput.Blur()
		m.focusIdx = 0
		return m, m.topicInput.Focus()
	}
	m.topicInput.Blur()
	m.scoreInput.Blur()
	return m, nil
}

// =============================================================================
// ASSESSMENT TAB
// =============================================================================

func (m Model) updateAssessment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+s":
		return m.submitAssessment()

	case "ctrl+t":
		if m.feedbackMode == "ai" {
			m.feedbackMode = "rule"
		} else {
			m.feedbackMode = "ai"
		}
		return m, nil

	case "ctrl+d":
		if len(m.rows) > 0 {
			m.rows = m.rows[:len(m.rows)-1]
		}
		return m, nil

	case "pgup":
		m.feedbackView.HalfViewUp()
		return m, nil

	case "pgdown":
		m.feedbackView.HalfViewDown()
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Submit) {
		if m.focusIdx == 0 {
			m.focusIdx = 1
			m.topicInput.Blur()
			return m, m.scoreInput.Focus()
		}
		return m.addRow()
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.topicInput, cmd = m.topicInput.Update(msg)
	} else {
		m.scoreInput, cmd = m.scoreInput.Update(msg)
	}
	return m, cmd
}

// addRow validates the staged topic/score pair and appends it.
func (m Model) addRow() (tea.Model, tea.Cmd) {
	topic := api.NormalizeTopic(m.topicInput.Value())
	if topic == "" {
		m.formErr = "topic must not be empty"
		return m, nil
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(m.scoreInput.Value()), 64)
	if err != nil {
		m.formErr = "score must be a number"
		return m, nil
	}
	if score < 0 || score > 100 {
		m.formErr = "score must be between 0 and 100"
		return m, nil
	}

	m.rows = append(m.rows, topicRow{Topic: topic, Score: score})
	m.formErr = ""
	m.topicInput.Reset()
	m.scoreInput.Reset()
	m.scoreInput.Blur()
	m.focusIdx = 0
	return m, m.topicInput.Focus()
}

func (m Model) submitAssessment() (tea.Model, tea.Cmd) {
	if len(m.rows) == 0 {
		m.formErr = "add at least one topic before submitting"
		return m, nil
	}

	topics := make([]string, len(m.rows))
	scores := make([]float64, len(m.rows))
	for i, row := range m.rows {
		topics[i] = row.Topic
		scores[i] = row.Score
	}

	m.formErr = ""
	m.busy = true
	m.statusBar.Status = components.StatusLoading

	return m, m.submitFeedbackCmd(api.FeedbackRequest{
		Topics:       topics,
		Scores:       scores,
		FeedbackMode: m.feedbackMode,
	})
}

func (m Model) handleFeedbackResult(msg FeedbackResultMsg) (tea.Model, tea.Cmd) {
	if m.staleGen(msg.Gen) {
		return m, nil
	}

	m.busy = false
	m.statusBar.Status = components.StatusReady

	if msg.Err != nil {
		if model, cmd, handled := m.authFailure(msg.Err); handled {
			return model, cmd
		}
		m.toasts.AddError("submission failed: " + msg.Err.Error())
		m.statusBar.Status = components.StatusError
		return m, nil
	}

	m.feedback = msg.Resp
	m.feedbackRaw = msg.Resp.Feedback
	m.rows = nil
	m.toasts.AddSuccess("assessment submitted")

	// Refresh the other tabs so they reflect the new submission.
	return m, tea.Batch(
		m.renderFeedbackCmd(msg.Resp.Feedback, m.feedbackView.Width),
		m.historyCmd(),
		m.progressCmd(),
	)
}

// =============================================================================
// HISTORY TAB
// =============================================================================

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.historySel > 0 {
			m.historySel--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.historySel < len(m.history)-1 {
			m.historySel++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		m.statusBar.Status = components.StatusLoading
		return m, m.historyCmd()

	case key.Matches(msg, m.keyMap.Export):
		m.toasts.AddStatus("exporting history...")
		return m, m.exportCmd()
	}
	return m, nil
}

func (m Model) handleHistoryResult(msg HistoryResultMsg) (tea.Model, tea.Cmd) {
	if m.staleGen(msg.Gen) {
		return m, nil
	}

	m.statusBar.Status = components.StatusReady

	if msg.Err != nil {
		if model, cmd, handled := m.authFailure(msg.Err); handled {
			return model, cmd
		}
		m.toasts.AddError("history refresh failed: " + msg.Err.Error())
		m.statusBar.Status = components.StatusError
		return m, nil
	}

	m.history = msg.Submissions
	m.historyOffline = msg.FromCache
	if m.historySel >= len(m.history) {
		m.historySel = 0
	}
	if msg.FromCache {
		m.statusBar.Status = components.StatusOffline
		m.toasts.AddWarning("server unreachable, showing cached history")
	}
	return m, nil
}

// =============================================================================
// PROGRESS TAB
// =============================================================================

func (m Model) updateProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Refresh) {
		m.statusBar.Status = components.StatusLoading
		return m, m.progressCmd()
	}
	return m, nil
}

func (m Model) handleProgressResult(msg ProgressResultMsg) (tea.Model, tea.Cmd) {
	if m.staleGen(msg.Gen) {
		return m, nil
	}

	m.statusBar.Status = components.StatusReady

	if msg.Err != nil {
		if model, cmd, handled := m.authFailure(msg.Err); handled {
			return model, cmd
		}
		m.toasts.AddError("progress refresh failed: " + msg.Err.Error())
		return m, nil
	}

	m.progress = msg.Points
	return m, nil
}

// =============================================================================
// EXPORT
// =============================================================================

func (m Model) handleExportResult(msg ExportResultMsg) (tea.Model, tea.Cmd) {
	if m.staleGen(msg.Gen) {
		return m, nil
	}

	if msg.Err != nil {
		if model, cmd, handled := m.authFailure(msg.Err); handled {
			return model, cmd
		}
		m.toasts.AddError("export failed: " + msg.Err.Error())
		return m, nil
	}

	m.toasts.AddSuccess("history exported to " + msg.Path)
	return m, nil
}
