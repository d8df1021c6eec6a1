// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jeranaias/skillmap-tui/internal/api"
	"github.com/jeranaias/skillmap-tui/internal/config"
	"github.com/jeranaias/skillmap-tui/internal/session"
	"github.com/jeranaias/skillmap-tui/internal/storage"
	"github.com/jeranaias/skillmap-tui/internal/ui/components"
	"github.com/jeranaias/skillmap-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS AND TABS
// =============================================================================

// Screen represents the top-level screen being shown.
type Screen int

const (
	ScreenStartup Screen = iota // Verifying a stored session
	ScreenLogin                 // Login / register forms
	ScreenMain                  // Tabbed main interface
)

// Tab represents the active tab on the main screen.
type Tab int

const (
	TabAssessment Tab = iota
	TabHistory
	TabProgress
)

// String returns the tab's display name.
func (t Tab) String() string {
	switch t {
	case TabAssessment:
		return "Assessment"
	case TabHistory:
		return "History"
	case TabProgress:
		return "Progress"
	default:
		return "Unknown"
	}
}

// tabCount is the number of tabs on the main screen.
const tabCount = 3

// =============================================================================
// APP MODEL
// =============================================================================

// topicRow is one topic/score pair staged on the assessment form.
type topicRow struct {
	Topic string
	Score float64
}

// Model is the top-level Bubble Tea model for the skillmap TUI.
type Model struct {
	// Wiring
	client   *api.Client
	sessions *session.Manager
	cache    *storage.Cache // nil when the local cache is disabled
	cfg      *config.Config

	// Styling
	theme  *styles.Theme
	keyMap KeyMap

	// Dimensions
	width  int
	height int

	// Navigation
	screen    Screen
	activeTab Tab

	// Request generation. Bumped on logout/expiry so responses from the
	// previous session are discarded when they arrive.
	gen int

	// Login / register form
	usernameInput textinput.Model
	passwordInput textinput.Model
	registerMode  bool
	focusIdx      int
	authErr       string
	authNotice    string

	// Assessment form
	topicInput   textinput.Model
	scoreInput   textinput.Model
	rows         []topicRow
	feedbackMode string // "ai" or "rule"
	formErr      string

	// Feedback display
	feedback     *api.FeedbackResponse
	feedbackView viewport.Model
	feedbackRaw  string

	// History tab
	history        []api.Submission
	historySel     int
	historyOffline bool

	// Progress tab
	progress []api.ProgressPoint

	// Components
	spinner   components.Spinner
	toasts    *components.ToastManager
	statusBar *components.StatusBar

	busy bool
}

// New creates the application model. The session manager must already be
// wired to the client's unauthorized hook; Startup runs as the first command.
func New(client *api.Client, sessions *session.Manager, cache *storage.Cache, cfg *config.Config) Model {
	theme := styles.NewThemeForMode(cfg.UI.Theme)

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	topic := textinput.New()
	topic.Placeholder = "topic (e.g. algebra)"
	topic.CharLimit = 100

	score := textinput.New()
	score.Placeholder = "score 0-100"
	score.CharLimit = 5

	statusBar := components.NewStatusBar(theme)
	statusBar.ServerURL = cfg.Server.BaseURL

	m := Model{
		client:        client,
		sessions:      sessions,
		cache:         cache,
		cfg:           cfg,
		theme:         theme,
		keyMap:        DefaultKeyMap(),
		screen:        ScreenStartup,
		usernameInput: username,
		passwordInput: password,
		topicInput:    topic,
		scoreInput:    score,
		feedbackMode:  "ai",
		feedbackView:  viewport.New(0, 0),
		spinner:       components.NewSpinner(),
		toasts:        components.NewToastManager(),
		statusBar:     statusBar,
	}

	return m
}

// bumpGen invalidates all in-flight request results.
func (m *Model) bumpGen() {
	m.gen++
}

// currentGen returns the generation tag for a new request.
func (m Model) currentGen() int {
	return m.gen
}

// staleGen reports whether a result belongs to a previous session.
func (m Model) staleGen(gen int) bool {
	return gen != m.gen
}

// resetForms clears every input and cached view so nothing leaks across
// a logout into the next session.
func (m *Model) resetForms() {
	m.usernameInput.Reset()
	m.passwordInput.Reset()
	m.topicInput.Reset()
	m.scoreInput.Reset()
	m.rows = nil
	m.feedback = nil
	m.feedbackRaw = ""
	m.feedbackView.SetContent("")
	m.history = nil
	m.historySel = 0
	m.historyOffline = false
	m.progress = nil
	m.formErr = ""
	m.authErr = ""
	m.activeTab = TabAssessment
	m.focusIdx = 0
	m.registerMode = false
	m.usernameInput.Focus()
	m.passwordInput.Blur()
}
