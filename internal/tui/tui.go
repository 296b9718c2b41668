// Package tui provides the terminal user interface for agentdeck.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/guilhermegouw/agentdeck/internal/bridge"
	"github.com/guilhermegouw/agentdeck/internal/config"
	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
	"github.com/guilhermegouw/agentdeck/internal/session"
	"github.com/guilhermegouw/agentdeck/internal/tui/components/actionmenu"
	"github.com/guilhermegouw/agentdeck/internal/tui/components/sessions"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
	"github.com/guilhermegouw/agentdeck/internal/tui/util"
)

// Options wires the TUI to the application services.
type Options struct {
	Config   *config.Config
	Sessions *session.Service
	Groups   *group.Service
	Exporter actionmenu.Exporter
	Hub      *pubsub.Hub
	Profile  termenv.Profile
}

// Model is the main TUI model.
type Model struct {
	browser  *sessions.Browser
	status   *StatusLine
	sessions *session.Service
	width    int
	height   int
	ready    bool
}

// New creates a new TUI model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	return &Model{
		browser: sessions.New(sessions.Config{
			Sessions:  opts.Sessions,
			Groups:    opts.Groups,
			Exporter:  opts.Exporter,
			Trigger:   triggerMode(cfg),
			Placement: placement(cfg),
			Profile:   opts.Profile,
		}),
		status:   NewStatusLine(),
		sessions: opts.Sessions,
	}
}

func triggerMode(cfg *config.Config) actionmenu.Mode {
	if cfg.Menu != nil && cfg.Menu.Trigger == config.TriggerContextMenu {
		return actionmenu.ModeContextMenu
	}
	return actionmenu.ModeClick
}

func placement(cfg *config.Config) actionmenu.Placement {
	if cfg.Menu != nil && cfg.Menu.DefaultGroupPlacement == config.PlacementLast {
		return actionmenu.PlacementLast
	}
	return actionmenu.PlacementFirst
}

// Browser returns the session browser.
func (m *Model) Browser() *sessions.Browser {
	return m.browser
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.browser.Init(), tea.RequestBackgroundColor)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.browser.SetSize(m.width, max(1, m.height-1))
		m.status.SetWidth(m.width)
		return m, nil

	case tea.BackgroundColorMsg:
		if !msg.IsDark() {
			styles.DefaultManager().SetTheme("light")
			debug.Event("tui", "Theme", "light background detected")
		}
		return m, nil

	case tea.KeyPressMsg:
		debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.MouseClickMsg:
		debug.Event("tui", "MouseClick", fmt.Sprintf("button=%v x=%d y=%d", msg.Button, msg.X, msg.Y))

	case util.InfoMsg:
		return m, m.status.Set(msg)

	case util.ClearStatusMsg:
		m.status.Clear(msg.ID)
		return m, nil

	case bridge.SessionEventMsg:
		return m, m.handleSessionEvent(msg.Event.Payload)

	case bridge.GroupEventMsg:
		debug.Event("tui", "GroupEvent", fmt.Sprintf("type=%s id=%s", msg.Event.Payload.Type, msg.Event.Payload.GroupID))
		m.browser.Refresh()
		return m, nil

	case bridge.ExportEventMsg:
		return m, m.handleExportEvent(msg.Event.Payload)

	case sessions.BrowserClosedMsg:
		return m, tea.Quit

	case sessions.SwitchSessionMsg:
		title := msg.SessionID
		if sess, err := m.sessions.Get(context.Background(), msg.SessionID); err == nil {
			title = sess.DisplayTitle()
		}
		return m, util.ReportInfo("Current session: " + title)
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

func (m *Model) handleSessionEvent(evt events.SessionEvent) tea.Cmd {
	debug.Event("tui", "SessionEvent", fmt.Sprintf("type=%s id=%s", evt.Type, evt.SessionID))
	if evt.Type == events.SessionEventFailed {
		return util.ReportError(fmt.Errorf("%s %s: %s", evt.Op, evt.SessionID, evt.Err))
	}
	m.browser.Refresh()
	if evt.Type == events.SessionEventDuplicated {
		return util.ReportSuccess("Session duplicated")
	}
	return nil
}

func (m *Model) handleExportEvent(evt events.ExportEvent) tea.Cmd {
	debug.Event("tui", "ExportEvent", fmt.Sprintf("kind=%s id=%s failed=%v", evt.Kind, evt.SessionID, evt.Failed()))
	if evt.Failed() {
		return util.ReportError(fmt.Errorf("export failed: %s", evt.Err))
	}
	return util.ReportSuccess("Exported to " + evt.Path)
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	view.Content = lipgloss.JoinVertical(lipgloss.Left, m.browser.View(), m.status.View())
	return view
}

// Run starts the TUI program.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("agentdeck requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	styles.DefaultManager()
	opts.Profile = termenv.EnvColorProfile()

	model := New(opts)
	p := tea.NewProgram(model)

	if opts.Hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tuiBridge := bridge.NewTUIBridge(opts.Hub, p)
		tuiBridge.Start(ctx)
		defer tuiBridge.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
