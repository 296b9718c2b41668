// Package sessions implements the session browser: a grouped session list
// with per-row action menus, a filter box, a preview pane and the dialogs the
// menus open.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/termenv"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/session"
	"github.com/guilhermegouw/agentdeck/internal/tui/components/actionmenu"
	"github.com/guilhermegouw/agentdeck/internal/tui/components/logo"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
	"github.com/guilhermegouw/agentdeck/internal/tui/util"
)

// Step is the browser's current input mode.
type Step int

const (
	// StepList browses the list.
	StepList Step = iota
	// StepRename edits a session title.
	StepRename
	// StepCreateGroup names a new group.
	StepCreateGroup
)

// Config wires a Browser.
type Config struct {
	Sessions  *session.Service
	Groups    *group.Service
	Exporter  actionmenu.Exporter
	Trigger   actionmenu.Mode
	Placement actionmenu.Placement
	Profile   termenv.Profile
}

// Browser is the full-screen session manager.
type Browser struct {
	sessions *session.Service
	groups   *group.Service
	store    *ServiceStore

	list    *SessionList
	panel   *BorderedPanel
	preview *Preview
	search  *SearchBox
	hints   *HintBar
	confirm *actionmenu.Confirm
	rename  *InputDialog
	create  *InputDialog

	step           Step
	renameTargetID string
	createTargetID string
	width          int
	height         int
}

// New creates a browser.
func New(cfg Config) *Browser {
	store := NewServiceStore(cfg.Sessions)
	confirm := actionmenu.NewConfirm()

	b := &Browser{
		sessions: cfg.Sessions,
		groups:   cfg.Groups,
		store:    store,
		panel:    NewBorderedPanel(),
		preview:  NewPreview(NewMarkdownRenderer(cfg.Profile)),
		search:   NewSearchBox(),
		hints:    NewHintBar(actionmenu.NewTrigger(cfg.Trigger)),
		confirm:  confirm,
		rename:   NewInputDialog("Rename Session", "Enter session name..."),
		create:   NewInputDialog("Create Group", "Enter group name..."),
	}
	b.list = NewSessionList(ListConfig{
		Sessions:  cfg.Sessions,
		Groups:    cfg.Groups,
		Store:     store,
		Exporter:  cfg.Exporter,
		Prompter:  confirm,
		Trigger:   cfg.Trigger,
		Placement: cfg.Placement,
	})
	return b
}

// Init loads the list.
func (b *Browser) Init() tea.Cmd {
	b.Refresh()
	return nil
}

// Refresh reloads sessions and groups.
func (b *Browser) Refresh() {
	b.list.Refresh()
	b.syncPreview()
	b.search.SetCounts(b.list.Len(), b.list.Total())
}

// Step returns the current input mode.
func (b *Browser) Step() Step {
	return b.step
}

// List returns the session list.
func (b *Browser) List() *SessionList {
	return b.list
}

// Capturing reports whether keystrokes are going to a text input or a
// dialog, so global shortcuts must not fire.
func (b *Browser) Capturing() bool {
	return b.step != StepList || b.confirm.IsVisible() || b.search.IsFocused() || b.list.MenuOpen()
}

// SetSize lays out the browser in width x height cells.
func (b *Browser) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.layout()
}

func (b *Browser) layout() {
	top := 1
	if b.search.IsVisible() {
		top += searchHeight
	}
	bodyH := max(3, b.height-top-1)
	listW := max(30, b.width*11/20)
	previewW := max(0, b.width-listW)

	b.panel.SetSize(listW, bodyH)
	ox, oy := b.panel.ContentOffset()
	b.list.SetOrigin(ox, top+oy)
	b.list.SetSize(b.panel.ContentWidth(), bodyH-2)
	b.list.SetScreen(b.width, b.height)
	b.preview.SetSize(previewW, bodyH)
	b.search.SetWidth(b.width)
	b.hints.SetWidth(b.width)
	b.confirm.SetSize(b.width, b.height)
	b.rename.SetWidth(min(60, b.width-4))
	b.create.SetWidth(min(60, b.width-4))
}

func (b *Browser) syncPreview() {
	b.preview.SetSession(b.list.Selected(), b.list.Catalog())
}

// Update handles messages.
func (b *Browser) Update(msg tea.Msg) (*Browser, tea.Cmd) {
	switch msg := msg.(type) {
	case actionmenu.ConfirmClosedMsg:
		if msg.Confirmed {
			b.Refresh()
		}
		return b, nil

	case SessionSelectedMsg:
		b.sessions.SetCurrent(msg.SessionID)
		return b, util.CmdHandler(SwitchSessionMsg{SessionID: msg.SessionID})

	case RenameSessionMsg:
		b.renameTargetID = msg.SessionID
		b.rename.Reset()
		b.rename.SetValue(msg.CurrentTitle)
		b.step = StepRename
		return b, b.rename.Focus()

	case CreateGroupMsg:
		b.createTargetID = msg.SessionID
		b.create.Reset()
		b.step = StepCreateGroup
		return b, b.create.Focus()

	case NewSessionMsg:
		sess, err := b.sessions.Create(context.Background(), "New Session")
		if err != nil {
			return b, util.ReportError(err)
		}
		b.sessions.SetCurrent(sess.ID)
		b.Refresh()
		return b, util.ReportSuccess("Session created")
	}

	if b.confirm.IsVisible() {
		var cmd tea.Cmd
		if _, ok := msg.(tea.KeyPressMsg); ok {
			b.confirm, cmd = b.confirm.Update(msg)
		}
		return b, cmd
	}

	switch b.step {
	case StepRename:
		return b.updateRename(msg)
	case StepCreateGroup:
		return b.updateCreateGroup(msg)
	}

	if !b.list.MenuOpen() {
		if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
			if handled, cmd := b.handleKey(keyMsg); handled {
				return b, cmd
			}
		}
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	b.syncPreview()
	return b, cmd
}

func (b *Browser) handleKey(msg tea.KeyPressMsg) (bool, tea.Cmd) {
	if b.search.IsFocused() {
		switch msg.String() {
		case "esc":
			b.search.Hide()
			b.list.Search("")
			b.layout()
		case "enter":
			b.search.Blur()
		case "up", "down":
			return false, nil
		default:
			var cmd tea.Cmd
			b.search, cmd = b.search.Update(msg)
			b.list.Search(b.search.Value())
			b.search.SetCounts(b.list.Len(), b.list.Total())
			b.syncPreview()
			return true, cmd
		}
		b.syncPreview()
		return true, nil
	}

	switch msg.String() {
	case "/":
		cmd := b.search.Show()
		b.search.SetCounts(b.list.Len(), b.list.Total())
		b.layout()
		return true, cmd
	case "esc":
		if b.search.IsVisible() {
			b.search.Hide()
			b.list.Search("")
			b.layout()
			b.syncPreview()
			return true, nil
		}
		return true, util.CmdHandler(BrowserClosedMsg{})
	case "q":
		return true, util.CmdHandler(BrowserClosedMsg{})
	}
	return false, nil
}

func (b *Browser) updateRename(msg tea.Msg) (*Browser, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "esc":
			b.step = StepList
			b.rename.Reset()
			return b, nil
		case "enter":
			title := b.rename.Value()
			if title == "" {
				b.rename.SetError("Name cannot be empty")
				return b, nil
			}
			if err := b.sessions.UpdateTitle(context.Background(), b.renameTargetID, title); err != nil {
				b.rename.SetError(err.Error())
				return b, nil
			}
			b.step = StepList
			b.rename.Reset()
			b.Refresh()
			return b, util.ReportSuccess("Session renamed")
		}
	}

	var cmd tea.Cmd
	b.rename, cmd = b.rename.Update(msg)
	return b, cmd
}

func (b *Browser) updateCreateGroup(msg tea.Msg) (*Browser, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "esc":
			b.step = StepList
			b.create.Reset()
			return b, nil
		case "enter":
			g, err := b.groups.Create(context.Background(), b.create.Value())
			switch {
			case errors.Is(err, group.ErrEmptyName):
				b.create.SetError("Name cannot be empty")
				return b, nil
			case errors.Is(err, group.ErrDuplicateName):
				b.create.SetError("A group with that name already exists")
				return b, nil
			case err != nil:
				debug.Error("sessions", err, "create group")
				b.create.SetError(err.Error())
				return b, nil
			}
			if b.createTargetID != "" {
				b.store.UpdateSessionGroup(b.createTargetID, g.ID)
			}
			b.step = StepList
			b.create.Reset()
			b.Refresh()
			return b, util.ReportSuccess(fmt.Sprintf("Group %q created", g.Name))
		}
	}

	var cmd tea.Cmd
	b.create, cmd = b.create.Update(msg)
	return b, cmd
}

func (b *Browser) hintMode() HintMode {
	switch {
	case b.confirm.IsVisible():
		return HintModeConfirm
	case b.step != StepList:
		return HintModeInput
	case b.list.MenuOpen():
		return HintModeMenu
	case b.search.IsFocused():
		return HintModeSearch
	default:
		return HintModeNormal
	}
}

// View renders the browser with any open menu or dialog drawn on top.
func (b *Browser) View() string {
	t := styles.CurrentTheme()

	title := logo.Wordmark()
	count := t.S().Muted.Render(fmt.Sprintf("%d sessions", b.list.Total()))
	gap := max(1, b.width-lipgloss.Width(title)-lipgloss.Width(count)-2)
	header := " " + title + strings.Repeat(" ", gap) + count

	b.panel.SetTitle("Sessions")
	b.panel.SetFocused(b.step == StepList && !b.search.IsFocused())
	b.panel.SetContent(b.list.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, b.panel.View(), b.preview.View())

	b.hints.SetMode(b.hintMode())
	rows := []string{header}
	if b.search.IsVisible() {
		rows = append(rows, b.search.View())
	}
	rows = append(rows, body, b.hints.View())
	screen := strings.Join(rows, "\n")

	screen = b.list.Overlay(screen)
	switch b.step {
	case StepRename:
		screen = b.center(b.rename.View(), screen)
	case StepCreateGroup:
		screen = b.center(b.create.View(), screen)
	}
	if b.confirm.IsVisible() {
		screen = b.center(b.confirm.Box(), screen)
	}
	return screen
}

func (b *Browser) center(fg, bg string) string {
	x := (b.width - lipgloss.Width(fg)) / 2
	y := (b.height - lipgloss.Height(fg)) / 2
	return util.PlaceOverlay(max(0, x), max(0, y), fg, bg)
}
