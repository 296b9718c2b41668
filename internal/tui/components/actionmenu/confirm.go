package actionmenu

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
	"github.com/guilhermegouw/agentdeck/internal/tui/util"
)

// PromptConfig describes a confirmation prompt.
type PromptConfig struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Danger      bool
}

// Prompter shows a confirmation prompt and calls onConfirm only if the user
// affirms it.
type Prompter interface {
	Prompt(cfg PromptConfig, onConfirm func())
}

// WithConfirmation wraps action so that it only runs after p is affirmed.
func WithConfirmation(p Prompter, action Action, cfg PromptConfig) Action {
	return func() {
		p.Prompt(cfg, action)
	}
}

// ConfirmClosedMsg is sent when a prompt is answered.
type ConfirmClosedMsg struct {
	Title     string
	Confirmed bool
}

// Confirm is a centered modal prompt. A new prompt replaces a pending one.
type Confirm struct {
	cfg       PromptConfig
	onConfirm func()
	visible   bool
	focusOK   bool
	width     int
	height    int
	keys      confirmKeyMap
}

// NewConfirm creates a hidden prompt.
func NewConfirm() *Confirm {
	return &Confirm{keys: newConfirmKeyMap()}
}

// Prompt implements Prompter. Focus starts on the cancel button.
func (c *Confirm) Prompt(cfg PromptConfig, onConfirm func()) {
	if c.visible {
		debug.Event("actionmenu", "ConfirmReplaced", fmt.Sprintf("old=%q new=%q", c.cfg.Title, cfg.Title))
	}
	c.cfg = cfg
	c.onConfirm = onConfirm
	c.visible = true
	c.focusOK = false
	debug.Event("actionmenu", "ConfirmOpen", cfg.Title)
}

// IsVisible reports whether a prompt is pending.
func (c *Confirm) IsVisible() bool {
	return c.visible
}

// SetSize sets the area the prompt is centered in.
func (c *Confirm) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Update handles input while the prompt is visible.
func (c *Confirm) Update(msg tea.Msg) (*Confirm, tea.Cmd) {
	if !c.visible {
		return c, nil
	}
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, c.keys.Yes):
		return c, c.close(true)
	case key.Matches(keyMsg, c.keys.No):
		return c, c.close(false)
	case key.Matches(keyMsg, c.keys.Toggle):
		c.focusOK = !c.focusOK
	case key.Matches(keyMsg, c.keys.Submit):
		return c, c.close(c.focusOK)
	}
	return c, nil
}

func (c *Confirm) close(confirmed bool) tea.Cmd {
	title := c.cfg.Title
	action := c.onConfirm
	c.visible = false
	c.onConfirm = nil
	debug.Event("actionmenu", "ConfirmClose", fmt.Sprintf("title=%q confirmed=%v", title, confirmed))

	if confirmed && action != nil {
		action()
	}
	return util.CmdHandler(ConfirmClosedMsg{Title: title, Confirmed: confirmed})
}

// View renders the prompt centered in its area.
func (c *Confirm) View() string {
	content := c.Box()
	if content == "" || c.width == 0 || c.height == 0 {
		return content
	}
	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, content)
}

// Box renders the prompt without positioning it.
func (c *Confirm) Box() string {
	if !c.visible {
		return ""
	}
	t := styles.CurrentTheme()
	s := t.S().Dialog

	box := s.Box
	okStyle := s.ButtonFocused
	if c.cfg.Danger {
		box = s.DangerBox
		okStyle = s.DangerButton
	}

	okText := c.cfg.ConfirmText
	if okText == "" {
		okText = "OK"
	}
	cancelText := c.cfg.CancelText
	if cancelText == "" {
		cancelText = "Cancel"
	}

	var okBtn, cancelBtn string
	if c.focusOK {
		okBtn = okStyle.Render(okText)
		cancelBtn = s.Button.Render(cancelText)
	} else {
		okBtn = s.Button.Render(okText)
		cancelBtn = s.ButtonFocused.Render(cancelText)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, cancelBtn, "  ", okBtn)

	var parts []string
	if c.cfg.Title != "" {
		parts = append(parts, s.Title.Render(c.cfg.Title))
	}
	if c.cfg.Message != "" {
		width := 50
		if c.width > 0 {
			width = max(20, min(width, c.width-10))
		}
		parts = append(parts, "", s.Body.Width(width).Render(c.cfg.Message))
	}
	parts = append(parts, "", buttons, "", t.S().Muted.Render(c.keys.help()))

	return box.Render(strings.Join(parts, "\n"))
}
