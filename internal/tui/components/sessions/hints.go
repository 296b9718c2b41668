package sessions

import (
	"strings"

	"github.com/guilhermegouw/agentdeck/internal/tui/components/actionmenu"
	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
)

// HintMode selects the hint set to show.
type HintMode int

const (
	// HintModeNormal is shown while browsing.
	HintModeNormal HintMode = iota
	// HintModeSearch is shown while typing a filter.
	HintModeSearch
	// HintModeMenu is shown while an action menu is open.
	HintModeMenu
	// HintModeConfirm is shown while a confirmation is pending.
	HintModeConfirm
	// HintModeInput is shown while a text dialog is open.
	HintModeInput
)

// HintBar displays context-sensitive keyboard hints.
type HintBar struct {
	mode    HintMode
	width   int
	trigger actionmenu.Trigger
}

// NewHintBar creates a hint bar for the given trigger.
func NewHintBar(trigger actionmenu.Trigger) *HintBar {
	return &HintBar{trigger: trigger}
}

// SetMode sets the hint set.
func (h *HintBar) SetMode(mode HintMode) {
	h.mode = mode
}

// SetWidth sets the bar width.
func (h *HintBar) SetWidth(width int) {
	h.width = width
}

func (h *HintBar) hints() []string {
	switch h.mode {
	case HintModeSearch:
		return []string{"[enter] done", "[esc] clear", "[↑↓] navigate"}
	case HintModeMenu:
		km := actionmenu.DefaultKeyMap()
		return []string{
			"[" + km.Up.Help().Key + "/" + km.Down.Help().Key + "] move",
			"[" + km.Enter.Help().Key + "] open",
			"[" + km.Select.Help().Key + "] select",
			"[" + km.Close.Help().Key + "] close",
		}
	case HintModeConfirm:
		return []string{"[y] confirm", "[n/esc] cancel", "[tab] switch"}
	case HintModeInput:
		return []string{"[enter] save", "[esc] cancel"}
	}

	open := h.trigger.Keys.Open.Help()
	if h.trigger.Mode == actionmenu.ModeContextMenu {
		open = h.trigger.Keys.ContextOpen.Help()
	}
	return []string{
		"[/] search",
		"[n] new",
		"[enter] open",
		"[r] rename",
		"[" + open.Key + "] actions",
		"[q] quit",
	}
}

// View renders the bar.
func (h *HintBar) View() string {
	t := styles.CurrentTheme()
	return t.S().Muted.Width(h.width).Render(" " + strings.Join(h.hints(), "  "))
}
