package actionmenu

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Trigger decides which inputs open a row's menu.
type Trigger struct {
	Mode Mode
	Keys TriggerKeyMap
}

// NewTrigger returns a trigger for mode with the default bindings. Unknown
// modes fall back to click.
func NewTrigger(mode Mode) Trigger {
	if mode != ModeContextMenu {
		mode = ModeClick
	}
	return Trigger{Mode: mode, Keys: DefaultTriggerKeyMap()}
}

// ShowsAffordance reports whether rows draw the menu glyph.
func (t Trigger) ShowsAffordance() bool {
	return t.Mode == ModeClick
}

// MatchKey reports whether msg opens the menu of the focused row.
func (t Trigger) MatchKey(msg tea.KeyPressMsg) bool {
	if t.Mode == ModeContextMenu {
		return key.Matches(msg, t.Keys.ContextOpen)
	}
	return key.Matches(msg, t.Keys.Open)
}

// MatchClick reports whether a click on a row opens its menu. onAffordance
// tells whether the click landed on the row's menu glyph.
func (t Trigger) MatchClick(msg tea.MouseClickMsg, onAffordance bool) bool {
	if t.Mode == ModeContextMenu {
		return msg.Button == tea.MouseRight
	}
	return msg.Button == tea.MouseLeft && onAffordance
}
