package actionmenu

import (
	"strings"

	"charm.land/bubbles/v2/key"
)

// KeyMap is the keyboard layout of an open menu.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Select key.Binding
	Back   key.Binding
	Close  key.Binding
}

// DefaultKeyMap returns the default menu bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "open submenu"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "back"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// TriggerKeyMap holds the bindings that open a row's menu.
type TriggerKeyMap struct {
	Open        key.Binding
	ContextOpen key.Binding
}

// DefaultTriggerKeyMap returns the default trigger bindings.
func DefaultTriggerKeyMap() TriggerKeyMap {
	return TriggerKeyMap{
		Open: key.NewBinding(
			key.WithKeys(".", "m"),
			key.WithHelp("./m", "actions"),
		),
		ContextOpen: key.NewBinding(
			key.WithKeys("shift+f10"),
			key.WithHelp("shift+f10", "context menu"),
		),
	}
}

type confirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
}

func newConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
	}
}

func (k confirmKeyMap) help() string {
	bindings := []key.Binding{k.Yes, k.No, k.Toggle, k.Submit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
