package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/agentdeck/internal/tui/styles"
	"github.com/guilhermegouw/agentdeck/internal/tui/util"
)

// StatusLine shows the latest report until it expires.
type StatusLine struct {
	info  util.InfoMsg
	id    int
	width int
}

// NewStatusLine creates an empty status line.
func NewStatusLine() *StatusLine {
	return &StatusLine{}
}

// Set shows msg and schedules its removal.
func (s *StatusLine) Set(msg util.InfoMsg) tea.Cmd {
	s.id++
	s.info = msg
	return util.ClearAfter(s.id, msg.TTL)
}

// Clear removes the message if id is still the one shown.
func (s *StatusLine) Clear(id int) {
	if id == s.id {
		s.info = util.InfoMsg{}
	}
}

// Text returns the message shown.
func (s *StatusLine) Text() string {
	return s.info.Msg
}

// SetWidth sets the line width.
func (s *StatusLine) SetWidth(width int) {
	s.width = width
}

// View renders the line.
func (s *StatusLine) View() string {
	t := styles.CurrentTheme()

	var style lipgloss.Style
	switch s.info.Type {
	case util.InfoTypeSuccess:
		style = t.S().Success
	case util.InfoTypeWarn:
		style = t.S().Warning
	case util.InfoTypeError:
		style = t.S().Error
	default:
		style = t.S().Info
	}

	bar := lipgloss.NewStyle().Width(s.width).Padding(0, 1).Background(t.BgSubtle)
	return bar.Render(style.Render(s.info.Msg))
}
