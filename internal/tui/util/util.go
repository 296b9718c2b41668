// Package util holds small helpers shared by TUI components.
package util

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// InfoType classifies a status line message.
type InfoType int

// Info types.
const (
	InfoTypeInfo InfoType = iota
	InfoTypeSuccess
	InfoTypeWarn
	InfoTypeError
)

// DefaultTTL is how long a status message stays visible.
const DefaultTTL = 4 * time.Second

// InfoMsg is a status line message.
type InfoMsg struct {
	Type InfoType
	Msg  string
	TTL  time.Duration
}

// ClearStatusMsg clears the status line if it still shows the message
// with the given ID.
type ClearStatusMsg struct {
	ID int
}

// CmdHandler wraps a message in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportError reports err on the status line.
func ReportError(err error) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeError,
		Msg:  err.Error(),
		TTL:  DefaultTTL,
	})
}

// ReportWarn reports a warning on the status line.
func ReportWarn(warn string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeWarn,
		Msg:  warn,
		TTL:  DefaultTTL,
	})
}

// ReportSuccess reports a success on the status line.
func ReportSuccess(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeSuccess,
		Msg:  msg,
		TTL:  DefaultTTL,
	})
}

// ReportInfo reports a neutral message on the status line.
func ReportInfo(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeInfo,
		Msg:  msg,
		TTL:  DefaultTTL,
	})
}

// ClearAfter schedules a ClearStatusMsg for id.
func ClearAfter(id int, ttl time.Duration) tea.Cmd {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
