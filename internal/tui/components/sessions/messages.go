package sessions

// BrowserClosedMsg is sent when the browser is dismissed.
type BrowserClosedMsg struct{}

// SwitchSessionMsg is sent to make a session the current one.
type SwitchSessionMsg struct {
	SessionID string
}

// SessionSelectedMsg is sent when a row is clicked or entered.
type SessionSelectedMsg struct {
	SessionID string
}

// RenameSessionMsg is sent to start renaming a session.
type RenameSessionMsg struct {
	SessionID    string
	CurrentTitle string
}

// CreateGroupMsg opens the create group input. When SessionID is set the
// session is moved into the new group once it exists.
type CreateGroupMsg struct {
	SessionID string
}

// NewSessionMsg is sent to create a new session.
type NewSessionMsg struct{}

