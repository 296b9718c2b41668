// Package session provides session management with persistence.
package session

import (
	"context"
	"errors"
	"time"
)

// InboxID is the built-in session that cannot be pinned, duplicated,
// moved or deleted.
const InboxID = "inbox"

var (
	// ErrNotFound is returned when a session is not found.
	ErrNotFound = errors.New("session not found")
	// ErrLockedSession is returned when a mutation targets the inbox.
	ErrLockedSession = errors.New("session is locked")
)

// Session represents a conversational agent session.
type Session struct {
	ID           string
	Title        string
	Description  string
	Avatar       string
	SystemPrompt string
	Model        string
	Provider     string
	Group        string
	Pinned       bool
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionWithPreview includes the first user message preview.
//
//nolint:revive // Name is clear and used across packages
type SessionWithPreview struct {
	Session
	FirstMessage string
}

// Pinned projects the pin flag out of a session. A missing session is
// never pinned.
func Pinned(s *Session) bool {
	return s != nil && s.Pinned
}

// IsLocked reports whether id is the inbox session.
func IsLocked(id string) bool {
	return id == InboxID
}

// DisplayTitle returns the title shown in lists.
func (s *Session) DisplayTitle() string {
	if s.Title != "" && s.Title != "New Session" {
		return s.Title
	}
	short := s.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return "Session " + short
}

// Store defines the interface for session persistence.
type Store interface {
	// Create inserts a session. ID, timestamps and group must be set.
	Create(ctx context.Context, s *Session) (*Session, error)

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Session, error)

	// List returns all sessions ordered by updated_at descending.
	List(ctx context.Context) ([]*Session, error)

	// ListWithPreview returns all sessions with first message preview.
	ListWithPreview(ctx context.Context) ([]*SessionWithPreview, error)

	// Search searches sessions by title keyword.
	Search(ctx context.Context, keyword string) ([]*Session, error)

	// SearchWithPreview searches sessions by title with first message preview.
	SearchWithPreview(ctx context.Context, keyword string) ([]*SessionWithPreview, error)

	// UpdateTitle updates the title of a session.
	UpdateTitle(ctx context.Context, id, title string) error

	// SetPinned sets the pin flag.
	SetPinned(ctx context.Context, id string, pinned bool) error

	// UpdateGroup moves a session to another group.
	UpdateGroup(ctx context.Context, id, groupID string) error

	// IncrementMessageCount increments the message count for a session.
	IncrementMessageCount(ctx context.Context, id string) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}
