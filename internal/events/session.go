// Package events defines the payloads published on the pub/sub hub.
package events

import "time"

// SessionEventType represents session-specific event types.
type SessionEventType string

// Session event type constants.
const (
	SessionEventCreated      SessionEventType = "created"
	SessionEventUpdated      SessionEventType = "updated"
	SessionEventDeleted      SessionEventType = "deleted"
	SessionEventSwitched     SessionEventType = "switched"
	SessionEventPinned       SessionEventType = "pinned"
	SessionEventUnpinned     SessionEventType = "unpinned"
	SessionEventDuplicated   SessionEventType = "duplicated"
	SessionEventMoved        SessionEventType = "moved"
	SessionEventMessageAdded SessionEventType = "message_added"
	SessionEventFailed       SessionEventType = "failed"
)

// SessionEvent represents a session lifecycle event.
type SessionEvent struct {
	SessionID string
	Title     string
	Type      SessionEventType
	Timestamp time.Time

	// Optional fields
	Group    string // For Moved
	SourceID string // For Duplicated: the session that was copied
	Op       string // For Failed: the operation that failed
	Err      string // For Failed
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventCreated,
		Timestamp: time.Now(),
	}
}

// NewSessionUpdatedEvent creates a session updated event.
func NewSessionUpdatedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventUpdated,
		Timestamp: time.Now(),
	}
}

// NewSessionSwitchedEvent creates a session switched event.
func NewSessionSwitchedEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventSwitched,
		Timestamp: time.Now(),
	}
}

// NewSessionDeletedEvent creates a session deleted event.
func NewSessionDeletedEvent(id string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Type:      SessionEventDeleted,
		Timestamp: time.Now(),
	}
}

// NewSessionPinnedEvent creates a pinned or unpinned event.
func NewSessionPinnedEvent(id string, pinned bool) SessionEvent {
	typ := SessionEventUnpinned
	if pinned {
		typ = SessionEventPinned
	}
	return SessionEvent{
		SessionID: id,
		Type:      typ,
		Timestamp: time.Now(),
	}
}

// NewSessionDuplicatedEvent creates an event for a copy of sourceID.
func NewSessionDuplicatedEvent(id, sourceID, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		SourceID:  sourceID,
		Title:     title,
		Type:      SessionEventDuplicated,
		Timestamp: time.Now(),
	}
}

// NewSessionMovedEvent creates a group change event.
func NewSessionMovedEvent(id, group string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Group:     group,
		Type:      SessionEventMoved,
		Timestamp: time.Now(),
	}
}

// NewSessionMessageAddedEvent creates a message added event.
func NewSessionMessageAddedEvent(sessionID string) SessionEvent {
	return SessionEvent{
		SessionID: sessionID,
		Type:      SessionEventMessageAdded,
		Timestamp: time.Now(),
	}
}

// NewSessionFailedEvent reports a mutation that did not complete.
func NewSessionFailedEvent(id, op string, err error) SessionEvent {
	e := SessionEvent{
		SessionID: id,
		Op:        op,
		Type:      SessionEventFailed,
		Timestamp: time.Now(),
	}
	if err != nil {
		e.Err = err.Error()
	}
	return e
}
