//nolint:goconst // Test files use literal strings for clarity.
package events

import (
	"errors"
	"testing"
	"time"
)

func TestSessionEventTypes(t *testing.T) {
	types := []SessionEventType{
		SessionEventCreated,
		SessionEventUpdated,
		SessionEventDeleted,
		SessionEventSwitched,
		SessionEventPinned,
		SessionEventUnpinned,
		SessionEventDuplicated,
		SessionEventMoved,
		SessionEventMessageAdded,
		SessionEventFailed,
	}

	seen := make(map[SessionEventType]bool)
	for _, typ := range types {
		if seen[typ] {
			t.Errorf("duplicate event type: %s", typ)
		}
		seen[typ] = true

		if string(typ) == "" {
			t.Error("event type should have non-empty string value")
		}
	}
}

func TestNewSessionCreatedEvent(t *testing.T) {
	before := time.Now()
	event := NewSessionCreatedEvent("session-123", "My Session")
	after := time.Now()

	if event.SessionID != "session-123" {
		t.Errorf("expected SessionID 'session-123', got %q", event.SessionID)
	}
	if event.Title != "My Session" {
		t.Errorf("expected Title 'My Session', got %q", event.Title)
	}
	if event.Type != SessionEventCreated {
		t.Errorf("expected Type SessionEventCreated, got %q", event.Type)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Error("timestamp should be within test bounds")
	}
}

func TestNewSessionPinnedEvent(t *testing.T) {
	if got := NewSessionPinnedEvent("s", true).Type; got != SessionEventPinned {
		t.Errorf("pinned=true type = %q, want %q", got, SessionEventPinned)
	}
	if got := NewSessionPinnedEvent("s", false).Type; got != SessionEventUnpinned {
		t.Errorf("pinned=false type = %q, want %q", got, SessionEventUnpinned)
	}
}

func TestNewSessionDuplicatedEvent(t *testing.T) {
	event := NewSessionDuplicatedEvent("copy", "orig", "Title (copy)")
	if event.SessionID != "copy" || event.SourceID != "orig" {
		t.Errorf("unexpected ids: %+v", event)
	}
	if event.Type != SessionEventDuplicated {
		t.Errorf("Type = %q, want %q", event.Type, SessionEventDuplicated)
	}
}

func TestNewSessionMovedEvent(t *testing.T) {
	event := NewSessionMovedEvent("s", "g1")
	if event.Group != "g1" {
		t.Errorf("Group = %q, want %q", event.Group, "g1")
	}
	if event.Type != SessionEventMoved {
		t.Errorf("Type = %q, want %q", event.Type, SessionEventMoved)
	}
}

func TestNewSessionFailedEvent(t *testing.T) {
	t.Run("records op and error", func(t *testing.T) {
		event := NewSessionFailedEvent("s", "pin", errors.New("disk full"))
		if event.Op != "pin" {
			t.Errorf("Op = %q, want %q", event.Op, "pin")
		}
		if event.Err != "disk full" {
			t.Errorf("Err = %q, want %q", event.Err, "disk full")
		}
	})

	t.Run("nil error leaves Err empty", func(t *testing.T) {
		if got := NewSessionFailedEvent("s", "pin", nil).Err; got != "" {
			t.Errorf("Err = %q, want empty", got)
		}
	})
}

func TestExportEvents(t *testing.T) {
	ok := NewExportCompletedEvent("s", ExportAgent, "/tmp/a.json")
	if ok.Failed() {
		t.Error("completed export should not report failure")
	}
	if ok.Path != "/tmp/a.json" {
		t.Errorf("Path = %q", ok.Path)
	}

	bad := NewExportFailedEvent("s", ExportAgentWithMessage, errors.New("denied"))
	if !bad.Failed() {
		t.Error("failed export should report failure")
	}
	if bad.Kind != ExportAgentWithMessage {
		t.Errorf("Kind = %q", bad.Kind)
	}
}

func TestNewGroupEvent(t *testing.T) {
	event := NewGroupEvent(GroupEventCreated, "g1", "Work")
	if event.GroupID != "g1" || event.Name != "Work" || event.Type != GroupEventCreated {
		t.Errorf("unexpected event: %+v", event)
	}
}
