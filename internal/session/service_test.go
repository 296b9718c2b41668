package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
)

func setupService(t *testing.T) (*Service, <-chan pubsub.Event[events.SessionEvent]) {
	t.Helper()

	database := setupTestDB(t)
	broker := pubsub.NewBroker[events.SessionEvent]("session")
	t.Cleanup(broker.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return NewService(NewSQLiteStore(database.Conn()), broker), broker.Subscribe(ctx)
}

func expectEvent(t *testing.T, sub <-chan pubsub.Event[events.SessionEvent], typ events.SessionEventType) events.SessionEvent {
	t.Helper()
	select {
	case ev := <-sub:
		if ev.Payload.Type != typ {
			t.Fatalf("event type = %q, want %q", ev.Payload.Type, typ)
		}
		return ev.Payload
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %s event", typ)
	}
	return events.SessionEvent{}
}

func TestService_Create(t *testing.T) {
	svc, sub := setupService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "  Planner ", WithSystemPrompt("Plan things."), WithModel("acme", "m1"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.Title != "Planner" {
		t.Errorf("Title = %q, want %q", sess.Title, "Planner")
	}
	if sess.Group != group.DefaultID {
		t.Errorf("Group = %q, want default", sess.Group)
	}
	if sess.SystemPrompt != "Plan things." || sess.Provider != "acme" || sess.Model != "m1" {
		t.Errorf("options not applied: %+v", sess)
	}

	ev := expectEvent(t, sub, events.SessionEventCreated)
	if ev.SessionID != sess.ID {
		t.Errorf("event SessionID = %q, want %q", ev.SessionID, sess.ID)
	}
}

func TestService_Pin(t *testing.T) {
	svc, sub := setupService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Pin")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventCreated)

	if err := svc.Pin(ctx, sess.ID, true); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventPinned)

	got, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !Pinned(got) {
		t.Error("session should be pinned")
	}

	if err := svc.Pin(ctx, sess.ID, false); err != nil {
		t.Fatalf("Pin(false) error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventUnpinned)
}

func TestService_Duplicate(t *testing.T) {
	svc, sub := setupService(t)
	ctx := context.Background()

	src, err := svc.Create(ctx, "Writer", WithSystemPrompt("Write."))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventCreated)
	if err := svc.Pin(ctx, src.ID, true); err != nil {
		t.Fatalf("Pin() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventPinned)

	dup, err := svc.Duplicate(ctx, src.ID)
	if err != nil {
		t.Fatalf("Duplicate() error = %v", err)
	}
	if dup.ID == src.ID {
		t.Error("duplicate must have a new ID")
	}
	if dup.Title != "Writer"+DuplicateSuffix {
		t.Errorf("Title = %q, want %q", dup.Title, "Writer"+DuplicateSuffix)
	}
	if dup.SystemPrompt != src.SystemPrompt {
		t.Errorf("SystemPrompt = %q, want %q", dup.SystemPrompt, src.SystemPrompt)
	}
	if dup.Pinned {
		t.Error("duplicate should not be pinned")
	}

	ev := expectEvent(t, sub, events.SessionEventDuplicated)
	if ev.SourceID != src.ID || ev.SessionID != dup.ID {
		t.Errorf("event = %+v", ev)
	}
}

func TestService_Move(t *testing.T) {
	svc, sub := setupService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Mover")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventCreated)

	t.Run("unknown group fails and publishes", func(t *testing.T) {
		err := svc.Move(ctx, sess.ID, "ghost")
		if !errors.Is(err, group.ErrNotFound) {
			t.Fatalf("Move() error = %v, want group.ErrNotFound", err)
		}
		ev := expectEvent(t, sub, events.SessionEventFailed)
		if ev.Op != "move" || ev.Err == "" {
			t.Errorf("failed event = %+v", ev)
		}
	})

	t.Run("empty group moves to default", func(t *testing.T) {
		if err := svc.Move(ctx, sess.ID, ""); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		ev := expectEvent(t, sub, events.SessionEventMoved)
		if ev.Group != group.DefaultID {
			t.Errorf("event Group = %q, want default", ev.Group)
		}
	})
}

func TestService_Delete(t *testing.T) {
	svc, sub := setupService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "Doomed")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventCreated)
	svc.SetCurrent(sess.ID)
	expectEvent(t, sub, events.SessionEventSwitched)

	if err := svc.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	expectEvent(t, sub, events.SessionEventDeleted)
	if svc.CurrentID() != "" {
		t.Errorf("CurrentID() = %q, want empty after delete", svc.CurrentID())
	}

	if err := svc.Delete(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	expectEvent(t, sub, events.SessionEventFailed)
}

func TestService_LockedInbox(t *testing.T) {
	svc, sub := setupService(t)
	ctx := context.Background()

	ops := map[string]func() error{
		"pin":       func() error { return svc.Pin(ctx, InboxID, true) },
		"duplicate": func() error { _, err := svc.Duplicate(ctx, InboxID); return err },
		"move":      func() error { return svc.Move(ctx, InboxID, "") },
		"delete":    func() error { return svc.Delete(ctx, InboxID) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			if !errors.Is(err, ErrLockedSession) {
				t.Fatalf("%s error = %v, want ErrLockedSession", name, err)
			}
			if !strings.Contains(err.Error(), InboxID) {
				t.Errorf("error %q should name the session", err)
			}
			ev := expectEvent(t, sub, events.SessionEventFailed)
			if ev.Op != name {
				t.Errorf("failed event Op = %q, want %q", ev.Op, name)
			}
		})
	}

	if _, err := svc.Get(ctx, InboxID); err != nil {
		t.Errorf("inbox should survive: %v", err)
	}
}
