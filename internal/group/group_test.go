package group

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/guilhermegouw/agentdeck/internal/db"
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // Intentionally ignoring close error in test cleanup
	return database
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultID},
		{DefaultID, DefaultID},
		{"g1", "g1"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if !IsDefault("") || IsDefault("g1") {
		t.Error("IsDefault mismatch")
	}
}

func TestContains(t *testing.T) {
	groups := []Group{{ID: "g1", Name: "Work"}, {ID: "g2", Name: "Home"}}
	if !Contains(groups, "g2") {
		t.Error("expected g2 to be found")
	}
	if Contains(groups, DefaultID) {
		t.Error("default group is never part of the catalog")
	}
}

func TestSQLiteStore(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()

	t.Run("creates groups in insertion order", func(t *testing.T) {
		for _, g := range []struct{ id, name string }{{"g1", "Work"}, {"g2", "Home"}, {"g3", "Misc"}} {
			if _, err := store.Create(ctx, g.id, g.name); err != nil {
				t.Fatalf("Create(%s) error = %v", g.id, err)
			}
		}

		groups, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(groups) != 3 {
			t.Fatalf("List() returned %d groups, want 3", len(groups))
		}
		for i, want := range []string{"g1", "g2", "g3"} {
			if groups[i].ID != want {
				t.Errorf("groups[%d].ID = %q, want %q", i, groups[i].ID, want)
			}
			if groups[i].Sort != i {
				t.Errorf("groups[%d].Sort = %d, want %d", i, groups[i].Sort, i)
			}
		}
	})

	t.Run("rename and get", func(t *testing.T) {
		if err := store.Rename(ctx, "g2", "House"); err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		g, err := store.Get(ctx, "g2")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if g.Name != "House" {
			t.Errorf("Name = %q, want %q", g.Name, "House")
		}
	})

	t.Run("missing group", func(t *testing.T) {
		if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
		if err := store.Rename(ctx, "nope", "x"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Rename() error = %v, want ErrNotFound", err)
		}
		if err := store.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete moves sessions to default", func(t *testing.T) {
		if _, err := database.ExecContext(ctx,
			`INSERT INTO sessions (id, title, group_id, created_at, updated_at) VALUES ('s1', 'x', 'g1', 0, 0)`); err != nil {
			t.Fatalf("inserting session: %v", err)
		}

		if err := store.Delete(ctx, "g1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		var groupID string
		if err := database.QueryRowContext(ctx, `SELECT group_id FROM sessions WHERE id = 's1'`).Scan(&groupID); err != nil {
			t.Fatalf("reading session: %v", err)
		}
		if groupID != DefaultID {
			t.Errorf("group_id = %q, want %q", groupID, DefaultID)
		}
	})
}

func TestService(t *testing.T) {
	database := setupTestDB(t)
	broker := pubsub.NewBroker[events.GroupEvent]("group")
	defer broker.Shutdown()
	svc := NewService(NewSQLiteStore(database.Conn()), broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := broker.Subscribe(ctx)

	expect := func(t *testing.T, typ events.GroupEventType) events.GroupEvent {
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
		return events.GroupEvent{}
	}

	var work *Group
	t.Run("create trims and publishes", func(t *testing.T) {
		var err error
		work, err = svc.Create(ctx, "  Work  ")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if work.Name != "Work" {
			t.Errorf("Name = %q, want %q", work.Name, "Work")
		}
		if ev := expect(t, events.GroupEventCreated); ev.GroupID != work.ID {
			t.Errorf("event GroupID = %q, want %q", ev.GroupID, work.ID)
		}
	})

	t.Run("rejects blank and duplicate names", func(t *testing.T) {
		if _, err := svc.Create(ctx, "   "); !errors.Is(err, ErrEmptyName) {
			t.Errorf("Create(blank) error = %v, want ErrEmptyName", err)
		}
		if _, err := svc.Create(ctx, "work"); !errors.Is(err, ErrDuplicateName) {
			t.Errorf("Create(dup) error = %v, want ErrDuplicateName", err)
		}
	})

	t.Run("default group is reserved", func(t *testing.T) {
		if err := svc.Rename(ctx, DefaultID, "x"); !errors.Is(err, ErrReserved) {
			t.Errorf("Rename(default) error = %v, want ErrReserved", err)
		}
		if err := svc.Delete(ctx, ""); !errors.Is(err, ErrReserved) {
			t.Errorf("Delete(empty) error = %v, want ErrReserved", err)
		}
	})

	t.Run("catalog returns values in order", func(t *testing.T) {
		home, err := svc.Create(ctx, "Home")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		expect(t, events.GroupEventCreated)

		catalog, err := svc.Catalog(ctx)
		if err != nil {
			t.Fatalf("Catalog() error = %v", err)
		}
		if len(catalog) != 2 || catalog[0].ID != work.ID || catalog[1].ID != home.ID {
			t.Errorf("Catalog() = %+v", catalog)
		}
	})

	t.Run("rename keeping own name is allowed", func(t *testing.T) {
		if err := svc.Rename(ctx, work.ID, "WORK"); err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		expect(t, events.GroupEventRenamed)
	})

	t.Run("delete publishes", func(t *testing.T) {
		if err := svc.Delete(ctx, work.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		expect(t, events.GroupEventDeleted)
	})
}
