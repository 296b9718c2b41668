package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/guilhermegouw/agentdeck/internal/db"
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/message"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

type fakeSessions map[string]*session.Session

func (f fakeSessions) Get(_ context.Context, id string) (*session.Session, error) {
	s, ok := f[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}

type fakeMessages map[string][]*message.Message

func (f fakeMessages) GetBySession(_ context.Context, id string) ([]*message.Message, error) {
	return f[id], nil
}

var fixedTime = time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

func fixtures() (fakeSessions, fakeMessages) {
	sessions := fakeSessions{
		"s1": {
			ID:           "s1",
			Title:        "Code Reviewer",
			SystemPrompt: "Review **carefully**.",
			Model:        "m-large",
			Provider:     "acme",
			Group:        "g1",
			Pinned:       true,
			CreatedAt:    fixedTime,
			UpdatedAt:    fixedTime,
		},
	}
	messages := fakeMessages{
		"s1": {
			{ID: "m1", SessionID: "s1", Role: message.RoleUser, Parts: []message.Part{message.NewTextPart("hi")}, CreatedAt: fixedTime},
			{ID: "m2", SessionID: "s1", Role: message.RoleAssistant, Parts: []message.Part{message.NewTextPart("hello")}, CreatedAt: fixedTime.Add(time.Second)},
		},
	}
	return sessions, messages
}

func TestBuildDocument(t *testing.T) {
	sessions, messages := fixtures()
	sess := sessions["s1"]

	t.Run("agent export has no messages", func(t *testing.T) {
		doc, err := BuildDocument(events.ExportAgent, sess, messages["s1"], fixedTime)
		if err != nil {
			t.Fatalf("BuildDocument() error = %v", err)
		}
		if err := Validate(doc); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		res := gjson.ParseBytes(doc)
		if res.Get("exportType").String() != TypeAgents {
			t.Errorf("exportType = %q", res.Get("exportType").String())
		}
		if res.Get("state.messages").Exists() {
			t.Error("agent export must not carry messages")
		}
		if res.Get("state.sessions.0.systemPrompt").String() != sess.SystemPrompt {
			t.Errorf("systemPrompt = %q", res.Get("state.sessions.0.systemPrompt").String())
		}
		if !res.Get("state.sessions.0.pinned").Bool() {
			t.Error("pinned flag should be exported")
		}
	})

	t.Run("session export carries ordered messages", func(t *testing.T) {
		doc, err := BuildDocument(events.ExportAgentWithMessage, sess, messages["s1"], fixedTime)
		if err != nil {
			t.Fatalf("BuildDocument() error = %v", err)
		}
		if err := Validate(doc); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		sum := Summarize(doc)
		if sum.Type != TypeSessions || sum.Messages != 2 || sum.Title != "Code Reviewer" {
			t.Errorf("Summarize() = %+v", sum)
		}
		res := gjson.ParseBytes(doc)
		if res.Get("state.messages.0.content").String() != "hi" {
			t.Errorf("first message = %q", res.Get("state.messages.0.content").String())
		}
		if res.Get("state.messages.1.parts.0.type").String() != "text" {
			t.Errorf("parts not embedded: %s", res.Get("state.messages.1.parts").Raw)
		}
	})

	t.Run("session export without history keeps an empty list", func(t *testing.T) {
		doc, err := BuildDocument(events.ExportAgentWithMessage, sess, nil, fixedTime)
		if err != nil {
			t.Fatalf("BuildDocument() error = %v", err)
		}
		if err := Validate(doc); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if n := gjson.GetBytes(doc, "state.messages.#").Int(); n != 0 {
			t.Errorf("messages = %d, want 0", n)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"unknown type", `{"exportType":"x","version":1,"state":{"sessions":[{"id":"a"}]}}`},
		{"wrong version", `{"exportType":"agents","version":2,"state":{"sessions":[{"id":"a"}]}}`},
		{"no sessions", `{"exportType":"agents","version":1,"state":{"sessions":[]}}`},
		{"session without id", `{"exportType":"agents","version":1,"state":{"sessions":[{}]}}`},
		{"agent with messages", `{"exportType":"agents","version":1,"state":{"sessions":[{"id":"a"}],"messages":[]}}`},
		{"session without messages", `{"exportType":"sessions","version":1,"state":{"sessions":[{"id":"a"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate([]byte(tt.doc)); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Validate() error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		title string
		kind  events.ExportKind
		want  string
	}{
		{"Code Reviewer", events.ExportAgent, "code-reviewer-agent-20250601-123045.json"},
		{"  Hello, World!! ", events.ExportAgentWithMessage, "hello-world-agentWithMessage-20250601-123045.json"},
		{"???", events.ExportAgent, "session-agent-20250601-123045.json"},
	}
	for _, tt := range tests {
		if got := FileName(tt.title, tt.kind, fixedTime); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
	long := FileName(strings.Repeat("a", 100), events.ExportAgent, fixedTime)
	if len(long) > maxSlugLen+len("-agent-20250601-123045.json") {
		t.Errorf("slug not truncated: %q", long)
	}
}

func TestService_Export(t *testing.T) {
	sessions, messages := fixtures()
	dir := filepath.Join(t.TempDir(), "exports")
	var copied []string
	svc := NewService(sessions, messages, dir,
		WithClock(func() time.Time { return fixedTime }),
		WithCopyPath(true),
		WithClipboard(func(s string) error { copied = append(copied, s); return nil }))

	ctx := context.Background()
	path, err := svc.ExportSession(ctx, "s1")
	if err != nil {
		t.Fatalf("ExportSession() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path %q not under %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if Summarize(data).Messages != 2 {
		t.Errorf("written export lacks messages")
	}
	if len(copied) != 1 || copied[0] != path {
		t.Errorf("clipboard = %v, want [%s]", copied, path)
	}

	if sessions["s1"].Pinned != true || sessions["s1"].Group != "g1" {
		t.Error("export must not mutate the session")
	}

	if _, err := svc.ExportAgent(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("ExportAgent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestService_FireAndForget(t *testing.T) {
	sessions, messages := fixtures()
	broker := pubsub.NewBroker[events.ExportEvent]("export")
	defer broker.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := broker.Subscribe(ctx)

	svc := NewService(sessions, messages, t.TempDir(), WithBroker(broker))

	next := func() events.ExportEvent {
		t.Helper()
		select {
		case ev := <-sub:
			return ev.Payload
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for export event")
		}
		return events.ExportEvent{}
	}

	svc.ExportSingleAgent("s1")
	ev := next()
	if ev.Failed() || ev.Kind != events.ExportAgent || ev.Path == "" {
		t.Errorf("agent event = %+v", ev)
	}

	svc.ExportSingleSession("missing")
	ev = next()
	if !ev.Failed() || ev.Kind != events.ExportAgentWithMessage {
		t.Errorf("failed event = %+v", ev)
	}
}

func TestService_ExportRecordedHistory(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "agentdeck.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // test cleanup

	ctx := context.Background()
	sessions := session.NewService(session.NewSQLiteStore(database.Conn()), nil)
	messages := message.NewService(message.NewSQLiteStore(database.Conn()), sessions)

	sess, err := sessions.Create(ctx, "Reviewer", session.WithSystemPrompt("Be brief."))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := messages.Record(ctx, sess.ID, message.RoleUser, "review this", ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := messages.Record(ctx, sess.ID, message.RoleAssistant, "looks fine", "read both files"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	svc := NewService(sessions, messages, t.TempDir())
	path, err := svc.ExportSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ExportSession() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	res := gjson.ParseBytes(data)
	checks := map[string]string{
		"state.messages.#":                   "2",
		"state.messages.0.role":              "user",
		"state.messages.0.content":           "review this",
		"state.messages.1.content":           "looks fine",
		"state.messages.1.parts.0.type":      "reasoning",
		"state.messages.1.parts.0.reasoning": "read both files",
		"state.messages.1.parts.1.text":      "looks fine",
		"state.sessions.0.systemPrompt":      "Be brief.",
	}
	for key, want := range checks {
		if got := res.Get(key).String(); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}

	agentPath, err := svc.ExportAgent(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ExportAgent() error = %v", err)
	}
	agentDoc, err := os.ReadFile(agentPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if gjson.GetBytes(agentDoc, "state.messages").Exists() {
		t.Error("agent export should not carry the history")
	}

	got, err := sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", got.MessageCount)
	}
}
