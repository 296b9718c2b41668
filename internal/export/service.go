package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/message"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

// SessionGetter loads the session being exported.
type SessionGetter interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// MessageLister loads a session's message history.
type MessageLister interface {
	GetBySession(ctx context.Context, sessionID string) ([]*message.Message, error)
}

// Option configures a Service.
type Option func(*Service)

// WithBroker publishes export outcomes to broker.
func WithBroker(broker pubsub.Publisher[events.ExportEvent]) Option {
	return func(s *Service) { s.broker = broker }
}

// WithCopyPath copies each written path to the system clipboard.
func WithCopyPath(enabled bool) Option {
	return func(s *Service) { s.copyPath = enabled }
}

// WithClock overrides the time source used for file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithClipboard overrides the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(s *Service) { s.writeClipboard = write }
}

// Service writes export documents. Exports never mutate session state.
type Service struct {
	sessions       SessionGetter
	messages       MessageLister
	dir            string
	broker         pubsub.Publisher[events.ExportEvent]
	copyPath       bool
	now            func() time.Time
	writeClipboard func(string) error
}

// NewService creates an export service writing into dir.
func NewService(sessions SessionGetter, messages MessageLister, dir string, opts ...Option) *Service {
	s := &Service{
		sessions:       sessions,
		messages:       messages,
		dir:            dir,
		now:            time.Now,
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the export directory.
func (s *Service) Dir() string {
	return s.dir
}

// ExportAgent writes the session configuration without messages.
func (s *Service) ExportAgent(ctx context.Context, id string) (string, error) {
	return s.export(ctx, id, events.ExportAgent)
}

// ExportSession writes the session configuration and its full history.
func (s *Service) ExportSession(ctx context.Context, id string) (string, error) {
	return s.export(ctx, id, events.ExportAgentWithMessage)
}

// ExportSingleAgent runs ExportAgent in the background. The outcome is
// published to the broker.
func (s *Service) ExportSingleAgent(id string) {
	go s.run(id, events.ExportAgent)
}

// ExportSingleSession runs ExportSession in the background. The outcome is
// published to the broker.
func (s *Service) ExportSingleSession(id string) {
	go s.run(id, events.ExportAgentWithMessage)
}

func (s *Service) run(id string, kind events.ExportKind) {
	//nolint:errcheck // Outcome is published by export.
	_, _ = s.export(context.Background(), id, kind)
}

func (s *Service) export(ctx context.Context, id string, kind events.ExportKind) (string, error) {
	path, err := s.write(ctx, id, kind)
	if err != nil {
		debug.Error("export", err, string(kind)+" "+id)
		s.publish(pubsub.EventFailed, events.NewExportFailedEvent(id, kind, err))
		return "", err
	}

	debug.Event("export", string(kind), path)
	if s.copyPath {
		if err := s.writeClipboard(path); err != nil {
			debug.Error("export", err, "copying path to clipboard")
		}
	}
	s.publish(pubsub.EventCompleted, events.NewExportCompletedEvent(id, kind, path))
	return path, nil
}

func (s *Service) write(ctx context.Context, id string, kind events.ExportKind) (string, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("loading session %s: %w", id, err)
	}

	var msgs []*message.Message
	if kind == events.ExportAgentWithMessage {
		if msgs, err = s.messages.GetBySession(ctx, id); err != nil {
			return "", fmt.Errorf("loading messages of %s: %w", id, err)
		}
	}

	now := s.now()
	doc, err := BuildDocument(kind, sess, msgs, now)
	if err != nil {
		return "", fmt.Errorf("building export: %w", err)
	}
	if err := Validate(doc); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.dir, FileName(sess.DisplayTitle(), kind, now))
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

func (s *Service) publish(typ pubsub.EventType, evt events.ExportEvent) {
	if s.broker != nil {
		s.broker.Publish(typ, evt)
	}
}
