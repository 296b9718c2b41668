package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/group"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
)

// DuplicateSuffix is appended to the title of a duplicated session.
const DuplicateSuffix = " Copy"

// CreateOption configures a session at creation.
type CreateOption func(*Session)

// WithGroup places the new session in groupID.
func WithGroup(groupID string) CreateOption {
	return func(s *Session) { s.Group = groupID }
}

// WithSystemPrompt sets the agent system prompt.
func WithSystemPrompt(prompt string) CreateOption {
	return func(s *Session) { s.SystemPrompt = prompt }
}

// WithModel sets the provider and model the agent runs on.
func WithModel(provider, model string) CreateOption {
	return func(s *Session) {
		s.Provider = provider
		s.Model = model
	}
}

// WithDescription sets the session description.
func WithDescription(desc string) CreateOption {
	return func(s *Session) { s.Description = desc }
}

// Service manages sessions with pub/sub event publishing.
//
// Mutations publish a failed event on error so observers that did not
// initiate the call can still report it.
type Service struct {
	store   Store
	broker  *pubsub.Broker[events.SessionEvent]
	current string
	mu      sync.RWMutex
}

// NewService creates a new session service.
func NewService(store Store, broker *pubsub.Broker[events.SessionEvent]) *Service {
	return &Service{
		store:  store,
		broker: broker,
	}
}

// Create creates a new session with the given title.
func (s *Service) Create(ctx context.Context, title string, opts ...CreateOption) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Group:     group.DefaultID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(sess)
	}

	created, err := s.store.Create(ctx, sess)
	if err != nil {
		return nil, s.fail(sess.ID, "create", err)
	}

	s.publish(pubsub.EventCreated, events.NewSessionCreatedEvent(created.ID, created.Title))
	return created, nil
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// List returns all sessions.
func (s *Service) List(ctx context.Context) ([]*Session, error) {
	return s.store.List(ctx)
}

// ListWithPreview returns all sessions with first message preview.
func (s *Service) ListWithPreview(ctx context.Context) ([]*SessionWithPreview, error) {
	return s.store.ListWithPreview(ctx)
}

// Search searches sessions by title keyword.
func (s *Service) Search(ctx context.Context, keyword string) ([]*Session, error) {
	return s.store.Search(ctx, keyword)
}

// SearchWithPreview searches sessions with first message preview.
func (s *Service) SearchWithPreview(ctx context.Context, keyword string) ([]*SessionWithPreview, error) {
	return s.store.SearchWithPreview(ctx, keyword)
}

// SetCurrent sets the current session ID.
func (s *Service) SetCurrent(id string) {
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()

	s.publish(pubsub.EventUpdated, events.NewSessionSwitchedEvent(id, ""))
}

// CurrentID returns the current session ID.
func (s *Service) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// UpdateTitle updates the title of a session.
func (s *Service) UpdateTitle(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if err := s.store.UpdateTitle(ctx, id, title); err != nil {
		return s.fail(id, "rename", err)
	}
	s.publish(pubsub.EventUpdated, events.NewSessionUpdatedEvent(id, title))
	return nil
}

// Pin sets the pin flag of a session.
func (s *Service) Pin(ctx context.Context, id string, pinned bool) error {
	if IsLocked(id) {
		return s.fail(id, "pin", ErrLockedSession)
	}
	if err := s.store.SetPinned(ctx, id, pinned); err != nil {
		return s.fail(id, "pin", err)
	}
	s.publish(pubsub.EventUpdated, events.NewSessionPinnedEvent(id, pinned))
	return nil
}

// Duplicate copies a session's configuration into a new unpinned session in
// the same group. Messages are not copied.
func (s *Service) Duplicate(ctx context.Context, id string) (*Session, error) {
	if IsLocked(id) {
		return nil, s.fail(id, "duplicate", ErrLockedSession)
	}
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.fail(id, "duplicate", err)
	}

	now := time.Now()
	dup := *src
	dup.ID = uuid.New().String()
	dup.Title = src.DisplayTitle() + DuplicateSuffix
	dup.Pinned = false
	dup.MessageCount = 0
	dup.CreatedAt = now
	dup.UpdatedAt = now

	created, err := s.store.Create(ctx, &dup)
	if err != nil {
		return nil, s.fail(id, "duplicate", err)
	}
	s.publish(pubsub.EventCreated, events.NewSessionDuplicatedEvent(created.ID, src.ID, created.Title))
	return created, nil
}

// Move assigns a session to groupID. An empty groupID means the default list.
func (s *Service) Move(ctx context.Context, id, groupID string) error {
	if IsLocked(id) {
		return s.fail(id, "move", ErrLockedSession)
	}
	groupID = group.Normalize(groupID)
	if err := s.store.UpdateGroup(ctx, id, groupID); err != nil {
		return s.fail(id, "move", err)
	}
	s.publish(pubsub.EventUpdated, events.NewSessionMovedEvent(id, groupID))
	return nil
}

// Delete removes a session by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if IsLocked(id) {
		return s.fail(id, "delete", ErrLockedSession)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(id, "delete", err)
	}

	s.mu.Lock()
	if s.current == id {
		s.current = ""
	}
	s.mu.Unlock()

	s.publish(pubsub.EventDeleted, events.NewSessionDeletedEvent(id))
	return nil
}

// IncrementMessageCount increments the message count for a session.
func (s *Service) IncrementMessageCount(ctx context.Context, id string) error {
	if err := s.store.IncrementMessageCount(ctx, id); err != nil {
		return err
	}
	s.publish(pubsub.EventUpdated, events.NewSessionMessageAddedEvent(id))
	return nil
}

func (s *Service) fail(id, op string, err error) error {
	debug.Error("session", err, op+" "+id)
	s.publish(pubsub.EventFailed, events.NewSessionFailedEvent(id, op, err))
	return fmt.Errorf("%s session %s: %w", op, id, err)
}

func (s *Service) publish(typ pubsub.EventType, evt events.SessionEvent) {
	if s.broker != nil {
		s.broker.Publish(typ, evt)
	}
}
