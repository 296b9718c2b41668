package message

import (
	"context"
	"fmt"
)

// SessionCounter tracks per-session message counts.
type SessionCounter interface {
	IncrementMessageCount(ctx context.Context, id string) error
}

// Service manages messages and keeps the owning session's count current.
type Service struct {
	store    Store
	sessions SessionCounter
}

// NewService creates a new message service. sessions may be nil.
func NewService(store Store, sessions SessionCounter) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
	}
}

// Add creates a new message.
func (s *Service) Add(ctx context.Context, msg *Message) error {
	if err := s.store.Create(ctx, msg); err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.IncrementMessageCount(ctx, msg.SessionID); err != nil {
			return fmt.Errorf("updating message count: %w", err)
		}
	}
	return nil
}

// Record builds a message from text and reasoning and stores it.
func (s *Service) Record(ctx context.Context, sessionID string, role Role, text, reasoning string) (*Message, error) {
	msg, err := New(sessionID, role, text, reasoning)
	if err != nil {
		return nil, err
	}
	if err := s.Add(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetBySession returns a session's history, oldest first.
func (s *Service) GetBySession(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.store.GetBySession(ctx, sessionID)
}

// Count returns the number of messages in a session.
func (s *Service) Count(ctx context.Context, sessionID string) (int64, error) {
	return s.store.Count(ctx, sessionID)
}
