package message

import (
	"context"
)

// Store persists session history. Messages are append-only; a session's
// messages are removed together with the session.
type Store interface {
	Create(ctx context.Context, msg *Message) error
	Get(ctx context.Context, id string) (*Message, error)

	// GetBySession returns a session's history, oldest first.
	GetBySession(ctx context.Context, sessionID string) ([]*Message, error)
	Count(ctx context.Context, sessionID string) (int64, error)

	Delete(ctx context.Context, id string) error
	DeleteBySession(ctx context.Context, sessionID string) error
}
