package message

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a message is not found.
var ErrNotFound = errors.New("message not found")

const messageColumns = `id, session_id, role, parts, model, provider, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed message store.
func NewSQLiteStore(conn *sql.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

// Create creates a new message.
func (s *SQLiteStore) Create(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	now := time.Now()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	msg.UpdatedAt = now

	parts := msg.Parts
	if parts == nil {
		parts = []Part{}
	}
	partsJSON, err := json.Marshal(parts)
	if err != nil {
		return fmt.Errorf("marshaling parts: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, string(msg.Role), string(partsJSON),
		sql.NullString{String: msg.Model, Valid: msg.Model != ""},
		sql.NullString{String: msg.Provider, Valid: msg.Provider != ""},
		msg.CreatedAt.UnixMilli(), msg.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	return nil
}

// Get retrieves a message by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Message, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return msg, nil
}

// GetBySession returns all messages for a session.
func (s *SQLiteStore) GetBySession(ctx context.Context, sessionID string) ([]*Message, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE session_id = ? ORDER BY created_at ASC, rowid ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting session messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting session messages: %w", err)
	}
	return msgs, nil
}

// Count returns the number of messages in a session.
func (s *SQLiteStore) Count(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return n, nil
}

// Delete removes a message by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	return nil
}

// DeleteBySession removes all messages for a session.
func (s *SQLiteStore) DeleteBySession(ctx context.Context, sessionID string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting session messages: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*Message, error) {
	var (
		msg       Message
		role      string
		parts     string
		model     sql.NullString
		provider  sql.NullString
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&msg.ID, &msg.SessionID, &role, &parts, &model, &provider, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(parts), &msg.Parts); err != nil {
		return nil, fmt.Errorf("unmarshaling parts: %w", err)
	}
	msg.Role = Role(role)
	msg.Model = model.String
	msg.Provider = provider.String
	msg.CreatedAt = time.UnixMilli(createdAt)
	msg.UpdatedAt = time.UnixMilli(updatedAt)
	return &msg, nil
}
