package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guilhermegouw/agentdeck/internal/group"
)

const sessionColumns = `id, title, description, avatar, system_prompt, model, provider,
	group_id, pinned, message_count, created_at, updated_at`

// previewColumn selects the first user message parts for a session row.
const previewColumn = `(SELECT m.parts FROM messages m
	WHERE m.session_id = sessions.id AND m.role = 'user'
	ORDER BY m.created_at ASC LIMIT 1) AS first_message`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed session store.
func NewSQLiteStore(conn *sql.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

// Create inserts a new session.
func (s *SQLiteStore) Create(ctx context.Context, sess *Session) (*Session, error) {
	row := s.conn.QueryRowContext(ctx, `
		INSERT INTO sessions (id, title, description, avatar, system_prompt, model, provider,
			group_id, pinned, message_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		RETURNING `+sessionColumns,
		sess.ID, sess.Title, sess.Description, sess.Avatar, sess.SystemPrompt,
		sess.Model, sess.Provider, group.Normalize(sess.Group), boolToInt(sess.Pinned),
		sess.CreatedAt.UnixMilli(), sess.UpdatedAt.UnixMilli())

	created, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return created, nil
}

// Get retrieves a session by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return sess, nil
}

// List returns all sessions ordered by updated_at descending.
func (s *SQLiteStore) List(ctx context.Context) ([]*Session, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// ListWithPreview returns all sessions with first message preview.
func (s *SQLiteStore) ListWithPreview(ctx context.Context) ([]*SessionWithPreview, error) {
	return s.queryWithPreview(ctx,
		`SELECT `+sessionColumns+`, `+previewColumn+` FROM sessions ORDER BY updated_at DESC, id ASC`)
}

// Search searches sessions by title keyword.
// Supports multi-word search: "bug auth" matches "Authentication Bug Fix".
func (s *SQLiteStore) Search(ctx context.Context, keyword string) ([]*Session, error) {
	withPreview, err := s.SearchWithPreview(ctx, keyword)
	if err != nil {
		return nil, err
	}
	sessions := make([]*Session, len(withPreview))
	for i := range withPreview {
		sessions[i] = &withPreview[i].Session
	}
	return sessions, nil
}

// SearchWithPreview searches sessions by title with first message preview.
func (s *SQLiteStore) SearchWithPreview(ctx context.Context, keyword string) ([]*SessionWithPreview, error) {
	return s.queryWithPreview(ctx,
		`SELECT `+sessionColumns+`, `+previewColumn+` FROM sessions
		WHERE title LIKE '%' || ? || '%' ORDER BY updated_at DESC, id ASC`,
		prepareSearchTerm(keyword))
}

func (s *SQLiteStore) queryWithPreview(ctx context.Context, query string, args ...any) ([]*SessionWithPreview, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions with preview: %w", err)
	}
	defer rows.Close()

	var sessions []*SessionWithPreview
	for rows.Next() {
		var first sql.NullString
		sess, err := scanSession(rows, &first)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, &SessionWithPreview{
			Session:      *sess,
			FirstMessage: extractTextFromParts(first.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions with preview: %w", err)
	}
	return sessions, nil
}

// UpdateTitle updates the title of a session.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, id, title string) error {
	return s.update(ctx, "updating session title", `title = ?`, title, id)
}

// SetPinned sets the pin flag.
func (s *SQLiteStore) SetPinned(ctx context.Context, id string, pinned bool) error {
	return s.update(ctx, "setting pinned", `pinned = ?`, boolToInt(pinned), id)
}

// UpdateGroup moves a session to groupID, which must be the default group
// or a catalog entry.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, id, groupID string) error {
	groupID = group.Normalize(groupID)
	if !group.IsDefault(groupID) {
		var exists int
		err := s.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM session_groups WHERE id = ?`, groupID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking group: %w", err)
		}
		if exists == 0 {
			return group.ErrNotFound
		}
	}
	return s.update(ctx, "updating session group", `group_id = ?`, groupID, id)
}

// IncrementMessageCount increments the message count for a session.
func (s *SQLiteStore) IncrementMessageCount(ctx context.Context, id string) error {
	now := time.Now().UnixMilli()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE sessions SET message_count = message_count + 1, updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("incrementing message count: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a session by ID. Messages are removed by cascade.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return requireAffected(res)
}

// update sets one column and bumps updated_at.
func (s *SQLiteStore) update(ctx context.Context, op, set string, value any, id string) error {
	now := time.Now().UnixMilli()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE sessions SET `+set+`, updated_at = ? WHERE id = ?`, value, now, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSession scans the sessionColumns followed by any extra destinations.
func scanSession(row scanner, extra ...any) (*Session, error) {
	var (
		sess         Session
		pinned       int64
		messageCount int64
		createdAt    int64
		updatedAt    int64
	)
	dest := []any{
		&sess.ID, &sess.Title, &sess.Description, &sess.Avatar, &sess.SystemPrompt,
		&sess.Model, &sess.Provider, &sess.Group, &pinned, &messageCount,
		&createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	sess.Pinned = pinned != 0
	sess.MessageCount = int(messageCount)
	sess.CreatedAt = time.UnixMilli(createdAt)
	sess.UpdatedAt = time.UnixMilli(updatedAt)
	return &sess, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// prepareSearchTerm converts a search keyword for multi-word matching.
// "bug auth" becomes "bug%auth" to match titles containing both words in order.
func prepareSearchTerm(keyword string) string {
	parts := strings.Fields(keyword)
	return strings.Join(parts, "%")
}

// extractTextFromParts extracts text content from JSON parts array.
// Format: [{"type":"text","text":"..."}]
func extractTextFromParts(partsJSON string) string {
	if partsJSON == "" {
		return ""
	}

	type part struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var parts []part
	if err := json.Unmarshal([]byte(partsJSON), &parts); err != nil {
		return ""
	}
	for _, p := range parts {
		if p.Type == "text" && p.Text != "" {
			return p.Text
		}
	}
	return ""
}
