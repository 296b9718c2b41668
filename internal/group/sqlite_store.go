package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guilhermegouw/agentdeck/internal/db"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed group store.
func NewSQLiteStore(conn *sql.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

// Create inserts a group after every existing group.
func (s *SQLiteStore) Create(ctx context.Context, id, name string) (*Group, error) {
	now := time.Now().UnixMilli()

	row := s.conn.QueryRowContext(ctx, `
		INSERT INTO session_groups (id, name, sort, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(sort), -1) + 1 FROM session_groups), ?)
		RETURNING id, name, sort, created_at`, id, name, now)

	g, err := scanGroup(row)
	if err != nil {
		return nil, fmt.Errorf("creating group: %w", err)
	}
	return g, nil
}

// Get retrieves a group by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Group, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, name, sort, created_at FROM session_groups WHERE id = ?`, id)

	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return g, nil
}

// List returns the catalog ordered by sort then creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]*Group, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, sort, created_at FROM session_groups ORDER BY sort ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}

// Rename changes a group's display name.
func (s *SQLiteStore) Rename(ctx context.Context, id, name string) error {
	res, err := s.conn.ExecContext(ctx, `UPDATE session_groups SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("renaming group: %w", err)
	}
	return requireAffected(res)
}

// Delete removes the group and reassigns its sessions in one transaction.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		now := time.Now().UnixMilli()
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET group_id = ?, updated_at = ? WHERE group_id = ?`,
			DefaultID, now, id); err != nil {
			return fmt.Errorf("moving sessions to default group: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM session_groups WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting group: %w", err)
		}
		return requireAffected(res)
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(row scanner) (*Group, error) {
	var (
		g         Group
		sort      int64
		createdAt int64
	)
	if err := row.Scan(&g.ID, &g.Name, &sort, &createdAt); err != nil {
		return nil, err
	}
	g.Sort = int(sort)
	g.CreatedAt = time.UnixMilli(createdAt)
	return &g, nil
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
