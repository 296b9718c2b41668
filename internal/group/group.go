// Package group manages the user-defined session group catalog.
package group

import (
	"context"
	"errors"
	"time"
)

// DefaultID is the reserved group every session belongs to unless moved.
// It is implicit and never stored in the catalog.
const DefaultID = "default"

var (
	// ErrNotFound is returned when a group is not found.
	ErrNotFound = errors.New("group not found")
	// ErrDuplicateName is returned when a group name is already taken.
	ErrDuplicateName = errors.New("group name already exists")
	// ErrEmptyName is returned when a group name is blank.
	ErrEmptyName = errors.New("group name is empty")
	// ErrReserved is returned when an operation targets the default group.
	ErrReserved = errors.New("default group cannot be modified")
)

// Group is a user-defined catalog entry.
type Group struct {
	ID        string
	Name      string
	Sort      int
	CreatedAt time.Time
}

// Normalize maps the empty GroupRef to DefaultID.
func Normalize(id string) string {
	if id == "" {
		return DefaultID
	}
	return id
}

// IsDefault reports whether id refers to the default group.
func IsDefault(id string) bool {
	return Normalize(id) == DefaultID
}

// Contains reports whether id is one of the catalog entries.
func Contains(groups []Group, id string) bool {
	for i := range groups {
		if groups[i].ID == id {
			return true
		}
	}
	return false
}

// Store defines the interface for group persistence.
type Store interface {
	// Create inserts a group at the end of the catalog.
	Create(ctx context.Context, id, name string) (*Group, error)

	// Get retrieves a group by ID.
	Get(ctx context.Context, id string) (*Group, error)

	// List returns the catalog in display order.
	List(ctx context.Context) ([]*Group, error)

	// Rename changes a group's display name.
	Rename(ctx context.Context, id, name string) error

	// Delete removes a group and moves its sessions to the default group.
	Delete(ctx context.Context, id string) error
}
