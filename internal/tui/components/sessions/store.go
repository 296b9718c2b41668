package sessions

import (
	"context"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/session"
)

// ServiceStore runs action menu mutations against the session service.
// Calls are fire-and-forget: failures are published by the service and only
// logged here.
type ServiceStore struct {
	svc *session.Service
}

// NewServiceStore wraps svc.
func NewServiceStore(svc *session.Service) *ServiceStore {
	return &ServiceStore{svc: svc}
}

// PinSession sets the pinned flag.
func (s *ServiceStore) PinSession(id string, pinned bool) {
	if err := s.svc.Pin(context.Background(), id, pinned); err != nil {
		debug.Error("sessions", err, "pin "+id)
	}
}

// DuplicateSession copies a session.
func (s *ServiceStore) DuplicateSession(id string) {
	if _, err := s.svc.Duplicate(context.Background(), id); err != nil {
		debug.Error("sessions", err, "duplicate "+id)
	}
}

// RemoveSession deletes a session.
func (s *ServiceStore) RemoveSession(id string) {
	if err := s.svc.Delete(context.Background(), id); err != nil {
		debug.Error("sessions", err, "remove "+id)
	}
}

// UpdateSessionGroup moves a session into groupID.
func (s *ServiceStore) UpdateSessionGroup(id, groupID string) {
	if err := s.svc.Move(context.Background(), id, groupID); err != nil {
		debug.Error("sessions", err, "move "+id+" to "+groupID)
	}
}
