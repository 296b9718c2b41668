package group

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
)

// Service manages the group catalog with pub/sub event publishing.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.GroupEvent]
}

// NewService creates a new group service. broker may be nil.
func NewService(store Store, broker *pubsub.Broker[events.GroupEvent]) *Service {
	return &Service{
		store:  store,
		broker: broker,
	}
}

// Create adds a group with a trimmed, unique name.
func (s *Service) Create(ctx context.Context, name string) (*Group, error) {
	name, err := s.checkName(ctx, "", name)
	if err != nil {
		return nil, err
	}

	g, err := s.store.Create(ctx, uuid.New().String(), name)
	if err != nil {
		return nil, err
	}

	s.publish(pubsub.EventCreated, events.NewGroupEvent(events.GroupEventCreated, g.ID, g.Name))
	return g, nil
}

// Get retrieves a group by ID.
func (s *Service) Get(ctx context.Context, id string) (*Group, error) {
	if IsDefault(id) {
		return nil, ErrReserved
	}
	return s.store.Get(ctx, id)
}

// List returns the catalog in display order.
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	return s.store.List(ctx)
}

// Catalog returns the catalog as values, the shape menus consume.
func (s *Service) Catalog(ctx context.Context) ([]Group, error) {
	groups, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out, nil
}

// Rename changes a group's display name.
func (s *Service) Rename(ctx context.Context, id, name string) error {
	if IsDefault(id) {
		return ErrReserved
	}
	name, err := s.checkName(ctx, id, name)
	if err != nil {
		return err
	}
	if err := s.store.Rename(ctx, id, name); err != nil {
		return err
	}

	s.publish(pubsub.EventUpdated, events.NewGroupEvent(events.GroupEventRenamed, id, name))
	return nil
}

// Delete removes a group; its sessions fall back to the default group.
func (s *Service) Delete(ctx context.Context, id string) error {
	if IsDefault(id) {
		return ErrReserved
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(pubsub.EventDeleted, events.NewGroupEvent(events.GroupEventDeleted, id, ""))
	return nil
}

// checkName trims name and rejects blanks and names used by another group.
func (s *Service) checkName(ctx context.Context, selfID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	groups, err := s.store.List(ctx)
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if g.ID != selfID && strings.EqualFold(g.Name, name) {
			return "", ErrDuplicateName
		}
	}
	return name, nil
}

func (s *Service) publish(typ pubsub.EventType, ev events.GroupEvent) {
	if s.broker != nil {
		s.broker.Publish(typ, ev)
	}
}
