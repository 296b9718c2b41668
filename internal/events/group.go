package events

import "time"

// GroupEventType represents group catalog event types.
type GroupEventType string

// Group event type constants.
const (
	GroupEventCreated GroupEventType = "created"
	GroupEventRenamed GroupEventType = "renamed"
	GroupEventDeleted GroupEventType = "deleted"
)

// GroupEvent is published whenever the group catalog changes.
type GroupEvent struct {
	GroupID   string
	Name      string
	Type      GroupEventType
	Timestamp time.Time
}

// NewGroupEvent creates a group catalog event.
func NewGroupEvent(typ GroupEventType, id, name string) GroupEvent {
	return GroupEvent{
		GroupID:   id,
		Name:      name,
		Type:      typ,
		Timestamp: time.Now(),
	}
}
