// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
)

// SessionEventMsg wraps a session event for the TUI.
type SessionEventMsg struct {
	Event pubsub.Event[events.SessionEvent]
}

// GroupEventMsg wraps a group catalog event for the TUI.
type GroupEventMsg struct {
	Event pubsub.Event[events.GroupEvent]
}

// ExportEventMsg wraps an export outcome for the TUI.
type ExportEventMsg struct {
	Event pubsub.Event[events.ExportEvent]
}
