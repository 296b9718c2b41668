package pubsub

import (
	"fmt"
	"strings"
	"sync"

	"github.com/guilhermegouw/agentdeck/internal/events"
)

// BrokerInfo is the type-erased view of a broker used for debugging.
type BrokerInfo interface {
	Name() string
	IsShutdown() bool
	Metrics() BrokerMetrics
	Shutdown()
}

// Hub owns one broker per domain.
type Hub struct { //nolint:govet // fieldalignment: preserving logical field order
	Session *Broker[events.SessionEvent]
	Group   *Broker[events.GroupEvent]
	Export  *Broker[events.ExportEvent]

	all      []BrokerInfo
	shutdown sync.Once
	done     chan struct{}
}

// NewHub creates a Hub with all domain brokers initialized.
func NewHub() *Hub {
	h := &Hub{
		Session: NewBroker[events.SessionEvent]("session"),
		Group:   NewBroker[events.GroupEvent]("group"),
		Export:  NewBroker[events.ExportEvent]("export"),
		done:    make(chan struct{}),
	}
	h.all = []BrokerInfo{h.Session, h.Group, h.Export}
	return h
}

// Shutdown shuts down every broker concurrently.
func (h *Hub) Shutdown() {
	h.shutdown.Do(func() {
		close(h.done)

		var wg sync.WaitGroup
		for _, b := range h.all {
			wg.Add(1)
			go func(b BrokerInfo) {
				defer wg.Done()
				b.Shutdown()
			}(b)
		}
		wg.Wait()
	})
}

// IsShutdown returns true if the hub has been shut down.
func (h *Hub) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// AllMetrics returns metrics for all brokers in registration order.
func (h *Hub) AllMetrics() []BrokerMetrics {
	out := make([]BrokerMetrics, 0, len(h.all))
	for _, b := range h.all {
		out = append(out, b.Metrics())
	}
	return out
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Broker Hub (%d brokers) ===\n", len(h.all))
	for _, b := range h.all {
		m := b.Metrics()
		fmt.Fprintf(&sb, "  %s: subs=%d (peak=%d), published=%d, dropped=%d, shutdown=%v\n",
			m.Name, m.SubscriberCount, m.SubscriberPeak, m.PublishCount, m.DropCount, b.IsShutdown())
	}
	return sb.String()
}
