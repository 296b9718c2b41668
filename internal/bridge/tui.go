package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/agentdeck/internal/debug"
	"github.com/guilhermegouw/agentdeck/internal/events"
	"github.com/guilhermegouw/agentdeck/internal/pubsub"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIBridge subscribes to all Hub brokers and forwards events to the program.
// It handles the conversion from domain events to Bubble Tea messages.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub     *pubsub.Hub
	program Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program Sender) *TUIBridge {
	return &TUIBridge{
		hub:     hub,
		program: program,
	}
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(3)
	go forward(b, b.hub.Session,
		func(e pubsub.Event[events.SessionEvent]) tea.Msg { return SessionEventMsg{Event: e} })
	go forward(b, b.hub.Group,
		func(e pubsub.Event[events.GroupEvent]) tea.Msg { return GroupEventMsg{Event: e} })
	go forward(b, b.hub.Export,
		func(e pubsub.Event[events.ExportEvent]) tea.Msg { return ExportEventMsg{Event: e} })

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

// forward pumps one broker into the program until the bridge stops or the
// broker shuts down.
func forward[T any](b *TUIBridge, source pubsub.Subscriber[T], wrap func(pubsub.Event[T]) tea.Msg) {
	defer b.wg.Done()

	events := source.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.program.Send(wrap(event))
		}
	}
}
