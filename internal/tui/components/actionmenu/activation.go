package actionmenu

import (
	"fmt"

	"github.com/guilhermegouw/agentdeck/internal/debug"
)

// Activation carries the state of a single selection as it travels from the
// menu to the row hosting it. A stopped activation must not trigger the
// host's own click behavior.
type Activation struct {
	stops int
}

// StopPropagation marks the activation as handled by the menu.
func (a *Activation) StopPropagation() {
	a.stops++
}

// Stopped reports whether propagation was stopped.
func (a *Activation) Stopped() bool {
	return a.stops > 0
}

// StopCount reports how many times propagation was stopped.
func (a *Activation) StopCount() int {
	return a.stops
}

// Outcome describes what an activation did.
type Outcome int

// Activation outcomes.
const (
	// OutcomeIgnored: disabled node or divider, nothing happened.
	OutcomeIgnored Outcome = iota
	// OutcomeNavigated: a submenu was opened.
	OutcomeNavigated
	// OutcomeSelected: a leaf handler ran.
	OutcomeSelected
	// OutcomeInert: an enabled leaf without a handler.
	OutcomeInert
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeNavigated:
		return "navigated"
	case OutcomeSelected:
		return "selected"
	case OutcomeInert:
		return "inert"
	default:
		return "unknown"
	}
}

// Activate applies the propagation policy to node and runs its handler.
// Selecting a leaf with a handler stops propagation exactly once before the
// handler runs. Submenu openings and inert leaves leave it untouched.
func Activate(node *ActionNode, act *Activation) Outcome {
	var out Outcome
	switch {
	case node == nil || node.Kind == KindDivider || node.Disabled:
		out = OutcomeIgnored
	case node.Kind == KindSubmenu:
		out = OutcomeNavigated
	case node.OnSelect == nil:
		out = OutcomeInert
	default:
		act.StopPropagation()
		node.OnSelect()
		out = OutcomeSelected
	}

	key := ""
	if node != nil {
		key = node.Key
	}
	debug.Event("actionmenu", "Activate", fmt.Sprintf("key=%s outcome=%s stopped=%v", key, out, act.Stopped()))
	return out
}
