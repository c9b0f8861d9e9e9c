package checkout

import (
	"errors"
	"fmt"
)

// State is the orchestrator's position in the buy flow.
type State string

const (
	StateBrowsing     State = "browsing"
	StateCartOpen     State = "cart_open"
	StateCheckoutOpen State = "checkout_open"
	StateSubmitting   State = "submitting"
	StateSuccess      State = "success"
	StateFailure      State = "failure"
)

var ErrInvalidTransition = errors.New("invalid checkout state transition")

// validTransitions defines allowed state transitions. Every state may
// additionally return to Browsing via an explicit close, which leaves
// the cart untouched.
var validTransitions = map[State][]State{
	StateBrowsing:     {StateCartOpen},
	StateCartOpen:     {StateCheckoutOpen, StateBrowsing},
	StateCheckoutOpen: {StateSubmitting, StateCartOpen, StateBrowsing},
	StateSubmitting:   {StateSuccess, StateFailure, StateBrowsing},
	StateSuccess:      {StateBrowsing},
	StateFailure:      {StateCheckoutOpen, StateBrowsing},
}

// CanTransitionTo reports whether the machine may move from s to
// target.
func (s State) CanTransitionTo(target State) bool {
	if target == StateBrowsing {
		return true
	}
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func transitionError(from, to State) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
}
