// Package checkout drives the buy flow from cart review to order
// completion. There is no real order backend; a successful submission
// simulates processing latency, clears the cart, and hands back a
// confirmation receipt.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/notice"
	"github.com/google/uuid"
)

var (
	// ErrEmptyCart is returned when the cart is empty at submission
	// time. The orchestrator returns to Browsing, not CheckoutOpen.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSuperseded is returned when a pending submission finished
	// after the panel was closed or reopened; the completion is
	// discarded and the cart is left alone.
	ErrSuperseded = errors.New("submission superseded")
)

// DefaultProcessingDelay matches the reference flow's simulated
// order-processing latency.
const DefaultProcessingDelay = 1500 * time.Millisecond

// Receipt confirms a completed checkout.
type Receipt struct {
	ID       string      `json:"id"`
	Total    money.Cents `json:"total"`
	PlacedAt time.Time   `json:"placed_at"`
}

// Orchestrator is the checkout state machine. All cart access goes
// through the cart Store; the orchestrator never touches persisted
// state directly.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	// generation invalidates pending submissions: any transition out
	// of Submitting that did not come from the submission itself bumps
	// it, so a stale completion can never clear a rebuilt cart.
	generation int

	summary      []cart.Line
	summaryTotal money.Cents

	store   *cart.Store
	notices *notice.Center
	delay   time.Duration
}

func NewOrchestrator(store *cart.Store, notices *notice.Center, delay time.Duration) *Orchestrator {
	if delay <= 0 {
		delay = DefaultProcessingDelay
	}
	return &Orchestrator{
		state:   StateBrowsing,
		store:   store,
		notices: notices,
		delay:   delay,
	}
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Summary returns the read-only snapshot taken when checkout was
// entered. Cart mutations after entry do not change it.
func (o *Orchestrator) Summary() ([]cart.Line, money.Cents) {
	o.mu.Lock()
	defer o.mu.Unlock()

	lines := make([]cart.Line, len(o.summary))
	copy(lines, o.summary)
	return lines, o.summaryTotal
}

// OpenCart moves Browsing -> CartOpen. No cart mutation.
func (o *Orchestrator) OpenCart() error {
	return o.transition(StateCartOpen)
}

// OpenCheckout moves CartOpen -> CheckoutOpen and snapshots the cart
// for the summary. It refuses to open over an empty cart.
func (o *Orchestrator) OpenCheckout() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.state.CanTransitionTo(StateCheckoutOpen) {
		return transitionError(o.state, StateCheckoutOpen)
	}
	lines := o.store.Items()
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	o.summary = lines
	o.summaryTotal = o.store.Total()
	o.setState(StateCheckoutOpen)
	return nil
}

// BackToCart moves CheckoutOpen -> CartOpen.
func (o *Orchestrator) BackToCart() error {
	return o.transition(StateCartOpen)
}

// Close returns to Browsing from any state. The cart is unaffected; a
// submission still in flight is invalidated.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setState(StateBrowsing)
}

// Submit validates the draft and runs the simulated submission. On
// success the cart is cleared and the machine returns to Browsing; on
// validation failure it stays in CheckoutOpen; on an empty cart it
// returns to Browsing.
func (o *Orchestrator) Submit(ctx context.Context, draft Draft) (*Receipt, error) {
	o.mu.Lock()
	if o.state != StateCheckoutOpen {
		o.mu.Unlock()
		return nil, transitionError(o.state, StateSubmitting)
	}

	if verr := draft.Validate(); verr != nil {
		o.mu.Unlock()
		for _, msg := range verr.Fields {
			o.notices.Publish(notice.Error, msg)
		}
		return nil, verr
	}

	// The cart could have emptied since checkout opened (another
	// surface, another process sharing the backend). Hard gate.
	if o.store.Len() == 0 {
		o.setState(StateBrowsing)
		o.mu.Unlock()
		o.notices.Publish(notice.Error, "Your cart is empty!")
		return nil, ErrEmptyCart
	}

	total := o.store.Total()
	o.setState(StateSubmitting)
	gen := o.generation
	o.mu.Unlock()

	if err := o.process(ctx); err != nil {
		return nil, o.fail(gen, err)
	}

	o.mu.Lock()
	if o.state != StateSubmitting || o.generation != gen {
		o.mu.Unlock()
		log.Printf("[Checkout] Discarding stale submission (generation %d)", gen)
		return nil, ErrSuperseded
	}

	if err := o.store.Clear(ctx); err != nil {
		o.mu.Unlock()
		return nil, o.fail(gen, err)
	}
	o.setState(StateSuccess)
	o.setState(StateBrowsing)
	o.mu.Unlock()

	receipt := &Receipt{
		ID:       uuid.New().String(),
		Total:    total,
		PlacedAt: time.Now(),
	}
	o.notices.Publish(notice.Success, fmt.Sprintf("Order placed successfully! Total: %s", total))
	return receipt, nil
}

// process simulates order-processing latency, honoring cancellation.
func (o *Orchestrator) process(ctx context.Context) error {
	timer := time.NewTimer(o.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail records a failed submission: back to CheckoutOpen with an error
// notice, cart untouched. A stale failure is discarded silently.
func (o *Orchestrator) fail(gen int, cause error) error {
	o.mu.Lock()
	if o.state != StateSubmitting || o.generation != gen {
		o.mu.Unlock()
		return ErrSuperseded
	}
	o.setState(StateFailure)
	o.setState(StateCheckoutOpen)
	o.mu.Unlock()

	o.notices.Publish(notice.Error, "Error processing checkout")
	return fmt.Errorf("process checkout: %w", cause)
}

// transition performs a plain guarded transition.
func (o *Orchestrator) transition(to State) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.state.CanTransitionTo(to) {
		return transitionError(o.state, to)
	}
	o.setState(to)
	return nil
}

// setState records the new state and bumps the generation. Called with
// o.mu held.
func (o *Orchestrator) setState(to State) {
	o.state = to
	o.generation++
}
