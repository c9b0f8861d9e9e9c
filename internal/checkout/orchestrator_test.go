package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/notice"
	"github.com/example/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[int64]catalog.Product
}

func (f fakeCatalog) Find(id int64) (catalog.Product, bool) {
	p, ok := f.products[id]
	return p, ok
}

func validDraft() Draft {
	return Draft{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "0123456789",
		Address: "12 Analytical Way",
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *cart.Store, *storage.Memory, *notice.Center) {
	t.Helper()

	backend := storage.NewMemory()
	cat := fakeCatalog{products: map[int64]catalog.Product{
		1: {ID: 1, Name: "Widget", Price: money.FromFloat(10.00), Stock: 5},
	}}
	store := cart.NewStore(backend, cat)
	notices := notice.NewCenter()
	orch := NewOrchestrator(store, notices, time.Millisecond)
	return orch, store, backend, notices
}

// openCheckout walks the machine to CheckoutOpen with items in the
// cart.
func openCheckout(t *testing.T, orch *Orchestrator, store *cart.Store) {
	t.Helper()
	require.NoError(t, store.Add(context.Background(), 1))
	require.NoError(t, store.Add(context.Background(), 1))
	require.NoError(t, orch.OpenCart())
	require.NoError(t, orch.OpenCheckout())
}

// ============================================
// Transition Tests
// ============================================

func TestOrchestrator_StartsBrowsing(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator(t)
	assert.Equal(t, StateBrowsing, orch.State())
}

func TestOrchestrator_OpenCart(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator(t)

	require.NoError(t, orch.OpenCart())
	assert.Equal(t, StateCartOpen, orch.State())
}

func TestOrchestrator_OpenCheckout_EmptyCartRefused(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator(t)
	require.NoError(t, orch.OpenCart())

	err := orch.OpenCheckout()

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateCartOpen, orch.State())
}

func TestOrchestrator_OpenCheckout_FromBrowsingRefused(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	require.NoError(t, store.Add(context.Background(), 1))

	err := orch.OpenCheckout()

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateBrowsing, orch.State())
}

func TestOrchestrator_BackToCart(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	require.NoError(t, orch.BackToCart())
	assert.Equal(t, StateCartOpen, orch.State())
}

func TestOrchestrator_CloseFromAnyState(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	orch.Close()

	assert.Equal(t, StateBrowsing, orch.State())
	assert.Equal(t, 2, store.Count(), "closing must not touch the cart")
}

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateBrowsing, StateCartOpen, true},
		{StateBrowsing, StateCheckoutOpen, false},
		{StateCartOpen, StateCheckoutOpen, true},
		{StateCheckoutOpen, StateSubmitting, true},
		{StateCheckoutOpen, StateCartOpen, true},
		{StateSubmitting, StateSuccess, true},
		{StateSubmitting, StateFailure, true},
		{StateSuccess, StateCartOpen, false},
		{StateFailure, StateCheckoutOpen, true},
		// Any state may close back to Browsing.
		{StateSubmitting, StateBrowsing, true},
		{StateSuccess, StateBrowsing, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

// ============================================
// Summary Tests
// ============================================

func TestOrchestrator_SummaryFrozenAtEntry(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	_, totalBefore := orch.Summary()
	require.Equal(t, money.FromFloat(20.00), totalBefore)

	// Mutating the cart after entry must not change the draft summary.
	require.NoError(t, store.Add(context.Background(), 1))

	lines, total := orch.Summary()
	assert.Equal(t, money.FromFloat(20.00), total)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

// ============================================
// Submit Tests
// ============================================

func TestOrchestrator_Submit_Success(t *testing.T) {
	orch, store, backend, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	receipt, err := orch.Submit(context.Background(), validDraft())

	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, money.FromFloat(20.00), receipt.Total)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, StateBrowsing, orch.State())
	assert.Empty(t, store.Items())

	// The persisted representation reflects the empty cart.
	_, loadErr := backend.Load(context.Background())
	assert.ErrorIs(t, loadErr, storage.ErrNotFound)
}

func TestOrchestrator_Submit_InvalidEmail(t *testing.T) {
	orch, store, _, notices := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	draft := validDraft()
	draft.Email = "not-an-email"

	receipt, err := orch.Submit(context.Background(), draft)

	assert.Nil(t, receipt)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Equal(t, StateCheckoutOpen, orch.State())
	assert.Equal(t, 2, store.Count(), "cart must be unchanged")

	active := notices.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, notice.Error, active[0].Level)
}

func TestOrchestrator_Submit_MissingFields(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	receipt, err := orch.Submit(context.Background(), Draft{})

	assert.Nil(t, receipt)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.Equal(t, StateCheckoutOpen, orch.State())
}

func TestOrchestrator_Submit_EmptyCartReturnsToBrowsing(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	// The cart empties between checkout entry and submission.
	require.NoError(t, store.Clear(context.Background()))

	receipt, err := orch.Submit(context.Background(), validDraft())

	assert.Nil(t, receipt)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateBrowsing, orch.State())
}

func TestOrchestrator_Submit_NotInCheckout(t *testing.T) {
	orch, _, _, _ := newTestOrchestrator(t)

	_, err := orch.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOrchestrator_Submit_CancelledContext(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)
	orch.delay = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	receipt, err := orch.Submit(ctx, validDraft())

	assert.Nil(t, receipt)
	require.Error(t, err)
	assert.Equal(t, StateCheckoutOpen, orch.State())
	assert.Equal(t, 2, store.Count(), "a failed submission never partially clears the cart")
}

func TestOrchestrator_Submit_StaleCompletionDiscarded(t *testing.T) {
	orch, store, _, _ := newTestOrchestrator(t)
	openCheckout(t, orch, store)
	orch.delay = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), validDraft())
		done <- err
	}()

	// Close the panel while the submission is still processing; the
	// pending completion must not resurrect and clear the cart.
	time.Sleep(10 * time.Millisecond)
	orch.Close()

	err := <-done
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, StateBrowsing, orch.State())
	assert.Equal(t, 2, store.Count(), "stale completion must not clear the cart")
}

func TestOrchestrator_Submit_SuccessPublishesNotice(t *testing.T) {
	orch, store, _, notices := newTestOrchestrator(t)
	openCheckout(t, orch, store)

	_, err := orch.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	active := notices.Active()
	require.NotEmpty(t, active)
	assert.Equal(t, notice.Success, active[len(active)-1].Level)
	assert.Contains(t, active[len(active)-1].Message, "$20.00")
}
