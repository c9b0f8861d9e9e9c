package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/storage"
)

// Store is the sole owner of cart state. It hydrates from the storage
// backend at construction, persists every successful mutation before
// broadcasting, and rejects mutations that would break the quantity or
// stock invariants.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	backend storage.Backend
	catalog Catalog

	dispatcher *Dispatcher
}

// NewStore hydrates a Store from the backend. A missing or malformed
// persisted payload is treated as an empty cart, never as a fatal
// error.
func NewStore(backend storage.Backend, cat Catalog) *Store {
	s := &Store{
		backend:    backend,
		catalog:    cat,
		dispatcher: NewDispatcher(),
	}
	s.lines = s.hydrate()
	return s
}

func (s *Store) hydrate() []Line {
	data, err := s.backend.Load(context.Background())
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("[Cart] Failed to load persisted cart: %v", err)
		return nil
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Printf("[Cart] Discarding unreadable persisted cart: %v", err)
		return nil
	}
	return lines
}

// Subscribe registers a cart-changed consumer.
func (s *Store) Subscribe(name string, fn Consumer) {
	s.dispatcher.Subscribe(name, fn)
}

// Items returns a snapshot of the current lines in insertion order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Total sums price times quantity over all lines, in cents.
func (s *Store) Total() money.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total money.Cents
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Count returns the total item quantity across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Add puts one unit of the catalog item in the cart. An existing line
// is incremented by exactly 1, subject to the item's stock ceiling; a
// new line starts at quantity 1 with the item's display fields copied.
func (s *Store) Add(ctx context.Context, itemID int64) error {
	product, ok := s.catalog.Find(itemID)
	if !ok {
		log.Printf("[Cart] Product not found: %d", itemID)
		return ErrProductNotFound
	}

	s.mu.Lock()
	next := s.copyLines()
	found := false
	for i := range next {
		if next[i].ID == itemID {
			if next[i].Quantity+1 > product.Stock {
				s.mu.Unlock()
				return ErrStockExceeded
			}
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		if product.Stock < 1 {
			s.mu.Unlock()
			return ErrStockExceeded
		}
		next = append(next, Line{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Stock:    product.Stock,
			Quantity: 1,
		})
	}
	return s.commit(ctx, next)
}

// Remove deletes the line with the given id. Removing an absent id is
// a no-op: nothing is persisted and no signal fires.
func (s *Store) Remove(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	next := make([]Line, 0, len(s.lines))
	removed := false
	for _, l := range s.lines {
		if l.ID == itemID {
			removed = true
			continue
		}
		next = append(next, l)
	}
	if !removed {
		s.mu.Unlock()
		return nil
	}
	return s.commit(ctx, next)
}

// AdjustQuantity applies a signed delta to a line's quantity. A result
// of zero or less removes the line; a result past the item's current
// stock ceiling is rejected and leaves the cart unchanged; an absent
// id is a no-op.
func (s *Store) AdjustQuantity(ctx context.Context, itemID int64, delta int) error {
	s.mu.Lock()
	idx := -1
	for i, l := range s.lines {
		if l.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	newQty := s.lines[idx].Quantity + delta
	if newQty <= 0 {
		s.mu.Unlock()
		return s.Remove(ctx, itemID)
	}

	// Re-validate against the catalog's current ceiling, falling back
	// to the ceiling recorded on the line if the item has since left
	// the catalog.
	stock := s.lines[idx].Stock
	if product, ok := s.catalog.Find(itemID); ok {
		stock = product.Stock
	}
	if newQty > stock {
		s.mu.Unlock()
		return ErrStockExceeded
	}

	next := s.copyLines()
	next[idx].Quantity = newQty
	return s.commit(ctx, next)
}

// Clear empties the cart unconditionally, removes the persisted
// payload, and broadcasts the empty snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.backend.Delete(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear cart: %w", err)
	}
	s.lines = nil
	s.mu.Unlock()

	s.dispatcher.Broadcast(nil)
	return nil
}

func (s *Store) copyLines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// commit persists next, installs it as the current state, and
// broadcasts. Called with s.mu held; releases it. A failed persist
// leaves both in-memory and stored state untouched and fires no
// signal.
func (s *Store) commit(ctx context.Context, next []Line) error {
	data, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist cart: %w", err)
	}
	s.lines = next
	s.mu.Unlock()

	s.dispatcher.Broadcast(next)
	return nil
}
