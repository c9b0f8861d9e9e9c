// Package view holds the UI consumers registered on the cart's
// change signal: the badge counter, the line-item list, the floating
// preview, and the checkout summary. Each one recomputes its model
// wholly from the broadcast snapshot, so any two consumers fed the
// same snapshot agree regardless of delivery order.
package view

import (
	"sync"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/money"
)

// EmptyCartMessage is shown in place of the line list when the cart
// has no items.
const EmptyCartMessage = "Your cart is empty"

// Badge is the cart icon's item counter.
type Badge struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

// LineRow is one rendered row of the cart panel.
type LineRow struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// LineList is the cart panel's rendered contents.
type LineList struct {
	Rows            []LineRow `json:"rows"`
	Placeholder     string    `json:"placeholder,omitempty"`
	Total           string    `json:"total"`
	CheckoutEnabled bool      `json:"checkout_enabled"`
}

// PreviewRow is one row of the floating cart preview.
type PreviewRow struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// SummaryRow is one row of the checkout summary.
type SummaryRow struct {
	Label    string `json:"label"`
	Subtotal string `json:"subtotal"`
}

// Summary is the checkout panel's order recap.
type Summary struct {
	Rows  []SummaryRow `json:"rows"`
	Total string       `json:"total"`
}

// ComputeBadge derives the badge from a snapshot.
func ComputeBadge(lines []cart.Line) Badge {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return Badge{Count: count, Visible: count > 0}
}

// ComputeLineList derives the cart panel contents from a snapshot.
func ComputeLineList(lines []cart.Line) LineList {
	list := LineList{
		Rows:            make([]LineRow, 0, len(lines)),
		CheckoutEnabled: len(lines) > 0,
	}
	var total money.Cents
	for _, l := range lines {
		total += l.Subtotal()
		list.Rows = append(list.Rows, LineRow{
			ID:       l.ID,
			Name:     l.Name,
			Image:    catalog.ImagePath(l.Image),
			Quantity: l.Quantity,
			Subtotal: l.Subtotal().String(),
		})
	}
	if len(lines) == 0 {
		list.Placeholder = EmptyCartMessage
	}
	list.Total = total.String()
	return list
}

// ComputePreview derives the floating preview from a snapshot.
func ComputePreview(lines []cart.Line) []PreviewRow {
	rows := make([]PreviewRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, PreviewRow{
			Name:     l.Name,
			Image:    catalog.ImagePath(l.Image),
			Quantity: l.Quantity,
		})
	}
	return rows
}

// ComputeSummary derives the checkout recap from a snapshot.
func ComputeSummary(lines []cart.Line) Summary {
	s := Summary{Rows: make([]SummaryRow, 0, len(lines))}
	var total money.Cents
	for _, l := range lines {
		total += l.Subtotal()
		s.Rows = append(s.Rows, SummaryRow{
			Label:    l.Name,
			Subtotal: l.Subtotal().String(),
		})
	}
	s.Total = total.String()
	return s
}

// Registry keeps the four view models current by subscribing them to
// the cart's change signal.
type Registry struct {
	mu      sync.RWMutex
	badge   Badge
	list    LineList
	preview []PreviewRow
	summary Summary
}

// NewRegistry computes initial views from the store's current state
// and registers the consumers.
func NewRegistry(store *cart.Store) *Registry {
	r := &Registry{}
	r.refresh(store.Items())

	store.Subscribe("badge", func(lines []cart.Line) { r.setBadge(ComputeBadge(lines)) })
	store.Subscribe("line-list", func(lines []cart.Line) { r.setList(ComputeLineList(lines)) })
	store.Subscribe("preview", func(lines []cart.Line) { r.setPreview(ComputePreview(lines)) })
	store.Subscribe("summary", func(lines []cart.Line) { r.setSummary(ComputeSummary(lines)) })
	return r
}

func (r *Registry) refresh(lines []cart.Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badge = ComputeBadge(lines)
	r.list = ComputeLineList(lines)
	r.preview = ComputePreview(lines)
	r.summary = ComputeSummary(lines)
}

func (r *Registry) setBadge(b Badge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badge = b
}

func (r *Registry) setList(l LineList) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = l
}

func (r *Registry) setPreview(p []PreviewRow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preview = p
}

func (r *Registry) setSummary(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary = s
}

func (r *Registry) Badge() Badge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.badge
}

func (r *Registry) LineList() LineList {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list
}

func (r *Registry) Preview() []PreviewRow {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PreviewRow, len(r.preview))
	copy(out, r.preview)
	return out
}

func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}
