// Package cart owns the authoritative cart state. All mutations go
// through the Store, which persists every change before broadcasting a
// cart-changed signal carrying the full new snapshot.
package cart

import (
	"errors"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/money"
)

var (
	// ErrProductNotFound signals a catalog miss during Add.
	ErrProductNotFound = errors.New("product not found")

	// ErrStockExceeded signals a mutation that would push a line's
	// quantity past its stock ceiling. The cart is left unchanged.
	ErrStockExceeded = errors.New("insufficient stock")
)

// Line is one catalog item's entry in the cart. Display fields are
// denormalized copies captured when the item is first added; they are
// not refreshed if the catalog changes afterwards.
type Line struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Price    money.Cents `json:"price"`
	Image    string      `json:"image"`
	Stock    int         `json:"stock"`
	Quantity int         `json:"quantity"`
}

// Subtotal is the line's price times quantity.
func (l Line) Subtotal() money.Cents {
	return l.Price * money.Cents(l.Quantity)
}

// Catalog is the read-only view of the product catalog the Store
// consults to validate item existence and stock ceilings.
type Catalog interface {
	Find(id int64) (catalog.Product, bool)
}
