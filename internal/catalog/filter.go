package catalog

import (
	"strings"

	"github.com/example/storefront/internal/money"
)

// AllCategories matches every category when used as Filter.Category.
const AllCategories = "All Categories"

// Filter narrows the catalog. Zero values leave the corresponding
// dimension unconstrained.
type Filter struct {
	Query     string
	Category  string
	MinRating float64
	MaxPrice  money.Cents
}

// Apply returns the products matching every set dimension, in catalog
// order. Name matching is a case-insensitive substring check.
func (p *Provider) Apply(f Filter) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Product, 0, len(p.products))
	for _, prod := range p.products {
		if query != "" && !strings.Contains(strings.ToLower(prod.Name), query) {
			continue
		}
		if f.Category != "" && f.Category != AllCategories && prod.Category != f.Category {
			continue
		}
		if prod.Rating < f.MinRating {
			continue
		}
		if f.MaxPrice > 0 && prod.Price > f.MaxPrice {
			continue
		}
		out = append(out, prod)
	}
	return out
}
