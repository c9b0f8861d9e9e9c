package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/money"
)

// Product is one purchasable catalog item.
type Product struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Price       money.Cents `json:"price"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Rating      float64     `json:"rating"`
	Stock       int         `json:"stock"`
	Description string      `json:"description,omitempty"`
}

// Provider loads and serves the product catalog. The snapshot is
// replaced wholesale by Load; readers always see the last successful
// load (or an empty catalog before the first one).
type Provider struct {
	mu       sync.RWMutex
	products []Product

	source string
	client *http.Client
}

// NewProvider creates a provider reading from source, which is either a
// local file path or an http(s) URL.
func NewProvider(source string) *Provider {
	return &Provider{
		source: source,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Load populates the snapshot from the JSON resource. On failure the
// previous snapshot is kept and the error is returned for the caller to
// surface; Load never panics past its boundary.
func (p *Provider) Load(ctx context.Context) ([]Product, error) {
	data, err := p.fetch(ctx)
	if err != nil {
		log.Printf("[Catalog] Failed to load products from %s: %v", p.source, err)
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.Printf("[Catalog] Failed to parse products: %v", err)
		return nil, fmt.Errorf("parse products: %w", err)
	}

	p.mu.Lock()
	p.products = products
	p.mu.Unlock()

	log.Printf("[Catalog] Loaded %d products", len(products))
	return products, nil
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(p.source, "http://") || strings.HasPrefix(p.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch products: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(p.source)
}

// Products returns the last-loaded snapshot.
func (p *Provider) Products() []Product {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Product, len(p.products))
	copy(out, p.products)
	return out
}

// Find returns the product with the given id.
func (p *Provider) Find(id int64) (Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, prod := range p.products {
		if prod.ID == id {
			return prod, true
		}
	}
	return Product{}, false
}

// Categories returns the distinct categories in catalog order.
func (p *Provider) Categories() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, prod := range p.products {
		if prod.Category != "" && !seen[prod.Category] {
			seen[prod.Category] = true
			out = append(out, prod.Category)
		}
	}
	return out
}
