package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/notice"
	"github.com/example/storefront/internal/view"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	catalog *catalog.Provider
	store   *cart.Store
	views   *view.Registry
	orch    *checkout.Orchestrator
	notices *notice.Center
}

func NewHandlers(
	cat *catalog.Provider,
	store *cart.Store,
	views *view.Registry,
	orch *checkout.Orchestrator,
	notices *notice.Center,
) *Handlers {
	return &Handlers{
		catalog: cat,
		store:   store,
		views:   views,
		orch:    orch,
		notices: notices,
	}
}

// Catalog Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if v := q.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinRating = rating
		}
	}
	if v := q.Get("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = money.FromFloat(price)
		}
	}
	respondJSON(w, http.StatusOK, h.catalog.Apply(filter))
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	product, ok := h.catalog.Find(id)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Categories())
}

// Cart Handlers

type cartResponse struct {
	Items []cart.Line `json:"items"`
	Total money.Cents `json:"total"`
}

func (h *Handlers) currentCart() cartResponse {
	return cartResponse{Items: h.store.Items(), Total: h.store.Total()}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.Add(r.Context(), req.ProductID); err != nil {
		h.cartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.AdjustQuantity(r.Context(), id, req.Delta); err != nil {
		h.cartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	if err := h.store.Remove(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.notices.Publish(notice.Success, "Item removed from cart")
	respondJSON(w, http.StatusOK, h.currentCart())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, h.currentCart())
}

// cartError maps store errors onto HTTP statuses and user notices.
func (h *Handlers) cartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		h.notices.Publish(notice.Warning, "Product not found")
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, cart.ErrStockExceeded):
		h.notices.Publish(notice.Warning, "Not enough stock for this item")
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// View Handlers

func (h *Handlers) GetBadge(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.Badge())
}

func (h *Handlers) GetLineList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.LineList())
}

func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.Preview())
}

func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.views.Summary())
}

// Checkout Handlers

type checkoutResponse struct {
	State checkout.State `json:"state"`
}

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	lines, total := h.orch.Summary()
	respondJSON(w, http.StatusOK, map[string]any{
		"state": h.orch.State(),
		"summary": map[string]any{
			"lines": lines,
			"total": total,
		},
	})
}

func (h *Handlers) OpenCart(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.OpenCart(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse{State: h.orch.State()})
}

func (h *Handlers) OpenCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.OpenCheckout(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse{State: h.orch.State()})
}

func (h *Handlers) BackToCart(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.BackToCart(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse{State: h.orch.State()})
}

func (h *Handlers) CloseCheckout(w http.ResponseWriter, r *http.Request) {
	h.orch.Close()
	respondJSON(w, http.StatusOK, checkoutResponse{State: h.orch.State()})
}

func (h *Handlers) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	var draft checkout.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	receipt, err := h.orch.Submit(r.Context(), draft)
	if err != nil {
		var verr *checkout.ValidationError
		switch {
		case errors.As(err, &verr):
			respondJSON(w, http.StatusUnprocessableEntity, verr)
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrInvalidTransition):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

// Notice Handlers

func (h *Handlers) GetNotices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.notices.Active())
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
