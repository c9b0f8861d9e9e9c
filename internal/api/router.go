package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handlers *Handlers, webDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Catalog
	r.Get("/products", handlers.GetProducts)
	r.Get("/products/{id}", handlers.GetProduct)
	r.Get("/categories", handlers.GetCategories)

	// Cart
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handlers.GetCart)
		r.Delete("/", handlers.ClearCart)
		r.Post("/items", handlers.AddToCart)
		r.Patch("/items/{id}", handlers.AdjustQuantity)
		r.Delete("/items/{id}", handlers.RemoveFromCart)
	})

	// Views
	r.Route("/views", func(r chi.Router) {
		r.Get("/badge", handlers.GetBadge)
		r.Get("/lines", handlers.GetLineList)
		r.Get("/preview", handlers.GetPreview)
		r.Get("/summary", handlers.GetSummary)
	})

	// Checkout
	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", handlers.GetCheckout)
		r.Post("/open", handlers.OpenCart)
		r.Post("/proceed", handlers.OpenCheckout)
		r.Post("/back", handlers.BackToCart)
		r.Post("/close", handlers.CloseCheckout)
		r.Post("/submit", handlers.SubmitCheckout)
	})

	// Notices
	r.Get("/notices", handlers.GetNotices)

	// Static files (web UI)
	if webDir != "" {
		fs := http.FileServer(http.Dir(webDir))
		r.Handle("/*", fs)
	}

	return r
}
