package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/notice"
	"github.com/example/storefront/internal/relay"
	"github.com/example/storefront/internal/storage"
	"github.com/example/storefront/internal/view"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[Storefront] ========================================")
	log.Println("[Storefront] Storefront cart engine")
	log.Println("[Storefront] ========================================")
	log.Printf("[Storefront] Catalog: %s", cfg.CatalogSource)
	log.Printf("[Storefront] Storage: %s", cfg.StorageBackend)

	notices := notice.NewCenter()

	// Catalog: a load failure presents an empty catalog plus a notice,
	// never a crash.
	provider := catalog.NewProvider(cfg.CatalogSource)
	if _, err := provider.Load(ctx); err != nil {
		notices.Publish(notice.Error, "Error loading products")
	}

	backend, closeBackend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("[Storefront] Failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	if closeBackend != nil {
		defer closeBackend.Close()
	}

	store := cart.NewStore(backend, provider)
	views := view.NewRegistry(store)
	orch := checkout.NewOrchestrator(store, notices, cfg.CheckoutDelay)

	if len(cfg.KafkaBrokers) > 0 {
		log.Printf("[Storefront] Kafka relay enabled: %v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher := relay.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		publisher.Attach(store)
	}

	handlers := api.NewHandlers(provider, store, views, orch, notices)
	router := api.NewRouter(handlers, cfg.WebDir)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("[Storefront] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Storefront] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Storefront] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

// newBackend opens the configured storage backend. The second return
// is non-nil when the backend holds a connection that must be closed
// on shutdown.
func newBackend(cfg config.Config) (storage.Backend, io.Closer, error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemory(), nil, nil
	case "sqlite":
		s, err := storage.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "redis":
		r, err := storage.NewRedis(cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case "postgres":
		p, err := storage.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return storage.NewFile(cfg.CartFile), nil, nil
	}
}
