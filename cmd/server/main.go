package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/smartpos/terminal/internal/catalog"
	"github.com/smartpos/terminal/internal/config"
	"github.com/smartpos/terminal/internal/handlers"
	"github.com/smartpos/terminal/internal/middleware"
	"github.com/smartpos/terminal/internal/persistence"
	"github.com/smartpos/terminal/internal/pos"
	"github.com/smartpos/terminal/internal/storage"
	"github.com/smartpos/terminal/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting smartpos terminal",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"data_dir", cfg.Storage.DataDir,
		"log_level", cfg.LogLevel,
	)

	// Initialize storage backends
	primary, err := storage.NewFileStore(filepath.Join(cfg.Storage.DataDir, "store"))
	if err != nil {
		log.Error("failed to open data directory", "error", err)
		os.Exit(1)
	}
	fallback := storage.NewMirrorStore(
		filepath.Join(cfg.Storage.DataDir, "backup.json"),
		cfg.Storage.FallbackLimitBytes,
	)
	adapter := storage.NewAdapter(primary, fallback, log)

	// Initialize persistence gateway and state store
	gateway := persistence.NewGateway(adapter, log)
	seed := catalog.Load(cfg.Storage.SeedFile, log)
	store := pos.New(gateway, seed,
		time.Duration(cfg.Storage.DebounceMillis)*time.Millisecond, log)

	store.Open(context.Background())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store, log)
	productHandler := handlers.NewProductHandler(store, log)
	cartHandler := handlers.NewCartHandler(store, log)
	saleHandler := handlers.NewSaleHandler(store, log)
	backupHandler := handlers.NewBackupHandler(store, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "api_key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth))

		r.Get("/status", healthHandler.Status)

		// Catalog endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Post("/product", productHandler.CreateProduct)
		r.Patch("/product/{productId}", productHandler.UpdateProduct)
		r.Delete("/product/{productId}", productHandler.DeleteProduct)

		// Cart endpoints
		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Put("/cart/items/{productId}", cartHandler.UpdateItem)
		r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)
		r.Delete("/cart", cartHandler.ClearCart)

		// Checkout and sales endpoints
		r.Post("/checkout", saleHandler.Checkout)
		r.Get("/sale", saleHandler.ListSales)
		r.Get("/sale/today", saleHandler.TodayStats)
		r.Delete("/sale", saleHandler.ClearSales)

		// Backup endpoints
		r.Get("/backup/export", backupHandler.Export)
		r.Post("/backup/import", backupHandler.Import)
		r.Delete("/backup", backupHandler.Clear)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Flush anything the debounce window was still holding
	store.Close()

	log.Info("server stopped gracefully")
}
