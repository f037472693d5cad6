// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/jannatulferdou/cybersheild/internal/api"
	"github.com/jannatulferdou/cybersheild/internal/caseid"
	"github.com/jannatulferdou/cybersheild/internal/caseservice"
	"github.com/jannatulferdou/cybersheild/internal/casestore"
	"github.com/jannatulferdou/cybersheild/internal/contact"
	"github.com/jannatulferdou/cybersheild/internal/index"
	"github.com/jannatulferdou/cybersheild/internal/mcpserver"
	"github.com/jannatulferdou/cybersheild/internal/models"
	"github.com/jannatulferdou/cybersheild/internal/resources"
	"github.com/jannatulferdou/cybersheild/internal/sse"
	"github.com/jannatulferdou/cybersheild/internal/storage"
)

// openStore builds the configured case store backend. For the ledger
// backend it also returns the ledger and the absolute document path so a
// watcher can be attached; both are nil/empty for SQLite.
func openStore(cfg *Config) (casestore.Store, *casestore.Ledger, string, error) {
	switch cfg.Store.Backend {
	case StoreBackendLedger:
		if err := os.MkdirAll(cfg.Store.LedgerDir, 0o755); err != nil {
			return nil, nil, "", fmt.Errorf("create ledger dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Store.LedgerDir)
		if err != nil {
			return nil, nil, "", fmt.Errorf("init ledger storage: %w", err)
		}
		key := cfg.Store.LedgerKey
		if key == "" {
			key = casestore.DefaultKey
		}
		ledger := casestore.NewLedger(fs, key)
		path, err := fs.KeyPath(key)
		if err != nil {
			return nil, nil, "", fmt.Errorf("resolve ledger path: %w", err)
		}
		return ledger, ledger, path, nil
	default:
		db, err := index.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, "", fmt.Errorf("init case index: %w", err)
		}
		return db, nil, "", nil
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("evidence_dir", cfg.Evidence.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the case store.
	store, ledger, ledgerPath, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// SSE broker for case lifecycle events.
	broker := sse.NewBroker()
	defer broker.Close()

	svc := caseservice.NewService(store, caseid.New(nil),
		caseservice.WithNotifier(func(kind string, rec models.CaseRecord) {
			broker.PublishCaseEvent(kind, rec.ID, string(rec.Status))
		}))

	// Safety-resource directory.
	dir, err := resources.Load()
	if err != nil {
		return fmt.Errorf("load resource directory: %w", err)
	}

	relay := contact.NewRelay(cfg.Contact.Endpoint, cfg.Contact.Timeout())

	if err := os.MkdirAll(cfg.Evidence.Dir, 0o755); err != nil {
		return fmt.Errorf("create evidence dir: %w", err)
	}
	evidence, err := api.NewEvidenceHandler(cfg.Evidence.Dir, cfg.Evidence.MaxBytes())
	if err != nil {
		return fmt.Errorf("init evidence handler: %w", err)
	}

	apiRouter := api.NewRouter(svc, relay, dir, evidence,
		cfg.Admin.AuthEnabled(), cfg.Admin.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Uploaded evidence files.
	r.Get("/evidence/{filename}", evidence.ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the ledger document for writes by other processes.
	if ledger != nil {
		g.Go(func() error {
			if err := casestore.Watch(gCtx, ledger, ledgerPath, logger, func() {
				broker.PublishCaseEvent("collection_changed", "", "")
			}); err != nil {
				logger.Warn("ledger watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server against the configured case store.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	store, _, _, err := openStore(app.config)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := caseservice.NewService(store, caseid.New(nil))
	return mcpserver.New(svc).ServeStdio()
}
