// Package main is the entrypoint for the keymint access-key server.
package main

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

	"github.com/joho/godotenv"
	"github.com/keymint/keymint/internal/api"
	"github.com/keymint/keymint/internal/api/handler"
	"github.com/keymint/keymint/internal/api/response"
	"github.com/keymint/keymint/internal/config"
	"github.com/keymint/keymint/internal/events"
	"github.com/keymint/keymint/internal/keys"
	"github.com/keymint/keymint/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create the event publisher
	publisher, err := events.NewRedisPublisher(cfg.Redis.URL, cfg.Events.PublishTimeout, slog.Default())
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()

	if err := publisher.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("event publisher connected")

	// 5. Create store and lifecycle service
	pgStore := store.NewPostgresStore(pool)
	keySvc := keys.NewService(pgStore, publisher, slog.Default())

	// 6. Build router with dependencies
	deps := api.Dependencies{
		HealthHandler: healthHandler(pgStore, publisher),

		CreateKeyHandler: handler.NewCreateKeyHandler(keySvc),
		ListKeysHandler:  handler.NewListKeysHandler(keySvc),
		GetKeyHandler:    handler.NewGetKeyHandler(keySvc),
		UpdateKeyHandler: handler.NewUpdateKeyHandler(keySvc),
		DeleteKeyHandler: handler.NewDeleteKeyHandler(keySvc),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and event-publisher connectivity.
func healthHandler(s store.Store, p events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database":  "ok",
			"publisher": "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := p.Ping(r.Context()); err != nil {
			checks["publisher"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["publisher"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
