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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripcraft/tripcraft/internal/auth"
	"github.com/tripcraft/tripcraft/internal/blob"
	"github.com/tripcraft/tripcraft/internal/config"
	"github.com/tripcraft/tripcraft/internal/generator"
	"github.com/tripcraft/tripcraft/internal/handler"
	"github.com/tripcraft/tripcraft/internal/llm"
	"github.com/tripcraft/tripcraft/internal/logging"
	"github.com/tripcraft/tripcraft/internal/middleware"
	"github.com/tripcraft/tripcraft/internal/realtime"
	"github.com/tripcraft/tripcraft/internal/repo"
	"github.com/tripcraft/tripcraft/internal/service"
	"github.com/tripcraft/tripcraft/spec"
)

const (
	eventBuffer     = 64
	shutdownTimeout = 15 * time.Second
)

func serve(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if migrate {
		n, err := migrateUp(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", n)
	}

	// New does not open connections; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	objects, err := blob.NewFS(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}

	planner, summarizer := generators(cfg, logger)
	broker := realtime.NewBroker(eventBuffer, logger)
	store := repo.NewStore(pool)

	server := handler.NewServer(handler.Deps{
		Trips:         service.NewTripService(store.Trips, store.Days, broker),
		Itinerary:     service.NewItineraryService(store, store.Repos, planner, broker, logger),
		Packing:       service.NewPackingService(store, store.Trips, store.Packing, broker),
		Expenses:      service.NewExpenseService(store.Trips, store.Expenses, broker),
		Notes:         service.NewNoteService(store.Trips, store.Notes, summarizer, broker),
		Documents:     service.NewDocumentService(store.Trips, store.Documents, objects, broker, logger),
		Shares:        service.NewShareService(store.Repos, broker, logger),
		Access:        service.NewAccessService(store.Trips, store.Collaborators, broker),
		Planner:       planner,
		Summarizer:    summarizer,
		Events:        broker,
		Logger:        logger,
		PublicBaseURL: cfg.PublicBaseURL,
	})

	// RequestID, RealIP, request log, then panic recovery.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Mount("/", server.Handler(handler.Options{
		Tokens:          auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		FunctionsAPIKey: cfg.FunctionsAPIKey,
		CORSOrigins:     cfg.CORSOrigins,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		Files:           objects,
		OpenAPI:         spec.OpenAPI,
		Metrics:         promhttp.Handler(),
	}))

	// Generator calls can outlast WriteTimeout; the LLM client carries its own
	// timeout and the event stream clears its write deadline.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.OpenAITimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "llm", cfg.LLMEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// generators picks the chat-completion backend when an API key is set and
// the built-in template planner and extractive summarizer otherwise.
func generators(cfg config.Config, logger *slog.Logger) (generator.Planner, llm.Summarizer) {
	if !cfg.LLMEnabled() {
		logger.Info("no completion backend configured, using template generators")
		return generator.NewTemplatePlanner(), generator.ExtractiveSummarizer{}
	}
	client := llm.New(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		URL:     cfg.OpenAIURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	})
	return generator.NewLLMPlanner(client, cfg.LLMLenientJSON), llm.NewChatSummarizer(client)
}

func issueToken(user string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	id, err := uuid.Parse(user)
	if err != nil {
		return "", fmt.Errorf("invalid --user: %w", err)
	}
	return auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(id)
}
