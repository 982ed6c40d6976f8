package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"newsbrief/internal/config"
	"newsbrief/internal/infrastructure/llm"
	"newsbrief/internal/infrastructure/scrape"
	"newsbrief/internal/infrastructure/storage"
	"newsbrief/internal/logging"
	"newsbrief/internal/server"
	"newsbrief/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	pool   *pgxpool.Pool
	server *server.Server
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(nil, cfg.Logging.Level)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	store := storage.NewPostgresStore(pool, baseLogger.With("component", "store"))
	scraper := scrape.NewClient(cfg.Scrape)
	completions := llm.NewCompletionClient(cfg.Completions)

	ingestor := usecase.NewIngestor(usecase.IngestorDeps{
		Scraper: scraper,
		Store:   store,
		Sources: cfg.Sources,
		Logger:  baseLogger.With("component", "ingestor"),
	})
	summarizer := usecase.NewSummarizer(store, completions, baseLogger.With("component", "summarizer"))

	srv := server.New(ingestor, summarizer, store, baseLogger.With("component", "server"))

	return &Application{
		cfg:    cfg,
		pool:   pool,
		server: srv,
		logger: baseLogger,
	}, nil
}

// Run serves HTTP until the context is cancelled, then drains and closes.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(a.cfg.Server.Address)
	}()

	a.logger.Info("listening", "address", a.cfg.Server.Address, "sources", len(a.cfg.Sources))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// Close releases the database pool.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
