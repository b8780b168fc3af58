package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Rajarajeshwaran-2003/eshop/internal/catalog"
	"github.com/Rajarajeshwaran-2003/eshop/internal/config"
	handler "github.com/Rajarajeshwaran-2003/eshop/internal/handler/http"
	"github.com/Rajarajeshwaran-2003/eshop/pkg/health"
	"github.com/Rajarajeshwaran-2003/eshop/pkg/httpclient"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Upstream catalog client with a pooled transport.
	client := httpclient.New(httpclient.Config{
		Timeout:         cfg.FetchTimeout,
		MaxConnsPerHost: 100,
	})
	catalogClient := catalog.New(client, cfg.CatalogURL, logger)
	logger.Info("catalog client initialized",
		slog.String("url", cfg.CatalogURL),
		slog.Duration("fetch_timeout", cfg.FetchTimeout),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("catalog", catalogClient.Ping)

	// HTTP router.
	browseHandler := handler.NewBrowseHandler(catalogClient, logger)
	router := handler.NewRouter(browseHandler, healthHandler, logger, handler.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CacheMaxAge:        cfg.CacheMaxAge,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		return err
	}

	a.logger.Info("application shutdown complete")
	return nil
}
