package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/folio/internal"
	"github.com/DukeRupert/folio/internal/content"
	"github.com/DukeRupert/folio/internal/handler"
	"github.com/DukeRupert/folio/internal/media"
	"github.com/DukeRupert/folio/internal/metrics"
	"github.com/DukeRupert/folio/internal/middleware"
	"github.com/DukeRupert/folio/internal/storage"
	"github.com/DukeRupert/folio/web"
)

// imagesDir is the directory under CONTENT_DIR holding publishable images.
const imagesDir = "images"

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize storage and publish images
	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	contentFS := os.DirFS(cfg.ContentDir)
	library := media.NewLibrary(store, media.NewImagingProcessor(), cfg.MediaConcurrency, logger)
	if _, err := library.Publish(ctx, contentFS, imagesDir); err != nil {
		return fmt.Errorf("media publish failed: %w", err)
	}

	// Load content
	site, err := content.NewStore(contentFS, content.Options{
		ShowDrafts: cfg.ShowDrafts,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("content load failed: %w", err)
	}

	// Initialize template renderer
	templatesFS := web.Templates()
	if cfg.IsDevelopment() {
		templatesFS = os.DirFS("web/templates")
	}
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		FS:     templatesFS,
		Logger: logger,
		IsDev:  cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	// Initialize handlers
	identity := handler.Site{Title: cfg.SiteTitle, Author: cfg.SiteAuthor, BaseURL: cfg.BaseURL}
	siteHandler := handler.NewSiteHandler(site, library, renderer, identity, logger)
	blogHandler := handler.NewBlogHandler(site, library, renderer, identity, handler.BlogConfig{
		PostsPerPage:        cfg.PostsPerPage,
		PaginationMaxLength: cfg.PaginationMaxLength,
	}, logger)

	// Initialize middleware
	isSecure := !cfg.IsDevelopment()
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure, cfg.R2PublicURL)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	if !metricsAuth.Enabled() {
		logger.Warn("METRICS_USERNAME/METRICS_PASSWORD not set, /metrics is unprotected")
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServerFS(web.Static())
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))
	mux.HandleFunc("GET /robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, web.Static(), "robots.txt")
	})

	// Published media, when stored locally
	if _, ok := store.(*storage.LocalStorage); ok {
		mux.HandleFunc("GET /files/{key...}", handler.Files(store, logger))
	}

	// Health check and metrics
	mux.HandleFunc("GET /health", handler.Health(site))
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Site and blog pages
	siteHandler.RegisterRoutes(mux)
	blogHandler.RegisterRoutes(mux)

	app := middleware.Stack(
		middleware.RequestID,
		loggingMw.Handler,
		metrics.Middleware,
		securityMw.Handler,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	// Channel to listen for interrupt and reload signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for a shutdown signal, reloading content on SIGHUP
wait:
	for {
		select {
		case err := <-serverErr:
			return fmt.Errorf("server failed: %w", err)
		case sig := <-sigChan:
			if sig != syscall.SIGHUP {
				break wait
			}
			reload(ctx, logger, library, contentFS, site)
		}
	}
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newStorage creates the storage backend named by STORAGE_PROVIDER.
func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.StorageProvider {
	case storage.ProviderR2:
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	default:
		return storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
}

// reload re-publishes images and re-reads content. Failures keep the site
// serving what it had.
func reload(ctx context.Context, logger *slog.Logger, library *media.Library, fsys fs.FS, site *content.Store) {
	logger.Info("Reload signal received")

	if _, err := library.Publish(ctx, fsys, imagesDir); err != nil {
		logger.Error("media publish failed", "error", err)
	}
	if err := site.Reload(); err != nil {
		logger.Error("content reload failed", "error", err)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
