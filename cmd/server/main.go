package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/SaiManikanta3434/Digitly-ai/internal/config"
	"github.com/SaiManikanta3434/Digitly-ai/internal/core"
	"github.com/SaiManikanta3434/Digitly-ai/internal/logging"
	"github.com/SaiManikanta3434/Digitly-ai/internal/search"
	"github.com/SaiManikanta3434/Digitly-ai/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"import_max_concurrent", cfg.Import.MaxConcurrent,
		"search_provider", cfg.Search.Provider,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Apply the per-file size limit to the import pipeline
	core.MaxFileSize = cfg.Import.MaxFileSize

	// Create state and service
	state := core.NewState()
	service := core.NewService(state, cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)

	// Create the search backend; with no provider configured, queries are
	// answered by local heuristics only
	var provider search.Provider
	if cfg.Search.Provider == "openai" {
		p, err := search.NewOpenAIProvider(search.Config{
			Provider:  cfg.Search.Provider,
			Model:     cfg.Search.Model,
			APIKey:    cfg.Search.APIKey,
			BaseURL:   cfg.Search.BaseURL,
			Timeout:   cfg.Search.Timeout,
			MaxTokens: cfg.Search.MaxTokens,
		})
		if err != nil {
			slog.Error("failed to create search provider", "error", err)
			os.Exit(1)
		}
		provider = p
		slog.Info("search provider configured", "provider", p.Name(), "model", cfg.Search.Model)
	} else {
		slog.Info("no search provider configured, using keyword fallback")
	}
	searcher := search.NewSearcher(provider,
		time.Duration(cfg.Search.CacheTTL)*time.Second, slog.Default())

	// Create server with config
	server := web.NewServer(service, searcher, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active imports to complete (with timeout)
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
