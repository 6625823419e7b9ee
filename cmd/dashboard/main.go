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

	_ "github.com/joho/godotenv/autoload"

	"github.com/xunialabs/carbon-dashboard/internal/adapter/earthengine"
	httpadapter "github.com/xunialabs/carbon-dashboard/internal/adapter/http"
	"github.com/xunialabs/carbon-dashboard/internal/aggregator"
	"github.com/xunialabs/carbon-dashboard/internal/config"
	"github.com/xunialabs/carbon-dashboard/internal/domain"
	"github.com/xunialabs/carbon-dashboard/internal/observability"
)

const authHelp = `Imagery service authentication required.

To use this dashboard, you need to:

  1. Sign up for the imagery analytics platform and register a cloud project.
  2. Enable the imagery API for that project.
  3. Create service account credentials and obtain an access token.

Then set EE_PROJECT and EE_TOKEN (directly or via a .env file) and restart.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// The imagery client is the one process-wide shared handle; the cache
	// decorator is feature-flagged via EE_CACHE_SIZE.
	var imagery domain.ImageryService = earthengine.NewClient(
		cfg.EEBaseURL, cfg.EEProject, cfg.EECollection, cfg.EEToken,
		cfg.EETimeout, metrics, logger,
	)
	if cfg.EECacheSize > 0 {
		imagery = earthengine.NewCachedImagery(imagery, cfg.EECacheSize, metrics)
		logger.Info("reduction cache enabled", "cache_size", cfg.EECacheSize)
	} else {
		logger.Info("reduction cache disabled")
	}

	agg := aggregator.New(imagery, cfg.Region, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Startup credential probe. The only fatal error class: everything after
	// this point surfaces inline per view.
	probeCtx, cancel := context.WithTimeout(ctx, cfg.EETimeout)
	if err := agg.VerifyService(probeCtx); err != nil {
		cancel()
		logger.Error("imagery service authentication failed", "error", err)
		fmt.Fprintln(os.Stderr, authHelp)
		os.Exit(1)
	}
	cancel()

	srv := httpadapter.NewServer(cfg.HTTPAddr, agg, agg, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
