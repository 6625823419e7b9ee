// Command carbon-stats prints carbon storage statistics for the configured
// study area without starting the dashboard. Useful for spot checks and for
// scripting against the same imagery service the dashboard uses.
//
// Usage:
//
//	EE_PROJECT=... EE_TOKEN=... go run ./cmd/carbon-stats \
//	  -start 2024-01-01 -end 2024-06-01 -timeseries
//
// Omitting -start/-end uses the default window (the last 365 days).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"

	_ "github.com/joho/godotenv/autoload"

	"github.com/xunialabs/carbon-dashboard/internal/adapter/earthengine"
	"github.com/xunialabs/carbon-dashboard/internal/aggregator"
	"github.com/xunialabs/carbon-dashboard/internal/config"
	"github.com/xunialabs/carbon-dashboard/internal/domain"
	"github.com/xunialabs/carbon-dashboard/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	start := flag.String("start", "", "window start date (YYYY-MM-DD)")
	end := flag.String("end", "", "window end date (YYYY-MM-DD)")
	timeseries := flag.Bool("timeseries", false, "also print the per-image time series")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	window := domain.DefaultRange()
	if *start != "" || *end != "" {
		window, err = domain.ParseDateRange(*start, *end)
		if err != nil {
			return err
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()

	imagery := earthengine.NewClient(
		cfg.EEBaseURL, cfg.EEProject, cfg.EECollection, cfg.EEToken,
		cfg.EETimeout, metrics, logger,
	)
	agg := aggregator.New(imagery, cfg.Region, logger, metrics)

	ctx := context.Background()
	if err := agg.VerifyService(ctx); err != nil {
		return fmt.Errorf("imagery service authentication failed: %w", err)
	}

	stats, err := agg.AreaStatistics(ctx, window)
	if err != nil {
		return err
	}

	fmt.Printf("Study area:    %s (%.0f ha)\n", cfg.Region.BBox(), stats.AreaHectares)
	fmt.Printf("Window:        %s\n", window)
	fmt.Printf("Mean density:  %.1f tons/ha\n", stats.MeanDensity)
	fmt.Printf("Total storage: %.0f tons\n", stats.TotalTons)

	if *timeseries {
		rows, err := agg.TimeSeries(ctx, window)
		if err != nil {
			return err
		}
		fmt.Printf("\nTime series (%d images):\n", len(rows))
		for _, row := range rows {
			fmt.Printf("  %s  %8.1f tons/ha\n", row.Date.Format(domain.DateLayout), row.Carbon)
		}
	}

	return nil
}
