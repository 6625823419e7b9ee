// Package aggregator implements the carbon estimation operations: image
// listing, area statistics, the per-image time series, and the map overlay.
// All raster work is delegated to the imagery service; this package only
// sequences the remote calls and applies the client-side area arithmetic.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
	"github.com/xunialabs/carbon-dashboard/internal/observability"
)

// Aggregator computes carbon estimates for one fixed study area.
type Aggregator struct {
	imagery domain.ImageryService
	region  domain.Region
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates an Aggregator bound to the given study area.
func New(imagery domain.ImageryService, region domain.Region, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		imagery: imagery,
		region:  region,
		logger:  logger,
		metrics: metrics,
	}
}

// Region returns the fixed study area.
func (a *Aggregator) Region() domain.Region {
	return a.region
}

// VerifyService probes the imagery service credentials. Called once at
// startup; the service is not considered ready until it succeeds.
func (a *Aggregator) VerifyService(ctx context.Context) error {
	if err := a.imagery.VerifyCredentials(ctx); err != nil {
		a.metrics.ServiceUp.Set(0)
		return err
	}
	a.metrics.ServiceUp.Set(1)
	a.ready.Store(true)
	a.logger.Info("imagery service credentials verified", "region", a.region.BBox())
	return nil
}

// CheckReadiness returns nil once the startup credential probe has succeeded.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("imagery service credentials not verified yet")
	}
	return nil
}

// IndexSeries lists the captures contributing to the window, ordered by
// ascending cloud cover. The range is validated first so a malformed query
// never reaches the service; an empty window yields an empty slice.
func (a *Aggregator) IndexSeries(ctx context.Context, window domain.DateRange) ([]domain.ImageRecord, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	records, err := a.imagery.ListImages(ctx, a.region, window)
	if err != nil {
		return nil, fmt.Errorf("index series %s: %w", window, err)
	}
	return records, nil
}

// AreaStatistics reduces the temporal-mean carbon composite to a single
// regional density and derives the area total from it.
func (a *Aggregator) AreaStatistics(ctx context.Context, window domain.DateRange) (domain.Statistics, error) {
	if err := window.Validate(); err != nil {
		return domain.Statistics{}, err
	}

	density, err := a.imagery.ReduceRegion(ctx, domain.ReduceRequest{
		Window:     &window,
		Region:     a.region,
		Scale:      domain.ReduceScaleMeters,
		MaxPixels:  domain.ReduceMaxPixels,
		Multiplier: domain.CarbonPerNDVI,
	})
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("area statistics %s: %w", window, err)
	}

	area := a.region.AreaHectares()
	return domain.Statistics{
		MeanDensity:  density,
		AreaHectares: area,
		TotalTons:    density * area,
	}, nil
}

// TimeSeries resolves one (date, carbon) row per capture in the window. Each
// image costs two sequential remote calls, one for the capture date and one
// for the regional mean, so the whole operation takes 2×N round trips. The
// first failed call aborts the series.
//
// Listing order follows cloud cover, not time; rows are sorted
// chronologically before returning so the chart never plots out of order.
func (a *Aggregator) TimeSeries(ctx context.Context, window domain.DateRange) ([]domain.TimeSeriesRow, error) {
	records, err := a.IndexSeries(ctx, window)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TimeSeriesRow, 0, len(records))
	for _, rec := range records {
		date, err := a.imagery.ImageDate(ctx, rec.Name)
		if err != nil {
			return nil, fmt.Errorf("time series %s: %w", window, err)
		}

		carbon, err := a.imagery.ReduceRegion(ctx, domain.ReduceRequest{
			Image:      rec.Name,
			Region:     a.region,
			Scale:      domain.ReduceScaleMeters,
			MaxPixels:  domain.ReduceMaxPixels,
			Multiplier: domain.CarbonPerNDVI,
		})
		if err != nil {
			return nil, fmt.Errorf("time series %s: image %s: %w", window, rec.ID, err)
		}

		rows = append(rows, domain.TimeSeriesRow{Date: date, Carbon: carbon})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	a.metrics.TimeSeriesLength.Observe(float64(len(rows)))
	a.logger.Debug("time series computed", "window", window.String(), "rows", len(rows))
	return rows, nil
}

// CarbonMap renders the carbon composite for the window as a tile overlay
// with the fixed dashboard color ramp.
func (a *Aggregator) CarbonMap(ctx context.Context, window domain.DateRange) (domain.MapLayer, error) {
	if err := window.Validate(); err != nil {
		return domain.MapLayer{}, err
	}

	layer, err := a.imagery.CreateMap(ctx, domain.MapRequest{
		Window:     window,
		Region:     a.region,
		Multiplier: domain.CarbonPerNDVI,
		Min:        domain.MapRangeMin,
		Max:        domain.MapRangeMax,
		Palette:    domain.MapPalette(),
	})
	if err != nil {
		return domain.MapLayer{}, fmt.Errorf("carbon map %s: %w", window, err)
	}
	return layer, nil
}
