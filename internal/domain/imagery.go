package domain

import (
	"context"
	"time"
)

// ImageRecord is one satellite capture as listed by the imagery service.
// Only the fields this system consumes are modeled; the service owns the
// full entity.
type ImageRecord struct {
	Name       string  // fully qualified asset name, used in follow-up calls
	ID         string  // scene identifier
	CloudCover float64 // CLOUD_COVER scene property, percent
}

// TimeSeriesRow is one (capture date, regional mean carbon) observation.
type TimeSeriesRow struct {
	Date   time.Time `json:"date"`
	Carbon float64   `json:"carbon"`
}

// Statistics summarizes carbon storage over the study area for a window.
type Statistics struct {
	MeanDensity  float64 `json:"meanDensity"`  // tons/ha
	AreaHectares float64 `json:"areaHectares"` // study area size
	TotalTons    float64 `json:"totalTons"`    // MeanDensity × AreaHectares
}

// MapLayer describes a rendered carbon overlay the browser map can tile.
type MapLayer struct {
	TileURL string   `json:"tileUrl"` // slippy-map URL template with {z}/{x}/{y}
	Bounds  Region   `json:"bounds"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Palette []string `json:"palette"`
}

// ReduceRequest asks the service for the spatial mean of the carbon raster
// (NDVI band math scaled by Multiplier) over Region. The source raster is a
// single image when Image is set, otherwise the temporal-mean composite of
// all images in Window.
type ReduceRequest struct {
	Image      string
	Window     *DateRange
	Region     Region
	Scale      float64
	MaxPixels  int64
	Multiplier float64
}

// MapRequest asks the service to render the carbon composite for Window as
// a tile layer with the given visualization parameters.
type MapRequest struct {
	Window     DateRange
	Region     Region
	Multiplier float64
	Min        float64
	Max        float64
	Palette    []string
}

// ImageryService is the port to the hosted imagery analytics platform. All
// raster computation (filtering, band math, compositing, reduction, tiling)
// happens on the service side; implementations are pure clients.
type ImageryService interface {
	// VerifyCredentials probes the service with the configured credentials.
	// Called once at startup; an error here is fatal.
	VerifyCredentials(ctx context.Context) error

	// ListImages returns captures intersecting region within window,
	// ordered by ascending cloud cover. An empty window yields an empty
	// slice, not an error.
	ListImages(ctx context.Context, region Region, window DateRange) ([]ImageRecord, error)

	// ImageDate resolves the capture timestamp of a single image.
	ImageDate(ctx context.Context, image string) (time.Time, error)

	// ReduceRegion computes a server-side spatial mean. Exceeding the pixel
	// cap or an unreachable service surfaces as an error.
	ReduceRegion(ctx context.Context, req ReduceRequest) (float64, error)

	// CreateMap renders the carbon composite as a tile layer.
	CreateMap(ctx context.Context, req MapRequest) (MapLayer, error)
}
