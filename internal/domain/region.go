package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// earthRadiusMeters is the IUGG mean Earth radius.
const earthRadiusMeters = 6371008.8

// Region is an axis-aligned WGS-84 bounding rectangle. It is fixed for the
// lifetime of the process; every query and reduction is scoped to it.
type Region struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// BerkshireTaconic is the default study area: the Berkshire Taconic
// Landscape straddling the Massachusetts / New York border.
var BerkshireTaconic = Region{West: -73.5, South: 42.0, East: -73.0, North: 42.5}

// ParseRegion parses a "west,south,east,north" bounding box string.
func ParseRegion(bbox string) (Region, error) {
	parts := strings.Split(bbox, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("parse region %q: want 4 comma-separated bounds, got %d", bbox, len(parts))
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Region{}, fmt.Errorf("parse region %q: bound %d: %w", bbox, i, err)
		}
		vals[i] = v
	}

	r := Region{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}
	if err := r.Validate(); err != nil {
		return Region{}, fmt.Errorf("parse region %q: %w", bbox, err)
	}
	return r, nil
}

// Validate checks coordinate ranges and bound ordering.
func (r Region) Validate() error {
	if r.West < -180 || r.East > 180 || r.South < -90 || r.North > 90 {
		return fmt.Errorf("region out of WGS-84 range: %s", r.BBox())
	}
	if r.West >= r.East {
		return fmt.Errorf("region west bound %.4f must be less than east bound %.4f", r.West, r.East)
	}
	if r.South >= r.North {
		return fmt.Errorf("region south bound %.4f must be less than north bound %.4f", r.South, r.North)
	}
	return nil
}

// BBox renders the region as a "west,south,east,north" string, the format
// used in imagery service query parameters.
func (r Region) BBox() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.West, r.South, r.East, r.North)
}

// Center returns the rectangle midpoint as (lat, lon), used to center the
// dashboard map widget.
func (r Region) Center() (lat, lon float64) {
	return (r.South + r.North) / 2, (r.West + r.East) / 2
}

// AreaSquareMeters computes the exact area of the rectangle on a spherical
// Earth: R² · (sin φ₂ − sin φ₁) · Δλ.
func (r Region) AreaSquareMeters() float64 {
	latBand := math.Sin(radians(r.North)) - math.Sin(radians(r.South))
	lonSpan := radians(r.East - r.West)
	return earthRadiusMeters * earthRadiusMeters * latBand * lonSpan
}

// AreaHectares returns the region area in hectares (1 ha = 10⁴ m²).
func (r Region) AreaHectares() float64 {
	return r.AreaSquareMeters() / 1e4
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
