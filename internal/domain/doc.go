// Package domain models the carbon sequestration estimate derived from
// satellite vegetation-index data.
//
// # Data Source
//
// Imagery comes from the Landsat 8 Collection 2 Level-2 surface reflectance
// archive, consumed through a hosted imagery analytics service. The service
// owns the rasters; this system only ever sees image listings, scalar
// reductions, and rendered map tiles. Nothing is persisted locally.
//
// # Vegetation Index
//
// NDVI (Normalized Difference Vegetation Index) is computed from two surface
// reflectance bands:
//
//	NDVI = (NIR − red) / (NIR + red)
//
// with NIR = band SR_B5 and red = band SR_B4. For non-negative band values
// with a nonzero sum the result is always in [-1, 1]. Image selection within
// a query window is ordered by the CLOUD_COVER scene property, ascending.
// That ordering is a data-quality heuristic, not a chronological one.
//
// # Carbon Model
//
// Carbon density is a fixed linear approximation:
//
//	carbon (tons/ha) = NDVI × 200
//
// The coefficient is a simplified model, not a validated allometric fit, and
// the output is unclamped: negative NDVI (water, snow, bare rock) yields
// negative density, which the dashboard's fixed 0-200 color ramp simply clips.
//
// # Spatial Reduction
//
// Regional means are computed server-side at a 30-meter sampling scale with
// a 10⁹ sampled-pixel cap, matching the native Landsat resolution. The study
// area is a fixed WGS-84 rectangle; its area in hectares is computed
// client-side on a spherical Earth (see [Region.AreaHectares]) so that
//
//	total carbon (tons) = mean density (tons/ha) × area (ha).
package domain
