package domain

// Landsat 8 Collection 2 Level-2 surface reflectance bands used for NDVI.
const (
	BandNIR = "SR_B5"
	BandRed = "SR_B4"
)

// CarbonPerNDVI is the linear coefficient converting NDVI to carbon density
// in tons per hectare. A simplified model: carbon = NDVI × 200.
const CarbonPerNDVI = 200.0

// Reduction parameters for regional means, matching the native 30 m Landsat
// resolution. Reductions touching more than ReduceMaxPixels pixels are
// rejected by the imagery service.
const (
	ReduceScaleMeters = 30.0
	ReduceMaxPixels   = int64(1e9)
)

// Dashboard color ramp for the carbon overlay: fixed value range with a
// red → yellow → green palette.
const (
	MapRangeMin = 0.0
	MapRangeMax = 200.0
)

// MapPalette returns the overlay palette. A fresh slice each call so callers
// cannot mutate the shared ramp.
func MapPalette() []string {
	return []string{"red", "yellow", "green"}
}

// NDVI computes the normalized difference vegetation index from
// near-infrared and red reflectance. A zero band sum yields 0 rather than
// NaN. For non-negative inputs with a nonzero sum the result is in [-1, 1].
func NDVI(nir, red float64) float64 {
	sum := nir + red
	if sum == 0 {
		return 0
	}
	return (nir - red) / sum
}

// EstimateStorage converts a vegetation index value to a carbon density in
// tons per hectare. Pure linear transform; the output is intentionally not
// clamped to a physically plausible range.
func EstimateStorage(ndvi float64) float64 {
	return ndvi * CarbonPerNDVI
}
