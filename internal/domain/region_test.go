package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	t.Run("valid bbox", func(t *testing.T) {
		r, err := ParseRegion("-73.5,42.0,-73.0,42.5")
		require.NoError(t, err)
		assert.Equal(t, BerkshireTaconic, r)
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		r, err := ParseRegion(" -73.5, 42.0, -73.0, 42.5 ")
		require.NoError(t, err)
		assert.Equal(t, BerkshireTaconic, r)
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := ParseRegion("-73.5,42.0,-73.0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want 4")
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ParseRegion("-73.5,42.0,east,42.5")
		require.Error(t, err)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		_, err := ParseRegion("-73.0,42.0,-73.5,42.5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "west bound")
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ParseRegion("-73.5,42.0,-73.0,91.0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WGS-84")
	})
}

func TestRegion_BBoxRoundTrip(t *testing.T) {
	r, err := ParseRegion(BerkshireTaconic.BBox())
	require.NoError(t, err)
	assert.Equal(t, BerkshireTaconic, r)
}

func TestRegion_Center(t *testing.T) {
	lat, lon := BerkshireTaconic.Center()
	assert.Equal(t, 42.25, lat)
	assert.Equal(t, -73.25, lon)
}

func TestRegion_AreaHectares(t *testing.T) {
	// A 0.5° × 0.5° rectangle near 42°N spans roughly 55.6 km × 41.2 km,
	// about 2.29×10⁵ ha on a spherical Earth.
	area := BerkshireTaconic.AreaHectares()
	assert.InDelta(t, 228800, area, 500)
}

func TestRegion_AreaShrinksTowardPole(t *testing.T) {
	equatorial := Region{West: 0, South: -0.25, East: 0.5, North: 0.25}
	polar := Region{West: 0, South: 80.0, East: 0.5, North: 80.5}
	assert.Greater(t, equatorial.AreaHectares(), polar.AreaHectares())
}
