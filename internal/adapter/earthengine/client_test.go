package earthengine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
	"github.com/xunialabs/carbon-dashboard/internal/observability"
)

const (
	testToken         = "test-token"
	testProject       = "carbon-study"
	testCollection    = "LANDSAT/LC08/C02/T1_L2"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		project:    testProject,
		collection: testCollection,
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testWindow(t *testing.T) domain.DateRange {
	t.Helper()
	dr, err := domain.ParseDateRange("2024-01-01", "2024-06-01")
	require.NoError(t, err)
	return dr
}

func TestClient_VerifyCredentials_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/projects/"+testProject, r.URL.Path)

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(projectResponse{Name: "projects/" + testProject}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	require.NoError(t, c.VerifyCredentials(context.Background()))
}

func TestClient_VerifyCredentials_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	err := c.VerifyCredentials(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_ListImages_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":listImages")
		assert.Equal(t, "-73.5,42,-73,42.5", r.URL.Query().Get("region"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startTime"))
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("endTime"))
		assert.Equal(t, "properties.CLOUD_COVER", r.URL.Query().Get("orderBy"))

		resp := listImagesResponse{
			Images: []imageEntry{
				{Name: "projects/carbon-study/assets/a", ID: "LC08_013031_20240405", Properties: imageProperties{CloudCover: 3.1}},
				{Name: "projects/carbon-study/assets/b", ID: "LC08_013031_20240219", Properties: imageProperties{CloudCover: 41.7}},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	records, err := c.ListImages(context.Background(), domain.BerkshireTaconic, testWindow(t))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "LC08_013031_20240405", records[0].ID)
	assert.Equal(t, 3.1, records[0].CloudCover)
	assert.Equal(t, 41.7, records[1].CloudCover)
}

func TestClient_ListImages_EmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(listImagesResponse{Images: []imageEntry{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	records, err := c.ListImages(context.Background(), domain.BerkshireTaconic, testWindow(t))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_ImageDate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, ":metadata")
			w.Header().Set(headerContentType, contentTypeJSON)
			require.NoError(t, json.NewEncoder(w).Encode(imageMetadataResponse{StartTime: "2024-04-05T15:32:11Z"}))
		}))
		defer srv.Close()

		c := testClient(srv.URL)
		date, err := c.ImageDate(context.Background(), "projects/carbon-study/assets/a")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 4, 5, 15, 32, 11, 0, time.UTC), date)
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(headerContentType, contentTypeJSON)
			require.NoError(t, json.NewEncoder(w).Encode(imageMetadataResponse{StartTime: "last tuesday"}))
		}))
		defer srv.Close()

		c := testClient(srv.URL)
		_, err := c.ImageDate(context.Background(), "projects/carbon-study/assets/a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse")
	})
}

func TestClient_ReduceRegion_SingleImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body reduceRegionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "projects/carbon-study/assets/a", body.Image)
		assert.Nil(t, body.Window)
		assert.Equal(t, "SR_B5", body.Bands.NIR)
		assert.Equal(t, "SR_B4", body.Bands.Red)
		assert.Equal(t, 200.0, body.Multiplier)
		assert.Equal(t, "MEAN", body.Reducer)
		assert.Equal(t, 30.0, body.Scale)
		assert.Equal(t, int64(1e9), body.MaxPixels)

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(reduceRegionResponse{Value: 87.3}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	value, err := c.ReduceRegion(context.Background(), domain.ReduceRequest{
		Image:      "projects/carbon-study/assets/a",
		Region:     domain.BerkshireTaconic,
		Scale:      domain.ReduceScaleMeters,
		MaxPixels:  domain.ReduceMaxPixels,
		Multiplier: domain.CarbonPerNDVI,
	})
	require.NoError(t, err)
	assert.Equal(t, 87.3, value)
}

func TestClient_ReduceRegion_Composite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body reduceRegionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body.Image)
		require.NotNil(t, body.Window)
		assert.Equal(t, "2024-01-01", body.Window.StartTime)
		assert.Equal(t, "2024-06-01", body.Window.EndTime)
		assert.Equal(t, testCollection, body.Collection)

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(reduceRegionResponse{Value: 112.4}))
	}))
	defer srv.Close()

	window := testWindow(t)
	c := testClient(srv.URL)
	value, err := c.ReduceRegion(context.Background(), domain.ReduceRequest{
		Window:     &window,
		Region:     domain.BerkshireTaconic,
		Scale:      domain.ReduceScaleMeters,
		MaxPixels:  domain.ReduceMaxPixels,
		Multiplier: domain.CarbonPerNDVI,
	})
	require.NoError(t, err)
	assert.Equal(t, 112.4, value)
}

func TestClient_ReduceRegion_PixelCapExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"too many pixels in region"}`))
	}))
	defer srv.Close()

	window := testWindow(t)
	c := testClient(srv.URL)
	_, err := c.ReduceRegion(context.Background(), domain.ReduceRequest{
		Window:     &window,
		Region:     domain.BerkshireTaconic,
		Scale:      domain.ReduceScaleMeters,
		MaxPixels:  domain.ReduceMaxPixels,
		Multiplier: domain.CarbonPerNDVI,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "too many pixels")
}

func TestClient_CreateMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body createMapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 0.0, body.VisParams.Min)
		assert.Equal(t, 200.0, body.VisParams.Max)
		assert.Equal(t, []string{"red", "yellow", "green"}, body.VisParams.Palette)

		resp := createMapResponse{
			Name:    "projects/carbon-study/maps/m1",
			TileURL: "https://tiles.example.com/v1/maps/m1/tiles/{z}/{x}/{y}",
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	layer, err := c.CreateMap(context.Background(), domain.MapRequest{
		Window:     testWindow(t),
		Region:     domain.BerkshireTaconic,
		Multiplier: domain.CarbonPerNDVI,
		Min:        domain.MapRangeMin,
		Max:        domain.MapRangeMax,
		Palette:    domain.MapPalette(),
	})
	require.NoError(t, err)

	assert.Contains(t, layer.TileURL, "/tiles/{z}/{x}/{y}")
	assert.Equal(t, domain.BerkshireTaconic, layer.Bounds)
	assert.Equal(t, 0.0, layer.Min)
	assert.Equal(t, 200.0, layer.Max)
}
