// Package earthengine implements domain.ImageryService against the hosted
// imagery analytics platform's REST API. It is a pure client: filtering,
// band math, compositing, reduction, and tiling all run on the service side.
package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
	"github.com/xunialabs/carbon-dashboard/internal/observability"
)

// Client talks to the imagery service with a bearer token. Safe for reuse;
// the host UI serves one interaction at a time, so no internal locking is
// needed beyond what http.Client already provides.
type Client struct {
	project    string
	collection string
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an imagery service client.
func NewClient(baseURL, project, collection, token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		project:    project,
		collection: collection,
		token:      token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// VerifyCredentials probes the project endpoint with the configured token.
// A non-200 response means the credentials are missing or invalid.
func (c *Client) VerifyCredentials(ctx context.Context) error {
	u := fmt.Sprintf("%s/v1/projects/%s", c.baseURL, url.PathEscape(c.project))

	var out projectResponse
	if err := c.get(ctx, "verify", u, &out); err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}
	return nil
}

// ListImages returns captures intersecting region within window, ordered by
// ascending cloud cover. An empty result set is not an error.
func (c *Client) ListImages(ctx context.Context, region domain.Region, window domain.DateRange) ([]domain.ImageRecord, error) {
	u := fmt.Sprintf("%s/v1/projects/%s/collections/%s:listImages",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(c.collection))
	params := url.Values{
		"region":    {region.BBox()},
		"startTime": {window.StartString()},
		"endTime":   {window.EndString()},
		"orderBy":   {"properties.CLOUD_COVER"},
	}

	var out listImagesResponse
	if err := c.get(ctx, "list", u+"?"+params.Encode(), &out); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	records := make([]domain.ImageRecord, 0, len(out.Images))
	for _, img := range out.Images {
		records = append(records, domain.ImageRecord{
			Name:       img.Name,
			ID:         img.ID,
			CloudCover: img.Properties.CloudCover,
		})
	}
	return records, nil
}

// ImageDate resolves the capture timestamp of a single image.
func (c *Client) ImageDate(ctx context.Context, image string) (time.Time, error) {
	u := fmt.Sprintf("%s/v1/%s:metadata", c.baseURL, image)

	var out imageMetadataResponse
	if err := c.get(ctx, "date", u, &out); err != nil {
		return time.Time{}, fmt.Errorf("image date %s: %w", image, err)
	}

	t, err := time.Parse(time.RFC3339, out.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("image date %s: parse %q: %w", image, out.StartTime, err)
	}
	return t, nil
}

// ReduceRegion computes the spatial mean of the scaled vegetation index over
// req.Region, from one image or the temporal-mean composite of req.Window.
func (c *Client) ReduceRegion(ctx context.Context, req domain.ReduceRequest) (float64, error) {
	u := fmt.Sprintf("%s/v1/projects/%s/value:reduceRegion", c.baseURL, url.PathEscape(c.project))

	body := reduceRegionRequest{
		Image:      req.Image,
		Collection: c.collection,
		Bands:      bandSpec{NIR: domain.BandNIR, Red: domain.BandRed},
		Multiplier: req.Multiplier,
		Reducer:    "MEAN",
		Region:     req.Region.BBox(),
		Scale:      req.Scale,
		MaxPixels:  req.MaxPixels,
	}
	if req.Window != nil {
		body.Window = &windowSpec{
			StartTime: req.Window.StartString(),
			EndTime:   req.Window.EndString(),
		}
	}

	var out reduceRegionResponse
	if err := c.post(ctx, "reduce", u, body, &out); err != nil {
		return 0, fmt.Errorf("reduce region: %w", err)
	}
	return out.Value, nil
}

// CreateMap renders the carbon composite for req.Window as a tile layer.
func (c *Client) CreateMap(ctx context.Context, req domain.MapRequest) (domain.MapLayer, error) {
	u := fmt.Sprintf("%s/v1/projects/%s/maps:create", c.baseURL, url.PathEscape(c.project))

	body := createMapRequest{
		Collection: c.collection,
		Window: windowSpec{
			StartTime: req.Window.StartString(),
			EndTime:   req.Window.EndString(),
		},
		Bands:      bandSpec{NIR: domain.BandNIR, Red: domain.BandRed},
		Multiplier: req.Multiplier,
		Region:     req.Region.BBox(),
		VisParams: visParams{
			Min:     req.Min,
			Max:     req.Max,
			Palette: req.Palette,
		},
	}

	var out createMapResponse
	if err := c.post(ctx, "map", u, body, &out); err != nil {
		return domain.MapLayer{}, fmt.Errorf("create map: %w", err)
	}

	return domain.MapLayer{
		TileURL: out.TileURL,
		Bounds:  req.Region,
		Min:     req.Min,
		Max:     req.Max,
		Palette: req.Palette,
	}, nil
}

func (c *Client) get(ctx context.Context, method, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(method, req, out)
}

func (c *Client) post(ctx context.Context, method, fullURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(method, req, out)
}

func (c *Client) do(method string, req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ImageryAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ImageryRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ImageryRequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("imagery API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ImageryRequests.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}

	c.metrics.ImageryRequests.WithLabelValues(method, "success").Inc()
	return nil
}

// Imagery service API wire types.

type projectResponse struct {
	Name string `json:"name"`
}

type listImagesResponse struct {
	Images []imageEntry `json:"images"`
}

type imageEntry struct {
	Name       string          `json:"name"`
	ID         string          `json:"id"`
	Properties imageProperties `json:"properties"`
}

type imageProperties struct {
	CloudCover float64 `json:"CLOUD_COVER"`
}

type imageMetadataResponse struct {
	StartTime string `json:"startTime"`
}

type windowSpec struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type bandSpec struct {
	NIR string `json:"nir"`
	Red string `json:"red"`
}

type reduceRegionRequest struct {
	Image      string      `json:"image,omitempty"`
	Window     *windowSpec `json:"window,omitempty"`
	Collection string      `json:"collection"`
	Bands      bandSpec    `json:"bands"`
	Multiplier float64     `json:"multiplier"`
	Reducer    string      `json:"reducer"`
	Region     string      `json:"region"`
	Scale      float64     `json:"scale"`
	MaxPixels  int64       `json:"maxPixels"`
}

type reduceRegionResponse struct {
	Value float64 `json:"value"`
}

type createMapRequest struct {
	Collection string     `json:"collection"`
	Window     windowSpec `json:"window"`
	Bands      bandSpec   `json:"bands"`
	Multiplier float64    `json:"multiplier"`
	Region     string     `json:"region"`
	VisParams  visParams  `json:"visParams"`
}

type visParams struct {
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Palette []string `json:"palette"`
}

type createMapResponse struct {
	Name    string `json:"name"`
	TileURL string `json:"tileUrl"`
}
