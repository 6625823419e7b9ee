package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/xunialabs/carbon-dashboard/internal/domain"
)

// dateRangeQuery carries the raw start/end query parameters for validation.
type dateRangeQuery struct {
	Start string
	End   string
}

func (q dateRangeQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Start, validation.Required, validation.Date(domain.DateLayout)),
		validation.Field(&q.End, validation.Required, validation.Date(domain.DateLayout)),
	)
}

// windowFromRequest resolves the date range for a view request. Absent
// parameters fall back to the default window; present ones are validated and
// normalized. Any error here is a client error and no remote query is made.
func windowFromRequest(r *http.Request) (domain.DateRange, error) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" && end == "" {
		return domain.DefaultRange(), nil
	}

	q := dateRangeQuery{Start: start, End: end}
	if err := q.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return domain.ParseDateRange(start, end)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	s.metrics.ViewRequests.WithLabelValues("map").Inc()

	window, err := windowFromRequest(r)
	if err != nil {
		s.viewError(w, "map", http.StatusBadRequest, err)
		return
	}

	layer, err := s.provider.CarbonMap(r.Context(), window)
	if err != nil {
		s.viewError(w, "map", http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, layer)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ViewRequests.WithLabelValues("statistics").Inc()

	window, err := windowFromRequest(r)
	if err != nil {
		s.viewError(w, "statistics", http.StatusBadRequest, err)
		return
	}

	stats, err := s.provider.AreaStatistics(r.Context(), window)
	if err != nil {
		s.viewError(w, "statistics", http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	s.metrics.ViewRequests.WithLabelValues("timeseries").Inc()

	window, err := windowFromRequest(r)
	if err != nil {
		s.viewError(w, "timeseries", http.StatusBadRequest, err)
		return
	}

	rows, err := s.provider.TimeSeries(r.Context(), window)
	if err != nil {
		s.viewError(w, "timeseries", http.StatusBadGateway, err)
		return
	}

	out := timeSeriesResponse{Rows: make([]timeSeriesRow, 0, len(rows))}
	for _, row := range rows {
		out.Rows = append(out.Rows, timeSeriesRow{
			Date:   row.Date.Format(domain.DateLayout),
			Carbon: row.Carbon,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleConfig exposes the fixed study area and defaults so the page needs
// no server-side templating.
func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	region := s.provider.Region()
	lat, lon := region.Center()
	window := domain.DefaultRange()

	writeJSON(w, http.StatusOK, configResponse{
		Bounds:       region,
		CenterLat:    lat,
		CenterLon:    lon,
		DefaultStart: window.StartString(),
		DefaultEnd:   window.EndString(),
		MaxDate:      domain.Today().Format(domain.DateLayout),
		RangeMin:     domain.MapRangeMin,
		RangeMax:     domain.MapRangeMax,
	})
}

// viewError surfaces a failure inline for one view without touching siblings.
func (s *Server) viewError(w http.ResponseWriter, view string, status int, err error) {
	s.metrics.ViewErrors.WithLabelValues(view).Inc()
	s.logger.Warn("view request failed", "view", view, "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// View API response types.

type timeSeriesResponse struct {
	Rows []timeSeriesRow `json:"rows"`
}

type timeSeriesRow struct {
	Date   string  `json:"date"`
	Carbon float64 `json:"carbon"`
}

type configResponse struct {
	Bounds       domain.Region `json:"bounds"`
	CenterLat    float64       `json:"centerLat"`
	CenterLon    float64       `json:"centerLon"`
	DefaultStart string        `json:"defaultStart"`
	DefaultEnd   string        `json:"defaultEnd"`
	MaxDate      string        `json:"maxDate"`
	RangeMin     float64       `json:"rangeMin"`
	RangeMax     float64       `json:"rangeMax"`
}
