package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flugtracker/flugtracker-go/internal/datastore"
)

const (
	defaultRecentLimit = 100
	maxRecentLimit     = 1000
)

// flightResponse is the wire shape for one observation.
type flightResponse struct {
	IcaoHex        string   `json:"icao_hex"`
	Callsign       string   `json:"callsign,omitempty"`
	BaroAltitudeFt *float64 `json:"baro_altitude_ft,omitempty"`
	GroundSpeedKt  *float64 `json:"ground_speed_kt,omitempty"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	ModelLabel     string   `json:"model_label"`
	ObservedAt     int64    `json:"observed_at"`
}

type hourlyCountResponse struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type statsResponse struct {
	TotalObservations int64  `json:"total_observations"`
	LatestObservedAt  int64  `json:"latest_observed_at"`
	TypeDBEntries     int    `json:"typedb_entries"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	Station           string `json:"station"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleRecentFlights returns the newest observations, optionally capped by a
// barometric altitude ceiling (max_alt, feet) and restricted to one UTC day
// (date, YYYY-MM-DD).
func (s *Server) handleRecentFlights(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		limit = min(parsed, maxRecentLimit)
	}

	var maxAlt *float64
	if raw := c.QueryParam("max_alt"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "max_alt must be a number"})
		}
		maxAlt = &parsed
	}

	day := c.QueryParam("date")
	if day != "" {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "date must be formatted YYYY-MM-DD"})
		}
	}

	observations, err := s.store.RecentObservations(limit, maxAlt, day)
	if err != nil {
		apiLogger.Error("Failed to query recent observations", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "query failed"})
	}

	flights := make([]flightResponse, 0, len(observations))
	for i := range observations {
		obs := &observations[i]
		flights = append(flights, flightResponse{
			IcaoHex:        obs.IcaoHex,
			Callsign:       obs.Callsign,
			BaroAltitudeFt: obs.BaroAltitudeFt,
			GroundSpeedKt:  obs.GroundSpeedKt,
			Latitude:       obs.Latitude,
			Longitude:      obs.Longitude,
			ModelLabel:     obs.ModelLabel,
			ObservedAt:     obs.ObservedAt,
		})
	}
	return c.JSON(http.StatusOK, flights)
}

func (s *Server) handleDailyCounts(c echo.Context) error {
	limit := 30
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		limit = parsed
	}

	counts, err := s.store.CountsByDay(limit)
	if err != nil {
		apiLogger.Error("Failed to query daily counts", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "query failed"})
	}
	if counts == nil {
		counts = []datastore.DailyCount{}
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) handleModelCounts(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		limit = parsed
	}

	counts, err := s.store.CountsByModel(limit)
	if err != nil {
		apiLogger.Error("Failed to query model counts", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "query failed"})
	}
	if counts == nil {
		counts = []datastore.ModelCount{}
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) handleHourlyCounts(c echo.Context) error {
	counts, err := s.store.CountsByHour()
	if err != nil {
		apiLogger.Error("Failed to query hourly counts", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "query failed"})
	}

	hourly := make([]hourlyCountResponse, 0, len(counts))
	for hour, count := range counts {
		hourly = append(hourly, hourlyCountResponse{Hour: hour, Count: count})
	}
	return c.JSON(http.StatusOK, hourly)
}

func (s *Server) handleStats(c echo.Context) error {
	total, err := s.store.ObservationCount()
	if err != nil {
		apiLogger.Error("Failed to query observation count", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "query failed"})
	}
	latest, err := s.store.LatestObservedAt()
	if err != nil {
		apiLogger.Error("Failed to query latest observation", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "query failed"})
	}

	return c.JSON(http.StatusOK, statsResponse{
		TotalObservations: total,
		LatestObservedAt:  latest,
		TypeDBEntries:     s.resolver.Len(),
		UptimeSeconds:     int64(time.Since(s.started).Seconds()),
		Station:           s.settings.Main.Name,
	})
}

// handleReset wipes all stored observations.
func (s *Server) handleReset(c echo.Context) error {
	if err := s.store.ResetAll(); err != nil {
		apiLogger.Error("Failed to reset observations", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "reset failed"})
	}
	apiLogger.Info("All observations deleted via control endpoint")
	return c.JSON(http.StatusOK, map[string]string{"status": "reset"})
}

// handleTypeDBRefresh forces a re-download of the aircraft type database.
func (s *Server) handleTypeDBRefresh(c echo.Context) error {
	if err := s.resolver.ManualRefresh(); err != nil {
		apiLogger.Error("Manual type database refresh failed", "error", err)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "refresh failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "refreshed",
		"entries": s.resolver.Len(),
	})
}
