package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/datastore"
	"github.com/flugtracker/flugtracker-go/internal/typedb"
)

func floatPtr(v float64) *float64 { return &v }

func newTestServer(t *testing.T) (*Server, datastore.Interface) {
	t.Helper()

	settings := &conf.Settings{}
	settings.Main.Name = "FlugTracker"
	settings.WebServer.Port = "8080"
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"
	settings.TypeDB.Path = filepath.Join(t.TempDir(), "aircraft_types.csv")
	settings.TypeDB.RefreshDays = 365
	settings.TypeDB.CacheTTL = 5
	require.NoError(t, os.WriteFile(settings.TypeDB.Path,
		[]byte("icao,model\nC172,Cessna 172\n"), 0o644))

	store := datastore.New(settings)
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return New(settings, store, typedb.New(settings, nil)), store
}

func seedObservations(t *testing.T, store datastore.Interface) {
	t.Helper()

	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, store.InsertBatch([]datastore.Observation{
		{IcaoHex: "3C66B1", Callsign: "DLH9U", BaroAltitudeFt: floatPtr(38000),
			GroundSpeedKt: floatPtr(440), Latitude: 48.28, Longitude: 8.43,
			ModelLabel: "Airbus A320", ObservedAt: ts},
		{IcaoHex: "4D2228", Callsign: "DEABC", BaroAltitudeFt: floatPtr(2500),
			GroundSpeedKt: floatPtr(95), Latitude: 48.27, Longitude: 8.42,
			ModelLabel: "Cessna 172", ObservedAt: ts + 300},
	}))
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecentFlights(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/flights/recent")
	require.Equal(t, http.StatusOK, rec.Code)

	var flights []flightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	require.Len(t, flights, 2)

	// Newest first
	assert.Equal(t, "4D2228", flights[0].IcaoHex)
	assert.Equal(t, "Cessna 172", flights[0].ModelLabel)
}

func TestRecentFlights_AltitudeCeiling(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/flights/recent?max_alt=3000")
	require.Equal(t, http.StatusOK, rec.Code)

	var flights []flightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	require.Len(t, flights, 1)
	assert.Equal(t, "4D2228", flights[0].IcaoHex)
}

func TestRecentFlights_BadParams(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{
		"/api/v1/flights/recent?limit=zero",
		"/api/v1/flights/recent?limit=-1",
		"/api/v1/flights/recent?max_alt=high",
		"/api/v1/flights/recent?date=30.08.2026",
	} {
		rec := doRequest(s, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestRecentFlights_DayFilter(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/flights/recent?date=2026-08-30")
	require.Equal(t, http.StatusOK, rec.Code)

	var flights []flightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	assert.Len(t, flights, 2)

	rec = doRequest(s, http.MethodGet, "/api/v1/flights/recent?date=2026-01-01")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flights))
	assert.Empty(t, flights)
}

func TestAnalyticsDaily(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/analytics/daily")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []datastore.DailyCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 1)
	assert.Equal(t, "2026-08-30", counts[0].Day)
	assert.Equal(t, 2, counts[0].Count)
}

func TestAnalyticsDaily_Limit(t *testing.T) {
	s, store := newTestServer(t)

	day1 := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC).Unix()
	day2 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, store.InsertBatch([]datastore.Observation{
		{IcaoHex: "3C66B1", Latitude: 48.28, Longitude: 8.43,
			ModelLabel: "Airbus A320", ObservedAt: day1},
		{IcaoHex: "4D2228", Latitude: 48.27, Longitude: 8.42,
			ModelLabel: "Cessna 172", ObservedAt: day2},
	}))

	rec := doRequest(s, http.MethodGet, "/api/v1/analytics/daily?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []datastore.DailyCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 1)
	assert.Equal(t, "2026-08-30", counts[0].Day)

	rec = doRequest(s, http.MethodGet, "/api/v1/analytics/daily?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsModels(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/analytics/models?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []datastore.ModelCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 1)
}

func TestAnalyticsHourly(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/analytics/hourly")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []hourlyCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 24)
	assert.Equal(t, 2, counts[10].Count)
}

func TestStats(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodGet, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalObservations)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 5, 0, 0, time.UTC).Unix(), stats.LatestObservedAt)
	assert.Equal(t, 1, stats.TypeDBEntries)
	assert.Equal(t, "FlugTracker", stats.Station)
}

func TestControlReset(t *testing.T) {
	s, store := newTestServer(t)
	seedObservations(t, store)

	rec := doRequest(s, http.MethodPost, "/api/v1/control/reset")
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := store.ObservationCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestControlReset_RequiresPost(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/control/reset")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
