// Package feed fetches live aircraft state from a configured source and
// normalizes the heterogeneous feed schemas into one record shape.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/errors"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

// Package-level logger for feed operations
var (
	feedLogger   *slog.Logger
	feedLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	feedLevelVar.Set(slog.LevelInfo)
	feedLogger, _, err = logging.NewFileLogger("logs/feed.log", "feed", feedLevelVar)
	if err != nil {
		logging.Error("Failed to initialize feed file logger", "error", err)
		feedLogger = logging.Default().With("service", "feed")
	}
}

// Aircraft is one normalized state report. Optional fields are nil when the
// source did not report them; the pipeline decides what to drop.
type Aircraft struct {
	Hex            string   // 24-bit address, hex-encoded, uppercase
	Callsign       string   // trimmed, may be empty
	BaroAltitudeFt *float64 // barometric altitude in feet
	GroundSpeedKt  *float64 // ground speed in knots
	Lat            *float64 // latitude in degrees
	Lon            *float64 // longitude in degrees
	TypeCode       string   // raw ICAO type designator as reported
}

// HasPosition reports whether the record carries a resolvable position.
func (a *Aircraft) HasPosition() bool {
	return a.Lat != nil && a.Lon != nil
}

// Provider fetches one polling cycle's worth of aircraft state.
type Provider interface {
	FetchAircraft(ctx context.Context) ([]Aircraft, error)
	Name() string
}

// New selects a feed provider based on configuration.
func New(settings *conf.Settings) (Provider, error) {
	timeout := time.Duration(settings.Feed.Timeout) * time.Second

	switch settings.Feed.Provider {
	case "receiver":
		return NewReceiverProvider(settings.Feed.ReceiverURL, timeout), nil
	case "aggregator":
		return NewAggregatorProvider(
			settings.Feed.AggregatorURL,
			settings.Station.Latitude,
			settings.Station.Longitude,
			settings.Station.RadiusNM,
			timeout,
		), nil
	default:
		return nil, errors.New(fmt.Errorf("invalid feed provider: %s", settings.Feed.Provider)).
			Component("feed").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Feed.Provider).
			Build()
	}
}

// fetchJSON issues a GET with a bounded timeout and decodes the body into
// dst. Non-200 responses and malformed payloads are typed errors.
func fetchJSON(ctx context.Context, client *http.Client, url, provider string, decode func([]byte) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return errors.New(err).
			Component("feed").
			Category(errors.CategoryNetwork).
			Context("provider", provider).
			Build()
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.New(err).
			Component("feed").
			Category(errors.CategoryNetwork).
			Context("provider", provider).
			Context("url", url).
			Build()
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			feedLogger.Debug("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("feed returned status %d", resp.StatusCode).
			Component("feed").
			Category(errors.CategoryNetwork).
			Context("provider", provider).
			Context("status_code", resp.StatusCode).
			Build()
	}

	body, err := readBody(resp)
	if err != nil {
		return errors.New(err).
			Component("feed").
			Category(errors.CategoryNetwork).
			Context("provider", provider).
			Context("operation", "read_response_body").
			Build()
	}

	if err := decode(body); err != nil {
		return errors.New(err).
			Component("feed").
			Category(errors.CategoryFeedParsing).
			Context("provider", provider).
			Build()
	}
	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(resp.Body)
}

// normalizeHex upper-cases a hex address and strips the "~" prefix some
// receivers use for non-ICAO (TIS-B) addresses.
func normalizeHex(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "~"))
}

// normalizeCallsign trims the padding receivers append to the flight field.
func normalizeCallsign(callsign string) string {
	return strings.TrimSpace(callsign)
}
