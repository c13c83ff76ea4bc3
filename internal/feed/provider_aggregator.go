package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

const aggregatorProviderName = "aggregator"

// aggregatorResponse mirrors the adsb.lol point API response.
type aggregatorResponse struct {
	Aircraft []aggregatorRecord `json:"ac"`
	Msg      string             `json:"msg"`
}

// aggregatorRecord is one element of the aggregator's ac array. Unlike the
// receiver, position validity is simply field presence.
type aggregatorRecord struct {
	Hex     string          `json:"hex"`
	Flight  string          `json:"flight"`
	AltBaro json.RawMessage `json:"alt_baro"`
	GS      *float64        `json:"gs"`
	Lat     *float64        `json:"lat"`
	Lon     *float64        `json:"lon"`
	Type    string          `json:"t"`
}

// AggregatorProvider reads aircraft state from a geographically scoped
// aggregator point API.
type AggregatorProvider struct {
	url    string
	client *http.Client
}

// NewAggregatorProvider creates a provider querying the point API for the
// circle around the station. The API takes a whole-number radius, so the
// geofence radius is rounded up; the pipeline applies the exact filter.
func NewAggregatorProvider(baseURL string, lat, lon, radiusNM float64, timeout time.Duration) *AggregatorProvider {
	radius := int(math.Ceil(radiusNM))
	if radius < 1 {
		radius = 1
	}
	return &AggregatorProvider{
		url:    fmt.Sprintf("%s/v2/point/%.4f/%.4f/%d", baseURL, lat, lon, radius),
		client: &http.Client{Timeout: timeout},
	}
}

func (p *AggregatorProvider) Name() string { return aggregatorProviderName }

// FetchAircraft fetches and normalizes one snapshot from the aggregator.
func (p *AggregatorProvider) FetchAircraft(ctx context.Context) ([]Aircraft, error) {
	var doc aggregatorResponse
	err := fetchJSON(ctx, p.client, p.url, aggregatorProviderName, func(body []byte) error {
		return json.Unmarshal(body, &doc)
	})
	if err != nil {
		return nil, err
	}

	aircraft := make([]Aircraft, 0, len(doc.Aircraft))
	for i := range doc.Aircraft {
		rec := &doc.Aircraft[i]
		aircraft = append(aircraft, Aircraft{
			Hex:            normalizeHex(rec.Hex),
			Callsign:       normalizeCallsign(rec.Flight),
			BaroAltitudeFt: parseAltBaro(rec.AltBaro),
			GroundSpeedKt:  rec.GS,
			Lat:            rec.Lat,
			Lon:            rec.Lon,
			TypeCode:       rec.Type,
		})
	}

	feedLogger.Debug("Fetched aggregator snapshot", "aircraft", len(aircraft))
	return aircraft, nil
}
