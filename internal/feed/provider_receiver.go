package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const receiverProviderName = "receiver"

// maxPositionAgeSec is the oldest last-seen-position age a receiver record
// may have for its position to count as current.
const maxPositionAgeSec = 60.0

// receiverResponse mirrors the dump1090 aircraft.json document.
type receiverResponse struct {
	Now      float64          `json:"now"`
	Aircraft []receiverRecord `json:"aircraft"`
}

// receiverRecord is one element of the receiver's aircraft array. alt_baro
// is either a number or the string "ground".
type receiverRecord struct {
	Hex     string          `json:"hex"`
	Flight  string          `json:"flight"`
	AltBaro json.RawMessage `json:"alt_baro"`
	GS      *float64        `json:"gs"`
	Lat     *float64        `json:"lat"`
	Lon     *float64        `json:"lon"`
	Type    string          `json:"t"`
	SeenPos *float64        `json:"seen_pos"`
}

// ReceiverProvider reads aircraft state from a local dump1090-style
// receiver process.
type ReceiverProvider struct {
	url    string
	client *http.Client
}

// NewReceiverProvider creates a provider polling the given aircraft.json URL.
func NewReceiverProvider(url string, timeout time.Duration) *ReceiverProvider {
	return &ReceiverProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *ReceiverProvider) Name() string { return receiverProviderName }

// FetchAircraft fetches and normalizes one snapshot from the receiver.
func (p *ReceiverProvider) FetchAircraft(ctx context.Context) ([]Aircraft, error) {
	var doc receiverResponse
	err := fetchJSON(ctx, p.client, p.url, receiverProviderName, func(body []byte) error {
		return json.Unmarshal(body, &doc)
	})
	if err != nil {
		return nil, err
	}

	aircraft := make([]Aircraft, 0, len(doc.Aircraft))
	for i := range doc.Aircraft {
		aircraft = append(aircraft, normalizeReceiverRecord(&doc.Aircraft[i]))
	}

	feedLogger.Debug("Fetched receiver snapshot", "aircraft", len(aircraft))
	return aircraft, nil
}

// normalizeReceiverRecord converts a receiver record into the canonical
// shape. The receiver keeps reporting stale coordinates after losing the
// position fix, so the position only counts when seen_pos is present and
// recent.
func normalizeReceiverRecord(rec *receiverRecord) Aircraft {
	a := Aircraft{
		Hex:            normalizeHex(rec.Hex),
		Callsign:       normalizeCallsign(rec.Flight),
		BaroAltitudeFt: parseAltBaro(rec.AltBaro),
		GroundSpeedKt:  rec.GS,
		TypeCode:       rec.Type,
	}

	if rec.SeenPos != nil && *rec.SeenPos <= maxPositionAgeSec {
		a.Lat = rec.Lat
		a.Lon = rec.Lon
	}
	return a
}

// parseAltBaro handles the receiver's altitude field, which is a number in
// feet or the string "ground" for aircraft on the surface.
func parseAltBaro(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var ft float64
	if err := json.Unmarshal(raw, &ft); err == nil {
		return &ft
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s == "ground" {
		ground := 0.0
		return &ground
	}
	return nil
}
