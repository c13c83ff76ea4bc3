package feed

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flugtracker/flugtracker-go/internal/conf"
)

func TestAggregatorProvider_FetchAircraft(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	response := `{
		"ac": [
			{"hex": "3c66b1", "flight": "DLH9U ", "alt_baro": 38000, "gs": 447.2,
			 "lat": 48.301, "lon": 8.442, "t": "A320"},
			{"hex": "4d2228", "flight": "RYR12", "alt_baro": 2100, "gs": 160.5, "t": "B738"}
		],
		"msg": "No error"
	}`
	httpmock.RegisterResponder("GET", "https://api.adsb.lol/v2/point/48.2789/8.4294/5",
		httpmock.NewStringResponder(http.StatusOK, response))

	p := NewAggregatorProvider("https://api.adsb.lol", 48.2789, 8.4294, 5, 5*time.Second)
	aircraft, err := p.FetchAircraft(context.Background())
	require.NoError(t, err)
	require.Len(t, aircraft, 2)

	first := aircraft[0]
	assert.Equal(t, "3C66B1", first.Hex)
	assert.Equal(t, "DLH9U", first.Callsign)
	assert.True(t, first.HasPosition())
	assert.InDelta(t, 48.301, *first.Lat, 0.0001)

	// Record without position fields keeps nil coordinates
	second := aircraft[1]
	assert.False(t, second.HasPosition())
	require.NotNil(t, second.BaroAltitudeFt)
	assert.InDelta(t, 2100, *second.BaroAltitudeFt, 0.01)
}

func TestAggregatorProvider_RoundsRadiusUp(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://api.adsb.lol/v2/point/48.2789/8.4294/3",
		httpmock.NewStringResponder(http.StatusOK, `{"ac": [], "msg": "No error"}`))

	p := NewAggregatorProvider("https://api.adsb.lol", 48.2789, 8.4294, 2.5, 5*time.Second)
	aircraft, err := p.FetchAircraft(context.Background())

	require.NoError(t, err)
	assert.Empty(t, aircraft)
}

func TestAggregatorProvider_Timeout(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://api.adsb.lol/v2/point/48.2789/8.4294/5",
		httpmock.NewErrorResponder(context.DeadlineExceeded))

	p := NewAggregatorProvider("https://api.adsb.lol", 48.2789, 8.4294, 5, 1*time.Second)
	_, err := p.FetchAircraft(context.Background())

	require.Error(t, err)
}

func TestNew_SelectsProvider(t *testing.T) {
	settings := &conf.Settings{}
	settings.Feed.Timeout = 5
	settings.Station.Latitude = 48.2789
	settings.Station.Longitude = 8.4294
	settings.Station.RadiusNM = 5

	settings.Feed.Provider = "receiver"
	settings.Feed.ReceiverURL = receiverURL
	p, err := New(settings)
	require.NoError(t, err)
	assert.Equal(t, "receiver", p.Name())

	settings.Feed.Provider = "aggregator"
	settings.Feed.AggregatorURL = "https://api.adsb.lol"
	p, err = New(settings)
	require.NoError(t, err)
	assert.Equal(t, "aggregator", p.Name())

	settings.Feed.Provider = "opensky"
	_, err = New(settings)
	require.Error(t, err)
}
