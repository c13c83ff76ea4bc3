package typedb

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flugtracker/flugtracker-go/internal/conf"
)

func testSettings(t *testing.T, path string) *conf.Settings {
	t.Helper()

	settings := &conf.Settings{}
	settings.TypeDB.Path = path
	settings.TypeDB.RemoteURL = "https://types.example.com/listing"
	settings.TypeDB.RefreshDays = 180
	settings.TypeDB.CacheTTL = 5
	return settings
}

func writeReferenceFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "aircraft_types.csv")
	content := "icao,model\nC172,Cessna 172\nA320,Airbus A320\nEC35,Eurocopter EC135\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_ReferenceMapping(t *testing.T) {
	r := New(testSettings(t, writeReferenceFile(t)), nil)

	assert.Equal(t, "Cessna 172", r.Resolve("ABCDEF", "C172"))
	assert.Equal(t, "Airbus A320", r.Resolve("3C66B1", " a320 "))
}

func TestResolve_FallbackChain(t *testing.T) {
	r := New(testSettings(t, writeReferenceFile(t)), nil)

	// Unresolvable but non-empty code falls back to the code itself
	assert.Equal(t, "ZZZZ", r.Resolve("ABCDEF", "ZZZZ"))
	// No code at all falls back to the hex address
	assert.Equal(t, "ABCDEF", r.Resolve("abcdef", ""))
	// Nothing to go on yields the sentinel, never an empty string
	assert.Equal(t, UnknownModel, r.Resolve("", "  "))
}

func TestResolve_NeverEmpty(t *testing.T) {
	r := New(testSettings(t, writeReferenceFile(t)), nil)

	inputs := [][2]string{
		{"", ""}, {"AB12CD", ""}, {"", "B738"}, {"AB12CD", "B738"},
	}
	for _, in := range inputs {
		assert.NotEmpty(t, r.Resolve(in[0], in[1]))
	}
}

func TestResolve_LiveLookupTakesPriority(t *testing.T) {
	lookup := func(hex string) string {
		if hex == "ABCDEF" {
			return "EC35"
		}
		return ""
	}
	r := New(testSettings(t, writeReferenceFile(t)), lookup)

	// The receiver-backed type wins over the feed-provided code
	assert.Equal(t, "Eurocopter EC135", r.Resolve("abcdef", "C172"))
	// Other aircraft still resolve through the feed code
	assert.Equal(t, "Cessna 172", r.Resolve("3C66B1", "C172"))
}

func TestManualRefresh_SwapsMapping(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	listing := `[
		{"Designator": "PA28", "ModelFullName": "Piper PA-28 Cherokee"},
		{"Designator": "c172", "ModelFullName": "Cessna 172 Skyhawk"},
		{"Designator": "", "ModelFullName": "ignored"}
	]`
	httpmock.RegisterResponder("GET", "https://types.example.com/listing",
		httpmock.NewStringResponder(http.StatusOK, listing))

	r := New(testSettings(t, writeReferenceFile(t)), nil)
	require.Equal(t, 3, r.Len())

	require.NoError(t, r.ManualRefresh())

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "Piper PA-28 Cherokee", r.Resolve("", "PA28"))
	assert.Equal(t, "Cessna 172 Skyhawk", r.Resolve("", "C172"))
	// Old entry is gone after the swap
	assert.Equal(t, "A320", r.Resolve("", "A320"))
}

func TestManualRefresh_RemoteFailureKeepsMapping(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://types.example.com/listing",
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	r := New(testSettings(t, writeReferenceFile(t)), nil)
	require.Error(t, r.ManualRefresh())

	// The previous mapping stays in place
	assert.Equal(t, "Cessna 172", r.Resolve("", "C172"))
}

func TestNew_MissingFileIsNotFatal(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://types.example.com/listing",
		httpmock.NewErrorResponder(assert.AnError))

	path := filepath.Join(t.TempDir(), "missing.csv")
	r := New(testSettings(t, path), nil)

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, "B738", r.Resolve("", "B738"))
}
