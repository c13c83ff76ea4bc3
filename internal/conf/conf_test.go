package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRetentionPeriod(t *testing.T) {
	tests := []struct {
		input string
		hours int
	}{
		{"24", 24},
		{"24h", 24},
		{"7d", 7 * 24},
		{"2w", 2 * 24 * 7},
		{"3m", 3 * 24 * 30},
		{"1y", 24 * 365},
	}

	for _, tc := range tests {
		hours, err := ParseRetentionPeriod(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.hours, hours, tc.input)
	}
}

func TestParseRetentionPeriod_Invalid(t *testing.T) {
	for _, input := range []string{"", "d", "1x", "four weeks", "-"} {
		_, err := ParseRetentionPeriod(input)
		assert.Error(t, err, input)
	}
}

func validSettings() *Settings {
	settings := &Settings{}
	settings.Station.Latitude = 48.2789
	settings.Station.Longitude = 8.4294
	settings.Station.RadiusNM = 5
	settings.Feed.Provider = "aggregator"
	settings.Feed.Timeout = 5
	settings.Tracker.PollInterval = 300
	settings.Tracker.Retention.Interval = 86400
	settings.Tracker.Retention.MaxAge = "90d"
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = "flugtracker.db"
	return settings
}

func TestValidateSettings(t *testing.T) {
	assert.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettings_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"latitude out of range", func(s *Settings) { s.Station.Latitude = 91 }},
		{"longitude out of range", func(s *Settings) { s.Station.Longitude = -181 }},
		{"zero radius", func(s *Settings) { s.Station.RadiusNM = 0 }},
		{"unknown provider", func(s *Settings) { s.Feed.Provider = "opensky" }},
		{"poll interval too short", func(s *Settings) { s.Tracker.PollInterval = 5 }},
		{"bad retention max age", func(s *Settings) { s.Tracker.Retention.MaxAge = "soon" }},
		{"no store enabled", func(s *Settings) { s.Output.SQLite.Enabled = false }},
		{"both stores enabled", func(s *Settings) { s.Output.MySQL.Enabled = true }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := validSettings()
			tc.mutate(settings)
			assert.Error(t, ValidateSettings(settings))
		})
	}
}
