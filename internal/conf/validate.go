package conf

import (
	"errors"
	"fmt"
)

// ValidateSettings checks the loaded configuration for conditions the
// tracker cannot start under.
func ValidateSettings(settings *Settings) error {
	var errs []error

	if settings.Station.Latitude < -90 || settings.Station.Latitude > 90 {
		errs = append(errs, fmt.Errorf("station latitude out of range: %f", settings.Station.Latitude))
	}
	if settings.Station.Longitude < -180 || settings.Station.Longitude > 180 {
		errs = append(errs, fmt.Errorf("station longitude out of range: %f", settings.Station.Longitude))
	}
	if settings.Station.RadiusNM <= 0 {
		errs = append(errs, fmt.Errorf("station radius must be positive: %f", settings.Station.RadiusNM))
	}

	switch settings.Feed.Provider {
	case "receiver", "aggregator":
	default:
		errs = append(errs, fmt.Errorf("invalid feed provider: %s", settings.Feed.Provider))
	}
	if settings.Feed.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("feed timeout must be positive: %d", settings.Feed.Timeout))
	}

	if settings.Tracker.PollInterval < 10 {
		errs = append(errs, fmt.Errorf("poll interval must be at least 10 seconds: %d", settings.Tracker.PollInterval))
	}
	if settings.Tracker.Retention.Interval < 60 {
		errs = append(errs, fmt.Errorf("retention interval must be at least 60 seconds: %d", settings.Tracker.Retention.Interval))
	}
	if _, err := ParseRetentionPeriod(settings.Tracker.Retention.MaxAge); err != nil {
		errs = append(errs, fmt.Errorf("invalid retention max age: %w", err))
	}

	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		errs = append(errs, fmt.Errorf("no observation store enabled, enable sqlite or mysql output"))
	}
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		errs = append(errs, fmt.Errorf("only one observation store may be enabled at a time"))
	}

	return errors.Join(errs...)
}
