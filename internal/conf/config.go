// config.go: defines the settings struct and functions to load and save the
// tracker configuration.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// StationSettings describes the fixed reference point and the inclusion
// radius of the geofence around it.
type StationSettings struct {
	Latitude  float64 // station latitude in degrees
	Longitude float64 // station longitude in degrees
	RadiusNM  float64 // geofence radius in nautical miles
}

// FeedSettings selects and configures the aircraft state feed.
type FeedSettings struct {
	Provider      string // "receiver" (local dump1090) or "aggregator" (adsb.lol)
	ReceiverURL   string // URL of the local receiver aircraft.json
	AggregatorURL string // base URL of the aggregator point API
	Timeout       int    // fetch timeout in seconds
}

// TypeDBSettings configures the aircraft type reference database.
type TypeDBSettings struct {
	Path        string // path of the local reference file
	RemoteURL   string // remote listing the reference file is refreshed from
	RefreshDays int    // refresh cadence, keyed by file modification time
	CacheTTL    int    // resolver cache TTL in minutes
}

// RetentionSettings configures the periodic deletion of old observations.
type RetentionSettings struct {
	Interval int    // seconds between retention sweeps
	MaxAge   string // maximum observation age, e.g. "90d"
}

// TrackerSettings configures the ingestion pipeline.
type TrackerSettings struct {
	PollInterval int // seconds between ingestion cycles
	Retention    RetentionSettings
}

// MQTTSettings configures the optional observation publisher.
type MQTTSettings struct {
	Enabled  bool
	Broker   string // broker URL, e.g. tcp://localhost:1883
	Topic    string
	Username string
	Password string
	Retain   bool
}

// TelemetrySettings configures the optional Prometheus endpoint.
type TelemetrySettings struct {
	Enabled bool
	Listen  string // listen address and port, e.g. "0.0.0.0:8090"
}

// WebServerSettings configures the HTTP API server.
type WebServerSettings struct {
	Enabled bool
	Port    string
}

// SQLiteSettings contains the embedded database configuration.
type SQLiteSettings struct {
	Enabled bool
	Path    string
}

// MySQLSettings contains the MySQL database configuration.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Database string
	Host     string
	Port     string
}

// OutputSettings selects the observation store backend.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

// Settings is the root configuration of the tracker.
type Settings struct {
	Debug bool

	Main struct {
		Name string // node name used as client id for integrations
	}

	Station   StationSettings
	Feed      FeedSettings
	TypeDB    TypeDBSettings
	Tracker   TrackerSettings
	MQTT      MQTTSettings
	Telemetry TelemetrySettings
	WebServer WebServerSettings
	Output    OutputSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment into a Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// Setting returns the current settings instance.
func Setting() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := configSearchPaths()
	if err != nil {
		return fmt.Errorf("error getting config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Defaults for each configuration parameter, defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, create one with defaults
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// configSearchPaths returns the directories viper looks for config.yaml in,
// most specific first.
func configSearchPaths() ([]string, error) {
	paths := []string{"."}
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".config", "flugtracker"))
	}
	return paths, nil
}

// createDefaultConfig writes the default configuration to the given directory
// so the user has a commented starting point on first run.
func createDefaultConfig(dir string) error {
	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return fmt.Errorf("error unmarshaling defaults: %w", err)
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	return nil
}
