package track

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/tracker"
)

// Command creates the command that runs the tracker in continuous mode.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track aircraft in continuous mode",
		Long:  "Poll the configured feed on a fixed interval, persist observations inside the geofence and serve the HTTP API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tracker.Run(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the track command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Feed.Provider, "provider", viper.GetString("feed.provider"), "Feed source (\"receiver\" or \"aggregator\")")
	cmd.Flags().StringVar(&settings.Feed.ReceiverURL, "receiverurl", viper.GetString("feed.receiverurl"), "URL of the local receiver aircraft.json")
	cmd.Flags().IntVar(&settings.Tracker.PollInterval, "interval", viper.GetInt("tracker.pollinterval"), "Polling interval in seconds")
	cmd.Flags().StringVar(&settings.Tracker.Retention.MaxAge, "maxage", viper.GetString("tracker.retention.maxage"), "Observation retention period (e.g. 90d, 12m)")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "HTTP API port")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
