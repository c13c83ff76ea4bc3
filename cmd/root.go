package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flugtracker/flugtracker-go/cmd/sweep"
	"github.com/flugtracker/flugtracker-go/cmd/track"
	"github.com/flugtracker/flugtracker-go/cmd/typedb"
	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flugtracker",
		Short: "FlugTracker CLI",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
	}

	subcommands := []*cobra.Command{
		track.Command(settings),
		sweep.Command(settings),
		typedb.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}

		// The default logger is initialized before flag parsing, so the
		// debug flag has to be re-applied once it is bound
		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
		} else {
			logging.SetLevel(slog.LevelInfo)
		}

		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.Latitude, "latitude", viper.GetFloat64("station.latitude"), "Station latitude in decimal degrees")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.Longitude, "longitude", viper.GetFloat64("station.longitude"), "Station longitude in decimal degrees")
	rootCmd.PersistentFlags().Float64Var(&settings.Station.RadiusNM, "radius", viper.GetFloat64("station.radiusnm"), "Geofence radius in nautical miles")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
