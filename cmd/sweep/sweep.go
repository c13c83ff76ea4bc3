package sweep

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/datastore"
	"github.com/flugtracker/flugtracker-go/internal/tracker"
)

// Command creates the command that runs one retention sweep and exits.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete observations past the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(settings)
		},
	}

	cmd.Flags().StringVar(&settings.Tracker.Retention.MaxAge, "maxage", viper.GetString("tracker.retention.maxage"), "Observation retention period (e.g. 90d, 12m)")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}

	return cmd
}

func runSweep(settings *conf.Settings) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	service := tracker.New(settings, nil, nil, store, nil, nil)
	deleted, err := service.SweepOnce(time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d observations older than %s\n", deleted, settings.Tracker.Retention.MaxAge)
	return nil
}
