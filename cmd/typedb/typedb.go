package typedb

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flugtracker/flugtracker-go/internal/conf"
	"github.com/flugtracker/flugtracker-go/internal/typedb"
)

// Command creates the command group for aircraft type database maintenance.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typedb",
		Short: "Manage the aircraft type database",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Force a re-download of the aircraft type database",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := typedb.New(settings, nil)
			if err := resolver.ManualRefresh(); err != nil {
				return err
			}
			fmt.Printf("Aircraft type database refreshed, %d entries\n", resolver.Len())
			return nil
		},
	})

	return cmd
}
