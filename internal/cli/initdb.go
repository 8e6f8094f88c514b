package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/entrypoint"
)

// NewInitDBCommand creates the init-db command, which creates or migrates
// the database file and exits.
func NewInitDBCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create or migrate the journal database and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			rootOpts.apply(cfg)

			gw := entrypoint.NewGateway(cfg.Database)
			defer gw.Close()

			if err := gw.Initialize(cmd.Context()); err != nil {
				return err
			}
			if err := gw.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("database check failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", gw.Path())
			return nil
		},
	}
}
