package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database/entries"
	"github.com/mrlokans/foodjournal/internal/entrypoint"
	"github.com/mrlokans/foodjournal/internal/images"
	"github.com/mrlokans/foodjournal/internal/scheduler"
)

// NewSweepImagesCommand creates the sweep-images command, which removes
// photos no journal entry refers to.
func NewSweepImagesCommand(rootOpts *RootOptions) *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "sweep-images",
		Short: "Remove imported photos that no entry refers to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			rootOpts.apply(cfg)
			if cmd.Flags().Changed("grace") {
				cfg.Images.OrphanGrace = grace
			}

			library, err := images.NewLibrary(cfg.Images.Dir)
			if err != nil {
				return err
			}

			gw := entrypoint.NewGateway(cfg.Database)
			defer gw.Close()
			if err := gw.Initialize(cmd.Context()); err != nil {
				return err
			}

			sweeper := scheduler.NewImageSweeper(library, entries.NewRepository(gw), cfg.Images.OrphanGrace)
			removed, err := sweeper.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphaned images from %s\n", removed, library.Dir())
			return nil
		},
	}

	cmd.Flags().DurationVar(&grace, "grace", 0, "keep unreferenced photos younger than this (default $IMAGES_ORPHAN_GRACE or 24h)")

	return cmd
}
