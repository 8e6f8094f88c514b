package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/foodjournal/internal/config"
)

// BuildInfo is set at build time via ldflags in main.
type BuildInfo struct {
	Version string
	Commit  string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabasePath string
	ImagesDir    string
}

// apply overrides cfg with any flags given on the command line.
func (o *RootOptions) apply(cfg *config.Config) {
	if o.DatabasePath != "" {
		cfg.Database.Path = o.DatabasePath
	}
	if o.ImagesDir != "" {
		cfg.Images.Dir = o.ImagesDir
	}
}

// NewRootCommand creates the root command. Without a subcommand it serves.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "foodjournal",
		Short:         "Food Journal - a photo diary of your meals",
		Long:          "Local food journal: sign in, then record meals with a photo, a description and a category.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, build, nil)
		},
	}

	// Global flags; environment variables still apply when these are empty
	cmd.PersistentFlags().StringVar(&opts.DatabasePath, "db", "", "path to the journal database (default $DATABASE_PATH or "+config.DefaultDatabasePath+")")
	cmd.PersistentFlags().StringVar(&opts.ImagesDir, "images-dir", "", "directory for imported photos (default $IMAGES_DIR or "+config.DefaultImagesDir+")")

	cmd.AddCommand(NewServeCommand(opts, build))
	cmd.AddCommand(NewInitDBCommand(opts))
	cmd.AddCommand(NewSweepImagesCommand(opts))
	cmd.AddCommand(NewVersionCommand(build))

	return cmd
}
