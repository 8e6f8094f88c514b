package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/entrypoint"
)

type serveOptions struct {
	Host string
	Port int32
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions, build BuildInfo) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the journal host (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, build, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "address to bind (default $HOST or 127.0.0.1)")
	cmd.Flags().Int32Var(&opts.Port, "port", 0, "port to listen on (default $PORT or 8190)")

	return cmd
}

func runServe(rootOpts *RootOptions, build BuildInfo, opts *serveOptions) error {
	cfg := config.NewConfig()
	rootOpts.apply(cfg)
	if opts != nil {
		if opts.Host != "" {
			cfg.HTTP.Host = opts.Host
		}
		if opts.Port != 0 {
			cfg.HTTP.Port = opts.Port
		}
	}
	return entrypoint.Run(cfg, build.Version)
}
