package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wafertools/wafermap/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes layout computation, GDSII export, SVG/PNG rendering,
preset listing, and feedback intake under /api. Configuration is read
from a TOML file; --addr overrides the listen address. The server shuts
down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.DefaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = server.LoadConfig(configPath); err != nil {
					return fmt.Errorf("load config %s: %w", configPath, err)
				}
			}
			if addr != "" {
				cfg.Addr = addr
			}

			srv, err := server.New(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return fmt.Errorf("initialize server: %w", err)
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
