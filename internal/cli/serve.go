package cli

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/erdlayout/internal/server"
)

// serveCommand creates the serve command for running the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The service exposes POST /v1/layout, which accepts a diagram as JSON and
returns the same nodes with computed positions, plus GET /healthz for
liveness checks. Responses are cached by diagram content and layout
configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			store := c.newCache(cmd.Context(), cfg, noCache)
			defer store.Close()

			srv := server.New(c.Logger, store, cfg.Layout.ToLayout())
			err = srv.Run(cmd.Context(), cfg.Server.Addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")

	return cmd
}
