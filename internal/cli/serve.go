package cli

import (
	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve digest previews over HTTP",
		Long: `Start a local server that renders a fresh digest for every request.

  GET /digest.pdf   complete run, PDF in the response (?refresh=1, ?boundaries=0)
  GET /layout       panel grid as JSON
  GET /healthz      liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx := cmd.Context()
			stop := c.startTelemetry(ctx, cfg)
			defer stop()

			srv := server.New(cfg, c.Logger)
			defer srv.Cache.Close()

			printInfo("Previews at %s", StyleLink.Render("http://"+addr+"/digest.pdf"))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
