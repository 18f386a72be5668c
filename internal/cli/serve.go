package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/qlabel/internal/server"
	"github.com/matzehuels/qlabel/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		host   string
		port   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Run the label HTTP API",
		Long: `Serve runs the HTTP API for label previews and print jobs.

Endpoints:
  GET  /api/config         fonts, label sizes and defaults
  GET  /api/preview/text   render a preview (png or base64)
  POST /api/print/text     render and spool a print job
  GET  /api/history        recent print jobs`,
		Example: `  qlabel serve qlabel.toml
  qlabel serve --port 8080 --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				c.configPath = args[0]
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			runner, err := c.newRunner(ctx, cfg, runnerOptions{dryRun: dryRun})
			if err != nil {
				return err
			}
			defer runner.Close(ctx)

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			defer observability.Reset()

			printSuccess("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr()))
			printKeyValue("Printer", printerTarget(cfg))
			printKeyValue("Spooler", spoolTarget(runner))
			if runner.DryRun {
				printWarning("dry run: jobs are rendered but not spooled")
			}

			return server.New(cfg, runner, c.Logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render and record jobs without spooling them")
	return cmd
}
