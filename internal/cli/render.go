package cli

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // PDF path; empty uses page.output
	open       bool   // open the PDF in the system viewer afterwards
	boundaries bool   // outline every panel
	refresh    bool   // bypass the response cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch every source and write the booklet PDF",
		Long: `Fetch the content of every configured panel and draw the booklet.

Panels whose source fails show their page label instead; the run only fails
when the configuration is invalid or no PDF could be written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("boundaries") {
				cfg.Page.Boundaries = opts.boundaries
			}
			return c.runRender(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default page.output or "+config.DefaultOutput+")")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the PDF when done")
	cmd.Flags().BoolVar(&opts.boundaries, "boundaries", true, "outline every panel")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached responses")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, opts renderOpts) error {
	stop := c.startTelemetry(ctx, cfg)
	defer stop()

	output := opts.output
	if output == "" {
		output = cfg.Page.Output
	}
	if output == "" {
		output = config.DefaultOutput
	}

	prog := newProgress(c.Logger)
	var res *pipeline.Result
	err := spin(ctx, "Building digest...", func() (err error) {
		res, err = c.newRunner().Execute(ctx, pipeline.Options{
			Config:  cfg,
			Output:  output,
			Refresh: opts.refresh,
		})
		return err
	})
	if err != nil {
		printError("Render failed")
		return err
	}
	prog.done("Rendered digest", "run", res.RunID, "bytes", res.Stats.Size)

	printSuccess("Digest ready")
	printFile(res.Output)
	printRunStats(res.Report.Rendered(), len(res.Failed), res.Dropped, res.Stats.Size)
	for _, f := range res.Failed {
		printWarning("%s (%s): %v", f.Panel, f.Source, f.Err)
	}

	if opts.open {
		if err := openFile(res.Output); err != nil {
			printDetail("Could not open %s: %v", res.Output, err)
		}
	}
	return nil
}

// openFile hands path to the platform's default viewer.
func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// openBrowser opens an http(s) URL with openFile.
func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}
	return openFile(rawURL)
}
