// Package cli implements the pocketdigest command-line interface.
//
// # Commands
//
//   - render: fetch every source and write the booklet PDF
//   - layout: print the panel grid without fetching anything
//   - sources: list the available sources or fetch the configured ones
//   - auth: one-off service authorisation flows
//   - serve: preview server rendering a fresh digest per request
//   - completion: shell completion scripts
//
// All commands accept --config and --verbose (-v).
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/pkg/buildinfo"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/pipeline"
	"github.com/pocketdigest/pocketdigest/pkg/telemetry"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pocketdigest"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Pocketdigest prints your day on one folded sheet",
		Long:          `Pocketdigest collects transit status, events, headlines, calendars and more, and lays them out as an eight-panel pocketmod booklet PDF that folds from a single page.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $POCKETDIGEST_CONFIG or the user config dir)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig resolves and loads the configuration, warning about keys no
// setting consumed.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, path, err := config.Resolve(c.configPath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		c.Logger.Debug("no config file, using defaults")
	} else {
		c.Logger.Debug("loaded config", "path", path)
	}
	for _, key := range cfg.Unknown {
		c.Logger.Warn("unknown config key", "key", key)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// startTelemetry enables trace export when the config asks for it. The
// returned func flushes pending spans.
func (c *CLI) startTelemetry(ctx context.Context, cfg *config.Config) func() {
	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		c.Logger.Warn("tracing disabled", "error", err)
		return func() {}
	}
	if cfg.Telemetry.Endpoint != "" {
		c.Logger.Debug("exporting traces", "endpoint", cfg.Telemetry.Endpoint)
	}
	return func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			c.Logger.Warn("flush traces", "error", err)
		}
	}
}
