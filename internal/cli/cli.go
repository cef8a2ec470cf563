// Package cli implements the kmltool command-line interface.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kmltool/pkg/buildinfo"
	"github.com/matzehuels/kmltool/pkg/cache"
	"github.com/matzehuels/kmltool/pkg/config"
	"github.com/matzehuels/kmltool/pkg/observability"
	"github.com/matzehuels/kmltool/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kmltool"

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

	// Config is loaded before every command runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kmltool converts drawings and prepares KML documents for map viewers",
		Long: `kmltool converts CAD drawings (DXF) to KML, edits document styles and
exports KMZ archives for desktop globe viewers or, split into size-limited
parts, for web map viewers.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kmltool/config.toml)")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.crsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies the log level. --verbose wins
// over the configured level.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := LogDebug
	if !c.verbose {
		if level, err = log.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	c.SetLogLevel(level)
	if c.verbose {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cache, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled || c.Config.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// exportFlags are the flags shared by commands that write archives.
type exportFlags struct {
	output    string
	maps      bool
	threshold int
	noCache   bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output archive (default: input name with .kmz)")
	cmd.Flags().BoolVar(&f.maps, "maps", false, "split and flatten for web map viewers")
	cmd.Flags().IntVar(&f.threshold, "threshold", 0, "maximum bytes of KML per archive with --maps")
}

// options builds pipeline options from the configuration and flags.
func (c *CLI) options(input string, f *exportFlags) pipeline.Options {
	opts := pipeline.Options{
		Input:     input,
		Output:    f.output,
		Mode:      c.Config.Export.Mode,
		Threshold: c.Config.Export.Threshold,
		DocName:   c.Config.Export.DocName,
		NoCache:   f.noCache,
		Logger:    c.Logger,
	}
	if f.maps {
		opts.Mode = pipeline.ModeMaps
	}
	if f.threshold > 0 {
		opts.Threshold = f.threshold
	}
	return opts
}

// modeLabel names the viewer an export mode targets.
func modeLabel(mode string) string {
	if mode == pipeline.ModeMaps {
		return "web maps"
	}
	return "desktop earth"
}

// parseColumns parses a comma-separated column list.
func parseColumns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
