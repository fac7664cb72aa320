// Package cli implements the shippai command-line interface.
//
// The CLI turns pages of the failure knowledge database into structured
// case records and failure-scenario diagrams. Commands:
//   - run: full ETL over case or index URLs (records + artifacts + ledger)
//   - extract: one case record as JSON on stdout
//   - render: artifacts for one case (svg, json, dot, pdf)
//   - cases: interactive case picker over an index page
//   - serve: HTTP API exposing extraction and stored records
//   - cache: manage the page and artifact cache
//   - config: manage the configuration file
//
// All commands support --verbose (-v) for debug-level logging and
// --config for an explicit configuration file. Loggers travel through
// context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/daikumatan/shippai-knowledge-etl/internal/config"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/buildinfo"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/cache"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/pipeline"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "shippai"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	Config     *config.Config
	ConfigPath string
}

// New creates a CLI with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: func() *config.Config { c := config.Default(); return &c }(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig resolves and loads the configuration file. Commands run
// after this through the root PersistentPreRunE.
func (c *CLI) LoadConfig(path string) error {
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.ConfigPath = resolved
	if exists {
		c.Logger.Debug("loaded config", "path", resolved)
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "shippai extracts and visualizes failure knowledge cases",
		Long:         `shippai is an ETL tool for the Failure Knowledge Database (shippai.org): it fetches case pages, segments the failure scenario into its cause/action/result structure, and renders the stepped scenario diagram and a full case report.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.LoadConfig(configPath)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.casesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner builds a pipeline runner from the loaded configuration.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	client := fkd.NewClient(cch,
		fkd.WithBaseURL(c.Config.Archive.BaseURL),
		fkd.WithHeaders(map[string]string{"User-Agent": c.Config.Archive.UserAgent}),
	)

	st, err := c.newStore(ctx)
	if err != nil {
		_ = cch.Close()
		return nil, err
	}

	r := pipeline.NewRunner(fkd.NewExtractor(client), cch, nil, st, c.Logger)
	r.Style = c.Config.LayoutStyle()
	return r, nil
}

// newCache builds the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return cache.NewFileCache(c.cacheDir())
	}
}

// newStore builds the configured record store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.Backend == "mongo" {
		return store.NewMongoStore(ctx, c.Config.Store.MongoURI, c.Config.Store.MongoDatabase)
	}
	return store.NewFileStore(c.Config.Store.Dir)
}

// cacheDir returns the file cache directory, honoring XDG_CACHE_HOME
// over the configured default.
func (c *CLI) cacheDir() string {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return cacheHome + "/" + appName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName + "-cache"
	}
	return home + "/.cache/" + appName
}

// pipelineOptions seeds pipeline options from the configuration; flag
// handling in each command overrides the fields it exposes.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Viz:         c.Config.Output.Viz,
		Width:       c.Config.Output.Width,
		Height:      c.Config.Output.Height,
		Formats:     append([]string(nil), c.Config.Output.Formats...),
		FontFile:    c.Config.Output.FontPath,
		EmbedImages: c.Config.Output.EmbedImages,
		OutputDir:   c.Config.Output.Dir,
		Logger:      c.Logger,
	}
}

// parseFormats splits a comma-separated --format value.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// resolveListURL turns a bare index name into a full archive URL.
func (c *CLI) resolveListURL(list string) string {
	if strings.HasPrefix(list, "http://") || strings.HasPrefix(list, "https://") {
		return list
	}
	return c.Config.Archive.BaseURL + "lis/" + strings.TrimPrefix(list, "lis/")
}
