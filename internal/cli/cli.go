// Package cli implements the curriculummap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curriculummap/pkg/buildinfo"
	"github.com/matzehuels/curriculummap/pkg/cache"
	"github.com/matzehuels/curriculummap/pkg/config"
	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/graph"
	"github.com/matzehuels/curriculummap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "curriculummap"
)

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

	// Config is loaded by the root command before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
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
		Short: "Curriculummap draws and traces five-tier curriculum hierarchies",
		Long: `Curriculummap lays out a curriculum hierarchy (topics, classes, course
objectives, lecture objectives and assessments) as horizontal tiers and
traces the connections of any node up to its topics and down to its
dependents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config (if given) and the environment into c.Config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.configPath != "" {
		c.Logger.Debug("Loaded config", "path", c.configPath)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" && c.Config.Cache.RedisAddr == "" {
		keyer = cache.NewScopedKeyer(nil, strings.TrimSuffix(c.Config.Cache.Prefix, ":"))
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache picks Redis when an address is configured, otherwise the local
// file cache. A missing home directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			cache.WithPrefix(cfg.Prefix), cache.WithDefaultTTL(cfg.TTL))
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		c.Logger.Debug("Using redis cache", "addr", cfg.RedisAddr)
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("No cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/curriculummap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Dataset Helpers
// =============================================================================

// addSeedFlag registers --seed, which overrides the configured generation
// seed for commands that may generate their dataset.
func addSeedFlag(cmd *cobra.Command, seed *uint64) {
	cmd.Flags().Uint64Var(seed, "seed", 0, "seed for the generated dataset (0 picks one)")
}

// loadGraph reads the dataset from args[0] when present and generates one
// otherwise. Generated datasets go through the runner's cache.
func (c *CLI) loadGraph(cmd *cobra.Command, runner *pipeline.Runner, args []string, seed uint64) (*curriculum.Graph, bool, error) {
	if len(args) > 0 {
		g, err := graph.ReadFile(args[0])
		if err != nil {
			return nil, false, fmt.Errorf("load %s: %w", args[0], err)
		}
		c.Logger.Debug("Loaded dataset", "path", args[0], "nodes", g.Len())
		return g, false, nil
	}

	opts := c.Config.GenerateOptions()
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		opts.Seed = seed
	}
	if opts.Seed == 0 {
		opts.Seed = resolveSeed(0, rand.Uint64)
		c.Logger.Info("Picked seed", "seed", opts.Seed)
	}
	g, hit, err := runner.GenerateWithCacheInfo(cmd.Context(), opts, false)
	if err != nil {
		return nil, false, fmt.Errorf("generate: %w", err)
	}
	return g, hit, nil
}

// resolveSeed maps seed 0 to a fresh non-zero seed from pick.
func resolveSeed(seed uint64, pick func() uint64) uint64 {
	for seed == 0 {
		seed = pick()
	}
	return seed
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseSelection reads a --select flag; empty means no selection.
func parseSelection(s string) (curriculum.NodeID, error) {
	return curriculum.ParseSelection(strings.TrimSpace(s))
}
