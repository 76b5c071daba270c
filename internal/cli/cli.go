package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/connmat/pkg/buildinfo"
	"github.com/matzehuels/connmat/pkg/cache"
	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/observability"
	"github.com/matzehuels/connmat/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "connmat"

	// Cache backends selectable with --cache-backend or [cache] backend.
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
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

	// configPath is bound to the persistent --config flag.
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
		Use:   appName,
		Short: "connmat turns region-pair assignments into connectivity matrices",
		Long: `connmat reads a list of paired integer labels (one "source target" pair per
line), remaps the labels to dense indices in ascending order and writes the
tallied N x N connectivity matrix as CSV.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			registerLogHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or returns an empty config.
func (c *CLI) loadConfig() (*Config, error) {
	if c.configPath == "" {
		return &Config{}, nil
	}
	return LoadConfig(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg CacheConfig) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg)
	if cache.IsRetryable(err) {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Backend, "err", err)
		store, err = cache.NewNullCache(), nil
	}
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.TTL.Duration
	return runner, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis cache requires a redis_url")
		}
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case backendFile, "":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return fc, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be file, redis or none)", cfg.Backend)
	}
}

// =============================================================================
// Observability
// =============================================================================

// registerLogHooks routes pipeline and cache events to the debug log.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/connmat/).
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
