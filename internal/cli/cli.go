// Package cli implements the svgtree command-line interface.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, PNG, PDF, DOT, or layout JSON from tree data
//   - serve: Host a live, clickable preview in the browser
//   - browse: Navigate the tree in the terminal
//   - cache: Manage the artifact cache
//
// # Configuration
//
// Settings are read from SVGTREE_* environment variables (see package
// config); flags override them. Style overrides come from a TOML file given
// with --options.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so every stage logs to the same sink.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/internal/config"
	"github.com/matzehuels/svgtree/pkg/cache"
	"github.com/matzehuels/svgtree/pkg/options"
	"github.com/matzehuels/svgtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "svgtree"

	// cacheVersion scopes cache keys so a new layout algorithm never serves
	// artifacts rendered by an old one.
	cacheVersion = "v1"
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
	Config *config.Config
}

// New creates a new CLI instance with a default logger. The environment
// configuration is read when the first command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the environment configuration, loading it on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c.Config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, noCache, c.Logger)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheVersion)
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache picks the cache backend: Redis when an address is configured,
// otherwise files under the cache directory. An unreachable Redis falls back
// to the file cache.
func newCache(ctx context.Context, cfg *config.Config, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Prefix: appName + ":"})
		if err == nil {
			return rc, nil
		}
		logger.Warn("redis unavailable, using file cache", "addr", cfg.RedisAddr, "err", err)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the per-user default
// (~/.cache/svgtree on Linux, honoring XDG_CACHE_HOME).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	return cache.DefaultDir(appName)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.TrimSpace(f)
	}
	return formats
}

// loadStyle reads style overrides from a TOML file. An empty path means none.
func loadStyle(path string) (*options.Partial, error) {
	if path == "" {
		return nil, nil
	}
	return options.LoadTOML(path)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where an artifact is written. A single format goes to
// output verbatim when given.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
