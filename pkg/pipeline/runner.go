package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/pkg/cache"
	"github.com/matzehuels/svgtree/pkg/observability"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
// When every requested artifact is cached the layout stage is skipped and
// Result.Forest is nil. Otherwise the caller owns the forest and must Close
// it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	data, raw, err := Load(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.source(), 0, result.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Data = data
	result.DataHash = cache.Hash(raw)
	result.Stats.NodeCount = countNodes(data)
	observability.Pipeline().OnLoadComplete(ctx, opts.source(), result.Stats.NodeCount, result.Stats.LoadTime, nil)

	r.Logger.Info("loaded tree",
		"roots", len(data),
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.LoadTime)

	layoutKey := r.Keyer.LayoutKey(result.DataHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, layoutKey, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("using cached outputs", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	forest, err := Layout(data, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Forest = forest
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, len(data), result.Stats.LayoutTime)

	width, height := forest.Bounds()
	r.Logger.Info("computed layout",
		"width", width,
		"height", height,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, forest, data, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		forest.Close()
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, layoutKey, artifacts, opts)
	return result, nil
}

// cached returns every requested artifact from the cache, or false if any
// is missing.
func (r *Runner) cached(ctx context.Context, layoutKey string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, format)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, format)
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, layoutKey string, artifacts map[string][]byte, opts Options) {
	for format, data := range artifacts {
		ttl := cache.TTLArtifact
		if format == FormatJSON {
			ttl = cache.TTLLayout
		}
		key := r.Keyer.ArtifactKey(layoutKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
}

// Preview loads the input and builds a forest without rendering. The server
// uses it to host an interactive session.
func (r *Runner) Preview(opts Options) (*tree.Forest, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	data, _, err := Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Layout(data, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
