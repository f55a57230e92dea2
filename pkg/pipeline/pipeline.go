// Package pipeline provides the export pipeline shared by the CLI and the
// preview server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read tree data from JSON
//  2. Layout: Build a forest from the data with the resolved options
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "tree.json",
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	data, err := pipeline.Load(opts)
//	forest, err := pipeline.Layout(data, opts)
//	artifacts, err := pipeline.Render(ctx, forest, data, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/pkg/cache"
	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/options"
	"github.com/matzehuels/svgtree/pkg/textmeasure"
	"github.com/matzehuels/svgtree/pkg/theme"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Default values shared by the CLI and the server.
const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultTheme is the color scheme used when none is given.
	DefaultTheme = string(theme.Light)
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options contains all configuration for the export pipeline.
type Options struct {
	// Load options. Data takes precedence over Input.
	Input string `json:"input,omitempty"`
	Data  []byte `json:"-"`

	// Layout options
	KeyField   string           `json:"key_field,omitempty"`
	Theme      string           `json:"theme,omitempty"`
	Horizontal bool             `json:"horizontal,omitempty"`
	Style      *options.Partial `json:"style,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Field values in DOT labels
	Refresh  bool     `json:"refresh,omitempty"`  // Ignore cached artifacts

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-"`
	Measurer textmeasure.Measurer `json:"-"`
	// Themes overrides the theme service built from Theme, so a host can
	// switch schemes after layout.
	Themes *theme.Service `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Data is the loaded tree data.
	Data []*tree.Data

	// DataHash is the content hash of the input.
	DataHash string

	// Forest is the laid-out forest. It is nil when every artifact came from
	// the cache.
	Forest *tree.Forest

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Input == "" && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.KeyField == "" {
		o.KeyField = tree.DefaultKeyField
	}
	if err := errors.ValidateKeyField(o.KeyField); err != nil {
		return err
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if _, err := theme.ParseScheme(o.Theme); err != nil {
		return err
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// LayoutKeyOpts returns cache key options for the layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		KeyField:   o.KeyField,
		Theme:      o.Theme,
		Horizontal: o.Horizontal,
	}
	if o.Style != nil {
		if data, err := json.Marshal(o.Style); err == nil {
			opts.OptionsHash = cache.Hash(data)
		}
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatDOT:
		opts.Detailed = o.Detailed
	}
	return opts
}

func (o *Options) source() string {
	if o.Data != nil {
		return "<data>"
	}
	return o.Input
}

func (o *Options) String() string {
	return fmt.Sprintf("%s %v", o.source(), o.Formats)
}
