package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgtree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple outputs)
	formats    []string // output formats: "svg", "png", "pdf", "dot", "json"
	style      string   // TOML file with style overrides
	theme      string   // color scheme: "light" or "dark"
	keyField   string   // data field read as the node key
	horizontal bool     // lay out the roots horizontally
	detailed   bool     // field values in DOT labels
	scale      float64  // PNG resolution multiplier
	noCache    bool     // disable the artifact cache
	refresh    bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command for generating outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render tree data to SVG and other formats",
		Long: `Render lays out the tree in the JSON file and writes one file per format.

Formats:
  svg   the laid-out tree
  png   rasterized SVG (needs rsvg-convert)
  pdf   vector PDF (needs rsvg-convert)
  dot   Graphviz description of the same data
  json  node positions and sizes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "options", "", "TOML file with style overrides")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "color scheme: light, dark (default from SVGTREE_THEME)")
	cmd.Flags().StringVar(&opts.keyField, "key-field", "", "data field used as node key (default from SVGTREE_KEY_FIELD)")
	cmd.Flags().BoolVar(&opts.horizontal, "horizontal", false, "lay out roots horizontally")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show field values in DOT output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached outputs")

	return cmd
}

// pipelineOptions merges flags over the environment configuration.
func (c *CLI) pipelineOptions(input string, opts renderOpts) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	style, err := loadStyle(opts.style)
	if err != nil {
		return pipeline.Options{}, err
	}

	p := pipeline.Options{
		Input:      input,
		KeyField:   cfg.KeyField,
		Theme:      cfg.Theme,
		Horizontal: opts.horizontal,
		Style:      style,
		Formats:    opts.formats,
		Scale:      opts.scale,
		Detailed:   opts.detailed,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	}
	if opts.theme != "" {
		p.Theme = opts.theme
	}
	if opts.keyField != "" {
		p.KeyField = opts.keyField
	}
	return p, nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts, err := c.pipelineOptions(input, opts)
	if err != nil {
		return err
	}

	done := timed(logger)
	var spin *spinner
	if slices.ContainsFunc(opts.formats, needsConverter) {
		spin = startSpinner(ctx, os.Stderr, "Converting "+input)
	}
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.stop()
	}
	if err != nil {
		return err
	}
	var width, height float64
	if result.Forest != nil {
		width, height = result.Forest.Bounds()
		result.Forest.Close()
	}
	done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	single := len(opts.formats) == 1
	var written []string
	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, single)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debugf("Generated %s: %d bytes", format, len(result.Artifacts[format]))
		written = append(written, path)
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.NodeCount, width, height, result.CacheInfo.RenderHit)
	for _, path := range written {
		printFile(path)
	}
	if slices.Contains(opts.formats, pipeline.FormatSVG) {
		printNextStep("Explore it", fmt.Sprintf("%s serve %s", appName, input))
	}
	return nil
}

// needsConverter reports whether format shells out to rsvg-convert.
func needsConverter(format string) bool {
	return format == pipeline.FormatPNG || format == pipeline.FormatPDF
}
