package pipeline

import (
	"bytes"
	"context"
	"fmt"

	svgio "github.com/matzehuels/svgtree/pkg/io"
	"github.com/matzehuels/svgtree/pkg/render"
	"github.com/matzehuels/svgtree/pkg/render/nodelink"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Render generates output artifacts in the requested formats. PNG and PDF
// are converted from the SVG; DOT is generated from the data so Graphviz
// lays it out independently.
func Render(ctx context.Context, f *tree.Forest, data []*tree.Data, opts Options) (map[string][]byte, error) {
	return renderFormats(ctx, f, data, opts, opts.Formats)
}

func renderFormats(ctx context.Context, f *tree.Forest, data []*tree.Data, opts Options, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var svg []byte
	svgBytes := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var buf bytes.Buffer
		if err := f.WriteSVG(&buf); err != nil {
			return nil, err
		}
		svg = buf.Bytes()
		return svg, nil
	}

	for _, format := range formats {
		var out []byte
		var err error

		switch format {
		case FormatSVG:
			out, err = svgBytes()
		case FormatPNG:
			if out, err = svgBytes(); err == nil {
				out, err = render.ToPNG(ctx, out, opts.Scale)
			}
		case FormatPDF:
			if out, err = svgBytes(); err == nil {
				out, err = render.ToPDF(ctx, out)
			}
		case FormatDOT:
			out = []byte(nodelink.ToDOT(data, nodelink.Options{
				Detailed:   opts.Detailed,
				Horizontal: opts.Horizontal,
			}))
		case FormatJSON:
			var buf bytes.Buffer
			err = svgio.WriteLayout(&buf, f)
			out = buf.Bytes()
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = out
	}
	return artifacts, nil
}
