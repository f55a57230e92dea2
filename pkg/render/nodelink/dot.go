package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/svgtree/pkg/render"
	"github.com/matzehuels/svgtree/pkg/shape"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the extra data fields in node labels.
	// When false, only the node name is shown.
	Detailed bool

	// Horizontal lays the diagram out left to right instead of top to bottom.
	Horizontal bool

	// ShowExtend adds a "+" node after the children of extensible nodes.
	ShowExtend bool
}

var arrowheads = map[shape.Kind]string{
	shape.None:     "none",
	shape.Arrow:    "normal",
	shape.Circle:   "odot",
	shape.Diamond:  "odiamond",
	shape.Triangle: "empty",
}

// ToDOT converts tree data to Graphviz DOT format. Nodes are named n0, n1, ...
// in depth-first order, roots first. The resulting DOT string can be rendered
// using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(data []*tree.Data, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &writer{buf: &buf, opts: opts}
	for _, d := range data {
		w.node(d)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *writer) id() string {
	id := "n" + strconv.Itoa(w.next)
	w.next++
	return id
}

func (w *writer) node(d *tree.Data) string {
	id := w.id()
	fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(d, fmtLabel(d, w.opts.Detailed)), ", "))
	if d.Pending() {
		return id
	}

	for i, c := range d.Items() {
		child := w.node(c)
		w.edge(id, child, d, arrowheads[inShape(d, i)])
	}
	if d.Extensible && w.opts.ShowExtend {
		ext := w.id()
		fmt.Fprintf(w.buf, "  %q [label=\"+\", style=\"rounded,dashed\"];\n", ext)
		w.edge(id, ext, d, "none")
	}
	return id
}

func (w *writer) edge(from, to string, parent *tree.Data, head string) {
	attrs := []string{"arrowhead=" + head}
	if c := parent.OutColor; c != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", c))
	}
	if parent.DashArray != "" {
		attrs = append(attrs, "style=dashed")
	}
	fmt.Fprintf(w.buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
}

func inShape(d *tree.Data, i int) shape.Kind {
	if i < len(d.InChildrenShape) {
		return d.InChildrenShape[i]
	}
	return shape.None
}

func fmtLabel(d *tree.Data, detailed bool) string {
	if !detailed || len(d.Fields) == 0 {
		return d.Name
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(d.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, d.Fields[k]))
	}
	return d.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(d *tree.Data, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if d.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", d.Color), fmt.Sprintf("fontcolor=%q", d.Color))
	}
	if d.BackgroundColor != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", d.BackgroundColor))
	}
	if d.Pending() {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> tag, which sizes the drawing
// in points, with one sized in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
