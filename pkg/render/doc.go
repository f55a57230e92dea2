// Package render converts SVG into other formats and hosts the alternative
// renderers of tree data.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The pipeline uses them for
// the pdf and png artifacts of a laid-out forest:
//
//	var buf bytes.Buffer
//	err := forest.WriteSVG(&buf)
//	pdf, err := render.ToPDF(ctx, buf.Bytes())
//	png, err := render.ToPNG(ctx, buf.Bytes(), 2.0) // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the same tree data as a Graphviz
// diagram, laid out by Graphviz instead of the tree engine.
//
// [nodelink]: github.com/matzehuels/svgtree/pkg/render/nodelink
package render
