// Package nodelink renders tree data as a Graphviz node-link diagram.
//
// # Overview
//
// The tree engine draws indented outlines with its own layout. This package
// hands the same data to Graphviz instead, which is useful for very wide
// trees or for feeding other Graphviz tooling.
//
// # Usage
//
//	dot := nodelink.ToDOT(data, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Mapping
//
// Node styles carry over where Graphviz has an equivalent: color and
// backgroundColor become color and fillcolor, a dash array dashes the edges
// to the node's children, and inChildrenShape picks the arrowhead. Nodes
// whose children are still pending are drawn with a double border, the way
// the tree engine draws a shadow behind collapsed nodes; their children are
// not evaluated.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
