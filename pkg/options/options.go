// Package options defines the layout and style options of a tree and how they
// are layered.
//
// Options are resolved field by field: a value set in a [Partial] override
// wins, otherwise the theme palette supplies colors, otherwise the compiled
// defaults apply. Overrides are usually decoded from TOML:
//
//	[color]
//	border = "steelblue"
//
//	[layout]
//	marginX = 24
//
//	[shape.diamond]
//	length = 12
package options

import (
	"github.com/matzehuels/svgtree/pkg/geometry"
	"github.com/matzehuels/svgtree/pkg/shape"
)

// Color holds the color roles of a tree.
type Color struct {
	Border     string `json:"border"`
	Background string `json:"background"`
	Shadow     string `json:"shadow"`
	Text       string `json:"text"`
	TextHover  string `json:"textHover"`
	TextActive string `json:"textActive"`
}

// Text holds the label font weight per node state.
type Text struct {
	Weight       int `json:"weight"`
	HoverWeight  int `json:"hoverWeight"`
	ActiveWeight int `json:"activeWeight"`
}

// Layout holds the spacing metrics.
type Layout struct {
	IndentX  float64 `json:"indentX"`
	IndentY  float64 `json:"indentY"`
	MarginX  float64 `json:"marginX"`
	MarginY  float64 `json:"marginY"`
	PaddingX float64 `json:"paddingX"`
	PaddingY float64 `json:"paddingY"`
	Radius   float64 `json:"radius"`
}

// Indent returns the indentation as a vector.
func (l Layout) Indent() geometry.Vec { return geometry.Vec{X: l.IndentX, Y: l.IndentY} }

// Margin returns the margin as a vector.
func (l Layout) Margin() geometry.Vec { return geometry.Vec{X: l.MarginX, Y: l.MarginY} }

// Padding returns the padding as a vector.
func (l Layout) Padding() geometry.Vec { return geometry.Vec{X: l.PaddingX, Y: l.PaddingY} }

// Font describes the label font. An empty family leaves the choice to the
// renderer.
type Font struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size"`
}

// Options is a fully resolved option set.
type Options struct {
	Color  Color         `json:"color"`
	Text   Text          `json:"text"`
	Layout Layout        `json:"layout"`
	Font   Font          `json:"font"`
	Shape  shape.Options `json:"shape"`
}

// Weight returns the label weight for a node state. Active wins over hover.
func (o Options) Weight(active, hover bool) int {
	switch {
	case active:
		return o.Text.ActiveWeight
	case hover:
		return o.Text.HoverWeight
	default:
		return o.Text.Weight
	}
}

// Defaults returns the compiled defaults. Colors are left empty; they come
// from a palette.
func Defaults() Options {
	return Options{
		Text: Text{Weight: 400, HoverWeight: 700, ActiveWeight: 1000},
		Layout: Layout{
			IndentX:  8,
			IndentY:  16,
			MarginX:  20,
			MarginY:  15,
			PaddingX: 12,
			PaddingY: 8,
			Radius:   4,
		},
		Font:  Font{Size: 14},
		Shape: shape.DefaultOptions(),
	}
}

// LightColors returns the palette of the light scheme.
func LightColors() Color {
	return Color{
		Border:     "gray",
		Background: "white",
		Shadow:     "darkgray",
		Text:       "black",
		TextHover:  "darkcyan",
		TextActive: "darkcyan",
	}
}

// DarkColors returns the palette of the dark scheme.
func DarkColors() Color {
	return Color{
		Border:     "lightgray",
		Background: "darkgray",
		Shadow:     "black",
		Text:       "white",
		TextHover:  "cyan",
		TextActive: "cyan",
	}
}
