package tree

import (
	"github.com/matzehuels/svgtree/pkg/fonts"
	"github.com/matzehuels/svgtree/pkg/options"
	"github.com/matzehuels/svgtree/pkg/shape"
	"github.com/matzehuels/svgtree/pkg/textmeasure"
)

// extendLabel is the text of the extend affordance.
const extendLabel = "+"

// styleInputs is everything a recompute reads besides the children's sizes.
// It is rebuilt from the data, the options and the node state on every
// recompute and never mutated.
type styleInputs struct {
	name       string
	color      string
	background string
	shadow     string
	textColor  string
	dashArray  string
	outColor   string
	outFill    string
	outShape   shape.Kind
	family     string
	size       float64
	weight     int
	font       string
	radius     float64
}

func resolveStyle(d *Data, o options.Options, active, hover bool) styleInputs {
	color := or(d.Color, o.Color.Border)
	weight := o.Weight(active, hover)

	text := or(d.Color, o.Color.Text)
	switch {
	case active:
		text = o.Color.TextActive
	case hover:
		text = o.Color.TextHover
	}

	family := o.Font.Family
	if family == "" {
		family = fonts.FontFamily
	}

	return styleInputs{
		name:       d.Name,
		color:      color,
		background: or(d.BackgroundColor, o.Color.Background),
		shadow:     o.Color.Shadow,
		textColor:  text,
		dashArray:  d.DashArray,
		outColor:   or(d.OutColor, color),
		outFill:    or(d.OutSelfFill, "none"),
		outShape:   d.OutSelfShape,
		family:     family,
		size:       o.Font.Size,
		weight:     weight,
		font:       textmeasure.Font(o.Font.Family, o.Font.Size, weight),
		radius:     o.Layout.Radius,
	}
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
