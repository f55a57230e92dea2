package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/matzehuels/svgtree/pkg/geometry"
	"github.com/matzehuels/svgtree/pkg/shape"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// WriteJSON encodes tree data in the format [ReadJSON] accepts. Pending
// children are evaluated so they can be written; the node keeps "lazy": true.
func WriteJSON(w io.Writer, data []*tree.Data) error {
	out := make([]map[string]any, len(data))
	for i, d := range data {
		out[i] = encodeNode(d)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes tree data to a JSON file at path.
func ExportJSON(path string, data []*tree.Data) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, data)
}

func encodeNode(d *tree.Data) map[string]any {
	m := maps.Clone(d.Fields)
	if m == nil {
		m = make(map[string]any)
	}
	m["name"] = d.Name
	for k, v := range map[string]string{
		"color":           d.Color,
		"backgroundColor": d.BackgroundColor,
		"outColor":        d.OutColor,
		"outSelfFill":     d.OutSelfFill,
		"dashArray":       d.DashArray,
	} {
		if v != "" {
			m[k] = v
		}
	}
	if d.OutSelfShape != shape.None {
		m["outSelfShape"] = d.OutSelfShape
	}
	if len(d.InChildrenShape) > 0 {
		m["inChildrenShape"] = d.InChildrenShape
	}
	if len(d.InChildrenFill) > 0 {
		m["inChildrenFill"] = d.InChildrenFill
	}
	if d.Extensible {
		m["extensible"] = true
	}
	if d.Pending() {
		m["lazy"] = true
	}
	if kids := d.Materialize(); len(kids) > 0 {
		enc := make([]map[string]any, len(kids))
		for i, k := range kids {
			enc[i] = encodeNode(k)
		}
		m["children"] = enc
	}
	return m
}

// Layout is a laid-out forest in absolute coordinates. Roots are stacked top
// to bottom in order, as in the exported SVG.
type Layout struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Nodes  []NodeLayout `json:"nodes"`
}

// NodeLayout is one node of a [Layout].
type NodeLayout struct {
	Identifier tree.Identifier `json:"identifier"`
	Parent     tree.Identifier `json:"parent,omitempty"`
	Key        string          `json:"key,omitempty"`
	Name       string          `json:"name"`
	Depth      int             `json:"depth"`
	Collapsed  bool            `json:"collapsed"`
	Vertical   bool            `json:"vertical"`
	Active     bool            `json:"active,omitempty"`
	Bounding   Box             `json:"bounding"`
	Rect       Box             `json:"rect"`
}

// Box is an axis-aligned rectangle.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutOf flattens f into absolute coordinates, parents before children.
// Anonymous keys are omitted.
func LayoutOf(f *tree.Forest) Layout {
	var l Layout
	l.Width, l.Height = f.Bounds()
	y := 0.0
	for _, root := range f.Roots() {
		l.Nodes = appendNode(l.Nodes, root, geometry.Vec{Y: y}, 0)
		y += root.Size().Bounding.Height
	}
	return l
}

func appendNode(out []NodeLayout, n *tree.Node, origin geometry.Vec, parent tree.Identifier) []NodeLayout {
	size := n.Size()
	nl := NodeLayout{
		Identifier: n.Identifier(),
		Parent:     parent,
		Name:       n.Data().Name,
		Depth:      n.Depth(),
		Collapsed:  n.Collapsed(),
		Vertical:   n.Vertical(),
		Active:     n.Active(),
		Bounding:   Box{origin.X, origin.Y, size.Bounding.Width, size.Bounding.Height},
		Rect:       Box{origin.X + size.Name.X, origin.Y + size.Name.Y, size.Name.Width, size.Name.Height},
	}
	if !n.Anonymous() {
		nl.Key = n.Key()
	}
	out = append(out, nl)
	for _, c := range n.Children() {
		off := c.Offset()
		out = appendNode(out, c, geometry.Vec{X: origin.X + off.X, Y: origin.Y + off.Y}, n.Identifier())
	}
	return out
}

// WriteLayout encodes the layout of f as indented JSON.
func WriteLayout(w io.Writer, f *tree.Forest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(LayoutOf(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayout writes the layout of f to a JSON file at path.
func ExportLayout(path string, f *tree.Forest) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return WriteLayout(file, f)
}
