package tree

import (
	"fmt"

	"github.com/matzehuels/svgtree/pkg/shape"
)

// Producer computes the children of a lazily expanded node. It receives the
// node whose children it produces.
type Producer func(*Data) []*Data

// Children is either an evaluated list or a pending [Producer]. Evaluation
// replaces the producer with its result, so a producer runs at most once.
type Children struct {
	producer Producer
	items    []*Data
}

// Static returns evaluated children.
func Static(items ...*Data) Children { return Children{items: items} }

// Lazy returns children computed by p on first expansion.
func Lazy(p Producer) Children { return Children{producer: p} }

// Evaluated reports whether the children are materialized.
func (c Children) Evaluated() bool { return c.producer == nil }

// Data is one node of the input tree. The engine reads it and never modifies
// it, except that expanding a node replaces a pending producer with its result.
type Data struct {
	Name            string
	Color           string
	BackgroundColor string
	DashArray       string
	OutSelfShape    shape.Kind
	OutSelfFill     string
	OutColor        string
	InChildrenShape []shape.Kind
	InChildrenFill  []string
	Extensible      bool
	Children        Children

	// Fields holds the remaining properties, including the key field.
	Fields map[string]any
}

// Pending reports whether the children are still a producer. A node built
// from pending data starts collapsed.
func (d *Data) Pending() bool { return !d.Children.Evaluated() }

// Materialize evaluates the children if needed and returns them.
func (d *Data) Materialize() []*Data {
	if p := d.Children.producer; p != nil {
		d.Children = Children{items: p(d)}
	}
	return d.Children.items
}

// Items returns the evaluated children without running a producer.
func (d *Data) Items() []*Data { return d.Children.items }

// Field returns an extra property.
func (d *Data) Field(name string) (any, bool) {
	v, ok := d.Fields[name]
	return v, ok
}

// Key returns the value of the key field formatted as a string. Missing and
// nil values report false.
func (d *Data) Key(field string) (string, bool) {
	v, ok := d.Fields[field]
	if !ok || v == nil {
		return "", false
	}
	switch k := v.(type) {
	case string:
		return k, true
	case fmt.Stringer:
		return k.String(), true
	default:
		return fmt.Sprint(k), true
	}
}

func (d *Data) inShape(i int) shape.Kind {
	if i < len(d.InChildrenShape) {
		return d.InChildrenShape[i]
	}
	return shape.None
}

func (d *Data) inFill(i int) string {
	if i < len(d.InChildrenFill) {
		return d.InChildrenFill[i]
	}
	return ""
}
