// Package shape generates the SVG path data of links and their terminal
// markers.
//
// A marker sits at one end of a link: the outgoing marker below the parent's
// name rectangle, the incoming marker in front of the child's name rectangle.
// Each generator returns the path and a length offset by which the link must
// be shortened so that it abuts the marker.
package shape

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/svgtree/pkg/geometry"
)

// Kind is a marker kind.
type Kind int

const (
	None Kind = iota
	Arrow
	Circle
	Diamond
	Triangle
)

// gap keeps markers one unit clear of the rectangle they point at.
const gap = 1

var kindNames = map[Kind]string{
	None:     "",
	Arrow:    "arrow",
	Circle:   "circle",
	Diamond:  "diamond",
	Triangle: "triangle",
}

// ParseKind parses a marker name. The empty string and "none" are [None].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "arrow":
		return Arrow, nil
	case "circle":
		return Circle, nil
	case "diamond":
		return Diamond, nil
	case "triangle":
		return Triangle, nil
	}
	return None, fmt.Errorf("shape: unknown kind %q", s)
}

func (k Kind) String() string { return kindNames[k] }

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Params sizes a marker. Width is measured across the link, Length along it.
type Params struct {
	Width  float64 `toml:"width" json:"width"`
	Length float64 `toml:"length" json:"length"`
}

// Options holds the parameters of every marker kind.
type Options struct {
	Arrow    Params `toml:"arrow" json:"arrow"`
	Circle   Params `toml:"circle" json:"circle"`
	Diamond  Params `toml:"diamond" json:"diamond"`
	Triangle Params `toml:"triangle" json:"triangle"`
}

// DefaultOptions returns the stock marker sizes.
func DefaultOptions() Options {
	return Options{
		Arrow:    Params{Width: 8, Length: 8},
		Circle:   Params{Width: 8, Length: 8},
		Diamond:  Params{Width: 8, Length: 10},
		Triangle: Params{Width: 8, Length: 8},
	}
}

// For returns the parameters of kind k.
func (o Options) For(k Kind) Params {
	switch k {
	case None:
		return Params{}
	case Arrow:
		return o.Arrow
	case Circle:
		return o.Circle
	case Diamond:
		return o.Diamond
	case Triangle:
		return o.Triangle
	}
	panic(unhandled(k))
}

// Out returns the outgoing marker drawn below anchor, the bottom center of the
// parent's name rectangle. It returns an empty path and zero offset for None.
func Out(k Kind, o Options, anchor geometry.Vec) (string, float64) {
	x, y := anchor.X, anchor.Y
	p := o.For(k)
	w, l := p.Width, p.Length
	var d path
	switch k {
	case None:
		return "", 0
	case Arrow:
		d.move(x-w/2, y+l+gap).rel(w/2, -l).rel(w/2, l)
		return d.String(), gap
	case Circle:
		d.move(x, y+gap).arc(w/2, l/2, 0, l).arc(w/2, l/2, 0, -l)
		return d.String(), l + gap
	case Diamond:
		d.move(x, y+gap).rel(w/2, l/2).rel(-w/2, l/2).rel(-w/2, -l/2).close()
		return d.String(), l + gap
	case Triangle:
		d.move(x, y+gap).rel(w/2, l).rel(-w, 0).close()
		return d.String(), l + gap
	}
	panic(unhandled(k))
}

// In returns the incoming marker ending at target, the point where the link
// meets the child's name rectangle. Vertical markers point right, horizontal
// markers point down.
func In(k Kind, o Options, target geometry.Vec, vertical bool) (string, float64) {
	if vertical {
		return inVertical(k, o, target)
	}
	return inHorizontal(k, o, target)
}

func inVertical(k Kind, o Options, target geometry.Vec) (string, float64) {
	p := o.For(k)
	w, l := p.Width, p.Length
	x, y := target.X-l-gap, target.Y
	var d path
	switch k {
	case None:
		return "", 0
	case Arrow:
		d.move(x, y-w/2).rel(l, w/2).rel(-l, w/2)
		return d.String(), gap
	case Circle:
		d.move(x, y).arc(l/2, w/2, l, 0).arc(l/2, w/2, -l, 0).close()
		return d.String(), l + gap
	case Diamond:
		d.move(x, y).rel(l/2, -w/2).rel(l/2, w/2).rel(-l/2, w/2).close()
		return d.String(), l + gap
	case Triangle:
		d.move(x, y-w/2).rel(l, w/2).rel(-l, w/2).rel(0, -w).close()
		return d.String(), l + gap
	}
	panic(unhandled(k))
}

func inHorizontal(k Kind, o Options, target geometry.Vec) (string, float64) {
	p := o.For(k)
	w, l := p.Width, p.Length
	x, y := target.X, target.Y-l-gap
	var d path
	switch k {
	case None:
		return "", 0
	case Arrow:
		d.move(x+w/2, y).rel(-w/2, l).rel(-w/2, -l)
		return d.String(), gap
	case Circle:
		d.move(x, y).arc(w/2, l/2, 0, l).arc(w/2, l/2, 0, -l).close()
		return d.String(), l + gap
	case Diamond:
		d.move(x, y).rel(w/2, l/2).rel(-w/2, l/2).rel(-w/2, -l/2).close()
		return d.String(), l + gap
	case Triangle:
		d.move(x+w/2, y).rel(-w/2, l).rel(-w/2, -l).close()
		return d.String(), l + gap
	}
	panic(unhandled(k))
}

// VerticalLink routes a link straight down from start and then right into
// target, with one rounded corner of the given radius. inOffset shortens the
// final run so it ends at the incoming marker.
func VerticalLink(start, target geometry.Vec, radius, inOffset float64) string {
	var d path
	d.move(start.X, start.Y).
		line(start.X, target.Y-radius).
		smooth(0, radius, radius, radius).
		rel(target.X-start.X-radius-inOffset, 0)
	return d.String()
}

// HorizontalLink routes a link down from start to the row at runY, across to
// the column of target, and down into target. The turn into the last run is
// rounded with the given radius, reduced when the horizontal run is shorter.
func HorizontalLink(start geometry.Vec, runY float64, target geometry.Vec, radius, inOffset float64) string {
	var d path
	d.move(start.X, start.Y).rel(0, runY-start.Y)
	dx := target.X - start.X
	r := min(radius, math.Abs(dx))
	if r <= 0 {
		d.line(target.X, runY).rel(0, target.Y-runY-inOffset)
		return d.String()
	}
	sign := 1.0
	if dx < 0 {
		sign = -1
	}
	d.line(target.X-sign*r, runY).
		smooth(sign*r, 0, sign*r, r).
		rel(0, target.Y-runY-r-inOffset)
	return d.String()
}

func unhandled(k Kind) string { return fmt.Sprintf("shape: unhandled kind %d", int(k)) }

// path accumulates SVG path commands.
type path struct {
	b strings.Builder
}

func (p *path) cmd(op string, nums ...float64) *path {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	p.b.WriteString(op)
	for _, n := range nums {
		p.b.WriteByte(' ')
		p.b.WriteString(num(n))
	}
	return p
}

func (p *path) move(x, y float64) *path { return p.cmd("M", x, y) }
func (p *path) line(x, y float64) *path { return p.cmd("L", x, y) }
func (p *path) rel(dx, dy float64) *path { return p.cmd("l", dx, dy) }
func (p *path) smooth(x2, y2, x, y float64) *path { return p.cmd("s", x2, y2, x, y) }
func (p *path) close() *path { return p.cmd("Z") }

// arc draws a relative elliptical arc with the large-arc and sweep flags set.
func (p *path) arc(rx, ry, dx, dy float64) *path {
	return p.cmd("a", rx, ry, 0.5, 1, 1, dx, dy)
}

func (p *path) String() string { return p.b.String() }

func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
