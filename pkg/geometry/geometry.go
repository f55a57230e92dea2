// Package geometry holds the pure sizing and placement functions of the tree
// layout.
//
// Every node is laid out in its own coordinate space: the name rectangle sits
// inside the node's bounding box, offset by the margin, and children occupy
// slots below (vertical stacking) or beside (horizontal stacking) it. Sizes
// are computed bottom-up, so a node only needs the already-computed sizes of
// its children.
//
// In horizontal mode adjacent children share their margins: a child's slot
// starts where the previous slot ends minus margin.X, and the children width
// is the sum of child widths minus (n-1)·margin.X.
package geometry

import "github.com/matzehuels/svgtree/pkg/textmeasure"

// Vec is a pair of per-axis values (a point, a padding, a margin or an indent).
type Vec struct {
	X, Y float64
}

// Size is a width and height.
type Size struct {
	Width, Height float64
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Size returns the dimensions of r.
func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// TextSize is a measured label. Baseline is the distance from the top of the
// text box to the baseline.
type TextSize struct {
	Width, Height, Baseline float64
}

// NodeSize is the computed size of a laid-out node: its bounding box and the
// position of its name rectangle within that box.
type NodeSize struct {
	Bounding Size
	Name     Rect
}

// Slot is the area a child occupies in its parent's coordinate space.
type Slot struct {
	Left, Top, Right, Bottom float64
}

// Frame gathers the inputs of a node's layout.
type Frame struct {
	Rect       Size
	Indent     Vec
	Margin     Vec
	Children   []NodeSize
	Extend     NodeSize
	Extensible bool
	Collapsed  bool
	Vertical   bool
}

// All returns the children followed by the extend marker when the node is
// extensible.
func (f Frame) All() []NodeSize {
	if !f.Extensible {
		return f.Children
	}
	all := make([]NodeSize, 0, len(f.Children)+1)
	all = append(all, f.Children...)
	return append(all, f.Extend)
}

// MeasureText measures a label. The font must be the exact description in
// effect when the label is drawn, since the weight changes with state.
func MeasureText(m textmeasure.Measurer, text, font string) TextSize {
	mt := m.MeasureText(text, font)
	return TextSize{
		Width:    mt.Width,
		Height:   mt.Ascent + mt.Descent,
		Baseline: mt.Ascent,
	}
}

// RectSize pads a text box on both sides of each axis.
func RectSize(t TextSize, padding Vec) Size {
	return Size{
		Width:  t.Width + 2*padding.X,
		Height: t.Height + 2*padding.Y,
	}
}

// ExtendSize lays out the extend marker: its own padded rectangle wrapped in
// the margin.
func ExtendSize(t TextSize, padding, margin Vec) NodeSize {
	rect := RectSize(t, padding)
	return NodeSize{
		Bounding: Size{rect.Width + 2*margin.X, rect.Height + 2*margin.Y},
		Name:     Rect{margin.X, margin.Y, rect.Width, rect.Height},
	}
}

// BoundingSize computes the outer box of a node from its rectangle and the
// bounding sizes of its children.
func BoundingSize(f Frame) Size {
	minWidth := f.Rect.Width + 2*f.Margin.X
	if f.Collapsed {
		return Size{minWidth, f.Rect.Height + 2*f.Margin.Y}
	}
	all := f.All()
	if f.Vertical {
		width := minWidth
		height := f.Margin.Y + f.Rect.Height
		for _, c := range all {
			width = max(width, c.Bounding.Width+f.Rect.Width/2+f.Indent.X+f.Margin.X)
			height += c.Bounding.Height
		}
		if len(all) == 0 {
			height += f.Margin.Y
		} else {
			height -= float64(len(all)-1) * f.Margin.Y
		}
		return Size{width, height}
	}

	tallest := 0.0
	for _, c := range all {
		tallest = max(tallest, c.Bounding.Height)
	}
	return Size{
		Width:  max(ChildrenWidth(all, f.Margin.X), minWidth),
		Height: f.Margin.Y + f.Rect.Height + f.Indent.Y + tallest,
	}
}

// ChildrenWidth is the width of a horizontal row of children with shared
// margins.
func ChildrenWidth(all []NodeSize, marginX float64) float64 {
	w := 0.0
	for _, c := range all {
		w += c.Bounding.Width
	}
	return w - float64(max(0, len(all)-1))*marginX
}

// NodeCenterX returns the horizontal center of the name rectangle in
// horizontal mode: the midpoint between the name rectangles of the first and
// last child, clamped so the rectangle stays inside the bounding box.
func NodeCenterX(all []NodeSize, width, rectWidth, marginX float64) float64 {
	if len(all) == 0 {
		return width / 2
	}
	childrenWidth := ChildrenWidth(all, marginX)
	first, last := all[0], all[len(all)-1]
	left := max(0, width-childrenWidth) / 2
	lastLeft := left + childrenWidth - last.Bounding.Width
	firstMid := left + first.Name.X + first.Name.Width/2
	lastMid := lastLeft + last.Name.X + last.Name.Width/2
	middle := (firstMid + lastMid) / 2
	lo := rectWidth/2 + marginX
	return max(min(middle, width-lo), lo)
}

// RectPosition places the name rectangle inside the bounding box. It is pinned
// at the margin unless the node stacks children horizontally, in which case it
// is centered over them.
func RectPosition(f Frame, bounding Size) Rect {
	pinned := Rect{f.Margin.X, f.Margin.Y, f.Rect.Width, f.Rect.Height}
	if f.Collapsed || f.Vertical || (len(f.Children) == 0 && !f.Extensible) {
		return pinned
	}
	center := NodeCenterX(f.All(), bounding.Width, f.Rect.Width, f.Margin.X)
	pinned.X = center - f.Rect.Width/2
	return pinned
}

// TextPosition returns the baseline origin of the label.
func TextPosition(rect Rect, margin, padding Vec, t TextSize) Vec {
	return Vec{
		X: rect.X + padding.X,
		Y: margin.Y + t.Baseline + padding.Y,
	}
}

// OutAnchor is the point below the name rectangle where outgoing links start.
func OutAnchor(rect Rect) Vec {
	return Vec{rect.X + rect.Width/2, rect.Y + rect.Height}
}

// ChildSlots places the children, and then the extend marker, in the node's
// coordinate space. The extend slot is computed even when the node is not
// extensible; callers ignore it. A collapsed node has no slots.
func ChildSlots(f Frame, bounding Size) (children []Slot, extend Slot) {
	if f.Collapsed {
		return nil, Slot{}
	}
	var left, top float64
	if f.Vertical {
		left = f.Margin.X + f.Rect.Width/2 + f.Indent.X
		top = f.Margin.Y + f.Rect.Height
	} else {
		left = max(0, bounding.Width-ChildrenWidth(f.All(), f.Margin.X)) / 2
		top = f.Margin.Y + f.Rect.Height + f.Indent.Y
	}
	next := func(c NodeSize) Slot {
		s := Slot{left, top, left + c.Bounding.Width, top + c.Bounding.Height}
		if f.Vertical {
			top = s.Bottom - f.Margin.Y
		} else {
			left = s.Right - f.Margin.X
		}
		return s
	}
	children = make([]Slot, len(f.Children))
	for i, c := range f.Children {
		children[i] = next(c)
	}
	return children, next(f.Extend)
}

// LinkTarget is the point a link ends at: the left middle of the child's name
// rectangle in vertical mode, its top middle in horizontal mode.
func LinkTarget(s Slot, c NodeSize, vertical bool) Vec {
	if vertical {
		return Vec{s.Left + c.Name.X, s.Top + c.Name.Y + c.Name.Height/2}
	}
	return Vec{s.Left + c.Name.X + c.Name.Width/2, s.Top + c.Name.Y}
}
