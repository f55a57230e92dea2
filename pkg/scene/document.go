package scene

import "weak"

// ScrollOptions mirrors the scroll-into-view parameters of a browser host.
type ScrollOptions struct {
	Behavior string // "smooth" (default) or "auto"
	Block    string // vertical alignment, default "center"
	Inline   string // horizontal alignment, default "center"
}

func (o ScrollOptions) withDefaults() ScrollOptions {
	if o.Behavior == "" {
		o.Behavior = "smooth"
	}
	if o.Block == "" {
		o.Block = "center"
	}
	if o.Inline == "" {
		o.Inline = "center"
	}
	return o
}

// Document creates elements and resolves handles back to live elements.
// A Document is not safe for concurrent use.
type Document struct {
	next   Handle
	index  map[Handle]weak.Pointer[Element]
	scroll func(*Element, ScrollOptions)
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{index: make(map[Handle]weak.Pointer[Element])}
}

// Create returns a new detached element of the given kind.
func (d *Document) Create(kind Kind) *Element {
	d.next++
	e := &Element{kind: kind, handle: d.next, doc: d}
	d.index[e.handle] = weak.Make(e)
	return e
}

// Lookup resolves a handle. It returns nil if the handle is unknown or the
// element has been collected.
func (d *Document) Lookup(h Handle) *Element {
	wp, ok := d.index[h]
	if !ok {
		return nil
	}
	e := wp.Value()
	if e == nil {
		delete(d.index, h)
	}
	return e
}

// Sweep drops index entries whose elements have been collected and returns
// the number of entries removed.
func (d *Document) Sweep() int {
	n := 0
	for h, wp := range d.index {
		if wp.Value() == nil {
			delete(d.index, h)
			n++
		}
	}
	return n
}

// Len returns the number of index entries, including ones not yet swept.
func (d *Document) Len() int { return len(d.index) }

// OnScroll installs the host callback used by [Element.ScrollIntoView].
func (d *Document) OnScroll(fn func(*Element, ScrollOptions)) { d.scroll = fn }
