package scene

import (
	"slices"
	"strconv"
)

// Kind is the SVG element name of an [Element].
type Kind string

// Element kinds used by the tree renderer.
const (
	KindSVG   Kind = "svg"
	KindGroup Kind = "g"
	KindRect  Kind = "rect"
	KindText  Kind = "text"
	KindPath  Kind = "path"
)

// Handle identifies an element within its [Document]. Handles start at 1 and
// are never reused.
type Handle uint64

type property struct {
	name, value string
}

// Element is a node of the scene graph.
type Element struct {
	kind     Kind
	handle   Handle
	doc      *Document
	attrs    []property
	styles   []property
	classes  []string
	text     string
	parent   *Element
	children []*Element
}

// Kind returns the element name.
func (e *Element) Kind() Kind { return e.kind }

// Handle returns the document-scoped handle of the element.
func (e *Element) Handle() Handle { return e.handle }

// Document returns the document that created the element.
func (e *Element) Document() *Document { return e.doc }

// SetAttr sets an attribute, keeping the position of an existing one.
func (e *Element) SetAttr(name, value string) { setProperty(&e.attrs, name, value) }

// SetAttrFloat sets a numeric attribute using the shortest exact formatting.
func (e *Element) SetAttrFloat(name string, v float64) { e.SetAttr(name, FormatFloat(v)) }

// Attr returns the value of an attribute.
func (e *Element) Attr(name string) (string, bool) { return getProperty(e.attrs, name) }

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) { deleteProperty(&e.attrs, name) }

// SetStyle sets an inline style property.
func (e *Element) SetStyle(name, value string) { setProperty(&e.styles, name, value) }

// Style returns the value of an inline style property.
func (e *Element) Style(name string) (string, bool) { return getProperty(e.styles, name) }

// RemoveStyle deletes an inline style property if present.
func (e *Element) RemoveStyle(name string) { deleteProperty(&e.styles, name) }

// AddClass adds class names that are not already present.
func (e *Element) AddClass(names ...string) {
	for _, n := range names {
		if !slices.Contains(e.classes, n) {
			e.classes = append(e.classes, n)
		}
	}
}

// HasClass reports whether the element carries the class name.
func (e *Element) HasClass(name string) bool { return slices.Contains(e.classes, name) }

// SetText replaces the text content of the element.
func (e *Element) SetText(s string) { e.text = s }

// Text returns the text content of the element.
func (e *Element) Text() string { return e.text }

// Parent returns the containing element, or nil for a detached element.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// ChildCount returns the number of children.
func (e *Element) ChildCount() int { return len(e.children) }

// Append moves the given elements to the end of the child list.
func (e *Element) Append(children ...*Element) {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Remove()
		c.parent = e
		e.children = append(e.children, c)
	}
}

// InsertBefore inserts child in front of ref. A nil ref, or a ref that is not
// a child of e, appends instead.
func (e *Element) InsertBefore(child, ref *Element) {
	if child == nil {
		return
	}
	child.Remove()
	i := -1
	if ref != nil && ref.parent == e {
		i = slices.Index(e.children, ref)
	}
	if i < 0 {
		e.Append(child)
		return
	}
	child.parent = e
	e.children = slices.Insert(e.children, i, child)
}

// ReplaceChildren makes children the child list of e, in order. Former
// children that are not listed are detached.
func (e *Element) ReplaceChildren(children ...*Element) {
	for _, c := range e.children {
		c.parent = nil
	}
	list := make([]*Element, 0, len(children))
	for _, c := range children {
		if c == nil || c.parent == e {
			continue
		}
		c.Remove()
		c.parent = e
		list = append(list, c)
	}
	e.children = list
}

// Remove detaches the element from its parent. It is a no-op for a detached
// element.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

// Closest returns the nearest element, starting at e and walking up through
// its ancestors, for which match returns true.
func (e *Element) Closest(match func(*Element) bool) *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// ScrollIntoView asks the host to bring the element into view.
func (e *Element) ScrollIntoView(opts ScrollOptions) {
	if e.doc == nil || e.doc.scroll == nil {
		return
	}
	e.doc.scroll(e, opts.withDefaults())
}

// FormatFloat formats v the way attribute values are written: shortest
// representation, no exponent for ordinary magnitudes.
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func setProperty(list *[]property, name, value string) {
	for i := range *list {
		if (*list)[i].name == name {
			(*list)[i].value = value
			return
		}
	}
	*list = append(*list, property{name, value})
}

func getProperty(list []property, name string) (string, bool) {
	for _, p := range list {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

func deleteProperty(list *[]property, name string) {
	*list = slices.DeleteFunc(*list, func(p property) bool { return p.name == name })
}
