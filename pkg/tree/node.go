package tree

import (
	"strconv"
	"weak"

	"github.com/google/uuid"

	"github.com/matzehuels/svgtree/pkg/geometry"
	"github.com/matzehuels/svgtree/pkg/observability"
	"github.com/matzehuels/svgtree/pkg/scene"
	"github.com/matzehuels/svgtree/pkg/shape"
)

// Class names of the elements of a node.
const (
	ClassNode       = "svg-tree-node"
	ClassShadow     = "svg-tree-node-shadow-rect"
	ClassOutShape   = "svg-tree-node-out-shape"
	ClassLink       = "svg-tree-node-link-path"
	ClassInShape    = "svg-tree-node-in-shape"
	ClassRect       = "svg-tree-node-rect"
	ClassExtendRect = "svg-tree-node-extend-rect"
	ClassText       = "svg-tree-node-text"
	ClassExtendText = "svg-tree-node-extend-text"
)

const (
	keyAttr    = "svg-key"
	anonPrefix = "anon-"

	// shadowOffset shifts the shadow of a collapsed node right and down.
	shadowOffset = 4
)

// Node is the laid-out counterpart of one [Data] node.
type Node struct {
	env    *env
	data   *Data
	id     Identifier
	key    string
	anon   bool
	parent weak.Pointer[Node]

	children []*link

	vertical  bool
	collapsed bool
	active    bool
	hover     bool

	style  styleInputs
	size   geometry.NodeSize
	offset geometry.Vec

	root   *scene.Element
	rect   *scene.Element
	label  *scene.Element
	shadow *scene.Element
	out    *scene.Element
	extend *extendHandles
}

// link is the connection to one child: the link path, the optional incoming
// marker, and the child itself.
type link struct {
	path *scene.Element
	in   *scene.Element
	node *Node
}

type extendHandles struct {
	path  *scene.Element
	rect  *scene.Element
	label *scene.Element
}

// build constructs the node for d and, unless d is pending, its subtree.
// Children are built and registered before their parent.
func build(e *env, d *Data, parent *Node) *Node {
	n := &Node{env: e, data: d, vertical: e.vertical}
	if parent != nil {
		n.parent = weak.Make(parent)
	}
	n.resolveKey()
	n.collapsed = d.Pending()
	n.active = e.isActive(n.key)

	doc := e.doc
	n.root = doc.Create(scene.KindSVG)
	n.root.AddClass(ClassNode)
	n.root.SetAttr("enable-background", "true")
	n.root.SetStyle("fill", "none")

	n.rect = doc.Create(scene.KindRect)
	n.rect.AddClass(ClassRect)
	n.rect.SetStyle("box-sizing", "border-box")
	n.rect.SetStyle("cursor", "pointer")

	n.label = doc.Create(scene.KindText)
	n.label.AddClass(ClassText)
	n.label.SetStyle("user-select", "none")
	n.label.SetStyle("cursor", "pointer")

	if !n.collapsed {
		for _, item := range d.Materialize() {
			n.children = append(n.children, n.newLink(build(e, item, n)))
		}
	}
	n.reconcile()

	n.id = e.manager.Next()
	n.root.SetAttr(idAttr, n.id.String())
	n.recompute()
	n.arrange()
	e.manager.Add(n)
	observability.Layout().OnBuild(uint64(n.id), n.key)
	return n
}

func (n *Node) resolveKey() {
	if k, ok := n.data.Key(n.env.keyField); ok {
		n.key, n.anon = k, false
		return
	}
	if !n.anon {
		n.key, n.anon = anonPrefix+uuid.NewString(), true
	}
}

func (n *Node) newLink(child *Node) *link {
	path := n.env.doc.Create(scene.KindPath)
	path.AddClass(ClassLink)
	path.SetStyle("fill", "none")
	return &link{path: path, node: child}
}

// reconcile creates and removes the optional elements so they match the
// collapsed flag and the data.
func (n *Node) reconcile() {
	doc := n.env.doc

	switch {
	case n.collapsed && n.shadow == nil:
		n.shadow = doc.Create(scene.KindRect)
		n.shadow.AddClass(ClassShadow)
	case !n.collapsed && n.shadow != nil:
		n.shadow.Remove()
		n.shadow = nil
	}

	wantOut := !n.collapsed && n.data.OutSelfShape != shape.None
	switch {
	case wantOut && n.out == nil:
		n.out = doc.Create(scene.KindPath)
		n.out.AddClass(ClassOutShape)
		n.out.SetStyle("stroke-linejoin", "round")
	case !wantOut && n.out != nil:
		n.out.Remove()
		n.out = nil
	}

	wantExtend := !n.collapsed && n.data.Extensible
	switch {
	case wantExtend && n.extend == nil:
		x := &extendHandles{
			path:  doc.Create(scene.KindPath),
			rect:  doc.Create(scene.KindRect),
			label: doc.Create(scene.KindText),
		}
		x.path.AddClass(ClassLink)
		x.path.SetStyle("fill", "none")
		x.rect.AddClass(ClassRect, ClassExtendRect)
		x.rect.SetStyle("box-sizing", "border-box")
		x.rect.SetStyle("cursor", "pointer")
		x.label.AddClass(ClassText, ClassExtendText)
		x.label.SetText(extendLabel)
		x.label.SetStyle("cursor", "pointer")
		x.label.SetStyle("user-select", "none")
		n.extend = x
	case !wantExtend && n.extend != nil:
		n.extend.path.Remove()
		n.extend.rect.Remove()
		n.extend.label.Remove()
		n.extend = nil
	}

	for i, l := range n.children {
		wantIn := n.data.inShape(i) != shape.None
		switch {
		case wantIn && l.in == nil:
			l.in = doc.Create(scene.KindPath)
			l.in.AddClass(ClassInShape)
			l.in.SetStyle("stroke-linejoin", "round")
		case !wantIn && l.in != nil:
			l.in.Remove()
			l.in = nil
		}
	}
}

// arrange puts the elements of the node in drawing order.
func (n *Node) arrange() {
	els := make([]*scene.Element, 0, 4+3*len(n.children)+3)
	if n.shadow != nil {
		els = append(els, n.shadow)
	}
	if n.out != nil {
		els = append(els, n.out)
	}
	for _, l := range n.children {
		els = append(els, l.path)
		if l.in != nil {
			els = append(els, l.in)
		}
		els = append(els, l.node.root)
	}
	if x := n.extend; x != nil {
		els = append(els, x.path, x.rect, x.label)
	}
	els = append(els, n.rect, n.label)
	n.root.ReplaceChildren(els...)
}

// recompute lays the node out from its style inputs and its children's sizes,
// stamps every element, and reports whether the node's size changed. The
// comparison covers the whole NodeSize: the bounding box and the name
// rectangle. A parent's link into this node ends at the name rectangle, so a
// moved rectangle inside a stable bounding box still propagates upward.
func (n *Node) recompute() bool {
	o := n.env.opts
	st := resolveStyle(n.data, o, n.active, n.hover)
	n.style = st

	margin, padding, indent := o.Layout.Margin(), o.Layout.Padding(), o.Layout.Indent()
	text := geometry.MeasureText(n.env.measurer, st.name, st.font)
	extText := geometry.MeasureText(n.env.measurer, extendLabel, st.font)
	ext := geometry.ExtendSize(extText, padding, margin)

	kids := make([]geometry.NodeSize, len(n.children))
	for i, l := range n.children {
		kids[i] = l.node.size
	}
	f := geometry.Frame{
		Rect:       geometry.RectSize(text, padding),
		Indent:     indent,
		Margin:     margin,
		Children:   kids,
		Extend:     ext,
		Extensible: n.data.Extensible,
		Collapsed:  n.collapsed,
		Vertical:   n.vertical,
	}
	bounding := geometry.BoundingSize(f)
	rect := geometry.RectPosition(f, bounding)
	old := n.size
	n.size = geometry.NodeSize{Bounding: bounding, Name: rect}

	n.stampRoot()
	n.stampName(rect, geometry.TextPosition(rect, margin, padding, text))

	if s := n.shadow; s != nil {
		s.SetAttrFloat("x", rect.X+shadowOffset)
		s.SetAttrFloat("y", rect.Y+shadowOffset)
		s.SetAttrFloat("width", rect.Width)
		s.SetAttrFloat("height", rect.Height)
		s.SetAttrFloat("rx", st.radius)
		s.SetAttrFloat("ry", st.radius)
		s.SetStyle("fill", st.shadow)
	}

	start := geometry.OutAnchor(rect)
	if n.out != nil {
		d, offset := shape.Out(st.outShape, o.Shape, start)
		n.out.SetAttr("d", d)
		n.out.SetStyle("stroke", st.outColor)
		n.out.SetStyle("fill", st.outFill)
		start.Y += offset
	}

	slots, extSlot := geometry.ChildSlots(f, bounding)
	for i, l := range n.children {
		s := slots[i]
		target := geometry.LinkTarget(s, kids[i], n.vertical)
		inOffset := 0.0
		if l.in != nil {
			d, offset := shape.In(n.data.inShape(i), o.Shape, target, n.vertical)
			l.in.SetAttr("d", d)
			l.in.SetStyle("stroke", st.color)
			l.in.SetStyle("fill", or(n.data.inFill(i), "none"))
			inOffset = offset
		}
		n.stampLink(l.path, start, s, target, inOffset)
		l.node.offset = geometry.Vec{X: s.Left, Y: s.Top}
		l.node.root.SetAttrFloat("x", s.Left)
		l.node.root.SetAttrFloat("y", s.Top)
	}

	if x := n.extend; x != nil {
		n.stampLink(x.path, start, extSlot, geometry.LinkTarget(extSlot, ext, n.vertical), 0)
		x.rect.SetAttrFloat("x", extSlot.Left+ext.Name.X)
		x.rect.SetAttrFloat("y", extSlot.Top+ext.Name.Y)
		x.rect.SetAttrFloat("width", ext.Name.Width)
		x.rect.SetAttrFloat("height", ext.Name.Height)
		x.rect.SetAttrFloat("rx", st.radius)
		x.rect.SetAttrFloat("ry", st.radius)
		x.rect.SetStyle("stroke", st.color)
		x.rect.SetStyle("fill", st.background)
		pos := geometry.TextPosition(ext.Name, margin, padding, extText)
		x.label.SetAttrFloat("x", extSlot.Left+pos.X)
		x.label.SetAttrFloat("y", extSlot.Top+pos.Y)
		n.stampFont(x.label, st.color)
	}

	changed := old != n.size
	observability.Layout().OnRecompute(uint64(n.id), changed)
	return changed
}

func (n *Node) stampRoot() {
	b := n.size.Bounding
	key := n.key
	if n.anon {
		key = ""
	}
	n.root.SetAttr(keyAttr, key)
	n.root.SetAttrFloat("width", b.Width)
	n.root.SetAttrFloat("height", b.Height)
	n.root.SetAttr("viewBox", "0 0 "+scene.FormatFloat(b.Width)+" "+scene.FormatFloat(b.Height))
}

func (n *Node) stampName(rect geometry.Rect, text geometry.Vec) {
	st := n.style
	n.rect.SetAttrFloat("x", rect.X)
	n.rect.SetAttrFloat("y", rect.Y)
	n.rect.SetAttrFloat("width", rect.Width)
	n.rect.SetAttrFloat("height", rect.Height)
	n.rect.SetAttrFloat("rx", st.radius)
	n.rect.SetAttrFloat("ry", st.radius)
	n.rect.SetStyle("stroke", st.color)
	n.rect.SetStyle("fill", st.background)

	n.label.SetText(st.name)
	n.label.SetAttrFloat("x", text.X)
	n.label.SetAttrFloat("y", text.Y)
	n.stampFont(n.label, st.textColor)
}

func (n *Node) stampFont(el *scene.Element, fill string) {
	st := n.style
	el.SetStyle("fill", fill)
	el.SetStyle("font-family", st.family)
	el.SetStyle("font-size", scene.FormatFloat(st.size)+"px")
	el.SetStyle("font-weight", strconv.Itoa(st.weight))
}

func (n *Node) stampLink(path *scene.Element, start geometry.Vec, s geometry.Slot, target geometry.Vec, inOffset float64) {
	st := n.style
	if n.vertical {
		path.SetAttr("d", shape.VerticalLink(start, target, st.radius, inOffset))
	} else {
		path.SetAttr("d", shape.HorizontalLink(start, s.Top, target, st.radius, inOffset))
	}
	path.SetStyle("stroke", st.outColor)
	if st.dashArray != "" {
		path.SetStyle("stroke-dasharray", st.dashArray)
	} else {
		path.RemoveStyle("stroke-dasharray")
	}
}
