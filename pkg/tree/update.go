package tree

import (
	"github.com/matzehuels/svgtree/pkg/geometry"
	"github.com/matzehuels/svgtree/pkg/observability"
	"github.com/matzehuels/svgtree/pkg/scene"
)

// SetCollapsed collapses or expands the node. Expanding a node with pending
// children evaluates them. Collapsing a node that has neither children nor an
// extend affordance is ignored, as is setting the current value.
func (n *Node) SetCollapsed(collapsed bool) {
	if n.collapsed == collapsed {
		return
	}
	if collapsed && len(n.children) == 0 && !n.data.Extensible {
		n.env.logger.Debug("ignoring collapse of a leaf", "identifier", n.id, "key", n.key)
		return
	}
	n.collapsed = collapsed
	if collapsed {
		n.detachChildren(0)
	} else {
		for _, item := range n.data.Materialize() {
			n.children = append(n.children, n.newLink(build(n.env, item, n)))
		}
	}
	n.reconcile()
	n.arrange()
	n.relayout()
}

// SetVertical switches between stacking children top to bottom (true) and
// left to right (false).
func (n *Node) SetVertical(vertical bool) {
	if n.vertical == vertical {
		return
	}
	n.vertical = vertical
	n.relayout()
}

// SetActive sets the active flag of this node only. Use [Forest.SetActiveKey]
// to select every node sharing a key.
func (n *Node) SetActive(active bool) {
	if n.active == active {
		return
	}
	n.active = active
	n.relayout()
}

// SetHover sets the hover flag.
func (n *Node) SetHover(hover bool) {
	if n.hover == hover {
		return
	}
	n.hover = hover
	n.relayout()
}

// FullUpdate reconciles the node and its subtree with d. A nil d re-applies
// the current data, which picks up option changes. Passing the current data
// keeps the collapsed state; new data starts collapsed exactly when its
// children are pending.
func (n *Node) FullUpdate(d *Data) {
	if n.update(d) {
		n.propagate()
	}
}

// UpdateColor re-stamps the subtree after a palette change. Colors never
// affect layout; a size change here is reported and then propagated.
func (n *Node) UpdateColor() {
	if n.updateColor() {
		n.propagate()
	}
}

// ScrollIntoView asks the host to center the node's element in view.
func (n *Node) ScrollIntoView() {
	n.root.ScrollIntoView(scene.ScrollOptions{})
}

func (n *Node) relayout() {
	if n.recompute() {
		n.propagate()
	}
}

// propagate recomputes ancestors for as long as their size keeps changing.
func (n *Node) propagate() {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if !p.recompute() {
			return
		}
	}
}

func (n *Node) update(d *Data) bool {
	if d == nil {
		d = n.data
	}
	same := d == n.data
	n.data = d

	oldKey := n.key
	n.resolveKey()
	if n.key != oldKey {
		n.env.manager.rekey(n, oldKey)
		n.active = n.env.isActive(n.key)
	}

	if !same {
		n.collapsed = d.Pending()
	}
	if n.collapsed {
		n.detachChildren(0)
	} else {
		items := d.Materialize()
		k := min(len(items), len(n.children))
		for i := range k {
			n.children[i].node.update(items[i])
		}
		n.detachChildren(len(items))
		for _, item := range items[k:] {
			n.children = append(n.children, n.newLink(build(n.env, item, n)))
		}
	}
	n.reconcile()
	n.arrange()
	return n.recompute()
}

func (n *Node) updateColor() bool {
	for _, l := range n.children {
		l.node.updateColor()
	}
	changed := n.recompute()
	if changed {
		n.env.logger.Warn("color update changed layout", "identifier", n.id, "key", n.key,
			"width", n.size.Bounding.Width, "height", n.size.Bounding.Height)
	}
	return changed
}

// detachChildren drops the children from index from onwards and unregisters
// their subtrees.
func (n *Node) detachChildren(from int) {
	if from >= len(n.children) {
		return
	}
	for _, l := range n.children[from:] {
		l.path.Remove()
		if l.in != nil {
			l.in.Remove()
		}
		l.node.root.Remove()
		l.node.unregister()
	}
	clear(n.children[from:])
	n.children = n.children[:from]
}

func (n *Node) unregister() {
	for _, l := range n.children {
		l.node.unregister()
	}
	n.env.manager.Remove(n)
	observability.Layout().OnDetach(uint64(n.id))
}

// walk calls fn for n and its descendants, parents first.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, l := range n.children {
		l.node.walk(fn)
	}
}

// Parent returns the parent node, or nil for a root or when the parent is gone.
func (n *Node) Parent() *Node { return n.parent.Value() }

// Children returns the child nodes. A collapsed node has none.
func (n *Node) Children() []*Node {
	nodes := make([]*Node, len(n.children))
	for i, l := range n.children {
		nodes[i] = l.node
	}
	return nodes
}

// PreviousSibling returns the sibling before n, or nil.
func (n *Node) PreviousSibling() *Node { return n.sibling(-1) }

// NextSibling returns the sibling after n, or nil.
func (n *Node) NextSibling() *Node { return n.sibling(1) }

func (n *Node) sibling(delta int) *Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	i := p.indexOf(n)
	if i < 0 {
		n.env.logger.Warn("node missing from its parent's children", "identifier", n.id, "key", n.key, "parent", p.id)
		return nil
	}
	j := i + delta
	if j < 0 || j >= len(p.children) {
		return nil
	}
	return p.children[j].node
}

func (n *Node) indexOf(child *Node) int {
	for i, l := range n.children {
		if l.node == child {
			return i
		}
	}
	return -1
}

// Key returns the node's key. Nodes without a key get an anonymous one.
func (n *Node) Key() string { return n.key }

// Anonymous reports whether the key was generated.
func (n *Node) Anonymous() bool { return n.anon }

// Identifier returns the registry identifier.
func (n *Node) Identifier() Identifier { return n.id }

// Data returns the data the node was last built or updated from.
func (n *Node) Data() *Data { return n.data }

// Element returns the node's <svg> element.
func (n *Node) Element() *scene.Element { return n.root }

// Size returns the bounding box and name rectangle in the node's own
// coordinates.
func (n *Node) Size() geometry.NodeSize { return n.size }

// Offset returns the position of the node inside its parent. Roots report
// the origin.
func (n *Node) Offset() geometry.Vec { return n.offset }

// Collapsed reports whether the children are hidden.
func (n *Node) Collapsed() bool { return n.collapsed }

// Vertical reports whether children are stacked top to bottom.
func (n *Node) Vertical() bool { return n.vertical }

// Active reports whether the node is selected.
func (n *Node) Active() bool { return n.active }

// Hover reports whether the pointer is over the node.
func (n *Node) Hover() bool { return n.hover }

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}
