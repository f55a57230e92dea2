// Package controller wires the semantic events of a [tree.Forest] to the
// interactions a host usually wants: selection on click, collapse on context
// menu or Enter, and keyboard navigation.
//
// A controller holds no layout state of its own. Everything it does goes
// through the forest's public setters, so a host that wants different
// behavior can skip this package and register its own listeners.
package controller

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/pkg/tree"
)

// Key codes understood by the keyboard policy. Both the key value and the
// physical key code a browser reports are accepted.
var (
	toggleKeys   = []string{"Enter", "NumpadEnter", " ", "Space", "Spacebar"}
	verticalKeys = []string{"v", "V", "KeyV"}
)

// Controller applies the interaction policy to one forest.
type Controller struct {
	forest   *tree.Forest
	logger   *log.Logger
	onExtend func(*tree.Node)
	ids      []tree.ListenerID
}

// Option configures a [Controller].
type Option func(*Controller)

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithExtendHandler sets the function called when the extend affordance of a
// node is clicked. The host typically appends a child to the node's data and
// calls FullUpdate.
func WithExtendHandler(fn func(*tree.Node)) Option {
	return func(c *Controller) { c.onExtend = fn }
}

// Attach registers the policy on f. Call [Controller.Detach] to remove it.
func Attach(f *tree.Forest, opts ...Option) *Controller {
	c := &Controller{forest: f, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.ids = []tree.ListenerID{
		f.AddEventListener(tree.EventClick, c.click),
		f.AddEventListener(tree.EventContextMenu, c.contextMenu),
		f.AddEventListener(tree.EventKeyDown, c.keyDown),
	}
	return c
}

// Detach unregisters the policy. Calling it again does nothing.
func (c *Controller) Detach() {
	for _, id := range c.ids {
		c.forest.RemoveEventListener(id)
	}
	c.ids = nil
}

// Current returns the node keyboard input applies to when an event has no
// target: the first active node in tree order, or nil.
func (c *Controller) Current() *tree.Node {
	if nodes := c.forest.ActiveNodes(); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func (c *Controller) click(ev tree.Event) {
	switch {
	case ev.Node == nil:
		c.forest.ClearActiveKey()
	case ev.Extend:
		c.logger.Debug("extend requested", "identifier", ev.Identifier, "key", ev.Key)
		if c.onExtend != nil {
			c.onExtend(ev.Node)
		}
	default:
		c.forest.SetActiveNode(ev.Node)
	}
}

func (c *Controller) contextMenu(ev tree.Event) {
	if ev.Node != nil {
		toggleCollapsed(ev.Node)
	}
}

func (c *Controller) keyDown(ev tree.Event) {
	n := ev.Node
	if n == nil {
		n = c.Current()
	}
	if n == nil {
		return
	}
	c.HandleKey(n, ev.Original.Code)
}

// HandleKey applies the keyboard policy for code to n and reports whether the
// key is bound:
//
//   - Enter or space toggles the collapsed state.
//   - v toggles the orientation.
//   - ArrowUp and ArrowDown select the previous and next sibling.
//   - ArrowLeft selects the parent, ArrowRight the first child.
//
// A move selects the target node and scrolls it into view. Moves past the end
// of a level do nothing.
func (c *Controller) HandleKey(n *tree.Node, code string) bool {
	switch {
	case slices.Contains(toggleKeys, code):
		toggleCollapsed(n)
	case slices.Contains(verticalKeys, code):
		n.SetVertical(!n.Vertical())
	case code == "ArrowUp":
		c.move(c.sibling(n, -1))
	case code == "ArrowDown":
		c.move(c.sibling(n, 1))
	case code == "ArrowLeft":
		c.move(n.Parent())
	case code == "ArrowRight":
		if kids := n.Children(); len(kids) > 0 {
			c.move(kids[0])
		}
	default:
		return false
	}
	return true
}

// sibling returns the neighbor of n at offset delta. Roots are siblings of
// each other.
func (c *Controller) sibling(n *tree.Node, delta int) *tree.Node {
	if n.Parent() != nil {
		if delta < 0 {
			return n.PreviousSibling()
		}
		return n.NextSibling()
	}
	roots := c.forest.Roots()
	i := slices.Index(roots, n)
	if i < 0 {
		return nil
	}
	i += delta
	if i < 0 || i >= len(roots) {
		return nil
	}
	return roots[i]
}

func (c *Controller) move(to *tree.Node) {
	if to == nil {
		return
	}
	c.forest.SetActiveNode(to)
	to.ScrollIntoView()
}

func toggleCollapsed(n *tree.Node) {
	n.SetCollapsed(!n.Collapsed())
}
