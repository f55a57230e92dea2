package tree

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/options"
	"github.com/matzehuels/svgtree/pkg/scene"
	"github.com/matzehuels/svgtree/pkg/textmeasure"
	"github.com/matzehuels/svgtree/pkg/theme"
)

// DefaultKeyField is the data field read as the node key.
const DefaultKeyField = "path"

// env is the state shared by every node of a forest.
type env struct {
	doc       *scene.Document
	manager   *Manager
	opts      options.Options
	measurer  textmeasure.Measurer
	keyField  string
	logger    *log.Logger
	vertical  bool
	activeKey string
	hasActive bool
}

func (e *env) isActive(key string) bool { return e.hasActive && e.activeKey == key }

// Option configures a forest at construction or update.
type Option func(*settings)

type settings struct {
	keyField   *string
	partial    *options.Partial
	setPartial bool
	measurer   textmeasure.Measurer
	logger     *log.Logger
	theme      *theme.Service
	vertical   *bool
	doc        *scene.Document
}

// WithKeyField sets the data field read as the node key.
func WithKeyField(field string) Option {
	return func(s *settings) { s.keyField = &field }
}

// WithOptions sets the style overrides. A nil partial resets to the defaults.
func WithOptions(p *options.Partial) Option {
	return func(s *settings) { s.partial, s.setPartial = p, true }
}

// WithMeasurer sets the text measurer.
func WithMeasurer(m textmeasure.Measurer) Option {
	return func(s *settings) { s.measurer = m }
}

// WithLogger sets the logger receiving consistency diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTheme makes the forest take its palette from svc and repaint when the
// scheme changes. Only honored at construction.
func WithTheme(svc *theme.Service) Option {
	return func(s *settings) { s.theme = svc }
}

// WithVertical sets the orientation of newly built nodes. Nodes default to
// vertical. Only honored at construction.
func WithVertical(v bool) Option {
	return func(s *settings) { s.vertical = &v }
}

// WithDocument builds the elements in doc instead of a fresh document. Only
// honored at construction.
func WithDocument(doc *scene.Document) Option {
	return func(s *settings) { s.doc = doc }
}

// Forest is a list of trees sharing one registry and one selection.
type Forest struct {
	env         *env
	data        []*Data
	roots       []*Node
	partial     *options.Partial
	theme       *theme.Service
	unsubscribe func()
	listeners   listeners
	container   *scene.Element
}

// NewForest lays out data. An empty forest is valid; nil entries are not.
func NewForest(data []*Data, opts ...Option) (*Forest, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	e := &env{
		doc:      s.doc,
		keyField: DefaultKeyField,
		logger:   s.logger,
		measurer: s.measurer,
		vertical: true,
	}
	if e.doc == nil {
		e.doc = scene.NewDocument()
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.measurer == nil {
		e.measurer = textmeasure.NewFaceMeasurer()
	}
	if s.vertical != nil {
		e.vertical = *s.vertical
	}
	if s.keyField != nil {
		if err := errors.ValidateKeyField(*s.keyField); err != nil {
			return nil, err
		}
		e.keyField = *s.keyField
	}
	if err := validateData(data); err != nil {
		return nil, err
	}
	if err := s.partial.Validate(); err != nil {
		return nil, err
	}
	e.manager = NewManager(e.logger)

	f := &Forest{env: e, partial: s.partial, theme: s.theme}
	e.opts = options.Merge(f.partial, f.palette())
	f.subscribe()

	f.data = data
	for _, d := range data {
		f.roots = append(f.roots, build(e, d, nil))
	}
	return f, nil
}

// Update applies new data and options. Nil data re-applies the current data.
// Existing roots are reconciled in place; extra roots are built and missing
// ones detached.
func (f *Forest) Update(data []*Data, opts ...Option) error {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if data == nil {
		data = f.data
	}
	if err := validateData(data); err != nil {
		return err
	}
	if s.keyField != nil {
		if err := errors.ValidateKeyField(*s.keyField); err != nil {
			return err
		}
		f.env.keyField = *s.keyField
	}
	if s.setPartial {
		if err := s.partial.Validate(); err != nil {
			return err
		}
		f.partial = s.partial
		f.subscribe()
	}
	if s.measurer != nil {
		f.env.measurer = s.measurer
	}
	if s.logger != nil {
		f.env.logger = s.logger
		f.env.manager.logger = s.logger
	}
	f.env.opts = options.Merge(f.partial, f.palette())

	f.data = data
	k := min(len(data), len(f.roots))
	for i := range k {
		f.roots[i].update(data[i])
	}
	for _, n := range f.roots[k:] {
		n.root.Remove()
		n.unregister()
	}
	clear(f.roots[k:])
	f.roots = f.roots[:k]
	for _, d := range data[k:] {
		n := build(f.env, d, nil)
		f.roots = append(f.roots, n)
		if f.container != nil {
			f.container.Append(n.root)
		}
	}
	return nil
}

func validateData(data []*Data) error {
	for i, d := range data {
		if d == nil {
			return errors.New(errors.ErrCodeInvalidInput, "root %d is nil", i)
		}
	}
	return nil
}

func (f *Forest) palette() options.Color {
	if f.theme != nil {
		return f.theme.Palette()
	}
	return theme.Light.Palette()
}

// subscribe follows the theme only while some color is left to it.
func (f *Forest) subscribe() {
	if f.theme == nil {
		return
	}
	need := options.NeedsTheme(f.partial)
	switch {
	case need && f.unsubscribe == nil:
		f.unsubscribe = f.theme.Subscribe(func(_ theme.Scheme, c options.Color) { f.applyPalette(c) })
	case !need && f.unsubscribe != nil:
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

func (f *Forest) applyPalette(c options.Color) {
	f.env.opts = options.Merge(f.partial, c)
	for _, n := range f.roots {
		n.updateColor()
	}
}

// Close stops following the theme.
func (f *Forest) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

// Roots returns the root nodes.
func (f *Forest) Roots() []*Node { return append([]*Node(nil), f.roots...) }

// Manager returns the registry of the forest.
func (f *Forest) Manager() *Manager { return f.env.manager }

// Document returns the document the elements belong to.
func (f *Forest) Document() *scene.Document { return f.env.doc }

// Options returns the resolved options.
func (f *Forest) Options() options.Options { return f.env.opts }

// KeyField returns the data field read as the node key.
func (f *Forest) KeyField() string { return f.env.keyField }

// Walk calls fn for every node, roots first, parents before children.
func (f *Forest) Walk(fn func(*Node)) {
	for _, n := range f.roots {
		n.walk(fn)
	}
}

// ActiveKey returns the active key, if any.
func (f *Forest) ActiveKey() (string, bool) { return f.env.activeKey, f.env.hasActive }

// SetActiveKey activates every node with the key and deactivates all others,
// then emits an active event. Setting the current key again does nothing.
func (f *Forest) SetActiveKey(key string) {
	if f.env.isActive(key) {
		return
	}
	f.env.activeKey, f.env.hasActive = key, true
	for _, n := range f.env.manager.all() {
		if n.active && n.key != key {
			n.SetActive(false)
		}
	}
	nodes := f.env.manager.FindAllByKey(key)
	for _, n := range nodes {
		n.SetActive(true)
	}
	f.emitActive(key, nodes)
}

// ClearActiveKey deactivates every node and emits an active event with no
// nodes. It does nothing when no key is active.
func (f *Forest) ClearActiveKey() {
	if !f.env.hasActive {
		return
	}
	f.env.activeKey, f.env.hasActive = "", false
	for _, n := range f.env.manager.all() {
		n.SetActive(false)
	}
	f.emitActive("", nil)
}

// SetActiveNode activates n and takes over its key. Only the first node
// registered under each key is deactivated, so other nodes sharing a key with
// a previously active node keep their flag until the next SetActiveKey.
func (f *Forest) SetActiveNode(n *Node) {
	if n == nil || (n.active && f.env.isActive(n.key)) {
		return
	}
	for _, m := range f.env.manager.first() {
		if m != n {
			m.SetActive(false)
		}
	}
	n.SetActive(true)
	f.env.activeKey, f.env.hasActive = n.key, true
	f.emitActive(n.key, []*Node{n})
}

// ActiveNodes returns the nodes whose active flag is set.
func (f *Forest) ActiveNodes() []*Node {
	var nodes []*Node
	f.Walk(func(n *Node) {
		if n.active {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

func (f *Forest) emitActive(key string, nodes []*Node) {
	ids := make([]Identifier, len(nodes))
	for i, n := range nodes {
		ids[i] = n.id
	}
	f.listeners.emit(Event{Type: EventActive, Key: key, Nodes: nodes, Identifiers: ids})
}

// AddEventListener registers fn for events of type typ.
func (f *Forest) AddEventListener(typ EventType, fn Listener) ListenerID {
	return f.listeners.add(typ, fn)
}

// RemoveEventListener unregisters a listener and reports whether it existed.
func (f *Forest) RemoveEventListener(id ListenerID) bool {
	return f.listeners.remove(id)
}

// Dispatch handles a platform event: it resolves the originating node, applies
// hover changes, and emits the matching semantic event. Clicks and context
// menus that resolve to no node are still emitted.
func (f *Forest) Dispatch(ev PlatformEvent) {
	n := f.env.manager.ResolveEventTarget(ev.Target)
	switch ev.Type {
	case PlatformClick:
		out := eventFor(EventClick, n, ev)
		out.Extend = isExtend(ev.Target)
		f.listeners.emit(out)
	case PlatformContextMenu:
		f.listeners.emit(eventFor(EventContextMenu, n, ev))
	case PlatformKeyDown:
		f.listeners.emit(eventFor(EventKeyDown, n, ev))
	case PlatformPointerEnter:
		if n != nil {
			n.SetHover(true)
			f.listeners.emit(eventFor(EventMouseEnter, n, ev))
		}
	case PlatformPointerLeave:
		if n != nil {
			n.SetHover(false)
			f.listeners.emit(eventFor(EventMouseLeave, n, ev))
		}
	}
}

func isExtend(target *scene.Element) bool {
	return target != nil && (target.HasClass(ClassExtendRect) || target.HasClass(ClassExtendText))
}

// MountTo appends the root elements to container, detaching them from any
// previous container.
func (f *Forest) MountTo(container *scene.Element) {
	if f.container != nil && f.container != container {
		f.UnmountFrom(f.container)
	}
	f.container = container
	for _, n := range f.roots {
		container.Append(n.root)
	}
}

// UnmountFrom detaches the root elements from container. It does nothing if
// the forest is mounted elsewhere.
func (f *Forest) UnmountFrom(container *scene.Element) {
	if f.container != container {
		return
	}
	for _, n := range f.roots {
		if n.root.Parent() == container {
			n.root.Remove()
		}
	}
	f.container = nil
}

// SVG returns the root elements. Callers must treat them as read-only.
func (f *Forest) SVG() []*scene.Element {
	els := make([]*scene.Element, len(f.roots))
	for i, n := range f.roots {
		els[i] = n.root
	}
	return els
}

// Bounds returns the size of the roots stacked top to bottom.
func (f *Forest) Bounds() (width, height float64) {
	for _, n := range f.roots {
		width = max(width, n.size.Bounding.Width)
		height += n.size.Bounding.Height
	}
	return width, height
}

// WriteSVG writes a standalone SVG document with the roots stacked top to
// bottom.
func (f *Forest) WriteSVG(w io.Writer, opts ...scene.WriteOption) error {
	width, height := f.Bounds()
	ws, hs := scene.FormatFloat(width), scene.FormatFloat(height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n", ws, hs, ws, hs)
	y := 0.0
	for _, n := range f.roots {
		fmt.Fprintf(&buf, `<g transform="translate(0 %s)">`+"\n", scene.FormatFloat(y))
		buf.Write(scene.Render(n.root, opts...))
		buf.WriteString("</g>\n")
		y += n.size.Bounding.Height
	}
	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// Tree is a forest with a single root.
type Tree struct {
	*Forest
}

// NewTree lays out d.
func NewTree(d *Data, opts ...Option) (*Tree, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree data is nil")
	}
	f, err := NewForest([]*Data{d}, opts...)
	if err != nil {
		return nil, err
	}
	return &Tree{f}, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.roots[0] }

// Update applies new root data. Nil d re-applies the current data.
func (t *Tree) Update(d *Data, opts ...Option) error {
	if d == nil {
		return t.Forest.Update(nil, opts...)
	}
	return t.Forest.Update([]*Data{d}, opts...)
}
