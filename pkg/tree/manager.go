package tree

import (
	"strconv"
	"weak"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/pkg/scene"
)

// Identifier is the registry-scoped number of a node. Identifiers start at 1
// and are never reused; zero means absent.
type Identifier uint64

func (id Identifier) String() string { return strconv.FormatUint(uint64(id), 10) }

// idAttr is the attribute carrying the identifier on a node's <svg> element.
const idAttr = "svg-id"

// Manager maps identifiers and keys to live nodes. It holds weak references
// only, so a node dropped from its tree can be collected even if it was never
// removed; such entries read as absent.
type Manager struct {
	next   Identifier
	byID   map[Identifier]weak.Pointer[Node]
	byKey  map[string][]weak.Pointer[Node]
	logger *log.Logger
}

// NewManager returns an empty registry reporting consistency problems to
// logger.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		byID:   make(map[Identifier]weak.Pointer[Node]),
		byKey:  make(map[string][]weak.Pointer[Node]),
		logger: logger,
	}
}

// Next returns a fresh identifier.
func (m *Manager) Next() Identifier {
	m.next++
	return m.next
}

// Add registers n under its identifier and key. If another live node holds
// the same identifier, the collision is logged and n replaces it.
func (m *Manager) Add(n *Node) {
	if prev := m.byID[n.id].Value(); prev != nil && prev != n {
		m.logger.Warn("identifier collision", "identifier", n.id, "key", n.key, "previous", prev.key)
	}
	m.byID[n.id] = weak.Make(n)
	m.byKey[n.key] = append(m.byKey[n.key], weak.Make(n))
}

// Remove unregisters n. Empty key buckets are dropped.
func (m *Manager) Remove(n *Node) {
	if wp, ok := m.byID[n.id]; ok {
		if v := wp.Value(); v == nil || v == n {
			delete(m.byID, n.id)
		}
	}
	m.removeKey(n, n.key)
}

// rekey moves n from the bucket of oldKey to the bucket of its current key.
func (m *Manager) rekey(n *Node, oldKey string) {
	m.removeKey(n, oldKey)
	m.byKey[n.key] = append(m.byKey[n.key], weak.Make(n))
}

func (m *Manager) removeKey(n *Node, key string) {
	bucket := m.byKey[key]
	kept := bucket[:0]
	for _, wp := range bucket {
		if v := wp.Value(); v != nil && v != n {
			kept = append(kept, wp)
		}
	}
	clear(bucket[len(kept):])
	if len(kept) == 0 {
		delete(m.byKey, key)
		return
	}
	m.byKey[key] = kept
}

// FindByIdentifier returns the live node with the identifier, or nil.
func (m *Manager) FindByIdentifier(id Identifier) *Node {
	wp, ok := m.byID[id]
	if !ok {
		return nil
	}
	n := wp.Value()
	if n == nil {
		delete(m.byID, id)
	}
	return n
}

// FindAllByKey returns the live nodes with the key in registration order.
// Collected entries are pruned from the bucket.
func (m *Manager) FindAllByKey(key string) []*Node {
	return m.live(key)
}

// live compacts the bucket of key to its live entries and returns their
// nodes. An emptied bucket is dropped.
func (m *Manager) live(key string) []*Node {
	bucket, ok := m.byKey[key]
	if !ok {
		return nil
	}
	var nodes []*Node
	kept := bucket[:0]
	for _, wp := range bucket {
		if n := wp.Value(); n != nil {
			nodes = append(nodes, n)
			kept = append(kept, wp)
		}
	}
	clear(bucket[len(kept):])
	if len(kept) == 0 {
		delete(m.byKey, key)
	} else {
		m.byKey[key] = kept
	}
	return nodes
}

// first returns the first live node of every key bucket, pruning collected
// entries on the way.
func (m *Manager) first() []*Node {
	var nodes []*Node
	for key := range m.byKey {
		if live := m.live(key); len(live) > 0 {
			nodes = append(nodes, live[0])
		}
	}
	return nodes
}

// all returns every live registered node. Collected identifier entries are
// dropped.
func (m *Manager) all() []*Node {
	nodes := make([]*Node, 0, len(m.byID))
	for id, wp := range m.byID {
		if n := wp.Value(); n != nil {
			nodes = append(nodes, n)
		} else {
			delete(m.byID, id)
		}
	}
	return nodes
}

// Len returns the number of identifier entries, including ones whose node has
// been collected.
func (m *Manager) Len() int { return len(m.byID) }

// ResolveEventTarget returns the node owning target: the nearest element,
// starting at target, that carries an identifier. It returns nil when there is
// no such element or its node is gone.
func (m *Manager) ResolveEventTarget(target *scene.Element) *Node {
	if target == nil {
		return nil
	}
	el := target.Closest(func(e *scene.Element) bool {
		_, ok := e.Attr(idAttr)
		return ok
	})
	if el == nil {
		return nil
	}
	v, _ := el.Attr(idAttr)
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil
	}
	return m.FindByIdentifier(Identifier(id))
}
