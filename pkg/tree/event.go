package tree

import (
	"slices"

	"github.com/matzehuels/svgtree/pkg/scene"
)

// EventType names a semantic event.
type EventType string

const (
	EventActive      EventType = "active"
	EventClick       EventType = "click"
	EventContextMenu EventType = "contextmenu"
	EventKeyDown     EventType = "keydown"
	EventMouseEnter  EventType = "mouseenter"
	EventMouseLeave  EventType = "mouseleave"
)

// Platform event types accepted by [Forest.Dispatch].
const (
	PlatformClick        = "click"
	PlatformContextMenu  = "contextmenu"
	PlatformPointerEnter = "pointerenter"
	PlatformPointerLeave = "pointerleave"
	PlatformKeyDown      = "keydown"
)

// PlatformEvent is an input event delivered by the host.
type PlatformEvent struct {
	Type   string
	Target *scene.Element
	// Code is the key code of keydown events, e.g. "Enter" or "ArrowUp".
	Code string
}

// Event is a semantic event. Fields that do not apply, or could not be
// resolved, are left zero.
type Event struct {
	Type EventType

	// Node is the node the event originated from.
	Node       *Node
	Identifier Identifier

	// Key is the node's key, or the new active key for active events.
	Key string

	// Nodes and Identifiers list the newly active nodes of an active event.
	Nodes       []*Node
	Identifiers []Identifier

	// Extend is set when a click hit the extend affordance.
	Extend bool

	Original PlatformEvent
}

// Listener receives semantic events.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

type listenerEntry struct {
	id  ListenerID
	typ EventType
	fn  Listener
}

type listeners struct {
	next    ListenerID
	entries []listenerEntry
}

func (l *listeners) add(typ EventType, fn Listener) ListenerID {
	l.next++
	l.entries = append(l.entries, listenerEntry{l.next, typ, fn})
	return l.next
}

func (l *listeners) remove(id ListenerID) bool {
	i := slices.IndexFunc(l.entries, func(e listenerEntry) bool { return e.id == id })
	if i < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true
}

// emit calls the listeners registered for ev.Type at the time of the call.
func (l *listeners) emit(ev Event) {
	for _, e := range slices.Clone(l.entries) {
		if e.typ == ev.Type {
			e.fn(ev)
		}
	}
}

func eventFor(typ EventType, n *Node, original PlatformEvent) Event {
	ev := Event{Type: typ, Original: original}
	if n != nil {
		ev.Node = n
		ev.Identifier = n.id
		ev.Key = n.key
	}
	return ev
}
