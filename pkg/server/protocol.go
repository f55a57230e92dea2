package server

import (
	"github.com/matzehuels/svgtree/pkg/scene"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Outbound message types.
const (
	TypeRender = "render"
	TypeEvent  = "event"
	TypeScroll = "scroll"
	TypeError  = "error"
)

// Inbound is a platform event reported by the browser. Handle is the
// data-handle of the element the event originated from; zero means none.
type Inbound struct {
	Type   string       `json:"type"`
	Handle scene.Handle `json:"handle,omitempty"`
	Code   string       `json:"code,omitempty"`
}

// Outbound is a message sent to every connected client.
type Outbound struct {
	Type   string        `json:"type"`
	SVG    string        `json:"svg,omitempty"`
	Event  *EventPayload `json:"event,omitempty"`
	Handle scene.Handle  `json:"handle,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// EventPayload is the wire form of a semantic event.
type EventPayload struct {
	Type        tree.EventType    `json:"type"`
	Identifier  tree.Identifier   `json:"identifier,omitempty"`
	Key         string            `json:"key,omitempty"`
	Identifiers []tree.Identifier `json:"identifiers,omitempty"`
	Extend      bool              `json:"extend,omitempty"`
}

func payloadOf(ev tree.Event) *EventPayload {
	return &EventPayload{
		Type:        ev.Type,
		Identifier:  ev.Identifier,
		Key:         ev.Key,
		Identifiers: ev.Identifiers,
		Extend:      ev.Extend,
	}
}

var platformTypes = map[string]bool{
	tree.PlatformClick:        true,
	tree.PlatformContextMenu:  true,
	tree.PlatformPointerEnter: true,
	tree.PlatformPointerLeave: true,
	tree.PlatformKeyDown:      true,
}
