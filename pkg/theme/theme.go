// Package theme tracks the active color scheme and notifies subscribers when
// it changes.
//
// A [Service] replaces a process-wide mutable palette: trees subscribe when
// they are created and unsubscribe when they are closed. Notifications are
// delivered synchronously, in subscription order, on the goroutine that
// called [Service.Set].
package theme

import (
	"sync"

	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/options"
)

// Scheme is a color scheme.
type Scheme string

const (
	Light Scheme = "light"
	Dark  Scheme = "dark"
)

// ParseScheme parses "light" or "dark".
func ParseScheme(s string) (Scheme, error) {
	if err := errors.ValidateTheme(s); err != nil {
		return "", err
	}
	return Scheme(s), nil
}

// Palette returns the default colors of the scheme.
func (s Scheme) Palette() options.Color {
	if s == Dark {
		return options.DarkColors()
	}
	return options.LightColors()
}

// Listener receives the new palette after a scheme change.
type Listener func(Scheme, options.Color)

type subscription struct {
	id int
	fn Listener
}

// Service owns the current scheme and its subscribers. It is safe for
// concurrent use; listeners must not call Subscribe or Set.
type Service struct {
	mu     sync.Mutex
	scheme Scheme
	nextID int
	subs   []subscription
}

// NewService returns a service starting in the given scheme.
func NewService(s Scheme) *Service {
	if s != Dark {
		s = Light
	}
	return &Service{scheme: s}
}

// Scheme returns the current scheme.
func (t *Service) Scheme() Scheme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheme
}

// Palette returns the colors of the current scheme.
func (t *Service) Palette() options.Color { return t.Scheme().Palette() }

// Subscribe registers fn and returns the function that removes it. Calling the
// returned function more than once is harmless.
func (t *Service) Subscribe(fn Listener) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription{id, fn})
	return func() { t.unsubscribe(id) }
}

func (t *Service) unsubscribe(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s.id == id {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (t *Service) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Set switches the scheme and notifies every subscriber. Setting the current
// scheme again notifies nobody.
func (t *Service) Set(s Scheme) {
	t.mu.Lock()
	if s == t.scheme {
		t.mu.Unlock()
		return
	}
	t.scheme = s
	subs := append([]subscription(nil), t.subs...)
	t.mu.Unlock()

	palette := s.Palette()
	for _, sub := range subs {
		sub.fn(s, palette)
	}
}
