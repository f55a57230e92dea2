// Package server hosts a forest as a live preview in the browser.
//
// The page renders the forest's SVG with a data-handle attribute on every
// element. A small script reports clicks, context menus, key presses and
// pointer moves over a websocket as platform events; the server resolves the
// handle through the scene document, dispatches the event into the forest,
// and broadcasts the re-rendered SVG together with the semantic events the
// dispatch produced.
//
// Routes:
//
//	GET  /               HTML page with the inline SVG and the client script
//	GET  /svg            standalone SVG export
//	GET  /ws             websocket session
//	POST /theme/{scheme} switch between the light and dark palettes
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/svgtree/pkg/controller"
	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/observability"
	"github.com/matzehuels/svgtree/pkg/scene"
	"github.com/matzehuels/svgtree/pkg/theme"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// Server serves one forest to any number of browser sessions. All access to
// the forest is serialized.
type Server struct {
	mu      sync.Mutex
	forest  *tree.Forest
	themes  *theme.Service
	ctrl    *controller.Controller
	pending []Outbound
	ids     []tree.ListenerID
	title   string

	logger   *log.Logger
	onExtend func(*tree.Node)
	origins  []string
	router   chi.Router

	clientsMu sync.Mutex
	clients   map[string]*client
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) { s.title = title }
}

// WithExtendHandler sets the callback for clicks on an extend affordance. It
// runs with the forest locked, so it may mutate the forest directly.
func WithExtendHandler(fn func(*tree.Node)) Option {
	return func(s *Server) { s.onExtend = fn }
}

// WithOriginPatterns allows cross-origin websocket connections from hosts
// matching the patterns.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) { s.origins = patterns }
}

var semanticTypes = []tree.EventType{
	tree.EventClick,
	tree.EventContextMenu,
	tree.EventKeyDown,
	tree.EventMouseEnter,
	tree.EventMouseLeave,
	tree.EventActive,
}

// New returns a server for f. themes is the service f follows; it may be nil,
// in which case theme switching is unavailable. The server attaches the
// default interaction policy from package controller.
func New(f *tree.Forest, themes *theme.Service, opts ...Option) *Server {
	s := &Server{
		forest:  f,
		themes:  themes,
		title:   "svgtree",
		logger:  log.Default(),
		clients: make(map[string]*client),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Record before the controller so events keep their dispatch order.
	for _, typ := range semanticTypes {
		s.ids = append(s.ids, f.AddEventListener(typ, func(ev tree.Event) {
			s.pending = append(s.pending, Outbound{Type: TypeEvent, Event: payloadOf(ev)})
		}))
	}
	s.ctrl = controller.Attach(f,
		controller.WithLogger(s.logger),
		controller.WithExtendHandler(s.onExtend))
	f.Document().OnScroll(func(el *scene.Element, _ scene.ScrollOptions) {
		s.pending = append(s.pending, Outbound{Type: TypeScroll, Handle: el.Handle()})
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/svg", s.handleSVG)
	r.Get("/ws", s.handleWS)
	r.Post("/theme/{scheme}", s.handleTheme)
	s.router = r
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Update runs fn with the forest locked and broadcasts the result. Hosts use
// it to change the forest outside of a browser event, e.g. after reloading
// the data file.
func (s *Server) Update(fn func(*tree.Forest)) {
	s.mu.Lock()
	fn(s.forest)
	msgs := s.flush()
	s.mu.Unlock()
	s.broadcast(msgs...)
}

// Close detaches the server from the forest and disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	s.ctrl.Detach()
	for _, id := range s.ids {
		s.forest.RemoveEventListener(id)
	}
	s.ids = nil
	s.forest.Document().OnScroll(nil)
	s.mu.Unlock()

	s.clientsMu.Lock()
	for id, c := range s.clients {
		delete(s.clients, id)
		close(c.send)
	}
	s.clientsMu.Unlock()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}

// renderLocked serializes the forest with element handles. s.mu must be held.
func (s *Server) renderLocked() string {
	var buf bytes.Buffer
	if err := s.forest.WriteSVG(&buf, scene.WithHandles()); err != nil {
		s.logger.Error("render failed", "err", err)
	}
	return buf.String()
}

// flush returns the pending events, a render, then the pending scroll
// requests. s.mu must be held.
func (s *Server) flush() []Outbound {
	msgs := make([]Outbound, 0, len(s.pending)+1)
	var scrolls []Outbound
	for _, m := range s.pending {
		if m.Type == TypeScroll {
			scrolls = append(scrolls, m)
			continue
		}
		msgs = append(msgs, m)
	}
	msgs = append(msgs, Outbound{Type: TypeRender, SVG: s.renderLocked()})
	s.pending = nil
	return append(msgs, scrolls...)
}

func (s *Server) handle(ctx context.Context, c *client, msg Inbound) {
	if !platformTypes[msg.Type] {
		s.logger.Warn("unknown message type", "type", msg.Type, "client", c.id)
		c.enqueue(Outbound{Type: TypeError, Error: "unknown message type " + msg.Type})
		return
	}

	start := time.Now()
	s.mu.Lock()
	var target *scene.Element
	if msg.Handle != 0 {
		target = s.forest.Document().Lookup(msg.Handle)
	}
	s.forest.Dispatch(tree.PlatformEvent{Type: msg.Type, Target: target, Code: msg.Code})
	msgs := s.flush()
	s.mu.Unlock()

	s.broadcast(msgs...)
	observability.Session().OnEvent(ctx, c.id, msg.Type, time.Since(start))
}

func (s *Server) broadcast(msgs ...Outbound) {
	frames := make([][]byte, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			s.logger.Error("marshal message", "err", err)
			continue
		}
		frames = append(frames, data)
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for _, c := range s.clients {
		for _, data := range frames {
			select {
			case c.send <- data:
			default:
				s.logger.Warn("client send buffer full, dropping message", "client", c.id)
			}
		}
	}
}

func (s *Server) register(c *client) {
	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	s.logger.Info("client joined", "client", c.id)
}

func (s *Server) unregister(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.send)
	}
	s.clientsMu.Unlock()
	s.logger.Info("client left", "client", c.id)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var buf bytes.Buffer
	err := s.forest.WriteSVG(&buf)
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if s.themes == nil {
		http.Error(w, "theme switching unavailable", http.StatusNotImplemented)
		return
	}
	scheme, err := theme.ParseScheme(chi.URLParam(r, "scheme"))
	if err != nil {
		http.Error(w, errors.UserMessage(err), errors.HTTPStatus(err))
		return
	}
	s.Update(func(*tree.Forest) { s.themes.Set(scheme) })
	s.logger.Info("theme changed", "scheme", scheme)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Error("websocket accept", "err", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		srv:  s,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	ctx := r.Context()
	s.register(c)
	observability.Session().OnConnect(ctx, c.id)

	s.mu.Lock()
	svg := s.renderLocked()
	s.mu.Unlock()
	c.enqueue(Outbound{Type: TypeRender, SVG: svg})

	go c.writePump(ctx)
	err = c.readPump(ctx)
	s.unregister(c)
	observability.Session().OnDisconnect(ctx, c.id, err)
	if err != nil {
		s.logger.Debug("read error", "client", c.id, "err", err)
	}
}
