package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matzehuels/svgtree/pkg/textmeasure"
	"github.com/matzehuels/svgtree/pkg/theme"
	"github.com/matzehuels/svgtree/pkg/tree"
)

var fixed = textmeasure.FixedMeasurer{CharWidth: 8, BoldCharWidth: 10, Ascent: 12, Descent: 4}

func keyed(key, name string, kids ...*tree.Data) *tree.Data {
	return &tree.Data{
		Name:     name,
		Children: tree.Static(kids...),
		Fields:   map[string]any{tree.DefaultKeyField: key},
	}
}

func newTestServer(t *testing.T) (*Server, *tree.Forest, *httptest.Server) {
	t.Helper()
	themes := theme.NewService(theme.Light)
	logger := log.New(io.Discard)
	data := keyed("a", "A", keyed("a/b", "B"), keyed("a/c", "C"))
	f, err := tree.NewForest([]*tree.Data{data},
		tree.WithMeasurer(fixed),
		tree.WithTheme(themes),
		tree.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	srv := New(f, themes, WithLogger(logger), WithTitle("test tree"))
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
		f.Close()
	})
	return srv, f, ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestPage(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"<title>test tree</title>", `class="svg-tree-node"`, "data-handle=", `new WebSocket(`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestSVG(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/svg")
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.HasPrefix(body, "<svg") {
		t.Errorf("body = %.40q", body)
	}
	if strings.Contains(body, "data-handle") {
		t.Error("export should not carry handles")
	}
}

func TestTheme(t *testing.T) {
	_, _, ts := newTestServer(t)

	_, before := get(t, ts.URL+"/svg")
	resp, err := http.Post(ts.URL+"/theme/dark", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	_, after := get(t, ts.URL+"/svg")
	if before == after {
		t.Error("theme change should restyle the tree")
	}
	if !strings.Contains(after, "lightgray") {
		t.Error("dark palette should use a lightgray border")
	}

	resp, err = http.Post(ts.URL+"/theme/sepia", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown scheme status = %d, want 400", resp.StatusCode)
	}
}

func TestThemeUnavailable(t *testing.T) {
	f, err := tree.NewForest([]*tree.Data{keyed("a", "A")}, tree.WithMeasurer(fixed))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	srv := New(f, nil, WithLogger(log.New(io.Discard)))
	defer srv.Close()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/theme/dark", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

// readUntilRender collects messages up to and including the next render.
func readUntilRender(t *testing.T, ctx context.Context, conn *websocket.Conn) []Outbound {
	t.Helper()
	var msgs []Outbound
	for {
		var msg Outbound
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		msgs = append(msgs, msg)
		if msg.Type == TypeRender {
			return msgs
		}
	}
}

func eventTypes(msgs []Outbound) []string {
	var out []string
	for _, m := range msgs {
		if m.Type == TypeEvent {
			out = append(out, string(m.Event.Type))
		}
	}
	return out
}

func TestWebsocketSession(t *testing.T) {
	_, f, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	root := f.Roots()[0]
	b, c := root.Children()[0], root.Children()[1]
	bHandle, cHandle := b.Element().Handle(), c.Element().Handle()

	conn := dial(t, ctx, ts)
	defer conn.CloseNow()

	initial := readUntilRender(t, ctx, conn)
	if len(initial) != 1 || !strings.Contains(initial[0].SVG, "data-handle") {
		t.Fatalf("initial messages = %+v", initial)
	}

	if err := wsjson.Write(ctx, conn, Inbound{Type: tree.PlatformClick, Handle: bHandle}); err != nil {
		t.Fatal(err)
	}
	msgs := readUntilRender(t, ctx, conn)
	if got := strings.Join(eventTypes(msgs), ","); got != "click,active" {
		t.Errorf("events after click = %s, want click,active", got)
	}
	if ev := msgs[1].Event; ev.Key != "a/b" || len(ev.Identifiers) != 1 || ev.Identifiers[0] != b.Identifier() {
		t.Errorf("active event = %+v", ev)
	}

	// No handle: the keyboard acts on the active node.
	if err := wsjson.Write(ctx, conn, Inbound{Type: tree.PlatformKeyDown, Code: "ArrowDown"}); err != nil {
		t.Fatal(err)
	}
	msgs = readUntilRender(t, ctx, conn)
	if got := strings.Join(eventTypes(msgs), ","); got != "keydown,active" {
		t.Errorf("events after ArrowDown = %s, want keydown,active", got)
	}
	var scroll Outbound
	if err := wsjson.Read(ctx, conn, &scroll); err != nil {
		t.Fatal(err)
	}
	if scroll.Type != TypeScroll || scroll.Handle != cHandle {
		t.Errorf("scroll = %+v, want handle %d", scroll, cHandle)
	}
	if !c.Active() || b.Active() {
		t.Error("ArrowDown should move the selection to the next sibling")
	}

	if err := wsjson.Write(ctx, conn, Inbound{Type: tree.PlatformContextMenu, Handle: cHandle}); err != nil {
		t.Fatal(err)
	}
	readUntilRender(t, ctx, conn)
	if c.Collapsed() {
		t.Error("collapsing a leaf should be ignored")
	}
	if err := wsjson.Write(ctx, conn, Inbound{Type: tree.PlatformContextMenu, Handle: root.Element().Handle()}); err != nil {
		t.Fatal(err)
	}
	msgs = readUntilRender(t, ctx, conn)
	if !root.Collapsed() {
		t.Error("context menu should collapse the root")
	}
	if strings.Contains(msgs[len(msgs)-1].SVG, ">B<") {
		t.Error("collapsed render should not contain children")
	}

	if err := wsjson.Write(ctx, conn, Inbound{Type: "dragstart"}); err != nil {
		t.Fatal(err)
	}
	var errMsg Outbound
	if err := wsjson.Read(ctx, conn, &errMsg); err != nil {
		t.Fatal(err)
	}
	if errMsg.Type != TypeError {
		t.Errorf("unknown type reply = %+v, want error", errMsg)
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func TestWebsocketBroadcast(t *testing.T) {
	_, f, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := dial(t, ctx, ts)
	defer first.CloseNow()
	second := dial(t, ctx, ts)
	defer second.CloseNow()
	readUntilRender(t, ctx, first)
	readUntilRender(t, ctx, second)

	handle := f.Roots()[0].Element().Handle()
	if err := wsjson.Write(ctx, first, Inbound{Type: tree.PlatformPointerEnter, Handle: handle}); err != nil {
		t.Fatal(err)
	}
	msgs := readUntilRender(t, ctx, second)
	if got := strings.Join(eventTypes(msgs), ","); got != "mouseenter" {
		t.Errorf("second client events = %s, want mouseenter", got)
	}
	readUntilRender(t, ctx, first)

	first.Close(websocket.StatusNormalClosure, "")
	second.Close(websocket.StatusNormalClosure, "")
}

func TestUpdateBroadcasts(t *testing.T) {
	srv, _, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	defer conn.CloseNow()
	readUntilRender(t, ctx, conn)

	srv.Update(func(f *tree.Forest) { f.SetActiveKey("a/c") })
	msgs := readUntilRender(t, ctx, conn)
	if got := strings.Join(eventTypes(msgs), ","); got != "active" {
		t.Errorf("events = %s, want active", got)
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
