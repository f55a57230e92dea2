package server

import (
	"html/template"
	"net/http"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; padding: 16px; font-family: sans-serif; }
#tree { outline: none; }
#status { position: fixed; right: 8px; bottom: 8px; font-size: 12px; color: gray; }
</style>
</head>
<body>
<div id="tree" tabindex="0">{{.SVG}}</div>
<div id="status">connecting</div>
<script>
(function () {
  const root = document.getElementById("tree");
  const status = document.getElementById("status");
  const proto = location.protocol === "https:" ? "wss://" : "ws://";
  const ws = new WebSocket(proto + location.host + "/ws");
  let hovered = 0;

  function handleOf(el) {
    const h = el && el.closest && el.closest("[data-handle]");
    return h ? Number(h.dataset.handle) : 0;
  }
  function nodeOf(el) {
    const n = el && el.closest && el.closest("svg.svg-tree-node");
    return n ? Number(n.dataset.handle) : 0;
  }
  function send(type, handle, code) {
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({type: type, handle: handle, code: code}));
    }
  }

  root.addEventListener("click", function (e) { send("click", handleOf(e.target)); });
  root.addEventListener("contextmenu", function (e) {
    e.preventDefault();
    send("contextmenu", handleOf(e.target));
  });
  root.addEventListener("pointermove", function (e) {
    const n = nodeOf(e.target);
    if (n === hovered) return;
    if (hovered) send("pointerleave", hovered);
    if (n) send("pointerenter", handleOf(e.target));
    hovered = n;
  });
  document.addEventListener("keydown", function (e) {
    if (e.key.startsWith("Arrow") || e.key === " ") e.preventDefault();
    send("keydown", 0, e.key);
  });

  ws.onopen = function () { status.textContent = "live"; };
  ws.onclose = function () { status.textContent = "disconnected"; };
  ws.onmessage = function (m) {
    const msg = JSON.parse(m.data);
    switch (msg.type) {
    case "render":
      root.innerHTML = msg.svg;
      break;
    case "scroll": {
      const el = root.querySelector('[data-handle="' + msg.handle + '"]');
      if (el) el.scrollIntoView({behavior: "smooth", block: "center", inline: "center"});
      break;
    }
    case "error":
      console.warn(msg.error);
      break;
    }
  };
})();
</script>
</body>
</html>
`))

type pageData struct {
	Title string
	SVG   template.HTML
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svg := s.renderLocked()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{Title: s.title, SVG: template.HTML(svg)}); err != nil {
		s.logger.Error("render page", "err", err)
	}
}
