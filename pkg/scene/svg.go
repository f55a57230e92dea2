package scene

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// WriteOption configures SVG serialization.
type WriteOption func(*svgWriter)

type svgWriter struct {
	handles   bool
	namespace bool
	indent    string
}

// WithHandles emits a data-handle attribute on every element.
func WithHandles() WriteOption { return func(w *svgWriter) { w.handles = true } }

// WithNamespace adds the SVG namespace declaration to the outermost element.
func WithNamespace() WriteOption { return func(w *svgWriter) { w.namespace = true } }

// WithIndent sets the per-level indentation (two spaces by default).
func WithIndent(s string) WriteOption { return func(w *svgWriter) { w.indent = s } }

// Render serializes the subtree rooted at e.
func Render(e *Element, opts ...WriteOption) []byte {
	var buf bytes.Buffer
	newSVGWriter(opts...).element(&buf, e, 0, true)
	return buf.Bytes()
}

// WriteSVG serializes the subtree rooted at e to w.
func WriteSVG(w io.Writer, e *Element, opts ...WriteOption) error {
	_, err := w.Write(Render(e, opts...))
	return err
}

// EscapeXML escapes s for use in text content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func newSVGWriter(opts ...WriteOption) *svgWriter {
	w := &svgWriter{indent: "  "}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *svgWriter) element(buf *bytes.Buffer, e *Element, depth int, outermost bool) {
	pad := strings.Repeat(w.indent, depth)
	buf.WriteString(pad)
	buf.WriteByte('<')
	buf.WriteString(string(e.kind))
	if outermost && w.namespace && e.kind == KindSVG {
		writeAttr(buf, "xmlns", svgNamespace)
	}
	if w.handles {
		writeAttr(buf, "data-handle", strconv.FormatUint(uint64(e.handle), 10))
	}
	if len(e.classes) > 0 {
		writeAttr(buf, "class", strings.Join(e.classes, " "))
	}
	for _, a := range e.attrs {
		writeAttr(buf, a.name, a.value)
	}
	if len(e.styles) > 0 {
		parts := make([]string, len(e.styles))
		for i, s := range e.styles {
			parts[i] = s.name + ": " + s.value
		}
		writeAttr(buf, "style", strings.Join(parts, "; "))
	}

	switch {
	case len(e.children) == 0 && e.text == "":
		buf.WriteString("/>\n")
	case len(e.children) == 0:
		buf.WriteByte('>')
		buf.WriteString(EscapeXML(e.text))
		buf.WriteString("</" + string(e.kind) + ">\n")
	default:
		buf.WriteString(">\n")
		if e.text != "" {
			buf.WriteString(pad + w.indent + EscapeXML(e.text) + "\n")
		}
		for _, c := range e.children {
			w.element(buf, c, depth+1, false)
		}
		buf.WriteString(pad + "</" + string(e.kind) + ">\n")
	}
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(EscapeXML(value))
	buf.WriteByte('"')
}
