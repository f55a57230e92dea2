package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/tree"
)

// ReadJSON decodes tree data from r. A top-level object yields one root, a
// top-level array one root per element.
//
// ReadJSON returns an INVALID_FORMAT error for malformed JSON, INVALID_INPUT
// for nodes without a name, with unknown shapes or with a bad dashArray, and INVALID_COLOR for
// colors that cannot be written into a style attribute. Errors name the node
// that caused them, for example "roots[0].children[2]".
//
// Lazy children are decoded and validated up front; only their construction
// as layout nodes is deferred. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]*tree.Data, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree data")
	}

	switch first(raw) {
	case '{':
		d, err := decodeNode(raw, "root")
		if err != nil {
			return nil, err
		}
		return []*tree.Data{d}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode roots")
		}
		return decodeList(items, "roots")
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "tree data must be an object or an array")
	}
}

// ImportJSON reads tree data from the file at path. A missing file is a
// FILE_NOT_FOUND error.
func ImportJSON(path string) ([]*tree.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func first(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

func decodeList(items []json.RawMessage, at string) ([]*tree.Data, error) {
	out := make([]*tree.Data, len(items))
	for i, item := range items {
		d, err := decodeNode(item, fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func decodeNode(raw json.RawMessage, at string) (*tree.Data, error) {
	if first(raw) != '{' {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: node must be an object", at)
	}
	var p map[string]json.RawMessage
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", at)
	}

	d := &tree.Data{}
	if _, ok := p["name"]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: missing name", at)
	}

	strs := []struct {
		name  string
		dst   *string
		color bool
	}{
		{"name", &d.Name, false},
		{"color", &d.Color, true},
		{"backgroundColor", &d.BackgroundColor, true},
		{"outColor", &d.OutColor, true},
		{"outSelfFill", &d.OutSelfFill, true},
	}
	for _, s := range strs {
		v, ok := p[s.name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, s.dst); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.%s", at, s.name)
		}
		if s.color && *s.dst != "" {
			if err := errors.ValidateColor(*s.dst); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", at, s.name, err)
			}
		}
	}

	if v, ok := p["dashArray"]; ok {
		dash, err := decodeDashArray(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.dashArray", at)
		}
		d.DashArray = dash
	}

	if v, ok := p["outSelfShape"]; ok {
		if err := json.Unmarshal(v, &d.OutSelfShape); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.outSelfShape", at)
		}
	}
	if v, ok := p["inChildrenShape"]; ok {
		if err := json.Unmarshal(v, &d.InChildrenShape); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.inChildrenShape", at)
		}
	}
	if v, ok := p["inChildrenFill"]; ok {
		if err := json.Unmarshal(v, &d.InChildrenFill); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.inChildrenFill", at)
		}
		for i, c := range d.InChildrenFill {
			if c == "" {
				continue
			}
			if err := errors.ValidateColor(c); err != nil {
				return nil, fmt.Errorf("%s.inChildrenFill[%d]: %w", at, i, err)
			}
		}
	}
	if v, ok := p["extensible"]; ok {
		if err := json.Unmarshal(v, &d.Extensible); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.extensible", at)
		}
	}

	var lazy bool
	if v, ok := p["lazy"]; ok {
		if err := json.Unmarshal(v, &lazy); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.lazy", at)
		}
	}
	var kids []*tree.Data
	if v, ok := p["children"]; ok && first(v) != 'n' {
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s.children", at)
		}
		var err error
		if kids, err = decodeList(items, at+".children"); err != nil {
			return nil, err
		}
	}
	if lazy {
		d.Children = tree.Lazy(func(*tree.Data) []*tree.Data { return kids })
	} else {
		d.Children = tree.Static(kids...)
	}

	for name, v := range p {
		if reserved(name) {
			continue
		}
		val, err := decodeValue(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s.%s", at, name)
		}
		if d.Fields == nil {
			d.Fields = make(map[string]any)
		}
		d.Fields[name] = val
	}
	return d, nil
}

// decodeDashArray accepts a stroke-dasharray as a string ("4 2", "3,1",
// "none") or a single number (4), and returns it in string form.
func decodeDashArray(raw json.RawMessage) (string, error) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num < 0 {
			return "", fmt.Errorf("negative dash length %g", num)
		}
		return strconv.FormatFloat(num, 'f', -1, 64), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("want a string or number: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return s, nil
	}
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	}) {
		if !validDash(tok) {
			return "", fmt.Errorf("invalid dash length %q", tok)
		}
	}
	return s, nil
}

// validDash reports whether tok is a non-negative length with an optional
// unit or percent sign, as allowed in stroke-dasharray.
func validDash(tok string) bool {
	num := strings.TrimRight(tok, "abcdefghijklmnopqrstuvwxyz%")
	if num == "" || len(tok)-len(num) > 2 {
		return false
	}
	v, err := strconv.ParseFloat(num, 64)
	return err == nil && v >= 0
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func reserved(name string) bool {
	switch name {
	case "name", "children", "lazy", "color", "backgroundColor", "dashArray",
		"outSelfShape", "outSelfFill", "outColor", "inChildrenShape",
		"inChildrenFill", "extensible":
		return true
	}
	return false
}
