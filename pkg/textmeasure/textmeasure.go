// Package textmeasure measures label text for layout.
//
// A [Measurer] plays the role of a canvas text-measurement context: it takes a
// string and a CSS-like font description and reports the advance width plus
// the font's ascent and descent. [FaceMeasurer] measures with the embedded
// TrueType faces from package fonts; [FixedMeasurer] uses constant per-glyph
// advances and is meant for tests.
package textmeasure

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/svgtree/pkg/fonts"
)

// Metrics is the result of measuring one string.
type Metrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Measurer measures text rendered in a font described by [Font].
type Measurer interface {
	MeasureText(text, font string) Metrics
}

// Font builds the font description "<weight> <size>px <family>". The family is
// omitted when empty.
func Font(family string, size float64, weight int) string {
	s := strconv.Itoa(weight) + " " + strconv.FormatFloat(size, 'f', -1, 64) + "px"
	if family != "" {
		s += " " + family
	}
	return s
}

// ParseFont splits a description built by [Font].
func ParseFont(s string) (family string, size float64, weight int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 3)
	if len(parts) < 2 {
		return "", 0, 0, fmt.Errorf("textmeasure: malformed font %q", s)
	}
	weight, err = strconv.Atoi(parts[0])
	if err != nil {
		return "", 0, 0, fmt.Errorf("textmeasure: font weight in %q: %w", s, err)
	}
	size, err = strconv.ParseFloat(strings.TrimSuffix(parts[1], "px"), 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("textmeasure: font size in %q: %w", s, err)
	}
	if len(parts) == 3 {
		family = parts[2]
	}
	return family, size, weight, nil
}

// FixedMeasurer gives every rune the same advance. Weights from
// fonts.BoldWeight upward use BoldCharWidth when it is set.
type FixedMeasurer struct {
	CharWidth     float64
	BoldCharWidth float64
	Ascent        float64
	Descent       float64
}

// MeasureText implements [Measurer]. Malformed font strings measure with the
// regular width.
func (m FixedMeasurer) MeasureText(text, f string) Metrics {
	w := m.CharWidth
	if _, _, weight, err := ParseFont(f); err == nil && weight >= fonts.BoldWeight && m.BoldCharWidth > 0 {
		w = m.BoldCharWidth
	}
	return Metrics{
		Width:   w * float64(utf8.RuneCountInString(text)),
		Ascent:  m.Ascent,
		Descent: m.Descent,
	}
}

type faceKey struct {
	style fonts.Style
	size  float64
}

// FaceMeasurer measures with the embedded Go fonts. It is safe for
// concurrent use.
type FaceMeasurer struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewFaceMeasurer returns a measurer with an empty face cache.
func NewFaceMeasurer() *FaceMeasurer {
	return &FaceMeasurer{faces: make(map[faceKey]font.Face)}
}

// MeasureText implements [Measurer]. A font string that cannot be parsed
// falls back to 14px regular.
func (m *FaceMeasurer) MeasureText(text, f string) Metrics {
	family, size, weight, err := ParseFont(f)
	if err != nil || size <= 0 {
		family, size, weight = "", 14, 400
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(faceKey{fonts.Select(family, weight), size})
	if err != nil {
		return Metrics{}
	}
	fm := face.Metrics()
	return Metrics{
		Width:   fromFixed(font.MeasureString(face, text)),
		Ascent:  fromFixed(fm.Ascent),
		Descent: fromFixed(fm.Descent),
	}
}

func (m *FaceMeasurer) face(k faceKey) (font.Face, error) {
	if f, ok := m.faces[k]; ok {
		return f, nil
	}
	ttf, err := fonts.Font(k.style)
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    k.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if m.faces == nil {
		m.faces = make(map[faceKey]font.Face)
	}
	m.faces[k] = f
	return f, nil
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
