// Package fonts provides the embedded font files used for text measurement.
//
// The Go font family ships with golang.org/x/image, so measurement works
// without any system fonts installed. Parsed fonts are cached after first use.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects one of the embedded faces.
type Style int

const (
	Regular Style = iota
	Bold
	Mono
	MonoBold
)

// BoldWeight is the lowest CSS font weight rendered with a bold face.
const BoldWeight = 600

// FontFamily is the CSS font-family written into rendered SVG when no family
// is configured.
const FontFamily = "Go, sans-serif"

var (
	parsed   [4]*truetype.Font
	parseErr [4]error
	once     [4]sync.Once
)

// Select picks the face for a CSS family and weight: mono when the family
// mentions "mono", bold from [BoldWeight] upward.
func Select(family string, weight int) Style {
	mono := strings.Contains(strings.ToLower(family), "mono")
	bold := weight >= BoldWeight
	switch {
	case mono && bold:
		return MonoBold
	case mono:
		return Mono
	case bold:
		return Bold
	default:
		return Regular
	}
}

// TTF returns the raw font data of a face.
func TTF(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Mono:
		return gomono.TTF
	case MonoBold:
		return gomonobold.TTF
	default:
		return goregular.TTF
	}
}

// Font returns the parsed face, parsing it on first access.
func Font(s Style) (*truetype.Font, error) {
	if s < Regular || s > MonoBold {
		return nil, fmt.Errorf("fonts: unknown style %d", s)
	}
	once[s].Do(func() {
		parsed[s], parseErr[s] = truetype.Parse(TTF(s))
	})
	return parsed[s], parseErr[s]
}

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Mono:
		return "mono"
	case MonoBold:
		return "mono-bold"
	default:
		return "regular"
	}
}
