package options

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/shape"
)

// Partial is a sparse override of [Options]. Nil fields are unset.
type Partial struct {
	Color  *PartialColor  `toml:"color"`
	Text   *PartialText   `toml:"text"`
	Layout *PartialLayout `toml:"layout"`
	Font   *PartialFont   `toml:"font"`
	Shape  *PartialShape  `toml:"shape"`
}

type PartialColor struct {
	Border     *string `toml:"border"`
	Background *string `toml:"background"`
	Shadow     *string `toml:"shadow"`
	Text       *string `toml:"text"`
	TextHover  *string `toml:"textHover"`
	TextActive *string `toml:"textActive"`
}

type PartialText struct {
	Weight       *int `toml:"weight"`
	HoverWeight  *int `toml:"hoverWeight"`
	ActiveWeight *int `toml:"activeWeight"`
}

type PartialLayout struct {
	IndentX  *float64 `toml:"indentX"`
	IndentY  *float64 `toml:"indentY"`
	MarginX  *float64 `toml:"marginX"`
	MarginY  *float64 `toml:"marginY"`
	PaddingX *float64 `toml:"paddingX"`
	PaddingY *float64 `toml:"paddingY"`
	Radius   *float64 `toml:"radius"`
}

type PartialFont struct {
	Family *string  `toml:"family"`
	Size   *float64 `toml:"size"`
}

type PartialShape struct {
	Arrow    *PartialParams `toml:"arrow"`
	Circle   *PartialParams `toml:"circle"`
	Diamond  *PartialParams `toml:"diamond"`
	Triangle *PartialParams `toml:"triangle"`
}

type PartialParams struct {
	Width  *float64 `toml:"width"`
	Length *float64 `toml:"length"`
}

// Merge resolves p over palette and the compiled defaults. A nil p yields the
// defaults with the palette applied.
func Merge(p *Partial, palette Color) Options {
	o := Defaults()
	o.Color = palette
	if p == nil {
		return o
	}
	if c := p.Color; c != nil {
		set(&o.Color.Border, c.Border)
		set(&o.Color.Background, c.Background)
		set(&o.Color.Shadow, c.Shadow)
		set(&o.Color.Text, c.Text)
		set(&o.Color.TextHover, c.TextHover)
		set(&o.Color.TextActive, c.TextActive)
	}
	if t := p.Text; t != nil {
		set(&o.Text.Weight, t.Weight)
		set(&o.Text.HoverWeight, t.HoverWeight)
		set(&o.Text.ActiveWeight, t.ActiveWeight)
	}
	if l := p.Layout; l != nil {
		set(&o.Layout.IndentX, l.IndentX)
		set(&o.Layout.IndentY, l.IndentY)
		set(&o.Layout.MarginX, l.MarginX)
		set(&o.Layout.MarginY, l.MarginY)
		set(&o.Layout.PaddingX, l.PaddingX)
		set(&o.Layout.PaddingY, l.PaddingY)
		set(&o.Layout.Radius, l.Radius)
	}
	if f := p.Font; f != nil {
		set(&o.Font.Family, f.Family)
		set(&o.Font.Size, f.Size)
	}
	if s := p.Shape; s != nil {
		mergeParams(&o.Shape.Arrow, s.Arrow)
		mergeParams(&o.Shape.Circle, s.Circle)
		mergeParams(&o.Shape.Diamond, s.Diamond)
		mergeParams(&o.Shape.Triangle, s.Triangle)
	}
	return o
}

// NeedsTheme reports whether some color role is left to the theme palette.
func NeedsTheme(p *Partial) bool {
	if p == nil || p.Color == nil {
		return true
	}
	c := p.Color
	return c.Border == nil || c.Background == nil || c.Shadow == nil ||
		c.Text == nil || c.TextHover == nil || c.TextActive == nil
}

// Validate checks the values set in p.
func (p *Partial) Validate() error {
	if p == nil {
		return nil
	}
	if c := p.Color; c != nil {
		for _, v := range []*string{c.Border, c.Background, c.Shadow, c.Text, c.TextHover, c.TextActive} {
			if v == nil {
				continue
			}
			if err := errors.ValidateColor(*v); err != nil {
				return err
			}
		}
	}
	if f := p.Font; f != nil && f.Size != nil && *f.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "font size must be positive, got %v", *f.Size)
	}
	if l := p.Layout; l != nil {
		for _, v := range []*float64{l.IndentX, l.IndentY, l.MarginX, l.MarginY, l.PaddingX, l.PaddingY, l.Radius} {
			if v != nil && *v < 0 {
				return errors.New(errors.ErrCodeInvalidOptions, "layout metrics cannot be negative, got %v", *v)
			}
		}
	}
	return nil
}

// DecodeTOML parses and validates an override document. Unknown keys are
// rejected.
func DecodeTOML(data []byte) (*Partial, error) {
	var p Partial
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "decode options")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "unknown option %q", undecoded[0].String())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadTOML reads an override file.
func LoadTOML(path string) (*Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "options file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "read options file %s", path)
	}
	return DecodeTOML(data)
}

// Ptr returns a pointer to v, for building a [Partial] in code.
func Ptr[T any](v T) *T { return &v }

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func mergeParams(dst *shape.Params, src *PartialParams) {
	if src == nil {
		return
	}
	set(&dst.Width, src.Width)
	set(&dst.Length, src.Length)
}
