package shape

import (
	"fmt"
	"testing"

	"github.com/matzehuels/svgtree/pkg/geometry"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"arrow", Arrow, false},
		{"Circle", Circle, false},
		{" diamond ", Diamond, false},
		{"triangle", Triangle, false},
		{"star", None, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("diamond")); err != nil || k != Diamond {
		t.Errorf("UnmarshalText(diamond) = %v, %v", k, err)
	}
	if err := k.UnmarshalText([]byte("hexagon")); err == nil {
		t.Error("UnmarshalText(hexagon) should fail")
	}
}

func TestOut(t *testing.T) {
	o := DefaultOptions()
	anchor := geometry.Vec{X: 40, Y: 45}

	tests := []struct {
		kind       Kind
		wantPath   string
		wantOffset float64
	}{
		{None, "", 0},
		{Arrow, "M 36 54 l 4 -8 l 4 8", 1},
		{Circle, "M 40 46 a 4 4 0.5 1 1 0 8 a 4 4 0.5 1 1 0 -8", 9},
		{Diamond, "M 40 46 l 4 5 l -4 5 l -4 -5 Z", 11},
		{Triangle, "M 40 46 l 4 8 l -8 0 Z", 9},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			path, offset := Out(tt.kind, o, anchor)
			if path != tt.wantPath {
				t.Errorf("Out() path = %q, want %q", path, tt.wantPath)
			}
			if offset != tt.wantOffset {
				t.Errorf("Out() offset = %v, want %v", offset, tt.wantOffset)
			}
		})
	}
}

func TestIn(t *testing.T) {
	o := DefaultOptions()
	target := geometry.Vec{X: 68, Y: 75}

	tests := []struct {
		kind       Kind
		vertical   bool
		wantPath   string
		wantOffset float64
	}{
		{Arrow, true, "M 59 71 l 8 4 l -8 4", 1},
		{Circle, true, "M 59 75 a 4 4 0.5 1 1 8 0 a 4 4 0.5 1 1 -8 0 Z", 9},
		{Diamond, true, "M 57 75 l 5 -4 l 5 4 l -5 4 Z", 11},
		{Triangle, true, "M 59 71 l 8 4 l -8 4 l 0 -8 Z", 9},
		{Arrow, false, "M 72 66 l -4 8 l -4 -8", 1},
		{Circle, false, "M 68 66 a 4 4 0.5 1 1 0 8 a 4 4 0.5 1 1 0 -8 Z", 9},
		{Diamond, false, "M 68 64 l 4 5 l -4 5 l -4 -5 Z", 11},
		{Triangle, false, "M 72 66 l -4 8 l -4 -8 Z", 9},
		{None, false, "", 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/vertical=%v", tt.kind, tt.vertical), func(t *testing.T) {
			path, offset := In(tt.kind, o, target, tt.vertical)
			if path != tt.wantPath {
				t.Errorf("In() path = %q, want %q", path, tt.wantPath)
			}
			if offset != tt.wantOffset {
				t.Errorf("In() offset = %v, want %v", offset, tt.wantOffset)
			}
		})
	}
}

// Every marker ends one unit before its target, so a link shortened by the
// returned offset touches the marker's base.
func TestInMarkerAbutsTarget(t *testing.T) {
	o := DefaultOptions()
	for _, k := range []Kind{Arrow, Circle, Diamond, Triangle} {
		p := o.For(k)
		_, offset := In(k, o, geometry.Vec{}, true)
		if k == Arrow {
			if offset != gap {
				t.Errorf("%v offset = %v, want %v", k, offset, gap)
			}
			continue
		}
		if offset != p.Length+gap {
			t.Errorf("%v offset = %v, want %v", k, offset, p.Length+gap)
		}
	}
}

func TestVerticalLink(t *testing.T) {
	got := VerticalLink(geometry.Vec{X: 40, Y: 45}, geometry.Vec{X: 68, Y: 75}, 4, 0)
	want := "M 40 45 L 40 71 s 0 4 4 4 l 24 0"
	if got != want {
		t.Errorf("VerticalLink() = %q, want %q", got, want)
	}

	got = VerticalLink(geometry.Vec{X: 40, Y: 46}, geometry.Vec{X: 68, Y: 75}, 4, 9)
	want = "M 40 46 L 40 71 s 0 4 4 4 l 15 0"
	if got != want {
		t.Errorf("VerticalLink() with marker = %q, want %q", got, want)
	}
}

func TestHorizontalLink(t *testing.T) {
	tests := []struct {
		name   string
		start  geometry.Vec
		target geometry.Vec
		want   string
	}{
		{
			name:   "right",
			start:  geometry.Vec{X: 75, Y: 45},
			target: geometry.Vec{X: 110, Y: 76},
			want:   "M 75 45 l 0 16 L 106 61 s 4 0 4 4 l 0 11",
		},
		{
			name:   "left",
			start:  geometry.Vec{X: 75, Y: 45},
			target: geometry.Vec{X: 40, Y: 76},
			want:   "M 75 45 l 0 16 L 44 61 s -4 0 -4 4 l 0 11",
		},
		{
			name:   "straight below",
			start:  geometry.Vec{X: 75, Y: 45},
			target: geometry.Vec{X: 75, Y: 76},
			want:   "M 75 45 l 0 16 L 75 61 l 0 15",
		},
		{
			name:   "short run",
			start:  geometry.Vec{X: 75, Y: 45},
			target: geometry.Vec{X: 77, Y: 76},
			want:   "M 75 45 l 0 16 L 75 61 s 2 0 2 2 l 0 13",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HorizontalLink(tt.start, 61, tt.target, 4, 0); got != tt.want {
				t.Errorf("HorizontalLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func ExampleVerticalLink() {
	fmt.Println(VerticalLink(geometry.Vec{X: 40, Y: 45}, geometry.Vec{X: 68, Y: 75}, 4, 0))
	// Output: M 40 45 L 40 71 s 0 4 4 4 l 24 0
}
