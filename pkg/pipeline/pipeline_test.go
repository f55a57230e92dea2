package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/svgtree/pkg/cache"
	"github.com/matzehuels/svgtree/pkg/errors"
	"github.com/matzehuels/svgtree/pkg/observability"
	"github.com/matzehuels/svgtree/pkg/options"
	"github.com/matzehuels/svgtree/pkg/textmeasure"
	"github.com/matzehuels/svgtree/pkg/tree"
)

var fixed = textmeasure.FixedMeasurer{CharWidth: 8, BoldCharWidth: 10, Ascent: 12, Descent: 4}

const sample = `{"name": "A", "path": "a", "children": [{"name": "B", "path": "a/b"}, {"name": "C", "path": "a/c"}]}`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ValidateFormat(%q) code = %s, want UNSUPPORTED", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "tree.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.KeyField != tree.DefaultKeyField {
		t.Errorf("KeyField = %q, want %q", opts.KeyField, tree.DefaultKeyField)
	}
	if opts.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want %q", opts.Theme, DefaultTheme)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Data: []byte(sample), Formats: []string{"svg", "dot"}, Scale: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.KeyField != first.KeyField || opts.Theme != first.Theme || opts.Scale != first.Scale || len(opts.Formats) != 2 {
		t.Errorf("second call changed options: %+v -> %+v", first, opts)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"bad theme", Options{Input: "x", Theme: "sepia"}, errors.ErrCodeInvalidTheme},
		{"bad key field", Options{Input: "x", KeyField: "children"}, errors.ErrCodeInvalidKeyField},
		{"bad format", Options{Input: "x", Formats: []string{"gif"}}, errors.ErrCodeUnsupported},
		{"bad style", Options{Input: "x", Style: &options.Partial{
			Font: &options.PartialFont{Size: options.Ptr(-1.0)},
		}}, errors.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Detailed: true}
	if got := opts.ArtifactKeyOpts(FormatPNG); got.Scale != 3 || got.Detailed {
		t.Errorf("png key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); got.Scale != 0 || !got.Detailed {
		t.Errorf("dot key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatSVG); got != (cache.ArtifactKeyOpts{Format: FormatSVG}) {
		t.Errorf("svg key opts = %+v", got)
	}
}

func TestLayoutKeyOptsStyle(t *testing.T) {
	plain := Options{KeyField: "path", Theme: "light"}
	styled := plain
	styled.Style = &options.Partial{Layout: &options.PartialLayout{IndentX: options.Ptr(30.0)}}

	if plain.LayoutKeyOpts().OptionsHash != "" {
		t.Error("no style should give an empty options hash")
	}
	if styled.LayoutKeyOpts().OptionsHash == "" {
		t.Error("style should be hashed")
	}
	keyer := cache.NewDefaultKeyer()
	if keyer.LayoutKey("h", plain.LayoutKeyOpts()) == keyer.LayoutKey("h", styled.LayoutKeyOpts()) {
		t.Error("style should change the layout key")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	data, raw, err := Load(Options{Input: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data) != 1 || data[0].Name != "A" || len(data[0].Items()) != 2 {
		t.Errorf("unexpected data: %+v", data)
	}
	if string(raw) != sample {
		t.Error("raw bytes should be returned for hashing")
	}
	if n := countNodes(data); n != 3 {
		t.Errorf("countNodes = %d, want 3", n)
	}

	_, _, err = Load(Options{Input: filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}

	_, _, err = Load(Options{Data: []byte("{")})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed err = %v, want INVALID_FORMAT", err)
	}
}

func TestLayout(t *testing.T) {
	opts := Options{Data: []byte(sample), Measurer: fixed}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	data, _, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}

	f, err := Layout(data, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	defer f.Close()

	if !f.Roots()[0].Vertical() {
		t.Error("default orientation should be vertical")
	}

	opts.Horizontal = true
	h, err := Layout(data, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	if h.Roots()[0].Vertical() {
		t.Error("Horizontal should lay out roots horizontally")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	loads, layouts, renders int
	hits, misses, sets      int
}

func (h *recordingHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
	h.loads++
}
func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration) { h.layouts++ }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestRunnerExecuteCaches(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	opts := Options{
		Data:     []byte(sample),
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
		Measurer: fixed,
	}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.Forest == nil {
		t.Fatal("first run should build a forest")
	}
	defer first.Forest.Close()
	if first.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", first.Stats.NodeCount)
	}
	if first.DataHash != cache.Hash([]byte(sample)) {
		t.Error("DataHash should hash the input bytes")
	}

	svg := string(first.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("svg artifact = %.40q", svg)
	}
	if !strings.HasPrefix(string(first.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %.40q", first.Artifacts[FormatDOT])
	}
	var layout struct {
		Width float64 `json:"width"`
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(first.Artifacts[FormatJSON], &layout); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(layout.Nodes) != 3 || layout.Width <= 0 {
		t.Errorf("layout = %+v", layout)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if second.Forest != nil {
		t.Error("cache hit should skip layout")
	}
	for _, format := range opts.Formats {
		if !bytes.Equal(first.Artifacts[format], second.Artifacts[format]) {
			t.Errorf("%s artifact differs between runs", format)
		}
	}

	if hooks.loads != 2 || hooks.layouts != 1 || hooks.renders != 1 {
		t.Errorf("pipeline hooks = %d loads, %d layouts, %d renders", hooks.loads, hooks.layouts, hooks.renders)
	}
	if hooks.misses != 1 || hooks.sets != 3 || hooks.hits != 3 {
		t.Errorf("cache hooks = %d misses, %d sets, %d hits", hooks.misses, hooks.sets, hooks.hits)
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer third.Forest.Close()
	if third.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestRunnerExecuteThemeChangesKey(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	light, err := runner.Execute(ctx, Options{Data: []byte(sample), Measurer: fixed})
	if err != nil {
		t.Fatal(err)
	}
	defer light.Forest.Close()
	dark, err := runner.Execute(ctx, Options{Data: []byte(sample), Measurer: fixed, Theme: "dark"})
	if err != nil {
		t.Fatal(err)
	}
	defer dark.Forest.Close()

	if bytes.Equal(light.Artifacts[FormatSVG], dark.Artifacts[FormatSVG]) {
		t.Error("dark theme should change the SVG colors")
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{}); err == nil {
		t.Error("missing input should fail")
	}
	_, err := runner.Execute(ctx, Options{Data: []byte(`{"children": []}`)})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nameless root err = %v, want INVALID_INPUT", err)
	}
}

func TestRunnerPreview(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	f, err := runner.Preview(Options{Data: []byte(sample), Measurer: fixed})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if len(f.Roots()) != 1 || len(f.Roots()[0].Children()) != 2 {
		t.Error("preview should build the whole tree")
	}
}
