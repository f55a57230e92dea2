package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/svgtree/internal/config"
	"github.com/matzehuels/svgtree/pkg/pipeline"
)

const sampleTree = `{
  "name": "root",
  "path": "root",
  "children": [
    {"name": "left", "path": "root/left", "children": [{"name": "leaf", "path": "root/left/leaf"}]},
    {"name": "right", "path": "root/right", "outSelfShape": "circle"}
  ]
}`

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		single                bool
		want                  string
	}{
		{"", "data/tree.json", "svg", true, "data/tree.svg"},
		{"out.svg", "tree.json", "svg", true, "out.svg"},
		{"out.svg", "tree.json", "png", false, "out.png"},
		{"out", "tree.json", "dot", false, "out.dot"},
		{"", "tree.json", "json", false, "tree.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format, tt.single); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q", tt.output, tt.input, tt.format, tt.single, got, tt.want)
		}
	}
}

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.Config = &config.Config{Theme: "light", KeyField: "path", CacheDir: t.TempDir(), ListenAddr: ":0"}
	return c
}

func TestPipelineOptions(t *testing.T) {
	c := testCLI(t)
	c.Config.Theme = "dark"

	p, err := c.pipelineOptions("tree.json", renderOpts{formats: []string{"svg"}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Theme != "dark" || p.KeyField != "path" {
		t.Errorf("config defaults not applied: %+v", p)
	}

	p, err = c.pipelineOptions("tree.json", renderOpts{theme: "light", keyField: "id"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Theme != "light" || p.KeyField != "id" {
		t.Errorf("flags should override config: theme %q, key field %q", p.Theme, p.KeyField)
	}
}

func TestLoadStyle(t *testing.T) {
	if p, err := loadStyle(""); p != nil || err != nil {
		t.Errorf("loadStyle(\"\") = %v, %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "style.toml")
	if err := os.WriteFile(path, []byte("[layout]\nindentX = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := loadStyle(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Layout == nil || p.Layout.IndentX == nil || *p.Layout.IndentX != 30 {
		t.Errorf("loadStyle() = %+v", p)
	}

	if _, err := loadStyle(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(input, []byte(sampleTree), 0o644); err != nil {
		t.Fatal(err)
	}

	c := testCLI(t)
	ctx := withLogger(context.Background(), c.Logger)
	opts := renderOpts{
		output:  filepath.Join(dir, "out", "tree"),
		formats: []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT},
		scale:   pipeline.DefaultScale,
	}
	if err := c.runRender(ctx, input, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	checks := map[string]string{
		"tree.svg":  "<svg",
		"tree.json": `"nodes"`,
		"tree.dot":  "digraph",
	}
	for name, want := range checks {
		data, err := os.ReadFile(filepath.Join(dir, "out", name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s does not contain %q", name, want)
		}
	}

	// A second run is served from the cache and writes the same bytes.
	first, _ := os.ReadFile(filepath.Join(dir, "out", "tree.svg"))
	if err := c.runRender(ctx, input, opts); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(filepath.Join(dir, "out", "tree.svg"))
	if string(first) != string(second) {
		t.Error("cached render should match")
	}
}

func TestRunRenderErrors(t *testing.T) {
	c := testCLI(t)
	ctx := withLogger(context.Background(), c.Logger)

	err := c.runRender(ctx, filepath.Join(t.TempDir(), "missing.json"), renderOpts{formats: []string{"svg"}, noCache: true})
	if err == nil {
		t.Error("missing input should fail")
	}

	err = c.runRender(ctx, "tree.json", renderOpts{formats: []string{"svg"}, style: filepath.Join(t.TempDir(), "nope.toml")})
	if err == nil {
		t.Error("missing options file should fail")
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:9000"); got != "0.0.0.0:9000" {
		t.Errorf("displayAddr(0.0.0.0:9000) = %q", got)
	}
}
