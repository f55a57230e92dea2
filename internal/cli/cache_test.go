package cli

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgtree/internal/config"
	"github.com/matzehuels/svgtree/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	dir, err := cacheDir(&config.Config{})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME is only honored on Linux")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir(nil)
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	dir, err := cacheDir(&config.Config{CacheDir: "/srv/cache"})
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/cache" {
		t.Errorf("cacheDir() = %q, want /srv/cache", dir)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard)

	c, err := newCache(ctx, &config.Config{}, true, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("noCache should give a NullCache, got %T", c)
	}

	dir := t.TempDir()
	c, err = newCache(ctx, &config.Config{CacheDir: dir}, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != dir {
		t.Errorf("expected a FileCache in %s, got %T", dir, c)
	}

	// An unreachable Redis falls back to files.
	c, err = newCache(ctx, &config.Config{CacheDir: dir, RedisAddr: "127.0.0.1:1"}, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("unreachable redis should fall back to FileCache, got %T", c)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	c := New(io.Discard, LogInfo)
	c.Config = &config.Config{CacheDir: dir, Theme: "light", KeyField: "path"}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "artifact:x", []byte("svg"), 0); err != nil {
		t.Fatal(err)
	}

	root := c.RootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != dir {
		t.Errorf("cache path = %q, want %q", out.String(), dir)
	}

	root.SetArgs([]string{"cache", "clear"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := fc.Get(context.Background(), "artifact:x"); hit {
		t.Error("cache clear should remove entries")
	}
}
