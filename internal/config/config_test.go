package config

import (
	"os"
	"testing"

	"github.com/matzehuels/svgtree/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"THEME", "CACHE_DIR", "REDIS_ADDR", "LISTEN_ADDR", "KEY_FIELD"} {
		// Setenv restores the variable after the test.
		t.Setenv(Prefix+"_"+k, "")
		os.Unsetenv(Prefix + "_" + k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{Theme: "light", ListenAddr: ":8080", KeyField: "path"}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SVGTREE_THEME", "dark")
	t.Setenv("SVGTREE_CACHE_DIR", "/tmp/svgtree")
	t.Setenv("SVGTREE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SVGTREE_LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("SVGTREE_KEY_FIELD", "id")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{
		Theme:      "dark",
		CacheDir:   "/tmp/svgtree",
		RedisAddr:  "localhost:6379",
		ListenAddr: "127.0.0.1:9000",
		KeyField:   "id",
	}
	if *cfg != want {
		t.Errorf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		code errors.Code
	}{
		{"theme", map[string]string{"SVGTREE_THEME": "sepia"}, errors.ErrCodeInvalidTheme},
		{"key field", map[string]string{"SVGTREE_KEY_FIELD": "children"}, errors.ErrCodeInvalidKeyField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
