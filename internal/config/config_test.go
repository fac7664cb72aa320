package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if exists {
		t.Error("exists = true for a missing file")
	}
	if cfg.Archive.BaseURL != "https://www.shippai.org/fkd/" {
		t.Errorf("BaseURL = %q", cfg.Archive.BaseURL)
	}
	if cfg.Cache.Backend != "file" || cfg.Store.Backend != "file" {
		t.Errorf("backends = %q/%q", cfg.Cache.Backend, cfg.Store.Backend)
	}
	if cfg.Output.Viz != "diagonal" || cfg.Output.Width != 960 {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[archive]
base_url = "http://localhost:8080/fkd"

[cache]
backend = "none"

[output]
formats = ["svg"]
viz = "diagonal"

[style]
cause_fill = "#ff0000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("resolved = %q exists = %v", resolved, exists)
	}
	// Trailing slash is normalized on.
	if cfg.Archive.BaseURL != "http://localhost:8080/fkd/" {
		t.Errorf("BaseURL = %q", cfg.Archive.BaseURL)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
	// Unset sections keep their defaults.
	if cfg.Server.Bind != "127.0.0.1:8321" {
		t.Errorf("server bind = %q", cfg.Server.Bind)
	}

	st := cfg.LayoutStyle()
	if st.CauseFill != "#ff0000" {
		t.Errorf("CauseFill = %q", st.CauseFill)
	}
	if st.ActionFill != "#e2efda" || st.AxisText != "（時間の進行）→" {
		t.Errorf("unset style fields overridden: %+v", st)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"bad viz", "[output]\nviz = \"tower\"\n", "invalid viz"},
		{"dot with diagonal", "[output]\nformats = [\"dot\"]\n", "requires viz chain"},
		{"bad url", "[archive]\nbase_url = \"not a url\"\n", "base_url"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n", "mongo_uri"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/.cache/shippai")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".cache/shippai") {
		t.Errorf("expandPath = %q", got)
	}
	if got, _ := expandPath("/absolute"); got != "/absolute" {
		t.Errorf("absolute path changed: %q", got)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample() error: %v", err)
	}

	// The sample must itself be loadable.
	cfg, _, exists, err := Load(path)
	if err != nil || !exists {
		t.Fatalf("Load(sample) = %v exists=%v", err, exists)
	}
	if cfg.Output.Viz != "diagonal" {
		t.Errorf("sample viz = %q", cfg.Output.Viz)
	}

	err = WriteSample(path)
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("second WriteSample code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}
