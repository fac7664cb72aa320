// Package config loads the shippai CLI configuration file.
//
// Configuration lives at ~/.config/shippai/config.toml by default; a
// shippai.toml in the working directory takes precedence, and an
// explicit --config path beats both. A missing file is not an error —
// every field has a usable default.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

//go:embed sample_config.toml
var sampleConfig string

// Archive contains settings for the failure knowledge database itself.
type Archive struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
}

// Cache contains settings for the page and artifact cache.
type Cache struct {
	Backend   string `toml:"backend"` // file, redis, none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Store contains settings for case record persistence.
type Store struct {
	Backend       string `toml:"backend"` // file, mongo
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Output contains settings for artifact generation.
type Output struct {
	Dir         string   `toml:"dir"`
	Formats     []string `toml:"formats"`
	Viz         string   `toml:"viz"`
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	FontPath    string   `toml:"font_path"`
	EmbedImages bool     `toml:"embed_images"`
}

// Style overrides the diagram's visual defaults. Empty fields keep the
// archive's original appearance.
type Style struct {
	CauseFill  string `toml:"cause_fill"`
	ActionFill string `toml:"action_fill"`
	ResultFill string `toml:"result_fill"`
	AxisText   string `toml:"axis_text"`
}

// Server contains settings for the HTTP API.
type Server struct {
	Bind string `toml:"bind"`
}

// Config encapsulates all configuration values for the shippai tools.
type Config struct {
	Archive Archive `toml:"archive"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
	Output  Output  `toml:"output"`
	Style   Style   `toml:"style"`
	Server  Server  `toml:"server"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Archive: Archive{
			BaseURL:   "https://www.shippai.org/fkd/",
			UserAgent: "shippai-knowledge-etl",
		},
		Cache: Cache{
			Backend: "file",
			Dir:     "~/.cache/shippai",
		},
		Store: Store{
			Backend:       "file",
			Dir:           "./output",
			MongoDatabase: "shippai",
		},
		Output: Output{
			Dir:     "./output",
			Formats: []string{"json", "pdf"},
			Viz:     "diagonal",
			Width:   960,
			Height:  720,
		},
		Server: Server{
			Bind: "127.0.0.1:8321",
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shippai/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns
// the config, the resolved path, and whether a file was actually read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if _, err := toml.DecodeFile(resolved, &cfg); err != nil {
			return nil, "", false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", resolved)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// WriteSample writes the annotated sample configuration to path,
// refusing to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return errors.New(errors.ErrCodeInvalidInput, "config file already exists: %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create config directory")
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write sample config")
	}
	return nil
}

// LayoutStyle folds the style overrides into the archive defaults.
func (c *Config) LayoutStyle() layout.Style {
	st := layout.DefaultStyle()
	if c.Style.CauseFill != "" {
		st.CauseFill = c.Style.CauseFill
	}
	if c.Style.ActionFill != "" {
		st.ActionFill = c.Style.ActionFill
	}
	if c.Style.ResultFill != "" {
		st.ResultFill = c.Style.ResultFill
	}
	if c.Style.AxisText != "" {
		st.AxisText = c.Style.AxisText
	}
	return st
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if os.IsNotExist(err) {
				return expanded, false, nil
			}
			return "", false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "stat config %s", expanded)
		}
		return expanded, true, nil
	}

	if info, err := os.Stat("shippai.toml"); err == nil && !info.IsDir() {
		abs, err := filepath.Abs("shippai.toml")
		if err != nil {
			return "", false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve shippai.toml")
		}
		return abs, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// normalize expands home-relative paths so the rest of the program can
// treat every path as absolute-or-relative-to-cwd.
func (c *Config) normalize() error {
	for _, p := range []*string{&c.Cache.Dir, &c.Store.Dir, &c.Output.Dir, &c.Output.FontPath} {
		if *p == "" {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	if c.Archive.BaseURL != "" && !strings.HasSuffix(c.Archive.BaseURL, "/") {
		c.Archive.BaseURL += "/"
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve home directory")
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
