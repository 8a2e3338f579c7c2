package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultTimeout is the HTTP timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// DefaultPageConcurrency is the number of issue pages fetched in parallel.
const DefaultPageConcurrency = 4

// UIConfig holds terminal output settings
type UIConfig struct {
	Theme string `toml:"theme" json:"theme"` // "default", "dracula", "nord", or "none"
}

// Config holds the redfocus configuration
type Config struct {
	Folder          string   `toml:"folder" json:"folder"`         // OmniFocus root folder, path separator ////
	IssuesURL       string   `toml:"issues_url" json:"issues_url"` // Redmine issues.xml feed
	URLPrefix       string   `toml:"url_prefix" json:"url_prefix"` // issue links are <url_prefix>/<id>
	User            string   `toml:"user" json:"user"`
	Password        string   `toml:"password" json:"password,omitempty"`
	PageConcurrency int      `toml:"page_concurrency" json:"page_concurrency"`
	Timeout         Duration `toml:"timeout" json:"timeout"`
	UI              UIConfig `toml:"ui" json:"ui"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration
func Default() Config {
	return Config{
		PageConcurrency: DefaultPageConcurrency,
		Timeout:         Duration{DefaultTimeout},
		UI:              UIConfig{Theme: "default"},
	}
}

// DefaultPath returns ~/.config/redfocus/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "redfocus", "config.toml"), nil
}

// Load reads the config file at path (DefaultPath when empty) and applies
// environment overrides.
// Returns Default() with overrides if the file doesn't exist (no error).
// Returns error only if the file exists but is invalid.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg := Default()
			return cfg, applyEnvOverrides(&cfg)
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Default(), err
	}
	if err := validateFile(cfg); err != nil {
		return Default(), err
	}

	// Use defaults for empty values
	if cfg.PageConcurrency == 0 {
		cfg.PageConcurrency = DefaultPageConcurrency
	}
	if cfg.Timeout.Duration == 0 {
		cfg.Timeout.Duration = DefaultTimeout
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = "default"
	}

	return cfg, nil
}

// Environment variables overriding file settings.
const (
	EnvFolder    = "REDFOCUS_FOLDER"
	EnvIssuesURL = "REDFOCUS_ISSUES_URL"
	EnvURLPrefix = "REDFOCUS_URL_PREFIX"
	EnvUser      = "REDFOCUS_USER"
	EnvPassword  = "REDFOCUS_PASSWORD"
	EnvTheme     = "REDFOCUS_THEME"
)

// applyEnvOverrides replaces settings with non-empty environment variables.
func applyEnvOverrides(cfg *Config) error {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvFolder, &cfg.Folder},
		{EnvIssuesURL, &cfg.IssuesURL},
		{EnvURLPrefix, &cfg.URLPrefix},
		{EnvUser, &cfg.User},
		{EnvPassword, &cfg.Password},
		{EnvTheme, &cfg.UI.Theme},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	return nil
}

// Redacted returns a copy with the password masked, for display.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = strings.Repeat("*", 8)
	}
	return c
}

// Encode writes the config as TOML.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", err
	}
	return b.String(), nil
}

type ctxKey struct{}

// WithConfig attaches cfg to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored in ctx, or nil.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

const defaultConfig = `# redfocus configuration

# OmniFocus folder that mirrors your Redmine issues.
# Nested folders are separated by "////", e.g. "Work////Redmine".
# Everything below this folder is managed by redfocus: projects and
# folders that do not match a Redmine issue are deleted.
# folder = "Work////Redmine"

# Redmine issue feed. XML output is required.
# http://$YOURHOST/redmine/issues.xml?assigned_to_id=me is probably what you want.
# issues_url = "https://redmine.example.com/issues.xml?assigned_to_id=me"

# Prefix used to build issue links: for issue 1234 and prefix
# https://redmine.example.com/issues the link is https://redmine.example.com/issues/1234
# url_prefix = "https://redmine.example.com/issues"

# Credentials (basic auth). Prefer the REDFOCUS_PASSWORD env var over
# storing the password here.
# Note that for some Redmine installations invalid credentials result in
# an empty issue list instead of an error.
# user = "ada"
# password = ""

# Number of feed pages fetched in parallel for paginated feeds
page_concurrency = 4

# HTTP timeout per request
timeout = "30s"

[ui]
# Color theme: "default", "dracula", "nord", or "none"
theme = "default"
`

// DefaultConfig returns the content written by Init.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at path (DefaultPath when empty).
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	// Check if file already exists (skip if force)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	// 0600: the file may hold a password
	if err := os.WriteFile(path, []byte(defaultConfig), 0o600); err != nil {
		return "", err
	}

	return path, nil
}
