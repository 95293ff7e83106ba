// Package config loads objcompare settings.
//
// Settings come from a TOML file, then environment overrides, on top of
// built-in defaults. The default file location is
// $XDG_CONFIG_HOME/objcompare/config.toml (or the OS equivalent).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables that override file settings
const (
	EnvStorePath = "OBJCOMPARE_STORE_PATH"
	EnvLogLevel  = "OBJCOMPARE_LOG_LEVEL"
)

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the complete objcompare configuration
type Config struct {
	Store  StoreConfig  `toml:"store"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
	Inputs InputsConfig `toml:"inputs"`
}

// StoreConfig controls where input text is persisted between sessions
type StoreConfig struct {
	Path     string `toml:"path"`
	InMemory bool   `toml:"in_memory"`
}

// UIConfig controls rendering
type UIConfig struct {
	Color       string `toml:"color"`
	Separator   string `toml:"separator"`
	ClearScreen bool   `toml:"clear_screen"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `toml:"level"`
}

// InputsConfig names the two inputs. IDs key persisted text, names label
// error rows
type InputsConfig struct {
	OldID   string `toml:"old_id"`
	NewID   string `toml:"new_id"`
	OldName string `toml:"old_name"`
	NewName string `toml:"new_name"`
}

// Default returns the built-in configuration
func Default() *Config {
	storePath := ""
	if dir, err := os.UserCacheDir(); err == nil {
		storePath = filepath.Join(dir, "objcompare", "store")
	}
	return &Config{
		Store: StoreConfig{Path: storePath},
		UI: UIConfig{
			Color:       ColorAuto,
			Separator:   " → ",
			ClearScreen: true,
		},
		Log: LogConfig{Level: "warn"},
		Inputs: InputsConfig{
			OldID:   "dataold",
			NewID:   "datanew",
			OldName: "old",
			NewName: "new",
		},
	}
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "objcompare", "config.toml")
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error when path is the default
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !(errors.Is(err, os.ErrNotExist) && !explicit) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.UI.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid ui.color %q: want auto, always or never", c.UI.Color)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return errors.New("store.path is required unless store.in_memory is set")
	}
	if c.Inputs.OldID == "" || c.Inputs.NewID == "" {
		return errors.New("inputs.old_id and inputs.new_id must not be empty")
	}
	if c.Inputs.OldID == c.Inputs.NewID {
		return fmt.Errorf("inputs.old_id and inputs.new_id must differ, both are %q", c.Inputs.OldID)
	}
	return nil
}

// SlogLevel parses the configured log level
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return lvl, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// Save writes the configuration as TOML to path, creating parent directories
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
