// Package config loads editor configuration from TOML files and watches
// them for changes.
package config

import (
	"errors"
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/dshills/multicaret/internal/caret"
)

// Validation errors.
var (
	ErrInvalidTabWidth   = errors.New("tab_width must be at least 1")
	ErrInvalidWrapColumn = errors.New("wrap_column must not be negative")
	ErrInvalidScrollOff  = errors.New("scroll_off must not be negative")
)

// Config is the top-level configuration.
type Config struct {
	Editor Editor `toml:"editor"`
	Colors Colors `toml:"colors"`
}

// Editor holds layout and caret behavior settings.
type Editor struct {
	TabWidth   int  `toml:"tab_width"`
	WrapColumn int  `toml:"wrap_column"` // 0 disables soft wrapping
	MultiCaret bool `toml:"multi_caret"` // false selects the single-caret model
	ScrollOff  int  `toml:"scroll_off"`  // rows kept visible around the caret
}

// Colors holds display colors as hex strings.
type Colors struct {
	SelectionForeground string `toml:"selection_foreground"`
	SelectionBackground string `toml:"selection_background"`
	Caret               string `toml:"caret"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: Editor{
			TabWidth:   4,
			WrapColumn: 0,
			MultiCaret: true,
			ScrollOff:  2,
		},
		Colors: Colors{
			SelectionForeground: "#1c1c1c",
			SelectionBackground: "#aed6f1",
			Caret:               "#f0f0f0",
		},
	}
}

// Load reads configuration from a TOML file, layered over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Editor.TabWidth < 1 {
		return ErrInvalidTabWidth
	}
	if c.Editor.WrapColumn < 0 {
		return ErrInvalidWrapColumn
	}
	if c.Editor.ScrollOff < 0 {
		return ErrInvalidScrollOff
	}
	if _, err := c.TextAttributes(); err != nil {
		return err
	}
	if _, err := colorful.Hex(c.Colors.Caret); err != nil {
		return fmt.Errorf("caret color %q: %w", c.Colors.Caret, err)
	}
	return nil
}

// TextAttributes converts the selection colors for the caret model.
func (c Config) TextAttributes() (caret.TextAttributes, error) {
	fg, err := colorful.Hex(c.Colors.SelectionForeground)
	if err != nil {
		return caret.TextAttributes{}, fmt.Errorf("selection_foreground %q: %w", c.Colors.SelectionForeground, err)
	}
	bg, err := colorful.Hex(c.Colors.SelectionBackground)
	if err != nil {
		return caret.TextAttributes{}, fmt.Errorf("selection_background %q: %w", c.Colors.SelectionBackground, err)
	}
	return caret.TextAttributes{Foreground: fg, Background: bg}, nil
}
