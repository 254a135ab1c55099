// Package config loads the LocalBoard YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command.
type Config struct {
	Palette       []string  `yaml:"palette"`
	Color         string    `yaml:"color"`
	BrushWidths   []float64 `yaml:"brush_widths"`
	MaxImageWidth float64   `yaml:"max_image_width"`
	Port          int       `yaml:"port"`
	LogLevel      string    `yaml:"log_level"`
	// Session is the replica id prefix. A random one is generated when empty.
	Session string `yaml:"session"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Palette:       []string{"#88c24e", "#ff3d6f", "#5d9cec", "#ffffff", "#333333"},
		Color:         "#5d9cec",
		BrushWidths:   []float64{8, 4, 2},
		MaxImageWidth: 400,
		Port:          8888,
		LogLevel:      "info",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	return cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette must not be empty"))
	} else if !slices.Contains(c.Palette, c.Color) {
		errs = append(errs, fmt.Errorf("color %q is not in the palette", c.Color))
	}
	for _, w := range c.BrushWidths {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("brush width %v must be positive", w))
		}
	}
	if c.MaxImageWidth <= 0 {
		errs = append(errs, fmt.Errorf("max_image_width %v must be positive", c.MaxImageWidth))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, info when invalid.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
