package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, 8888, cfg.Port)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
palette: ["#000000", "#ffffff"]
color: "#ffffff"
port: 9000
log_level: debug
session: desk
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#000000", "#ffffff"}, cfg.Palette)
	assert.Equal(t, "#ffffff", cfg.Color)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "desk", cfg.Session)
	assert.Equal(t, []float64{8, 4, 2}, cfg.BrushWidths)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty palette", func(c *Config) { c.Palette = nil }, "palette must not be empty"},
		{"color outside palette", func(c *Config) { c.Color = "#123456" }, `color "#123456" is not in the palette`},
		{"negative brush", func(c *Config) { c.BrushWidths = []float64{4, -1} }, "brush width -1 must be positive"},
		{"zero image width", func(c *Config) { c.MaxImageWidth = 0 }, "max_image_width 0 must be positive"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "port 70000 out of range"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, `invalid log level "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	err := Parse([]byte("palette: [unclosed"), Default())
	assert.ErrorContains(t, err, "parsing yaml")
}
