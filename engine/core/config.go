package core

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hubastard/biscuit/engine/colors"
	"github.com/hubastard/biscuit/engine/text"
)

// Config for the engine run. Loaded from YAML; fields left out of the file
// keep their DefaultConfig values.
type Config struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	VSync      bool         `yaml:"vsync"`
	ClearColor colors.Color `yaml:"clear_color"` // RGBA

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Diagnostics logs every skipped draw command at debug level.
	Diagnostics bool `yaml:"diagnostics"`

	// ShaderDir overrides where shader sources are read from before the
	// built-in copies.
	ShaderDir string `yaml:"shader_dir"`

	Text TextConfig `yaml:"text"`
}

type TextConfig struct {
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`

	// Fonts maps a family name to a TTF/OTF path (relative paths resolve
	// under assets/fonts).
	Fonts map[string]string `yaml:"fonts"`
}

func DefaultConfig() Config {
	return Config{
		Title:      "biscuit",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.White,
		LogLevel:   "info",
		Text: TextConfig{
			CanvasWidth:  text.DefaultCanvasWidth,
			CanvasHeight: text.DefaultCanvasHeight,
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	def := DefaultConfig()
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if strings.TrimSpace(c.Title) == "" {
		c.Title = def.Title
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "":
		c.LogLevel = def.LogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Text.CanvasWidth <= 0 {
		c.Text.CanvasWidth = def.Text.CanvasWidth
	}
	if c.Text.CanvasHeight <= 0 {
		c.Text.CanvasHeight = def.Text.CanvasHeight
	}
	return nil
}
