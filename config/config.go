// Package config loads the engine configuration from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

type CameraConfig struct {
	// FOV is the vertical field of view in degrees
	FOV  float32 `yaml:"fov" toml:"fov"`
	Near float32 `yaml:"near" toml:"near"`
	Far  float32 `yaml:"far" toml:"far"`
}

type EditorConfig struct {
	MoveSpeed float32 `yaml:"move_speed" toml:"move_speed"`
	LookSpeed float32 `yaml:"look_speed" toml:"look_speed"`
	Grid      bool    `yaml:"grid" toml:"grid"`
	DebugUI   bool    `yaml:"debug_ui" toml:"debug_ui"`
}

type AssetsConfig struct {
	Root     string `yaml:"root" toml:"root"`
	Manifest string `yaml:"manifest" toml:"manifest"`
	Watch    bool   `yaml:"watch" toml:"watch"`
	// PreloadTimeout bounds asset preloading in seconds; 0 waits indefinitely
	PreloadTimeout float64 `yaml:"preload_timeout" toml:"preload_timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

type EditorLinkConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Listen  string `yaml:"listen" toml:"listen"`
}

type PhysicsConfig struct {
	Enabled  bool    `yaml:"enabled" toml:"enabled"`
	GravityX float32 `yaml:"gravity_x" toml:"gravity_x"`
	GravityY float32 `yaml:"gravity_y" toml:"gravity_y"`
}

type TickConfig struct {
	// FixedDT is the simulated time per tick in seconds; 0 uses wall time
	FixedDT float64 `yaml:"fixed_dt" toml:"fixed_dt"`
}

type Config struct {
	Window     WindowConfig     `yaml:"window" toml:"window"`
	Camera     CameraConfig     `yaml:"camera" toml:"camera"`
	Editor     EditorConfig     `yaml:"editor" toml:"editor"`
	Assets     AssetsConfig     `yaml:"assets" toml:"assets"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	EditorLink EditorLinkConfig `yaml:"editor_link" toml:"editor_link"`
	Physics    PhysicsConfig    `yaml:"physics" toml:"physics"`
	Tick       TickConfig       `yaml:"tick" toml:"tick"`

	// Scene is a JSON scene file loaded at startup; empty builds the demo scene
	Scene string `yaml:"scene" toml:"scene"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{Title: "ember3d", Width: 1280, Height: 720},
		Camera: CameraConfig{FOV: 60, Near: 0.1, Far: 1000},
		Editor: EditorConfig{MoveSpeed: 5, LookSpeed: 0.005, Grid: true, DebugUI: true},
		Assets: AssetsConfig{Root: "assets", Manifest: "manifest.yaml"},
		Log:    LogConfig{Level: "info"},
		EditorLink: EditorLinkConfig{
			Listen: "127.0.0.1:7777",
		},
		Physics: PhysicsConfig{GravityY: -9.81},
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ParseTOML decodes TOML on top of the defaults and validates the result.
func ParseTOML(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Load reads a config file; ".toml" files are decoded as TOML and everything
// else as YAML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s: "+format, append([]any{field}, args...)...))
		}
	}

	check(c.Window.Width > 0, "window.width", "must be positive, got %d", c.Window.Width)
	check(c.Window.Height > 0, "window.height", "must be positive, got %d", c.Window.Height)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov", "must be in (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0, "camera.near", "must be positive, got %v", c.Camera.Near)
	check(c.Camera.Far > c.Camera.Near, "camera.far", "must be greater than near, got %v", c.Camera.Far)
	check(c.Editor.MoveSpeed >= 0, "editor.move_speed", "must not be negative, got %v", c.Editor.MoveSpeed)
	check(c.Assets.PreloadTimeout >= 0, "assets.preload_timeout", "must not be negative, got %v", c.Assets.PreloadTimeout)
	check(c.Tick.FixedDT >= 0, "tick.fixed_dt", "must not be negative, got %v", c.Tick.FixedDT)
	check(!c.EditorLink.Enabled || c.EditorLink.Listen != "", "editor_link.listen", "is required when enabled")

	_, err := zapcore.ParseLevel(c.Log.Level)
	check(err == nil, "log.level", "unknown level %q", c.Log.Level)

	return errors.Join(errs...)
}
