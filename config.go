package stagehand

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the host settings used by Run.
type Config struct {
	Title      string  `yaml:"title"`
	Width      int     `yaml:"width"`  // window width in logical pixels
	Height     int     `yaml:"height"` // window height in logical pixels
	TPS        int     `yaml:"tps"`    // ticks per second
	Resizable  bool    `yaml:"resizable"`
	Fullscreen bool    `yaml:"fullscreen"`
	RemSize    float64 `yaml:"rem_size"` // base font size in logical pixels

	// AssetsDir is the directory Resources reads from. Empty means the
	// working directory.
	AssetsDir string `yaml:"assets_dir"`

	// StoragePath is the bbolt file holding persisted data. Empty keeps
	// data in memory only.
	StoragePath string `yaml:"storage_path"`
	StorageKey  string `yaml:"storage_key"`

	SampleRate int `yaml:"sample_rate"`

	ShowFPS       bool   `yaml:"show_fps"`
	Debug         bool   `yaml:"debug"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	KeyRepeatDelay    int `yaml:"key_repeat_delay"`    // ticks
	KeyRepeatInterval int `yaml:"key_repeat_interval"` // ticks

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // auto, text, json

	// TestScript is a JSON script of injected input and screenshots run
	// against the live window.
	TestScript string `yaml:"test_script"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Title:             "stagehand",
		Width:             960,
		Height:            640,
		TPS:               60,
		Resizable:         true,
		RemSize:           defaultRemSize,
		StorageKey:        defaultStorageKey,
		SampleRate:        defaultSampleRate,
		ScreenshotDir:     "screenshots",
		KeyRepeatDelay:    defaultKeyRepeatDelay,
		KeyRepeatInterval: defaultKeyRepeatInterval,
		LogLevel:          "info",
		LogFormat:         "auto",
	}
}

// Merge applies the non-zero values of source onto c. Boolean options can
// only be switched on this way.
func (c *Config) Merge(source *Config) {
	if source.Title != "" {
		c.Title = source.Title
	}
	if source.Width > 0 {
		c.Width = source.Width
	}
	if source.Height > 0 {
		c.Height = source.Height
	}
	if source.TPS > 0 {
		c.TPS = source.TPS
	}
	c.Resizable = c.Resizable || source.Resizable
	c.Fullscreen = c.Fullscreen || source.Fullscreen
	if source.RemSize > 0 {
		c.RemSize = source.RemSize
	}
	if source.AssetsDir != "" {
		c.AssetsDir = source.AssetsDir
	}
	if source.StoragePath != "" {
		c.StoragePath = source.StoragePath
	}
	if source.StorageKey != "" {
		c.StorageKey = source.StorageKey
	}
	if source.SampleRate > 0 {
		c.SampleRate = source.SampleRate
	}
	c.ShowFPS = c.ShowFPS || source.ShowFPS
	c.Debug = c.Debug || source.Debug
	if source.ScreenshotDir != "" {
		c.ScreenshotDir = source.ScreenshotDir
	}
	if source.KeyRepeatDelay > 0 {
		c.KeyRepeatDelay = source.KeyRepeatDelay
	}
	if source.KeyRepeatInterval > 0 {
		c.KeyRepeatInterval = source.KeyRepeatInterval
	}
	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}
	if source.LogFormat != "" {
		c.LogFormat = source.LogFormat
	}
	if source.TestScript != "" {
		c.TestScript = source.TestScript
	}
}

// LoadConfig reads a YAML config file over the defaults. Keys missing from
// the file keep their default value.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("stagehand: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("stagehand: parse config %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings Run cannot start with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("stagehand: invalid window size %dx%d", c.Width, c.Height)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("stagehand: invalid tps %d", c.TPS)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("stagehand: invalid sample rate %d", c.SampleRate)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("stagehand: invalid log format %q", c.LogFormat)
	}
	return nil
}
