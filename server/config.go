package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AltairaLabs/BackdropKit/compose"
	"github.com/AltairaLabs/BackdropKit/media"
)

// Default configuration values.
const (
	DefaultAddr           = ":8000"
	DefaultBackgroundsDir = "backgrounds"
)

// Config is the server configuration, loadable from YAML.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string `yaml:"addr"`

	// BackgroundsDir is where uploaded background originals are persisted.
	BackgroundsDir string `yaml:"backgrounds_dir"`

	// JPEGQuality is the encoding quality for outbound frames (1-100).
	JPEGQuality int `yaml:"jpeg_quality"`

	// BlurRadius is the blur-background kernel radius in pixels.
	BlurRadius int `yaml:"blur_radius"`

	// SegmentWorkers bounds concurrent segmentation inference.
	// Zero selects GOMAXPROCS.
	SegmentWorkers int `yaml:"segment_workers"`

	// DefaultBackground seeds new sessions. Empty selects "none".
	DefaultBackground string `yaml:"default_background"`

	// Environment tags log output (e.g. "production", "staging").
	Environment string `yaml:"environment"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() Config {
	return Config{
		Addr:           DefaultAddr,
		BackgroundsDir: DefaultBackgroundsDir,
		JPEGQuality:    media.DefaultQuality,
		BlurRadius:     compose.DefaultBlurRadius,
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.BackgroundsDir == "" {
		c.BackgroundsDir = DefaultBackgroundsDir
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = media.DefaultQuality
	}
	if c.BlurRadius <= 0 {
		c.BlurRadius = compose.DefaultBlurRadius
	}
}
