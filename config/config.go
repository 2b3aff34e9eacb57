// Package config loads the runtime settings of the danmaku binary
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/physics"
)

// ErrInvalid is returned for a setting outside its allowed range
var ErrInvalid = errors.New("invalid config")

// Config is the YAML runtime configuration
// Zero-valued fields absent from the file keep their defaults
type Config struct {
	Level      string        `yaml:"level"`
	Collision  string        `yaml:"collision"`
	Debug      bool          `yaml:"debug"`
	Mute       bool          `yaml:"mute"`
	Volume     float64       `yaml:"volume"`
	Tick       time.Duration `yaml:"tick"`
	MaxCatchUp int           `yaml:"max_catch_up"`
	Mouse      bool          `yaml:"mouse"`
	LogDir     string        `yaml:"log_dir"`

	// Start skips into the level timeline; the level clamps it to its duration
	Start time.Duration `yaml:"start"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Level:      parameter.DefaultLevelPath,
		Collision:  parameter.CollisionGrid,
		Volume:     parameter.CueVolume,
		Tick:       parameter.TickInterval,
		MaxCatchUp: parameter.MaxCatchUpTicks,
		Mouse:      true,
		LogDir:     parameter.LogDir,
	}
}

// Load reads path over the defaults; an empty path returns the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := cfg.Decode(data); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Decode overlays YAML data on c and validates the result
// Unknown keys are rejected
func (c *Config) Decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "decode")
	}
	return c.Validate()
}

// Validate checks every setting
func (c *Config) Validate() error {
	switch {
	case c.Level == "":
		return errors.Wrap(ErrInvalid, "level path is empty")
	case c.Collision != parameter.CollisionTracked && c.Collision != parameter.CollisionGrid:
		return errors.Wrapf(ErrInvalid, "collision %q, want %q or %q",
			c.Collision, parameter.CollisionTracked, parameter.CollisionGrid)
	case c.Volume < 0 || c.Volume > 1:
		return errors.Wrapf(ErrInvalid, "volume %.2f outside [0, 1]", c.Volume)
	case c.Tick <= 0:
		return errors.Wrapf(ErrInvalid, "tick %v", c.Tick)
	case c.MaxCatchUp < 1:
		return errors.Wrapf(ErrInvalid, "max_catch_up %d", c.MaxCatchUp)
	case c.Start < 0:
		return errors.Wrapf(ErrInvalid, "start %v", c.Start)
	}
	return nil
}

// Strategy returns the broad phase selected by Collision
func (c *Config) Strategy() physics.Strategy {
	if c.Collision == parameter.CollisionTracked {
		return physics.TrackedPass{}
	}
	return physics.NewGridPass(
		parameter.WorldWidth+2*parameter.CullMargin,
		parameter.WorldHeight+2*parameter.CullMargin,
		parameter.GridCellSize)
}
