// Package config holds the simulator configuration.
//
// A configuration can be stored as JSON or YAML; the format is chosen from
// the file extension.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/calcsim/emu"
)

// Display ready modes, mirroring the bench's ALWAYS_ON and RANDOM_READY
// readers plus a deterministic periodic mode.
const (
	ReadyAlways   = "always"
	ReadyPeriodic = "periodic"
	ReadyRandom   = "random"
)

var (
	// ErrInvalidWidth is returned for an unsupported register width.
	ErrInvalidWidth = errors.New("invalid register width")
	// ErrInvalidReadyMode is returned for an unknown display ready mode.
	ErrInvalidReadyMode = errors.New("invalid display ready mode")
)

// Config holds the calculator simulation parameters.
type Config struct {
	// Width is the operand register width in bits. Default: 16.
	Width uint `json:"width" yaml:"width"`

	// Signed selects two's-complement mode at start-up. Default: false.
	Signed bool `json:"signed" yaml:"signed"`

	// RenderLatency is the number of ticks the display driver spends on a
	// frame before signalling render complete. Default: 4.
	RenderLatency uint64 `json:"render_latency" yaml:"render_latency"`

	// DisplayReady is the display driver ready mode: always, periodic or
	// random. Default: always.
	DisplayReady string `json:"display_ready" yaml:"display_ready"`

	// DisplayReadyPeriod is the period of the periodic ready mode and the
	// upper bound of the random mode's hold time. Default: 3.
	DisplayReadyPeriod uint64 `json:"display_ready_period" yaml:"display_ready_period"`

	// Seed seeds the random ready mode. Default: 1.
	Seed int64 `json:"seed" yaml:"seed"`

	// KeyGap is the number of idle ticks the keypad waits between presses.
	// Default: 0.
	KeyGap uint64 `json:"key_gap" yaml:"key_gap"`

	// MaxCycles bounds a run before it is reported as stalled.
	// Default: 1000000.
	MaxCycles uint64 `json:"max_cycles" yaml:"max_cycles"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Width:              uint(emu.DefaultWidth),
		Signed:             false,
		RenderLatency:      4,
		DisplayReady:       ReadyAlways,
		DisplayReadyPeriod: 3,
		Seed:               1,
		KeyGap:             0,
		MaxCycles:          1000000,
	}
}

// Load reads a Config from a JSON or YAML file. Fields absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, c)
	} else {
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return c, nil
}

// Save writes c to path, as YAML for .yaml/.yml files and JSON otherwise.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if err := emu.Width(c.Width).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, err)
	}
	switch c.DisplayReady {
	case ReadyAlways, ReadyPeriodic, ReadyRandom:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReadyMode, c.DisplayReady)
	}
	if c.DisplayReady != ReadyAlways && c.DisplayReadyPeriod == 0 {
		return fmt.Errorf("display_ready_period must be > 0")
	}
	if c.MaxCycles == 0 {
		return fmt.Errorf("max_cycles must be > 0")
	}
	return nil
}

// RegisterWidth returns Width as an emu.Width.
func (c *Config) RegisterWidth() emu.Width {
	return emu.Width(c.Width)
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	cc := *c
	return &cc
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
