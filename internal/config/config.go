// Package config loads the fretnotes configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/chase3718/fretnotes/internal/fretboard"
	"github.com/chase3718/fretnotes/internal/midiin"
	"github.com/chase3718/fretnotes/internal/scale"
)

const (
	// DefaultBaseDir is the configuration directory under the user config dir.
	DefaultBaseDir = "fretnotes"
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk configuration.
type Config struct {
	// Debug enables debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// Board describes the neck.
	Board BoardConfig `yaml:"board"`

	// Templates is an optional YAML file of extra scale/chord templates.
	Templates string `yaml:"templates,omitempty"`

	// Startup is drawn when listen starts, e.g. "e natural-minor".
	Startup string `yaml:"startup,omitempty"`

	// Intervals labels notes by interval from the key instead of by name.
	Intervals bool `yaml:"intervals,omitempty"`

	// Select lists "string:fret" marks selected after the startup draw. Held
	// keys then light only the position nearest the first selection.
	Select []string `yaml:"select,omitempty"`

	MIDI   MIDIConfig   `yaml:"midi"`
	Serial SerialConfig `yaml:"serial"`

	path string
}

// BoardConfig selects an instrument tuning and visible frets.
type BoardConfig struct {
	Instrument string `yaml:"instrument"`
	Tuning     string `yaml:"tuning"`
	// Strings defaults to the count in the instrument name.
	Strings int `yaml:"strings,omitempty"`
	// Frets is a fret range such as "22" or "3-8".
	Frets string `yaml:"frets"`
}

// MIDIConfig tunes controller selection.
type MIDIConfig struct {
	Preferred []string `yaml:"preferred,omitempty"`
	Excluded  []string `yaml:"excluded,omitempty"`
	RescanMS  int      `yaml:"rescan_ms,omitempty"`
}

// SerialConfig points at the LED controller. An empty device disables it.
type SerialConfig struct {
	Device string `yaml:"device,omitempty"`
	Baud   int    `yaml:"baud,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	mo := midiin.DefaultOptions()
	return &Config{
		Board: BoardConfig{
			Instrument: "guitar6",
			Tuning:     "standard",
			Frets:      "22",
		},
		Startup:   "e natural-minor",
		Intervals: true,
		MIDI: MIDIConfig{
			Preferred: mo.Preferred,
			Excluded:  mo.Excluded,
			RescanMS:  int(mo.Rescan / time.Millisecond),
		},
		Serial: SerialConfig{Baud: 500000},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, DefaultBaseDir, DefaultConfigFile), nil
}

// Load reads the config at path over the defaults. An empty path uses
// DefaultPath, where a missing file is not an error; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Validate checks the board settings.
func (c *Config) Validate() error {
	if _, err := c.BoardConfig(); err != nil {
		return fmt.Errorf("config %s: %w", c.path, err)
	}
	if c.Serial.Device != "" && c.Serial.Baud <= 0 {
		return fmt.Errorf("config %s: serial baud %d", c.path, c.Serial.Baud)
	}
	return nil
}

// BoardConfig resolves the board section into a fretboard config.
func (c *Config) BoardConfig() (fretboard.Config, error) {
	start, frets, err := fretboard.ParseFretRange(c.Board.Frets)
	if err != nil {
		return fretboard.Config{}, err
	}
	return fretboard.Preset(c.Board.Instrument, c.Board.Tuning, c.Board.Strings, start, frets)
}

// Registry returns the built-in templates extended by the Templates file.
func (c *Config) Registry() (*scale.Registry, error) {
	reg := scale.Default()
	if c.Templates == "" {
		return reg, nil
	}
	path := c.Templates
	if !filepath.IsAbs(path) && c.path != "" {
		path = filepath.Join(filepath.Dir(c.path), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	extra, err := scale.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("templates %s: %w", path, err)
	}
	return reg.With(extra), nil
}

// MIDIOptions converts the midi section.
func (c *Config) MIDIOptions() midiin.Options {
	return midiin.Options{
		Preferred: c.MIDI.Preferred,
		Excluded:  c.MIDI.Excluded,
		Rescan:    time.Duration(c.MIDI.RescanMS) * time.Millisecond,
	}
}
