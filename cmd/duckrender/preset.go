package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
)

var errInvalidPreset = errors.New("invalid preset")

// Preset is the on-disk form of a render setup.
type Preset struct {
	Enabled   bool    `yaml:"enabled"`
	Amount    float64 `yaml:"amount"`
	AttackMs  float64 `yaml:"attack_ms"`
	ReleaseMs float64 `yaml:"release_ms"`
	Law       string  `yaml:"law"`
	RangeDB   float64 `yaml:"range_db"`
	BlockSize int     `yaml:"block_size"`
}

// DefaultPreset mirrors the processor defaults.
func DefaultPreset() Preset {
	p := dynamics.DefaultParams()
	return Preset{
		Enabled:   p.Enabled,
		Amount:    p.Amount,
		AttackMs:  p.AttackMs,
		ReleaseMs: p.ReleaseMs,
		Law:       "linear",
		RangeDB:   24,
		BlockSize: 512,
	}
}

// LoadPreset reads a YAML preset. Keys missing from the file keep their
// default values; unknown keys are an error.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(data)
}

// ParsePreset decodes YAML preset data on top of the defaults.
func ParsePreset(data []byte) (Preset, error) {
	p := DefaultPreset()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Preset{}, fmt.Errorf("%w: %v", errInvalidPreset, err)
	}

	return p, p.Validate()
}

// Validate checks the fields the processor does not clamp itself.
func (p Preset) Validate() error {
	if p.BlockSize <= 0 {
		return fmt.Errorf("%w: block_size %d", errInvalidPreset, p.BlockSize)
	}
	if _, err := p.GainLaw(); err != nil {
		return err
	}
	return nil
}

// Params returns the engine controls of the preset.
func (p Preset) Params() dynamics.Params {
	return dynamics.Params{
		Enabled:   p.Enabled,
		Amount:    p.Amount,
		AttackMs:  p.AttackMs,
		ReleaseMs: p.ReleaseMs,
	}
}

// GainLaw maps the law name to an engine gain law.
func (p Preset) GainLaw() (dynamics.GainLaw, error) {
	switch strings.ToLower(p.Law) {
	case "", "linear":
		return dynamics.LinearGain, nil
	case "clamped":
		return dynamics.ClampedGain, nil
	case "db", "decibel":
		return dynamics.DecibelGain(p.RangeDB), nil
	default:
		return nil, fmt.Errorf("%w: unknown law %q", errInvalidPreset, p.Law)
	}
}
