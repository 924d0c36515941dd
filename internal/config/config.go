// Package config holds the placement settings read from TOML or YAML files.
package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTracePlace/internal/report"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/autoplace"
	"github.com/OpenTraceLab/OpenTracePlace/pkg/selector"
)

// Config is the complete configuration of an otp run.
type Config struct {
	Placement Placement `toml:"placement" yaml:"placement"`
	Report    Report    `toml:"report" yaml:"report"`
	Snapshot  Snapshot  `toml:"snapshot" yaml:"snapshot"`
}

// Placement controls the placement engine. Lengths are millimetres.
type Placement struct {
	Grid     float64 `toml:"grid" yaml:"grid"`
	KeepOut  int     `toml:"keepout" yaml:"keepout"`
	Gain     int     `toml:"gain" yaml:"gain"`
	MaxCells int     `toml:"max_cells" yaml:"max_cells"`
	Offboard bool    `toml:"offboard" yaml:"offboard"`
	// Select is a reference selection such as "R1-R10, C*, !U1".
	Select string `toml:"select" yaml:"select"`
	// ObstacleLayers limits which board drawings block placement. Empty
	// means every layer except Edge.Cuts.
	ObstacleLayers []string `toml:"obstacle_layers" yaml:"obstacle_layers"`
}

type Report struct {
	Format string `toml:"format" yaml:"format"`
}

// Snapshot controls PNG output.
type Snapshot struct {
	// Scale is pixels per millimetre.
	Scale float64 `toml:"scale" yaml:"scale"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Placement: Placement{
			Grid:     float64(autoplace.DefaultPitch) / 1e6,
			KeepOut:  autoplace.DefaultKeepOut,
			Gain:     autoplace.DefaultGain,
			MaxCells: autoplace.DefaultMaxCells,
		},
		Report:   Report{Format: string(report.Text)},
		Snapshot: Snapshot{Scale: 10},
	}
}

// Load reads path on top of the defaults. The format follows the file
// extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and that the selection and report format
// parse.
func (c *Config) Validate() error {
	p := c.Placement
	if p.Grid <= 0 || math.IsNaN(p.Grid) {
		return fmt.Errorf("placement.grid must be positive, got %v", p.Grid)
	}
	if p.KeepOut < 0 {
		return fmt.Errorf("placement.keepout must not be negative, got %d", p.KeepOut)
	}
	if p.Gain <= 0 {
		return fmt.Errorf("placement.gain must be positive, got %d", p.Gain)
	}
	if p.MaxCells <= 0 {
		return fmt.Errorf("placement.max_cells must be positive, got %d", p.MaxCells)
	}
	if _, err := selector.Compile(p.Select); err != nil {
		return fmt.Errorf("placement.select: %w", err)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}
	if c.Snapshot.Scale <= 0 {
		return fmt.Errorf("snapshot.scale must be positive, got %v", c.Snapshot.Scale)
	}
	return nil
}

// Pitch returns the grid pitch in nanometres.
func (c *Config) Pitch() int {
	return int(math.Round(c.Placement.Grid * 1e6))
}

// Selector compiles Placement.Select.
func (c *Config) Selector() (*selector.Selector, error) {
	return selector.Compile(c.Placement.Select)
}

// Options converts the placement settings into engine options.
func (c *Config) Options() []autoplace.Option {
	p := c.Placement
	return []autoplace.Option{
		autoplace.WithPitch(c.Pitch()),
		autoplace.WithKeepOut(p.KeepOut),
		autoplace.WithGain(p.Gain),
		autoplace.WithMaxCells(p.MaxCells),
		autoplace.WithOffboard(p.Offboard),
	}
}

// WriteTOML prints the configuration as a TOML document.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
