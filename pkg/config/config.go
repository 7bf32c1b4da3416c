// Package config holds the live-tunable parameters of the play volume
// and its portal visuals. The struct is plain data: external tooling
// (the scripting console, the viewer) mutates it between ticks and the
// simulation applies it at the start of the next tick, so the geometry
// core never sees a mid-frame edit.
package config

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config describes a unified volume + portal tuning set, loadable from
// JSON or YAML.
type Config struct {
	// Scalar is the edge length of one grid cell.
	Scalar float64 `json:"scalar" yaml:"scalar"`
	// CellCount is the number of cells per axis; full extents are
	// Scalar * CellCount componentwise.
	CellCount [3]uint32 `json:"cell_count" yaml:"cell_count"`

	Color     string  `json:"color" yaml:"color"`
	LineWidth float64 `json:"line_width" yaml:"line_width"`

	// DistanceApproach and DistanceShrink are fractions of the largest
	// volume extent: a mover's portal appears inside the approach
	// distance to its projected exit point and shrinks inside the
	// shrink distance.
	DistanceApproach float64 `json:"distance_approach" yaml:"distance_approach"`
	DistanceShrink   float64 `json:"distance_shrink" yaml:"distance_shrink"`

	// PortalDirectionChangeFactor is the angle in radians beyond which
	// a mover's exit point is treated as a new wall point rather than
	// a drift of the current one.
	PortalDirectionChangeFactor float64 `json:"portal_direction_change_factor" yaml:"portal_direction_change_factor"`
	// PortalMovementSmoothingFactor eases the portal toward its target
	// position and radius; small values keep direction changes from
	// flinging the circle across the face.
	PortalMovementSmoothingFactor float64 `json:"portal_movement_smoothing_factor" yaml:"portal_movement_smoothing_factor"`
	// PortalScalar sizes a portal relative to its mover's radius.
	PortalScalar float64 `json:"portal_scalar" yaml:"portal_scalar"`
	// PortalSmallest is the minimum visible portal radius.
	PortalSmallest float64 `json:"portal_smallest" yaml:"portal_smallest"`
}

// Default returns the standard tuning set.
func Default() *Config {
	return &Config{
		Scalar:                        110,
		CellCount:                     [3]uint32{2, 1, 1},
		Color:                         "#93C5FD",
		LineWidth:                     4,
		DistanceApproach:              0.5,
		DistanceShrink:                0.25,
		PortalDirectionChangeFactor:   0.75,
		PortalMovementSmoothingFactor: 0.08,
		PortalScalar:                  3,
		PortalSmallest:                5,
	}
}

// LoadJSON reads a config from JSON, starting from defaults so partial
// documents only override what they name.
func LoadJSON(r io.Reader) (*Config, error) {
	c := Default()
	if err := json.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("decode config json: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadYAML reads a config from YAML, starting from defaults so partial
// documents only override what they name.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects tuning values the geometry cannot work with.
func (c *Config) Validate() error {
	if c.Scalar <= 0 {
		return fmt.Errorf("scalar must be positive, got %v", c.Scalar)
	}
	for axis, n := range c.CellCount {
		if n == 0 {
			return fmt.Errorf("cell_count axis %d must be at least 1", axis)
		}
	}
	if c.LineWidth <= 0 {
		return fmt.Errorf("line_width must be positive, got %v", c.LineWidth)
	}
	if c.DistanceApproach < 0 || c.DistanceApproach > 1 {
		return fmt.Errorf("distance_approach must be in [0, 1], got %v", c.DistanceApproach)
	}
	if c.DistanceShrink < 0 || c.DistanceShrink > 1 {
		return fmt.Errorf("distance_shrink must be in [0, 1], got %v", c.DistanceShrink)
	}
	if c.PortalMovementSmoothingFactor <= 0 || c.PortalMovementSmoothingFactor > 1 {
		return fmt.Errorf("portal_movement_smoothing_factor must be in (0, 1], got %v", c.PortalMovementSmoothingFactor)
	}
	if c.PortalScalar <= 0 {
		return fmt.Errorf("portal_scalar must be positive, got %v", c.PortalScalar)
	}
	if c.PortalSmallest <= 0 {
		return fmt.Errorf("portal_smallest must be positive, got %v", c.PortalSmallest)
	}
	return nil
}
