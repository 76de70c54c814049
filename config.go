package squishyplanet

import (
	"github.com/BurntSushi/toml"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// SpaceConfig holds the capacities and tuning of a Space.
type SpaceConfig struct {
	// fixed store capacities; creation past these returns the -1/false
	// sentinels
	MaxParticles           int
	MaxDistanceConstraints int
	MaxAngularConstraints  int
	MaxContacts            int

	// Gravity is the uniform acceleration in pixels/sec². Taken as
	// given: zero means zero.
	Gravity vect.Vect

	// GravityConstant scales the N-body particle attraction. 0 turns
	// the O(N²) pass off entirely.
	GravityConstant vect.Float

	// Iterations is the solver round count per tick.
	Iterations int

	// broadphase grid tuning, in pixels
	GridCellSize int
	Width        int
	Height       int
}

// DefaultConfig are the default parameters.
var DefaultConfig = SpaceConfig{
	MaxParticles:           4096,
	MaxDistanceConstraints: 4096,
	MaxAngularConstraints:  4096,
	MaxContacts:            8192,
	Gravity:                vect.Vect{X: 0, Y: 98200},
	GravityConstant:        1,
	Iterations:             10,
	GridCellSize:           12,
	Width:                  1280,
	Height:                 720,
}

// ParseConfig parses the TOML config file whose path is provided.
// Settings in the file overwrite the default parameters.
func ParseConfig(path string) (SpaceConfig, error) {
	conf := DefaultConfig
	_, err := toml.DecodeFile(path, &conf)
	return conf, err
}

// normalize replaces unusable tuning values with their defaults.
// Negative capacities become 0, and 0 is kept: it is a legal "none of
// these" capacity.
func (c *SpaceConfig) normalize() {
	if c.MaxParticles < 0 {
		c.MaxParticles = 0
	}
	if c.MaxDistanceConstraints < 0 {
		c.MaxDistanceConstraints = 0
	}
	if c.MaxAngularConstraints < 0 {
		c.MaxAngularConstraints = 0
	}
	if c.MaxContacts < 0 {
		c.MaxContacts = 0
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultConfig.Iterations
	}
	if c.GridCellSize <= 0 {
		c.GridCellSize = DefaultConfig.GridCellSize
	}
	if c.Width <= 0 {
		c.Width = DefaultConfig.Width
	}
	if c.Height <= 0 {
		c.Height = DefaultConfig.Height
	}
}
