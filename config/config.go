// Package config defines the settings the culling tools run with and how they are read from JSON.
package config

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/NunexHost/sodium-fabric-s/graph/local"
	"github.com/NunexHost/sodium-fabric-s/logging"
	"github.com/NunexHost/sodium-fabric-s/spatialmath"
)

// Defaults for values missing from a config file.
const (
	DefaultViewDistance     = 12
	DefaultWorldMinSectionY = -4
	DefaultWorldHeight      = 24
	DefaultFOVDegrees       = 70.0
	DefaultAspectRatio      = 16.0 / 9.0
	DefaultLogLevel         = "info"

	// near and far clip distances of the camera frustum, in blocks
	nearPlane = 0.05
	farPlane  = float64(local.MaxViewDistance+1) * local.SectionSize
)

// Config is the top level configuration.
type Config struct {
	ConfigFilePath string `json:"-"`

	Culling CullingConfig `json:"culling"`
	Log     LogConfig     `json:"log"`
	// Debug forces debug logs on every logger.
	Debug bool `json:"debug"`
}

// CullingConfig describes the world and camera a cull runs with.
type CullingConfig struct {
	ViewDistance     int     `json:"view_distance"`
	WorldMinSectionY int     `json:"world_min_section_y"`
	WorldHeight      int     `json:"world_height"`
	OcclusionCulling bool    `json:"occlusion_culling"`
	FOVDegrees       float64 `json:"fov_degrees"`
	AspectRatio      float64 `json:"aspect_ratio"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level"`
}

// Default returns a config with every field set to its default.
func Default() Config {
	return Config{
		Culling: CullingConfig{
			ViewDistance:     DefaultViewDistance,
			WorldMinSectionY: DefaultWorldMinSectionY,
			WorldHeight:      DefaultWorldHeight,
			OcclusionCulling: true,
			FOVDegrees:       DefaultFOVDegrees,
			AspectRatio:      DefaultAspectRatio,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Validate returns every problem with the config at once.
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Culling.Validate("culling"),
		c.Log.Validate("log"),
	)
}

// Validate checks the culling settings. path prefixes field names in errors.
func (c *CullingConfig) Validate(path string) error {
	var errs error
	if c.ViewDistance < 0 || c.ViewDistance > local.MaxViewDistance {
		errs = multierr.Append(errs, errors.Errorf(
			"%s: view_distance %d must be within [0, %d]", path, c.ViewDistance, local.MaxViewDistance))
	}
	if c.WorldHeight < 1 || c.WorldHeight > local.MaxWorldHeight {
		errs = multierr.Append(errs, errors.Errorf(
			"%s: world_height %d must be within [1, %d]", path, c.WorldHeight, local.MaxWorldHeight))
	}
	if c.FOVDegrees <= 0 || c.FOVDegrees >= 180 {
		errs = multierr.Append(errs, errors.Errorf(
			"%s: fov_degrees %g must be within (0, 180)", path, c.FOVDegrees))
	}
	if c.AspectRatio <= 0 {
		errs = multierr.Append(errs, errors.Errorf(
			"%s: aspect_ratio %g must be positive", path, c.AspectRatio))
	}
	return errs
}

// Validate checks the log settings. path prefixes field names in errors.
func (c *LogConfig) Validate(path string) error {
	if _, err := logging.LevelFromString(c.Level); err != nil {
		return errors.Wrapf(err, "%s: level", path)
	}
	return nil
}

// LogLevel returns the configured level.
func (c *LogConfig) LogLevel() logging.Level {
	level, err := logging.LevelFromString(c.Level)
	if err != nil {
		return logging.INFO
	}
	return level
}

// Frustum builds the perspective frustum of a camera at eye looking at target.
func (c *CullingConfig) Frustum(eye, target r3.Vector) (*spatialmath.Frustum, error) {
	return spatialmath.NewPerspectiveFrustum(eye, target, r3.Vector{Y: 1}, c.FOVDegrees, c.AspectRatio, nearPlane, farPlane)
}

// CoordContext builds the context for one cull with the camera at eye looking at target.
func (c *CullingConfig) CoordContext(eye, target r3.Vector) (*local.CoordContext, error) {
	frustum, err := c.Frustum(eye, target)
	if err != nil {
		return nil, err
	}
	return local.NewCoordContext(frustum, eye, uint8(c.ViewDistance), int32(c.WorldMinSectionY), uint8(c.WorldHeight))
}
