// Package layout defines the pillar layout data model shared by the flow
// simulator and the annealer: pillars, wind conditions, and design
// constraints.
package layout

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector. Y is the vertical axis; X/Z span the build area.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Pillar is a vertical cylindrical obstacle in the build area.
type Pillar struct {
	Position Vec3    `json:"position" yaml:"position"`
	Height   float64 `json:"height" yaml:"height"`
	Radius   float64 `json:"radius" yaml:"radius"`
	Rotation float64 `json:"rotation" yaml:"rotation"` // radians about the vertical axis
}

// Top returns the height of the pillar's upper end above the ground plane.
func (p Pillar) Top() float64 {
	return p.Position.Y + p.Height
}

// HorizontalDistance returns the distance between two pillars in the
// ground plane, ignoring the vertical axis.
func HorizontalDistance(a, b Pillar) float64 {
	dx := a.Position.X - b.Position.X
	dz := a.Position.Z - b.Position.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Layout is an ordered sequence of pillars. Order carries no meaning but
// stays stable across mutations so indices identify pillars during a run.
type Layout struct {
	Pillars []Pillar `json:"pillars" yaml:"pillars"`
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	pillars := make([]Pillar, len(l.Pillars))
	copy(pillars, l.Pillars)
	return Layout{Pillars: pillars}
}

// Len returns the number of pillars.
func (l Layout) Len() int {
	return len(l.Pillars)
}

// WindCondition describes the prevailing wind for one optimization run.
// Direction is the compass bearing the wind blows FROM, in degrees
// (0 = north, 90 = east). Turbulence is a unitless intensity in [0, 1].
type WindCondition struct {
	Speed      float64 `yaml:"speed"`
	Direction  float64 `yaml:"direction"`
	Turbulence float64 `yaml:"turbulence"`
}

// Validate checks the wind condition ranges.
func (w WindCondition) Validate() error {
	if w.Speed < 0 {
		return fmt.Errorf("wind speed must be non-negative, got %v", w.Speed)
	}
	if w.Direction < 0 || w.Direction >= 360 {
		return fmt.Errorf("wind direction must be in [0, 360), got %v", w.Direction)
	}
	if w.Turbulence < 0 || w.Turbulence > 1 {
		return fmt.Errorf("wind turbulence must be in [0, 1], got %v", w.Turbulence)
	}
	return nil
}

// Constraints bound the search space for a layout run: pairwise spacing,
// pillar heights, and the rectangular build area in the ground plane.
type Constraints struct {
	MinSpacing float64 `yaml:"min_spacing"`
	MaxSpacing float64 `yaml:"max_spacing"`
	MinHeight  float64 `yaml:"min_height"`
	MaxHeight  float64 `yaml:"max_height"`
	AreaWidth  float64 `yaml:"area_width"`  // extent along X
	AreaDepth  float64 `yaml:"area_depth"`  // extent along Z

	// Shelter: when set, the flow-quality metric rewards low wind speed,
	// weighting calm toward ShelterDirection (compass degrees).
	WindShelter      bool    `yaml:"wind_shelter"`
	ShelterDirection float64 `yaml:"shelter_direction"`
}

// Validate checks constraint consistency. Violations are configuration
// errors and surface before any annealing work starts.
func (c Constraints) Validate() error {
	if c.MinSpacing > c.MaxSpacing {
		return fmt.Errorf("min_spacing %v exceeds max_spacing %v", c.MinSpacing, c.MaxSpacing)
	}
	if c.MinHeight > c.MaxHeight {
		return fmt.Errorf("min_height %v exceeds max_height %v", c.MinHeight, c.MaxHeight)
	}
	if c.AreaWidth <= 0 || c.AreaDepth <= 0 {
		return fmt.Errorf("build area must have positive dimensions, got %vx%v", c.AreaWidth, c.AreaDepth)
	}
	return nil
}

// InBounds reports whether the pillar's horizontal position lies inside
// the build area.
func (c Constraints) InBounds(p Pillar) bool {
	return p.Position.X >= 0 && p.Position.X <= c.AreaWidth &&
		p.Position.Z >= 0 && p.Position.Z <= c.AreaDepth
}
