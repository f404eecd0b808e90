// Package flow implements the grid-based wind-flow simulator: a pure
// superposition model of deflection, wake, and pressure effects around
// vertical pillars, plus the flow-quality metric the annealer optimizes.
package flow

import (
	"github.com/pthm-cable/windshape/layout"
)

// GridSpec is the flow field resolution along each axis.
type GridSpec struct {
	NX int `yaml:"nx"`
	NY int `yaml:"ny"`
	NZ int `yaml:"nz"`
}

// Points returns the total number of grid points.
func (g GridSpec) Points() int {
	return g.NX * g.NY * g.NZ
}

// Bounds is the simulated build volume. Width spans X, Height spans the
// vertical Y axis, Depth spans Z.
type Bounds struct {
	Width  float64
	Height float64
	Depth  float64
}

// Field is a dense 3D grid of flow samples over the build volume.
// Velocity and Pressure are indexed by the flat index i + NX*(j + NY*k)
// for grid coordinates (i, j, k) along (X, Y, Z).
type Field struct {
	Grid     GridSpec
	Bounds   Bounds
	Velocity []layout.Vec3
	Pressure []float64
}

func newField(grid GridSpec, bounds Bounds) *Field {
	n := grid.Points()
	return &Field{
		Grid:     grid,
		Bounds:   bounds,
		Velocity: make([]layout.Vec3, n),
		Pressure: make([]float64, n),
	}
}

// Index returns the flat index for grid coordinates (i, j, k).
func (f *Field) Index(i, j, k int) int {
	return i + f.Grid.NX*(j+f.Grid.NY*k)
}

// At returns the velocity and pressure at grid coordinates (i, j, k).
func (f *Field) At(i, j, k int) (layout.Vec3, float64) {
	idx := f.Index(i, j, k)
	return f.Velocity[idx], f.Pressure[idx]
}

// CellCenter returns the world position of the grid point (i, j, k).
// Points span the volume inclusively from the origin to the far corner.
func (f *Field) CellCenter(i, j, k int) layout.Vec3 {
	return f.pointAt(i, j, k)
}

func (f *Field) pointAt(i, j, k int) layout.Vec3 {
	return layout.Vec3{
		X: f.Bounds.Width * frac(i, f.Grid.NX),
		Y: f.Bounds.Height * frac(j, f.Grid.NY),
		Z: f.Bounds.Depth * frac(k, f.Grid.NZ),
	}
}

// frac maps grid coordinate i of n to [0, 1], with a single point sitting
// at the volume center.
func frac(i, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(i) / float64(n-1)
}

// coords converts a flat index back to grid coordinates.
func (f *Field) coords(idx int) (i, j, k int) {
	i = idx % f.Grid.NX
	rest := idx / f.Grid.NX
	j = rest % f.Grid.NY
	k = rest / f.Grid.NY
	return i, j, k
}

// SpeedAt returns the velocity magnitude at grid coordinates (i, j, k).
func (f *Field) SpeedAt(i, j, k int) float64 {
	return f.Velocity[f.Index(i, j, k)].Length()
}
