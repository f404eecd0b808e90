package layout

import (
	"fmt"
	"math"
	"math/rand"
)

// GenerateGrid seeds n pillars on a near-square grid over the build area,
// jittering each cell position by jitterFrac of the cell size. Heights
// start at the middle of the allowed range and radii at 1. The result is
// always in bounds but is not guaranteed to satisfy spacing constraints;
// the annealer repairs spacing through its penalty terms.
func GenerateGrid(n int, c Constraints, jitterFrac float64, rng *rand.Rand) (Layout, error) {
	if n <= 0 {
		return Layout{}, fmt.Errorf("pillar count must be positive, got %d", n)
	}
	if err := c.Validate(); err != nil {
		return Layout{}, err
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	cellW := c.AreaWidth / float64(cols)
	cellD := c.AreaDepth / float64(rows)
	height := (c.MinHeight + c.MaxHeight) / 2

	pillars := make([]Pillar, 0, n)
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols

		x := (float64(col) + 0.5) * cellW
		z := (float64(row) + 0.5) * cellD
		x += (rng.Float64()*2 - 1) * jitterFrac * cellW
		z += (rng.Float64()*2 - 1) * jitterFrac * cellD

		pillars = append(pillars, Pillar{
			Position: Vec3{X: clamp(x, 0, c.AreaWidth), Z: clamp(z, 0, c.AreaDepth)},
			Height:   height,
			Radius:   1,
			Rotation: rng.Float64() * 2 * math.Pi,
		})
	}

	return Layout{Pillars: pillars}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
