package flow

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/windshape/layout"
)

// Per-axis sample offsets keep the three gust channels decorrelated
// while drawing from a single noise instance.
const (
	gustOffsetY = 37.0
	gustOffsetZ = 74.0
)

// gustField produces spatially coherent turbulence from seeded
// OpenSimplex noise. Samples are a pure function of position, so the
// field is deterministic for a fixed seed with any worker count.
type gustField struct {
	noise opensimplex.Noise
	scale float64
}

func newGustField(seed int64, scale float64) *gustField {
	return &gustField{
		noise: opensimplex.New(seed),
		scale: scale,
	}
}

// sample returns per-axis gust factors in roughly [-1, 1] at a world
// position.
func (g *gustField) sample(p layout.Vec3) (x, y, z float64) {
	sx := p.X * g.scale
	sy := p.Y * g.scale
	sz := p.Z * g.scale
	x = g.noise.Eval3(sx, sy, sz)
	y = g.noise.Eval3(sx+gustOffsetY, sy+gustOffsetY, sz+gustOffsetY)
	z = g.noise.Eval3(sx+gustOffsetZ, sy+gustOffsetZ, sz+gustOffsetZ)
	return x, y, z
}
