package anneal

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/windshape/layout"
)

// Mutation parameters for neighbor generation. Each selected pillar
// receives exactly one mutation, chosen by weighted draw.
const (
	probMove     = 0.40
	probHeight   = 0.30
	probRotation = 0.15 // radius takes the remaining 0.15

	moveFraction   = 0.3 // of MinSpacing, per horizontal axis
	heightFraction = 0.1 // of the allowed height range

	maxRotationDelta = math.Pi / 2

	radiusScaleSpread = 0.1 // radius scales by [0.9, 1.1]
	radiusMin         = 0.5
	radiusMax         = 3.0
)

// Candidates that crowd below this fraction of MinSpacing are rejected
// before any field computation.
const validSpacingFraction = 0.8

// mutate clones the layout and perturbs 1-3 distinct randomly chosen
// pillars.
func mutate(l layout.Layout, c layout.Constraints, rng *rand.Rand) layout.Layout {
	neighbor := l.Clone()

	for _, idx := range pickPillars(len(neighbor.Pillars), rng) {
		p := &neighbor.Pillars[idx]

		switch draw := rng.Float64(); {
		case draw < probMove:
			p.Position.X += (rng.Float64()*2 - 1) * moveFraction * c.MinSpacing
			p.Position.Z += (rng.Float64()*2 - 1) * moveFraction * c.MinSpacing
		case draw < probMove+probHeight:
			span := c.MaxHeight - c.MinHeight
			p.Height += (rng.Float64()*2 - 1) * heightFraction * span
			p.Height = clamp(p.Height, c.MinHeight, c.MaxHeight)
		case draw < probMove+probHeight+probRotation:
			p.Rotation += (rng.Float64()*2 - 1) * maxRotationDelta
		default:
			p.Radius *= 1 + (rng.Float64()*2-1)*radiusScaleSpread
			p.Radius = clamp(p.Radius, radiusMin, radiusMax)
		}
	}

	return neighbor
}

// pickPillars selects 1-3 distinct pillar indices without replacement,
// capped at the layout size.
func pickPillars(n int, rng *rand.Rand) []int {
	count := 1 + rng.Intn(3)
	if count > n {
		count = n
	}
	return rng.Perm(n)[:count]
}

// validCandidate is the cheap pre-simulation check: every pillar inside
// the build area, no pair closer than validSpacingFraction of
// MinSpacing. Full spacing constraints are enforced softly through the
// energy penalties instead.
func validCandidate(l layout.Layout, c layout.Constraints) bool {
	for _, p := range l.Pillars {
		if !c.InBounds(p) {
			return false
		}
	}

	limit := validSpacingFraction * c.MinSpacing
	for i := 0; i < len(l.Pillars); i++ {
		for j := i + 1; j < len(l.Pillars); j++ {
			if layout.HorizontalDistance(l.Pillars[i], l.Pillars[j]) < limit {
				return false
			}
		}
	}
	return true
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
