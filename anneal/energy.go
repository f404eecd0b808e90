// Package anneal implements the stochastic layout search: constrained
// neighbor generation, the multi-term energy function, and a
// simulated-annealing loop with Metropolis acceptance.
package anneal

import (
	"github.com/pthm-cable/windshape/layout"
)

// Energy term weights. Lower energy is a better layout; a perfect
// flow quality with no constraint violations scores 0.
const (
	weightQuality  = 100.0
	weightSpacing  = 50.0
	weightSize     = 30.0
	weightCoverage = 20.0
)

// Coverage sampling: the build area is probed on a coverageDim x
// coverageDim grid, and a cell counts as covered when some pillar sits
// within coverageReachRadii of its radius from the cell center.
const (
	coverageDim        = 5
	coverageReachRadii = 3.0
)

// energy combines flow quality with the constraint penalty terms.
func energy(quality float64, l layout.Layout, c layout.Constraints) float64 {
	return weightQuality*(1-quality) +
		weightSpacing*spacingPenalty(l, c) +
		weightSize*sizePenalty(l, c) +
		weightCoverage*coveragePenalty(l, c)
}

// spacingPenalty is zero exactly when every pairwise horizontal distance
// lies in [MinSpacing, MaxSpacing]; violations grow quadratically.
func spacingPenalty(l layout.Layout, c layout.Constraints) float64 {
	var penalty float64
	for i := 0; i < len(l.Pillars); i++ {
		for j := i + 1; j < len(l.Pillars); j++ {
			d := layout.HorizontalDistance(l.Pillars[i], l.Pillars[j])
			if d < c.MinSpacing {
				short := c.MinSpacing - d
				penalty += short * short
			}
			if d > c.MaxSpacing {
				long := d - c.MaxSpacing
				penalty += long * long
			}
		}
	}
	return penalty
}

// sizePenalty penalizes pillar heights outside [MinHeight, MaxHeight].
func sizePenalty(l layout.Layout, c layout.Constraints) float64 {
	var penalty float64
	for _, p := range l.Pillars {
		if p.Height < c.MinHeight {
			short := c.MinHeight - p.Height
			penalty += short * short
		}
		if p.Height > c.MaxHeight {
			tall := p.Height - c.MaxHeight
			penalty += tall * tall
		}
	}
	return penalty
}

// coveragePenalty is the fraction of sampling cells with no pillar
// nearby: 0 when the whole build area has structural presence, 1 when
// none of it does.
func coveragePenalty(l layout.Layout, c layout.Constraints) float64 {
	cellW := c.AreaWidth / coverageDim
	cellD := c.AreaDepth / coverageDim

	uncovered := 0
	for i := 0; i < coverageDim; i++ {
		for j := 0; j < coverageDim; j++ {
			cx := (float64(i) + 0.5) * cellW
			cz := (float64(j) + 0.5) * cellD

			covered := false
			for _, p := range l.Pillars {
				dx := p.Position.X - cx
				dz := p.Position.Z - cz
				reach := coverageReachRadii * p.Radius
				if dx*dx+dz*dz <= reach*reach {
					covered = true
					break
				}
			}
			if !covered {
				uncovered++
			}
		}
	}

	return float64(uncovered) / (coverageDim * coverageDim)
}
