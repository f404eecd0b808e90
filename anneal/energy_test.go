package anneal

import (
	"math"
	"testing"

	"github.com/pthm-cable/windshape/layout"
)

func pillarAt(x, z float64) layout.Pillar {
	return layout.Pillar{Position: layout.Vec3{X: x, Z: z}, Height: 5, Radius: 1}
}

func TestSpacingPenaltyZeroIffWithinRange(t *testing.T) {
	c := layout.Constraints{
		MinSpacing: 3, MaxSpacing: 15,
		MinHeight: 2, MaxHeight: 10,
		AreaWidth: 30, AreaDepth: 30,
	}

	tests := []struct {
		name     string
		distance float64
		wantZero bool
	}{
		{"exactly min spacing", 3, true},
		{"mid range", 9, true},
		{"exactly max spacing", 15, true},
		{"below min", 1.2, false},
		{"barely below min", 2.999, false},
		{"above max", 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layout.Layout{Pillars: []layout.Pillar{
				pillarAt(5, 5),
				pillarAt(5+tt.distance, 5),
			}}
			got := spacingPenalty(l, c)
			if tt.wantZero && got != 0 {
				t.Errorf("spacingPenalty at distance %v = %v, want 0", tt.distance, got)
			}
			if !tt.wantZero && got <= 0 {
				t.Errorf("spacingPenalty at distance %v = %v, want positive", tt.distance, got)
			}
		})
	}
}

func TestSpacingPenaltyGrowsQuadratically(t *testing.T) {
	c := layout.Constraints{MinSpacing: 10, MaxSpacing: 100, MaxHeight: 10, AreaWidth: 200, AreaDepth: 200}

	l := layout.Layout{Pillars: []layout.Pillar{pillarAt(0, 0), pillarAt(6, 0)}}
	// 4 units short of MinSpacing: penalty (10-6)^2 = 16.
	if got := spacingPenalty(l, c); math.Abs(got-16) > 1e-9 {
		t.Errorf("spacingPenalty = %v, want 16", got)
	}
}

func TestSizePenalty(t *testing.T) {
	c := layout.Constraints{MinSpacing: 1, MaxSpacing: 50, MinHeight: 2, MaxHeight: 10, AreaWidth: 30, AreaDepth: 30}

	inRange := layout.Layout{Pillars: []layout.Pillar{
		{Position: layout.Vec3{X: 5, Z: 5}, Height: 2, Radius: 1},
		{Position: layout.Vec3{X: 20, Z: 20}, Height: 10, Radius: 1},
	}}
	if got := sizePenalty(inRange, c); got != 0 {
		t.Errorf("sizePenalty for in-range heights = %v, want 0", got)
	}

	outOfRange := layout.Layout{Pillars: []layout.Pillar{
		{Position: layout.Vec3{X: 5, Z: 5}, Height: 1, Radius: 1},  // 1 below min
		{Position: layout.Vec3{X: 20, Z: 20}, Height: 13, Radius: 1}, // 3 above max
	}}
	if got := sizePenalty(outOfRange, c); math.Abs(got-(1+9)) > 1e-9 {
		t.Errorf("sizePenalty = %v, want 10", got)
	}
}

func TestCoveragePenaltyClusteredCorner(t *testing.T) {
	c := layout.Constraints{
		MinSpacing: 3, MaxSpacing: 15,
		MinHeight: 2, MaxHeight: 10,
		AreaWidth: 30, AreaDepth: 30,
	}

	// 8 pillars crowded into a 2x2 corner patch: nearly the whole 5x5
	// sampling grid has no pillar within reach.
	pillars := make([]layout.Pillar, 0, 8)
	for i := 0; i < 8; i++ {
		x := float64(i%3) * 0.7
		z := float64(i/3) * 0.7
		pillars = append(pillars, pillarAt(x, z))
	}
	l := layout.Layout{Pillars: pillars}

	got := coveragePenalty(l, c)
	if got < 0.9 {
		t.Errorf("coveragePenalty for clustered corner = %v, want close to 1", got)
	}
}

func TestCoveragePenaltyBounds(t *testing.T) {
	c := layout.Constraints{MinSpacing: 1, MaxSpacing: 50, MaxHeight: 10, AreaWidth: 30, AreaDepth: 30}

	if got := coveragePenalty(layout.Layout{}, c); got != 1 {
		t.Errorf("coveragePenalty with no pillars = %v, want 1", got)
	}

	// A fat pillar at the center of every sampling cell covers everything.
	var pillars []layout.Pillar
	for i := 0; i < coverageDim; i++ {
		for j := 0; j < coverageDim; j++ {
			pillars = append(pillars, layout.Pillar{
				Position: layout.Vec3{X: (float64(i) + 0.5) * 6, Z: (float64(j) + 0.5) * 6},
				Height:   5,
				Radius:   1,
			})
		}
	}
	if got := coveragePenalty(layout.Layout{Pillars: pillars}, c); got != 0 {
		t.Errorf("coveragePenalty with full coverage = %v, want 0", got)
	}
}

func TestEnergyCombinesTerms(t *testing.T) {
	c := layout.Constraints{MinSpacing: 1, MaxSpacing: 50, MaxHeight: 10, AreaWidth: 30, AreaDepth: 30}
	l := layout.Layout{} // no pillars: zero spacing/size penalties, full coverage penalty

	// quality 1 leaves only the coverage term.
	want := weightCoverage * 1.0
	if got := energy(1, l, c); math.Abs(got-want) > 1e-9 {
		t.Errorf("energy(quality=1) = %v, want %v", got, want)
	}

	// quality 0 adds the full quality term on top.
	want = weightQuality + weightCoverage
	if got := energy(0, l, c); math.Abs(got-want) > 1e-9 {
		t.Errorf("energy(quality=0) = %v, want %v", got, want)
	}
}
