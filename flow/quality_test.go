package flow

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/windshape/layout"
)

func TestQualityNilAndEmptyField(t *testing.T) {
	wind := layout.WindCondition{Speed: 10}
	c := layout.Constraints{MinSpacing: 1, MaxSpacing: 10, MaxHeight: 5, AreaWidth: 10, AreaDepth: 10}

	if got := Quality(nil, wind, c); got != 0 {
		t.Errorf("Quality(nil) = %v, want neutral 0", got)
	}
	if got := Quality(&Field{}, wind, c); got != 0 {
		t.Errorf("Quality(empty) = %v, want neutral 0", got)
	}
}

func TestQualityUniformFieldIsPerfect(t *testing.T) {
	sim := testSimulator(t, GridSpec{NX: 6, NY: 3, NZ: 6}, Bounds{10, 5, 10}, Options{})
	wind := layout.WindCondition{Speed: 10, Direction: 0, Turbulence: 0}
	c := layout.Constraints{MinSpacing: 1, MaxSpacing: 10, MaxHeight: 5, AreaWidth: 10, AreaDepth: 10}

	// No pillars, no turbulence: zero variance in both speed and
	// pressure, so uniformity and smoothness both score 1.
	field := sim.Compute(layout.Layout{}, wind, rand.New(rand.NewSource(1)))

	if got := Quality(field, wind, c); math.Abs(got-1) > 1e-12 {
		t.Errorf("Quality(uniform field) = %v, want 1", got)
	}
}

func TestQualityShelterWeighting(t *testing.T) {
	sim := testSimulator(t, GridSpec{NX: 6, NY: 3, NZ: 6}, Bounds{10, 5, 10}, Options{})
	wind := layout.WindCondition{Speed: 10, Direction: 0, Turbulence: 0}
	c := layout.Constraints{
		MinSpacing: 1, MaxSpacing: 10, MaxHeight: 5,
		AreaWidth: 10, AreaDepth: 10,
		WindShelter: true, ShelterDirection: 180,
	}

	// Uniform free stream: nothing is sheltered, so only the uniformity
	// and smoothness terms contribute at their raw weights.
	field := sim.Compute(layout.Layout{}, wind, rand.New(rand.NewSource(1)))

	want := qualityWeightUniformity + qualityWeightSmoothness
	if got := Quality(field, wind, c); math.Abs(got-want) > 1e-12 {
		t.Errorf("Quality with unsheltered field = %v, want %v", got, want)
	}
}

func TestQualityDropsWithTurbulence(t *testing.T) {
	sim := testSimulator(t, GridSpec{NX: 8, NY: 4, NZ: 8}, Bounds{20, 10, 20}, Options{})
	c := layout.Constraints{MinSpacing: 1, MaxSpacing: 10, MaxHeight: 5, AreaWidth: 20, AreaDepth: 20}

	calm := layout.WindCondition{Speed: 10, Direction: 0, Turbulence: 0}
	rough := layout.WindCondition{Speed: 10, Direction: 0, Turbulence: 0.8}

	calmField := sim.Compute(layout.Layout{}, calm, rand.New(rand.NewSource(2)))
	roughField := sim.Compute(layout.Layout{}, rough, rand.New(rand.NewSource(2)))

	calmQ := Quality(calmField, calm, c)
	roughQ := Quality(roughField, rough, c)

	if roughQ >= calmQ {
		t.Errorf("turbulent quality %v should be below calm quality %v", roughQ, calmQ)
	}
}

func TestInverseVariance(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{"empty is neutral", nil, 0},
		{"constant samples score one", []float64{3, 3, 3, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inverseVariance(tt.samples); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("inverseVariance(%v) = %v, want %v", tt.samples, got, tt.want)
			}
		})
	}

	// Higher spread scores lower.
	tight := inverseVariance([]float64{5, 5.1, 4.9})
	wide := inverseVariance([]float64{1, 9, 2, 8})
	if wide >= tight {
		t.Errorf("wide spread %v should score below tight spread %v", wide, tight)
	}
}
