package flow

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/windshape/layout"
)

// Flow-quality component weights. When shelter is not requested, the
// uniformity and smoothness weights are renormalized to sum to 1.
const (
	qualityWeightUniformity = 0.4
	qualityWeightSmoothness = 0.3
	qualityWeightShelter    = 0.3

	// A point counts as sheltered when its speed falls below this
	// fraction of the free-stream speed.
	shelterSpeedFraction = 0.5
)

// Quality scores a flow field in [0, 1]; higher means a calmer, more
// uniform flow. Uniformity is the inverse variance of velocity
// magnitudes, smoothness the inverse variance of pressure. When the
// constraints request wind shelter, a third term rewards points slowed
// below a fraction of the free-stream speed, restricted to the half of
// the volume the shelter direction points into.
//
// An empty field scores the neutral value 0 rather than propagating NaN.
func Quality(field *Field, wind layout.WindCondition, c layout.Constraints) float64 {
	if field == nil || len(field.Velocity) == 0 {
		return 0
	}

	speeds := make([]float64, len(field.Velocity))
	for i, v := range field.Velocity {
		speeds[i] = v.Length()
	}

	uniformity := inverseVariance(speeds)
	smoothness := inverseVariance(field.Pressure)

	if !c.WindShelter {
		total := qualityWeightUniformity + qualityWeightSmoothness
		return (qualityWeightUniformity*uniformity + qualityWeightSmoothness*smoothness) / total
	}

	shelter := shelterScore(field, speeds, wind, c)
	return qualityWeightUniformity*uniformity +
		qualityWeightSmoothness*smoothness +
		qualityWeightShelter*shelter
}

// inverseVariance maps sample variance to (0, 1]: zero variance scores 1
// and large variance approaches 0. Empty input scores the neutral 0.
func inverseVariance(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if len(samples) == 1 {
		return 1 // a single sample has no spread
	}
	return 1 / (1 + stat.Variance(samples, nil))
}

// shelterScore is the fraction of sampled points with speed below the
// shelter threshold. Sampling is restricted to the half of the volume
// that ShelterDirection points into; if the wind is calm or no points
// fall in that half, all points are considered.
func shelterScore(field *Field, speeds []float64, wind layout.WindCondition, c layout.Constraints) float64 {
	if wind.Speed <= 0 {
		return 0
	}
	threshold := wind.Speed * shelterSpeedFraction

	toward := upwindVector(c.ShelterDirection).Scale(-1)
	center := layout.Vec3{
		X: field.Bounds.Width / 2,
		Y: field.Bounds.Height / 2,
		Z: field.Bounds.Depth / 2,
	}

	var sheltered, sampled int
	for idx := range speeds {
		i, j, k := field.coords(idx)
		p := field.pointAt(i, j, k)
		if p.Sub(center).Dot(toward) < 0 {
			continue
		}
		sampled++
		if speeds[idx] < threshold {
			sheltered++
		}
	}

	if sampled == 0 {
		sampled = len(speeds)
		for idx := range speeds {
			if speeds[idx] < threshold {
				sheltered++
			}
		}
	}
	if sampled == 0 {
		return 0
	}
	return float64(sheltered) / float64(sampled)
}
