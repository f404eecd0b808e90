package flow

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/windshape/layout"
)

// Influence radii and effect strengths for the pillar superposition
// model. Velocity effects reach further than pressure effects.
const (
	velocityInfluenceRadii = 5.0 // influence radius = this * pillar radius
	pressureInfluenceRadii = 4.0

	deflectionStrength = 0.5
	wakeStrength       = 0.7
	wakeConeDot        = -0.5 // pillar->point alignment with upwind below this = in wake

	compressionGain = 0.5
	depressionGain  = 0.3
	pressureMin     = 0.1
	pressureMax     = 2.0

	// Influence weight outside the pillar's vertical extent.
	outOfBandWeight = 0.3

	// Vertical turbulence is damped relative to horizontal.
	verticalTurbulence = 0.3

	ambientPressure = 1.0
)

// TurbulenceMode selects the turbulence noise source.
type TurbulenceMode string

const (
	// TurbulenceWhite draws per-axis noise from the injected RNG,
	// independently per grid point.
	TurbulenceWhite TurbulenceMode = "white"
	// TurbulenceCoherent samples a seeded OpenSimplex field at the grid
	// point position, producing spatially correlated gusts.
	TurbulenceCoherent TurbulenceMode = "coherent"
)

// Options tunes optional simulator behavior. The zero value gives white
// turbulence and single-threaded computation sized by GOMAXPROCS.
type Options struct {
	Turbulence TurbulenceMode
	GustScale  float64 // spatial frequency of coherent gusts
	GustSeed   int64
	Workers    int // 0 = GOMAXPROCS
}

// Simulator computes flow fields for candidate layouts. It holds no
// per-layout state; Compute is safe to call concurrently for different
// candidates as long as each call gets its own RNG.
type Simulator struct {
	grid   GridSpec
	bounds Bounds
	gust   *gustField
	pool   *workerPool
}

// NewSimulator creates a simulator over the given grid and build volume.
// Non-positive resolution or volume dimensions are configuration errors
// and are rejected here rather than at compute time.
func NewSimulator(grid GridSpec, bounds Bounds, opts Options) (*Simulator, error) {
	if grid.NX <= 0 || grid.NY <= 0 || grid.NZ <= 0 {
		return nil, fmt.Errorf("grid resolution must be positive, got %dx%dx%d", grid.NX, grid.NY, grid.NZ)
	}
	if bounds.Width <= 0 || bounds.Height <= 0 || bounds.Depth <= 0 {
		return nil, fmt.Errorf("build volume must have positive dimensions, got %vx%vx%v",
			bounds.Width, bounds.Height, bounds.Depth)
	}

	s := &Simulator{
		grid:   grid,
		bounds: bounds,
		pool:   newWorkerPool(opts.Workers),
	}

	switch opts.Turbulence {
	case "", TurbulenceWhite:
		// RNG-driven, set up per Compute call.
	case TurbulenceCoherent:
		scale := opts.GustScale
		if scale <= 0 {
			scale = 0.1
		}
		s.gust = newGustField(opts.GustSeed, scale)
	default:
		return nil, fmt.Errorf("unknown turbulence mode %q", opts.Turbulence)
	}

	return s, nil
}

// Close stops the simulator's worker pool.
func (s *Simulator) Close() {
	s.pool.stop()
}

// Grid returns the simulator's grid resolution.
func (s *Simulator) Grid() GridSpec {
	return s.grid
}

// BaseVelocity returns the uniform free-stream velocity for a wind
// condition. Direction is the compass bearing the wind blows from
// (0 = north = +Z), so the flow vector points the opposite way.
func BaseVelocity(wind layout.WindCondition) layout.Vec3 {
	from := upwindVector(wind.Direction)
	return from.Scale(-wind.Speed)
}

// upwindVector returns the horizontal unit vector pointing toward where
// the wind comes from.
func upwindVector(bearingDeg float64) layout.Vec3 {
	rad := bearingDeg * math.Pi / 180
	return layout.Vec3{X: math.Sin(rad), Z: math.Cos(rad)}
}

// Compute evaluates the flow field for a layout under a wind condition.
// The result is deterministic for a fixed grid, layout, wind, and RNG
// state: the pillar superposition pass is pure, and turbulence draws
// happen in flat index order regardless of worker count.
func (s *Simulator) Compute(l layout.Layout, wind layout.WindCondition, rng *rand.Rand) *Field {
	field := newField(s.grid, s.bounds)

	base := BaseVelocity(wind)
	upwind := upwindVector(wind.Direction)

	n := s.grid.Points()
	s.pool.run(n, func(start, end int) {
		for idx := start; idx < end; idx++ {
			i, j, k := field.coords(idx)
			p := field.pointAt(i, j, k)
			field.Velocity[idx], field.Pressure[idx] = superpose(p, l, base, upwind)
		}
	})

	s.addTurbulence(field, wind, base, rng)

	return field
}

// superpose accumulates all pillar effects at one grid point. Deflection
// is additive across pillars; wake attenuation is multiplicative and
// applied in layout order, so composing the same pillars in a different
// order can change the result slightly. That ordering is part of the
// model's contract.
func superpose(p layout.Vec3, l layout.Layout, base, upwind layout.Vec3) (layout.Vec3, float64) {
	flow := base
	pressure := ambientPressure
	baseSpeed := base.Length()

	// Perpendicular to the wind axis in the ground plane.
	perp := layout.Vec3{X: -upwind.Z, Z: upwind.X}

	for _, pillar := range l.Pillars {
		rel := p.Sub(pillar.Position)
		dist := rel.Length()

		velRadius := velocityInfluenceRadii * pillar.Radius
		presRadius := pressureInfluenceRadii * pillar.Radius
		if dist >= velRadius && dist >= presRadius {
			continue
		}

		heightFactor := 1.0
		if p.Y < pillar.Position.Y || p.Y > pillar.Top() {
			heightFactor = outOfBandWeight
		}

		dir := rel.Normalized()
		along := upwind.Dot(dir)

		if dist < velRadius {
			influence := clamp01(1-dist/velRadius) * heightFactor

			// Lateral deflection, signed by which side of the wind axis
			// the point falls on.
			side := upwind.Z*rel.X - upwind.X*rel.Z
			sign := 1.0
			if side < 0 {
				sign = -1
			}
			flow = flow.Add(perp.Scale(sign * influence * baseSpeed * deflectionStrength))

			// Wake attenuation downstream of the pillar.
			if along < wakeConeDot {
				wake := math.Abs(along) * influence
				flow = flow.Scale(1 - wake*wakeStrength)
			}
		}

		if dist < presRadius {
			influence := clamp01(1-dist/presRadius) * heightFactor
			if along > 0 {
				pressure += influence * compressionGain
			} else {
				pressure -= influence * depressionGain
			}
		}
	}

	return flow, clampFloat(pressure, pressureMin, pressureMax)
}

// addTurbulence perturbs each velocity sample. White noise consumes the
// injected RNG in flat index order; coherent mode is a pure function of
// position and the gust seed, so the RNG stays untouched.
func (s *Simulator) addTurbulence(field *Field, wind layout.WindCondition, base layout.Vec3, rng *rand.Rand) {
	amp := wind.Turbulence * base.Length()
	if amp == 0 {
		return
	}

	if s.gust != nil {
		for idx := range field.Velocity {
			i, j, k := field.coords(idx)
			p := field.pointAt(i, j, k)
			gx, gy, gz := s.gust.sample(p)
			field.Velocity[idx] = field.Velocity[idx].Add(layout.Vec3{
				X: gx * amp,
				Y: gy * amp * verticalTurbulence,
				Z: gz * amp,
			})
		}
		return
	}

	for idx := range field.Velocity {
		field.Velocity[idx] = field.Velocity[idx].Add(layout.Vec3{
			X: (rng.Float64()*2 - 1) * amp,
			Y: (rng.Float64()*2 - 1) * amp * verticalTurbulence,
			Z: (rng.Float64()*2 - 1) * amp,
		})
	}
}

func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
