package anneal

import (
	"errors"
	"math"
	"math/rand"

	"github.com/pthm-cable/windshape/flow"
	"github.com/pthm-cable/windshape/layout"
)

// Options holds the cooling schedule parameters. Zero fields fall back
// to the defaults.
type Options struct {
	InitialTemp float64 // default 1000
	CoolingRate float64 // default 0.95
	MinTemp     float64 // default 0.01
	MaxStagnant int     // default 50: steps without a best improvement before Run stops
}

func (o Options) withDefaults() Options {
	if o.InitialTemp == 0 {
		o.InitialTemp = 1000
	}
	if o.CoolingRate == 0 {
		o.CoolingRate = 0.95
	}
	if o.MinTemp == 0 {
		o.MinTemp = 0.01
	}
	if o.MaxStagnant == 0 {
		o.MaxStagnant = 50
	}
	return o
}

// minIterationsBeforeMinTemp guards Run against stopping on MinTemp
// during the earliest iterations of an aggressively cooled schedule.
const minIterationsBeforeMinTemp = 100

// State is a snapshot of annealing progress. Layouts and fields are
// replaced wholesale on acceptance and never mutated in place, so a
// snapshot stays coherent after further steps.
type State struct {
	Iteration   int
	Temperature float64

	Energy  float64
	Quality float64
	Current layout.Layout
	Field   *flow.Field

	BestEnergy float64
	Best       layout.Layout
	BestField  *flow.Field

	Stagnant int // steps since the last best improvement

	// Outcome counters across the run.
	Accepted int
	Rejected int
	Invalid  int
}

// StepResult reports what a single Step did.
type StepResult struct {
	Iteration   int
	Temperature float64
	Energy      float64
	BestEnergy  float64
	Quality     float64
	Accepted    bool
	Invalid     bool
}

// Annealer searches for a pillar layout minimizing the energy function.
// It is single-writer: Step must not be called concurrently on one
// instance, though separate instances may run in parallel with their own
// RNGs.
type Annealer struct {
	opts        Options
	constraints layout.Constraints
	wind        layout.WindCondition
	sim         *flow.Simulator
	rng         *rand.Rand

	state State
}

// New validates inputs, evaluates the initial layout, and seeds
// current = best = initial. Constraint violations and an empty layout
// are configuration errors; steady-state stepping never fails.
func New(initial layout.Layout, c layout.Constraints, wind layout.WindCondition, sim *flow.Simulator, opts Options, rng *rand.Rand) (*Annealer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := wind.Validate(); err != nil {
		return nil, err
	}
	if initial.Len() == 0 {
		return nil, errors.New("initial layout has no pillars")
	}
	if sim == nil {
		return nil, errors.New("nil flow simulator")
	}
	if rng == nil {
		return nil, errors.New("nil RNG: the annealer requires an explicit seeded source")
	}

	opts = opts.withDefaults()

	a := &Annealer{
		opts:        opts,
		constraints: c,
		wind:        wind,
		sim:         sim,
		rng:         rng,
	}

	field := sim.Compute(initial, wind, rng)
	quality := flow.Quality(field, wind, c)
	e := energy(quality, initial, c)

	a.state = State{
		Temperature: opts.InitialTemp,
		Energy:      e,
		Quality:     quality,
		Current:     initial,
		Field:       field,
		BestEnergy:  e,
		Best:        initial,
		BestField:   field,
	}

	return a, nil
}

// State returns a snapshot of the current annealing state.
func (a *Annealer) State() State {
	return a.state
}

// Step performs one annealing transition: propose a neighbor, validate
// it cheaply, evaluate its flow field and energy, and accept or reject
// by the Metropolis criterion.
//
// An invalid candidate leaves the state untouched: no field computation,
// no cooling, no iteration advance. The schedule measures evaluated
// moves, not proposals.
func (a *Annealer) Step() StepResult {
	neighbor := mutate(a.state.Current, a.constraints, a.rng)

	if !validCandidate(neighbor, a.constraints) {
		a.state.Invalid++
		a.state.Stagnant++
		return StepResult{
			Iteration:   a.state.Iteration,
			Temperature: a.state.Temperature,
			Energy:      a.state.Energy,
			BestEnergy:  a.state.BestEnergy,
			Quality:     a.state.Quality,
			Invalid:     true,
		}
	}

	field := a.sim.Compute(neighbor, a.wind, a.rng)
	quality := flow.Quality(field, a.wind, a.constraints)
	e := energy(quality, neighbor, a.constraints)

	accepted := a.accept(e)
	if accepted {
		a.state.Current = neighbor
		a.state.Field = field
		a.state.Energy = e
		a.state.Quality = quality
		a.state.Accepted++

		if e < a.state.BestEnergy {
			a.state.BestEnergy = e
			a.state.Best = neighbor
			a.state.BestField = field
			a.state.Stagnant = -1 // incremented to 0 below
		}
	} else {
		a.state.Rejected++
	}
	a.state.Stagnant++

	a.state.Temperature *= a.opts.CoolingRate
	a.state.Iteration++

	return StepResult{
		Iteration:   a.state.Iteration,
		Temperature: a.state.Temperature,
		Energy:      a.state.Energy,
		BestEnergy:  a.state.BestEnergy,
		Quality:     a.state.Quality,
		Accepted:    accepted,
	}
}

// accept applies the Metropolis criterion at the pre-cooling
// temperature: improvements always pass, worsening moves pass with
// probability exp(-dE/T).
func (a *Annealer) accept(e float64) bool {
	dE := e - a.state.Energy
	if dE < 0 {
		return true
	}
	if a.state.Temperature <= 0 {
		return false
	}
	return a.rng.Float64() < math.Exp(-dE/a.state.Temperature)
}

// Run steps until maxIterations proposals have been made, the schedule
// has cooled below MinTemp after an initial burn-in, or MaxStagnant
// consecutive steps pass without a best improvement. onStep, when
// non-nil, observes every step for tracing. The best layout and field
// are read from the returned state, not the current ones.
func (a *Annealer) Run(maxIterations int, onStep func(StepResult)) State {
	for i := 0; i < maxIterations; i++ {
		res := a.Step()
		if onStep != nil {
			onStep(res)
		}

		if a.state.Temperature < a.opts.MinTemp && a.state.Iteration > minIterationsBeforeMinTemp {
			break
		}
		if a.state.Stagnant >= a.opts.MaxStagnant {
			break
		}
	}
	return a.state
}
