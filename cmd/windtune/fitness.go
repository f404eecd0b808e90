package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/windshape/anneal"
	"github.com/pthm-cable/windshape/config"
	"github.com/pthm-cable/windshape/flow"
	"github.com/pthm-cable/windshape/layout"
)

// FitnessEvaluator runs annealing benchmarks and computes fitness.
// Fitness is the mean best energy across seeds; lower is better.
type FitnessEvaluator struct {
	params        *ParamVector
	maxIterations int
	seeds         []int64
	baseConfig    *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestLayout  layout.Layout
	lastQuality float64 // mean quality from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxIterations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		maxIterations: maxIterations,
		seeds:         seeds,
		baseConfig:    baseCfg,
		bestFitness:   math.Inf(1),
	}
}

// BestLayout returns the best layout from the best evaluation.
func (fe *FitnessEvaluator) BestLayout() layout.Layout {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestLayout
}

// LastQuality returns the mean flow quality from the most recent
// evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	bestEnergy float64
	quality    float64
	best       layout.Layout
}

// Evaluate computes fitness for a hyperparameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel; each run owns its config, simulator,
	// and RNG, so no state is shared across goroutines.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runBenchmark(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeed := seedResult{bestEnergy: math.Inf(1)}

	for _, r := range results {
		totalFitness += r.bestEnergy
		totalQuality += r.quality
		if r.bestEnergy < bestSeed.bestEnergy {
			bestSeed = r
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestLayout = bestSeed.best
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runBenchmark executes one full annealing run with the given seed.
// Infeasible setups score +Inf rather than aborting the search.
func (fe *FitnessEvaluator) runBenchmark(x []float64, seed int64) seedResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Annealing.Seed = seed

	rng := rand.New(rand.NewSource(seed))

	sim, err := flow.NewSimulator(cfg.Grid, cfg.Derived.Bounds, cfg.SimulatorOptions())
	if err != nil {
		return seedResult{bestEnergy: math.Inf(1)}
	}
	defer sim.Close()

	initial, err := layout.GenerateGrid(cfg.Layout.Pillars, cfg.Constraints, cfg.Layout.Jitter, rng)
	if err != nil {
		return seedResult{bestEnergy: math.Inf(1)}
	}

	annealer, err := anneal.New(initial, cfg.Constraints, cfg.Wind, sim, anneal.Options{
		InitialTemp: cfg.Annealing.InitialTemp,
		CoolingRate: cfg.Annealing.CoolingRate,
		MinTemp:     cfg.Annealing.MinTemp,
		MaxStagnant: cfg.Annealing.MaxStagnant,
	}, rng)
	if err != nil {
		return seedResult{bestEnergy: math.Inf(1)}
	}

	final := annealer.Run(fe.maxIterations, nil)

	return seedResult{
		bestEnergy: final.BestEnergy,
		quality:    flow.Quality(final.BestField, cfg.Wind, cfg.Constraints),
		best:       final.Best,
	}
}

// copyConfig creates a working copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
