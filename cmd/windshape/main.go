// Package main runs the simulated-annealing pillar layout optimizer:
// it seeds an initial layout, anneals it against the wind-flow
// simulator, and writes the best layout plus a step trace.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pthm-cable/windshape/anneal"
	"github.com/pthm-cable/windshape/config"
	"github.com/pthm-cable/windshape/flow"
	"github.com/pthm-cable/windshape/layout"
	"github.com/pthm-cable/windshape/telemetry"
)

// formatDuration formats a duration as h/m/s for progress lines.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for results (empty = no files)")
	seed := flag.Int64("seed", 0, "RNG seed override (0 = use config)")
	pillars := flag.Int("pillars", 0, "Pillar count override (0 = use config)")
	iterations := flag.Int("iterations", 0, "Max iterations override (0 = use config)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.Annealing.Seed = *seed
	}
	if *pillars > 0 {
		cfg.Layout.Pillars = *pillars
	}
	if *iterations > 0 {
		cfg.Annealing.MaxIterations = *iterations
	}

	rng := rand.New(rand.NewSource(cfg.Annealing.Seed))

	sim, err := flow.NewSimulator(cfg.Grid, cfg.Derived.Bounds, cfg.SimulatorOptions())
	if err != nil {
		log.Fatalf("failed to create simulator: %v", err)
	}
	defer sim.Close()

	initial, err := layout.GenerateGrid(cfg.Layout.Pillars, cfg.Constraints, cfg.Layout.Jitter, rng)
	if err != nil {
		log.Fatalf("failed to seed layout: %v", err)
	}

	annealer, err := anneal.New(initial, cfg.Constraints, cfg.Wind, sim, anneal.Options{
		InitialTemp: cfg.Annealing.InitialTemp,
		CoolingRate: cfg.Annealing.CoolingRate,
		MinTemp:     cfg.Annealing.MinTemp,
		MaxStagnant: cfg.Annealing.MaxStagnant,
	}, rng)
	if err != nil {
		log.Fatalf("failed to create annealer: %v", err)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer out.Close()

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	logEvery := cfg.Telemetry.LogEvery
	if logEvery <= 0 {
		logEvery = 100
	}

	if !*quiet {
		fmt.Printf("Annealing %d pillars in a %.0fx%.0f area, wind %.1f m/s from %.0f deg\n",
			cfg.Layout.Pillars, cfg.Constraints.AreaWidth, cfg.Constraints.AreaDepth,
			cfg.Wind.Speed, cfg.Wind.Direction)
		fmt.Printf("Initial energy: %.3f | T0=%.0f alpha=%.3f seed=%d\n",
			annealer.State().Energy, cfg.Annealing.InitialTemp, cfg.Annealing.CoolingRate,
			cfg.Annealing.Seed)
	}

	var trace []telemetry.StepRecord
	startTime := time.Now()
	stepCount := 0
	perf.StartStep()

	final := annealer.Run(cfg.Annealing.MaxIterations, func(res anneal.StepResult) {
		perf.EndStep()
		stepCount++

		rec := telemetry.StepRecord{
			Step:        stepCount,
			Iteration:   res.Iteration,
			Temperature: res.Temperature,
			Energy:      res.Energy,
			BestEnergy:  res.BestEnergy,
			Quality:     res.Quality,
			Accepted:    res.Accepted,
			Invalid:     res.Invalid,
		}
		trace = append(trace, rec)
		if err := out.WriteStep(rec); err != nil {
			slog.Warn("trace write failed", "err", err)
		}

		if !*quiet && stepCount%logEvery == 0 {
			elapsed := time.Since(startTime)
			fmt.Printf("Step %d/%d: E=%.3f best=%.3f T=%.4f | %.0f steps/s, elapsed %s\n",
				stepCount, cfg.Annealing.MaxIterations,
				res.Energy, res.BestEnergy, res.Temperature,
				perf.StepsPerSec(), formatDuration(elapsed))
		}
		perf.StartStep()
	})

	summary := telemetry.Summarize(trace)

	if !*quiet {
		fmt.Printf("\nDone after %d steps (%d iterations) in %s\n",
			summary.Steps, final.Iteration, formatDuration(time.Since(startTime)))
		fmt.Printf("Best energy: %.3f (acceptance %.1f%%, invalid %.1f%%)\n",
			final.BestEnergy, summary.AcceptanceRate*100, summary.InvalidRate*100)
	}
	slog.Info("run complete", "summary", summary)

	if out.Dir() != "" {
		if err := out.WriteBestLayout(final.Best, final.BestEnergy); err != nil {
			log.Printf("failed to write best layout: %v", err)
		}
		if err := out.WriteSummary(summary); err != nil {
			log.Printf("failed to write summary: %v", err)
		}
		if err := cfg.WriteYAML(filepath.Join(out.Dir(), "config.yaml")); err != nil {
			log.Printf("failed to write config: %v", err)
		} else if !*quiet {
			fmt.Printf("Results saved to: %s\n", out.Dir())
		}
	}
}
