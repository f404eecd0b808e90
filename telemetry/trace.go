// Package telemetry records annealing traces and run summaries, and
// writes them out as CSV/JSON alongside the effective configuration.
package telemetry

import (
	"log/slog"
	"math"
	"sort"
)

// StepRecord is one row of the annealing trace.
type StepRecord struct {
	Step        int     `csv:"step"`
	Iteration   int     `csv:"iteration"`
	Temperature float64 `csv:"temperature"`
	Energy      float64 `csv:"energy"`
	BestEnergy  float64 `csv:"best_energy"`
	Quality     float64 `csv:"quality"`
	Accepted    bool    `csv:"accepted"`
	Invalid     bool    `csv:"invalid"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r StepRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", r.Step),
		slog.Int("iteration", r.Iteration),
		slog.Float64("temperature", r.Temperature),
		slog.Float64("energy", r.Energy),
		slog.Float64("best_energy", r.BestEnergy),
		slog.Float64("quality", r.Quality),
		slog.Bool("accepted", r.Accepted),
		slog.Bool("invalid", r.Invalid),
	)
}

// RunSummary aggregates a full annealing run.
type RunSummary struct {
	Steps      int `csv:"steps" json:"steps"`
	Iterations int `csv:"iterations" json:"iterations"`
	Accepted   int `csv:"accepted" json:"accepted"`
	Invalid    int `csv:"invalid" json:"invalid"`

	AcceptanceRate float64 `csv:"acceptance_rate" json:"acceptance_rate"` // accepted / evaluated candidates
	InvalidRate    float64 `csv:"invalid_rate" json:"invalid_rate"`       // invalid / proposed candidates

	FinalEnergy float64 `csv:"final_energy" json:"final_energy"`
	BestEnergy  float64 `csv:"best_energy" json:"best_energy"`
	FinalTemp   float64 `csv:"final_temp" json:"final_temp"`

	EnergyP10 float64 `csv:"energy_p10" json:"energy_p10"`
	EnergyP50 float64 `csv:"energy_p50" json:"energy_p50"`
	EnergyP90 float64 `csv:"energy_p90" json:"energy_p90"`
}

// Summarize folds a trace into a RunSummary. An empty trace produces the
// zero summary.
func Summarize(trace []StepRecord) RunSummary {
	var s RunSummary
	if len(trace) == 0 {
		return s
	}

	energies := make([]float64, 0, len(trace))
	for _, r := range trace {
		s.Steps++
		if r.Invalid {
			s.Invalid++
			continue
		}
		if r.Accepted {
			s.Accepted++
		}
		energies = append(energies, r.Energy)
	}

	last := trace[len(trace)-1]
	s.Iterations = last.Iteration
	s.FinalEnergy = last.Energy
	s.BestEnergy = last.BestEnergy
	s.FinalTemp = last.Temperature

	evaluated := s.Steps - s.Invalid
	if evaluated > 0 {
		s.AcceptanceRate = float64(s.Accepted) / float64(evaluated)
	}
	s.InvalidRate = float64(s.Invalid) / float64(s.Steps)

	sort.Float64s(energies)
	s.EnergyP10 = Percentile(energies, 0.10)
	s.EnergyP50 = Percentile(energies, 0.50)
	s.EnergyP90 = Percentile(energies, 0.90)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", s.Steps),
		slog.Int("iterations", s.Iterations),
		slog.Int("accepted", s.Accepted),
		slog.Int("invalid", s.Invalid),
		slog.Float64("acceptance_rate", s.AcceptanceRate),
		slog.Float64("invalid_rate", s.InvalidRate),
		slog.Float64("final_energy", s.FinalEnergy),
		slog.Float64("best_energy", s.BestEnergy),
		slog.Float64("final_temp", s.FinalTemp),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std returns the population standard deviation, or 0 for an empty slice.
func Std(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff / float64(n))
}
