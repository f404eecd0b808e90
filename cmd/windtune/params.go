// Package main provides CMA-ES tuning of annealing hyperparameters
// against benchmark layout scenarios.
package main

import (
	"github.com/pthm-cable/windshape/config"
)

// ParamSpec defines a single tunable hyperparameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable hyperparameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable hyperparameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "initial_temp", Path: "annealing.initial_temp", Min: 100, Max: 5000, Default: 1000},
			{Name: "cooling_rate", Path: "annealing.cooling_rate", Min: 0.80, Max: 0.999, Default: 0.95},
			{Name: "max_stagnant", Path: "annealing.max_stagnant", Min: 20, Max: 300, Default: 50},
			{Name: "seed_jitter", Path: "layout.jitter", Min: 0.0, Max: 0.5, Default: 0.25},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Annealing.InitialTemp = clamped[0]
	cfg.Annealing.CoolingRate = clamped[1]
	cfg.Annealing.MaxStagnant = int(clamped[2])
	cfg.Layout.Jitter = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Annealing.InitialTemp,
		cfg.Annealing.CoolingRate,
		float64(cfg.Annealing.MaxStagnant),
		cfg.Layout.Jitter,
	}
}
