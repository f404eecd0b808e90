package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/windshape/layout"
)

// OutputManager handles structured run output: the step trace as CSV,
// the best layout as JSON, and the run summary.
type OutputManager struct {
	dir       string
	traceFile *os.File

	traceHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the
// output directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	tracePath := filepath.Join(dir, "trace.csv")
	f, err := os.Create(tracePath)
	if err != nil {
		return nil, fmt.Errorf("creating trace.csv: %w", err)
	}
	om.traceFile = f

	return om, nil
}

// WriteStep appends a step record to trace.csv.
func (om *OutputManager) WriteStep(rec StepRecord) error {
	if om == nil {
		return nil
	}

	records := []StepRecord{rec}

	if !om.traceHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.traceFile); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		om.traceHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.traceFile); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}

	return nil
}

// WriteBestLayout saves the best layout as JSON.
func (om *OutputManager) WriteBestLayout(l layout.Layout, bestEnergy float64) error {
	if om == nil {
		return nil
	}

	out := struct {
		BestEnergy float64       `json:"best_energy"`
		Layout     layout.Layout `json:"layout"`
	}{BestEnergy: bestEnergy, Layout: l}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling best layout: %w", err)
	}

	path := filepath.Join(om.dir, "best_layout.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing best_layout.json: %w", err)
	}

	return nil
}

// WriteSummary saves the run summary as JSON.
func (om *OutputManager) WriteSummary(s RunSummary) error {
	if om == nil {
		return nil
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	path := filepath.Join(om.dir, "summary.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing summary.json: %w", err)
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the trace file.
func (om *OutputManager) Close() error {
	if om == nil || om.traceFile == nil {
		return nil
	}
	return om.traceFile.Close()
}
