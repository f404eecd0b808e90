package telemetry

import (
	"time"
)

// PerfCollector tracks step timing over a rolling window, for
// steps-per-second reporting during long runs.
type PerfCollector struct {
	windowSize  int
	samples     []time.Duration
	writeIndex  int
	sampleCount int
	stepStart   time.Time
}

// NewPerfCollector creates a collector averaging over windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]time.Duration, windowSize),
	}
}

// StartStep begins timing one annealing step.
func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
}

// EndStep finishes timing the current step and records the sample.
func (p *PerfCollector) EndStep() {
	d := time.Since(p.stepStart)
	p.samples[p.writeIndex] = d
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// Avg returns the mean step duration over the window.
func (p *PerfCollector) Avg() time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < p.sampleCount; i++ {
		total += p.samples[i]
	}
	return total / time.Duration(p.sampleCount)
}

// StepsPerSec returns the windowed step throughput.
func (p *PerfCollector) StepsPerSec() float64 {
	avg := p.Avg()
	if avg == 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}
