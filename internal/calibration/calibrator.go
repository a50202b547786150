// Package calibration measures input latency against a metronome and keeps
// the resulting offsets per device.
package calibration

import "math"

const (
	DefaultPeriod = 2.
	// Window is the largest latency accepted as a sample.
	Window = 0.2
	Keep   = 10
)

// Calibrator expects a click half way through every period.
type Calibrator struct {
	Period float64
	// Offset is the current global offset, subtracted from hit times.
	Offset float64

	samples []float64
}

func NewCalibrator(offset float64) *Calibrator {
	return &Calibrator{Period: DefaultPeriod, Offset: offset}
}

// ClickAt is the time of the first click.
func (c *Calibrator) ClickAt() float64 {
	return c.Period / 2
}

// Hit measures a press at clock time t. Latencies within Window are kept,
// dropping the oldest beyond Keep.
func (c *Calibrator) Hit(t float64) (latency float64, kept bool) {
	t = math.Mod(t-c.Offset, c.Period)
	if t < 0 {
		t += c.Period
	}
	latency = t - c.ClickAt()
	if math.Abs(latency) >= Window {
		return latency, false
	}
	c.samples = append(c.samples, latency)
	if len(c.samples) > Keep {
		c.samples = c.samples[len(c.samples)-Keep:]
	}
	return latency, true
}

// Average is the mean kept latency, zero without samples.
func (c *Calibrator) Average() float64 {
	if len(c.samples) == 0 {
		return 0
	}
	sum := 0.
	for _, s := range c.samples {
		sum += s
	}
	return sum / float64(len(c.samples))
}

func (c *Calibrator) Samples() []float64 {
	return append([]float64(nil), c.samples...)
}

func (c *Calibrator) Reset() {
	c.samples = c.samples[:0]
}
