// Package trigger detects gate and trigger events in control-voltage streams.
package trigger

import "math"

const (
	// DefaultLowVolts is the level a trigger must fall to before it re-arms.
	DefaultLowVolts = 0.1
	// DefaultHighVolts is the level at which an armed trigger fires.
	DefaultHighVolts = 2.0
)

// Schmitt is a dual-threshold trigger with hysteresis. Noise between Low and
// High never fires it twice.
type Schmitt struct {
	Low, High float64

	high bool
}

// NewSchmitt returns a Schmitt trigger with the default 0.1 V / 2 V thresholds.
func NewSchmitt() Schmitt {
	return Schmitt{Low: DefaultLowVolts, High: DefaultHighVolts}
}

// Process feeds one sample and reports whether the trigger fired on it.
// NaN input is ignored.
func (s *Schmitt) Process(v float64) bool {
	if math.IsNaN(v) {
		return false
	}

	if s.high {
		if v <= s.Low {
			s.high = false
		}
		return false
	}

	if v >= s.High {
		s.high = true
		return true
	}

	return false
}

// IsHigh reports the latched state.
func (s *Schmitt) IsHigh() bool { return s.high }

// SetHigh restores the latched state.
func (s *Schmitt) SetHigh(high bool) { s.high = high }

// Reset re-arms the trigger.
func (s *Schmitt) Reset() { s.high = false }

// Edge reports single-threshold rising edges. A rise fires when the previous
// input was at or below Threshold and the current one is above it, or when
// an input from below lands exactly on Threshold. A rise that lands on the
// threshold does not fire again as it continues upward, and an input that
// sits on the threshold never fires.
type Edge struct {
	Threshold float64

	last   float64
	landed bool
}

// Process feeds one sample and reports whether it completes a rising edge.
// Non-finite input is treated as 0 V.
func (e *Edge) Process(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}

	th := e.Threshold
	var rose bool
	switch {
	case e.last < th && v >= th:
		rose = true
	case e.last == th && v > th:
		rose = !e.landed
	}

	e.landed = v == th && (rose || e.landed)
	e.last = v

	return rose
}

// Last returns the previous input.
func (e *Edge) Last() float64 { return e.last }

// SetLast restores the previous input. A restored input sitting on the
// threshold is treated as not having fired there.
func (e *Edge) SetLast(v float64) {
	e.last = v
	e.landed = false
}

// Reset forgets the previous input.
func (e *Edge) Reset() {
	e.last = 0
	e.landed = false
}
