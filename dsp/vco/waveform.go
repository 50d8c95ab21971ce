package vco

import "math"

// Outputs selects which waveforms Step computes.
type Outputs uint8

const (
	OutputSine Outputs = 1 << iota
	OutputTriangle
	OutputSaw
	OutputSquare

	OutputNone Outputs = 0
	OutputAll          = OutputSine | OutputTriangle | OutputSaw | OutputSquare
)

// Has reports whether o requests every output in want.
func (o Outputs) Has(want Outputs) bool {
	return o&want == want
}

// Waves holds one sample of each waveform in volts. Outputs that were not
// requested are zero.
type Waves struct {
	Sine     float64
	Triangle float64
	Saw      float64
	Square   float64
}

// Sine returns sin(2π·phase).
func Sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// Triangle returns a unit triangle rising with slope 4 on (-0.25, 0.25) and
// falling with slope -4 outside it. It is 0 at phase 0 and ±0.5.
func Triangle(phase float64) float64 {
	switch {
	case phase >= 0.25:
		return 2 - 4*phase
	case phase <= -0.25:
		return -2 - 4*phase
	default:
		return 4 * phase
	}
}

// Saw returns the ramp 2·phase, from -1 at phase -0.5 toward +1.
func Saw(phase float64) float64 {
	return 2 * phase
}

// Square returns +1 while phase ≤ width-0.5 and -1 otherwise. width is used
// as given; callers clamp it with PulseWidth.
func Square(phase, width float64) float64 {
	if phase <= width-0.5 {
		return 1
	}
	return -1
}
