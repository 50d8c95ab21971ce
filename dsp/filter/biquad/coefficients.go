package biquad

import (
	"fmt"
	"math"
)

// Coefficients holds the transfer function coefficients of one biquad.
// a0 is normalized to 1 and not stored:
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// IsFinite reports whether every coefficient is finite.
func (c Coefficients) IsFinite() bool {
	for _, v := range [...]float64{c.B0, c.B1, c.B2, c.A1, c.A2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Type selects the response shape produced by Design.
type Type int

const (
	Lowpass Type = iota
	Highpass
)

func (t Type) String() string {
	switch t {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// MaxNormalizedFrequency is the largest normalized cutoff accepted by Design.
// tan(π·f) diverges at f = 0.5.
const MaxNormalizedFrequency = 0.49

// Design returns coefficients for a filter of type t with normalized cutoff
// fc = f/sampleRate and quality factor q. The response at fc is exactly q.
//
// fc is clamped to [0, MaxNormalizedFrequency]; q must be > 0 and is clamped
// to a tiny positive value otherwise. Unknown types yield a passthrough.
func Design(t Type, fc, q float64) Coefficients {
	if !(fc > 0) {
		fc = 0
	}
	fc = math.Min(fc, MaxNormalizedFrequency)

	if !(q > 1e-9) {
		q = 1e-9
	}

	k := math.Tan(math.Pi * fc)
	k2 := k * k
	kq := k / q

	switch t {
	case Lowpass:
		norm := 1 / (1 + kq + k2)
		b0 := k2 * norm
		return Coefficients{
			B0: b0,
			B1: 2 * b0,
			B2: b0,
			A1: 2 * (k2 - 1) * norm,
			A2: (1 - kq + k2) * norm,
		}
	case Highpass:
		norm := 1 / (1 + kq + k2)
		return Coefficients{
			B0: norm,
			B1: -2 * norm,
			B2: norm,
			A1: 2 * (k2 - 1) * norm,
			A2: (1 - kq + k2) * norm,
		}
	default:
		return Coefficients{B0: 1}
	}
}
