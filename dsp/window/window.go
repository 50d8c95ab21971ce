// Package window generates analysis windows and applies them to sample
// blocks.
package window

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

var errMismatchedLength = errors.New("window: samples and coefficients must have the same length")

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
)

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the periodic form used for FFT framing instead of
// the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. Unknown types
// generate a rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)

	span := float64(length - 1)
	if cfg.periodic {
		span = float64(length)
	}

	for i := range out {
		switch {
		case t != TypeHann:
			out[i] = 1
		case span == 0:
			out[i] = 1
		default:
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/span)
		}
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window: size must be > 0: %d", size)
	}
	return Generate(TypeHann, size, opts...), nil
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// ApplyCoefficients writes src weighted by coeffs into dst. All three slices
// must have the same length.
func ApplyCoefficients(dst, src, coeffs []float64) error {
	if len(src) != len(coeffs) || len(dst) != len(src) {
		return errMismatchedLength
	}
	if len(src) == 0 {
		return nil
	}

	vecmath.MulBlock(dst, src, coeffs)

	return nil
}
