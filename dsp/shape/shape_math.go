//go:build !fastmath

package shape

import "math"

// expFn computes e^x using standard library math.
func expFn(x float64) float64 {
	return math.Exp(x)
}
