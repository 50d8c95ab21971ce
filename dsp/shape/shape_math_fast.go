//go:build fastmath

package shape

import "github.com/meko-christian/algo-approx"

// expFn computes e^x using the algo-approx fast approximation.
// Rise and Fall evaluate numerator and denominator with the same backend, so
// their end points stay exact.
func expFn(x float64) float64 {
	return approx.FastExp(x)
}
