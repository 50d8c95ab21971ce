package shape

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
)

const (
	// MinDurationMs is the shortest attack, decay or release segment.
	MinDurationMs = 1.0
	// MaxDurationMs is the longest attack, decay or release segment.
	MaxDurationMs = 10000.0
	// MaxBase is the curvature base at p = 1. p = 0 gives a straight line.
	MaxBase = 300.0

	// degenerateBase is the distance from 1 below which a base is treated
	// as linear; (1 - base^-1) would otherwise vanish.
	degenerateBase = 1e-6
)

var (
	lnDurationRange = math.Log(MaxDurationMs / MinDurationMs)
	lnMaxBase       = math.Log(MaxBase)
)

// ExpScale returns scale·base^p for p clamped to [0, 1].
// Non-positive or non-finite bases return scale.
func ExpScale(p, base, scale float64) float64 {
	if !(base > 0) || !core.IsFinite(base) {
		return scale
	}

	return scale * expFn(core.Clamp01(p)*math.Log(base))
}

// DurationMs maps p ∈ [0, 1] onto 1 ms … 10 s along 10000^p.
func DurationMs(p float64) float64 {
	d := MinDurationMs * expFn(core.Clamp01(p)*lnDurationRange)
	return core.Clamp(d, MinDurationMs, MaxDurationMs)
}

// HoldMs maps p ∈ [0, 1] onto the hold duration. It follows the same law as
// DurationMs shifted down by MinDurationMs, so p = 0 holds for exactly 0 ms.
func HoldMs(p float64) float64 {
	return math.Max(0, DurationMs(p)-MinDurationMs)
}

// Base maps a shape parameter p ∈ [0, 1] to an exponential base in
// [1, MaxBase]. Parameters outside [0, 1] or NaN return e.
func Base(p float64) float64 {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.E
	}

	return expFn(p * lnMaxBase)
}

// Rise is the normalized exponential approach
//
//	(1 - base^-u) / (1 - base^-1)
//
// for u clamped to [0, 1]. It is 0 at u = 0, exactly 1 at u = 1 and
// non-decreasing in between. base ≤ 1 (within 1e-6) degrades to the straight
// line u; non-finite bases use e.
func Rise(u, base float64) float64 {
	u = core.Clamp01(u)
	if !core.IsFinite(base) {
		base = math.E
	}

	if base-1 < degenerateBase {
		return u
	}

	lnB := math.Log(base)
	den := 1 - expFn(-lnB)
	if !(den > 0) {
		return u
	}

	return core.Clamp01((1 - expFn(-u*lnB)) / den)
}

// Fall is the complement of Rise: 1 at u = 0, exactly 0 at u = 1,
// non-increasing in between, dropping fastest at the start.
func Fall(u, base float64) float64 {
	return 1 - Rise(u, base)
}

// Pow2 returns 2^x using the selected exponential backend.
func Pow2(x float64) float64 {
	return expFn(x * math.Ln2)
}
