package vcf

import (
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/shape"
)

const (
	// MinCutoffHz and CutoffRatio define the cutoff law 16 Hz · 500^n,
	// spanning 16 Hz to 8 kHz.
	MinCutoffHz = 16.0
	CutoffRatio = 500.0

	// MaxNormalizedCutoff keeps the prewarped design away from Nyquist.
	MaxNormalizedCutoff = 0.49

	// MinQ is the Q at zero resonance.
	MinQ = 0.5
	// QRatio is the exponential base of the lower resonance range.
	QRatio = 40.0
	// QKnee is the resonance above which Q grows double-exponentially.
	QKnee = 0.9
	// MaxQ is the Q at full resonance and the ceiling for every input.
	MaxQ = 1000.0

	// DriveReference is the input level that maps to unit filter input.
	DriveReference = core.AudioVolts
)

var (
	qAtKnee = MinQ * math.Pow(QRatio, QKnee)
	// chosen so the upper segment reaches MaxQ exactly at resonance 1
	qUpperRate = math.Log(MaxQ/qAtKnee) / math.Expm1(3)
)

// CutoffHz maps a normalized cutoff n ∈ [0, 1] to Hz.
func CutoffHz(n float64) float64 {
	return shape.ExpScale(n, CutoffRatio, MinCutoffHz)
}

// NormalizedCutoff returns the cutoff in cycles per sample, clamped to
// [0, MaxNormalizedCutoff]. Invalid sample rates return the upper bound.
func NormalizedCutoff(n, sampleRate float64) float64 {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return MaxNormalizedCutoff
	}

	return core.Clamp(CutoffHz(n)/sampleRate, 0, MaxNormalizedCutoff)
}

// QFactor maps resonance r ∈ [0, 1] to a Q factor. Below QKnee it follows
// MinQ·QRatio^r; above, Q grows as qKnee·exp(k·(exp(3x)-1)) with
// x = (r-QKnee)/(1-QKnee), reaching MaxQ at r = 1. The result is continuous,
// non-decreasing and capped at MaxQ; NaN maps to MaxQ.
func QFactor(r float64) float64 {
	if math.IsNaN(r) {
		return MaxQ
	}

	r = core.Clamp01(r)

	var q float64
	if r <= QKnee {
		q = MinQ * math.Pow(QRatio, r)
	} else {
		x := (r - QKnee) / (1 - QKnee)
		q = qAtKnee * math.Exp(qUpperRate*math.Expm1(3*x))
	}

	if !core.IsFinite(q) || q > MaxQ {
		return MaxQ
	}

	return q
}

// DriveGain maps drive d ∈ [0, 1] to the input gain (1+d)^3, from 1 to 8.
func DriveGain(d float64) float64 {
	g := 1 + core.Clamp01(d)
	return g * g * g
}
