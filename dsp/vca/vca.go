// Package vca implements a voltage-controlled amplifier with a gain knob and
// optional linear and exponential control-voltage inputs.
package vca

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// DefaultExpBase is the base of the exponential CV response.
const DefaultExpBase = 50.0

// Controls are the per-sample inputs of the amplifier. CV inputs only act
// while their Connected flag is set.
type Controls struct {
	Gain float64 // knob in [0, 1]

	Linear          float64 // volts, ±10 V maps to ±1
	LinearConnected bool

	Exp          float64 // volts, base^(v/10)/(base-1) over ±10 V
	ExpConnected bool

	Input float64 // volts
}

// LinearGain maps linear CV volts, clamped to ±10 V, to a gain in [-1, 1].
// NaN reads as 0 V.
func LinearGain(volts float64) float64 {
	if math.IsNaN(volts) {
		return 0
	}
	return core.Clamp(volts, -core.CVRangeVolts, core.CVRangeVolts) / core.CVRangeVolts
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	expBase float64
}

// WithExpBase sets the base of the exponential response (default 50).
// Larger bases give a steeper curve.
func WithExpBase(base float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(base) || base <= 1 {
			return fmt.Errorf("vca: exponential base must be > 1 and finite: %f", base)
		}

		cfg.expBase = base

		return nil
	}
}

// Amplifier is a single VCA instance. Step is safe to call from one
// goroutine at a time; ProcessBlock reuses an internal scratch buffer.
type Amplifier struct {
	expBase float64
	lnBase  float64
	expNorm float64

	scratch []float64
}

// New constructs an amplifier.
func New(opts ...Option) (*Amplifier, error) {
	cfg := config{expBase: DefaultExpBase}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Amplifier{
		expBase: cfg.expBase,
		lnBase:  math.Log(cfg.expBase),
		expNorm: 1 / (cfg.expBase - 1),
	}, nil
}

// ExpBase returns the configured exponential base.
func (a *Amplifier) ExpBase() float64 { return a.expBase }

// ExpGain maps exponential CV volts, clamped to ±10 V, to
// base^(v/10)/(base-1). The curve is positive everywhere and reaches
// base/(base-1) at +10 V (1.0204 for base 50). NaN reads as silence.
func (a *Amplifier) ExpGain(volts float64) float64 {
	if math.IsNaN(volts) {
		return 0
	}

	v := core.Clamp(volts, -core.CVRangeVolts, core.CVRangeVolts)
	return math.Exp(a.lnBase*v/core.CVRangeVolts) * a.expNorm
}

// Step amplifies one sample and returns the output in volts, clamped to the
// ±12 V rail.
func (a *Amplifier) Step(c Controls) float64 {
	out := core.Sanitize(c.Input, 0)

	if c.ExpConnected {
		out *= a.ExpGain(c.Exp)
	}

	if c.LinearConnected {
		out *= LinearGain(c.Linear)
	}

	return core.ClampRail(core.Clamp01(c.Gain) * out)
}

// ProcessBlock amplifies in into dst with a fixed gain knob. linear and exp
// are per-sample CV blocks; a nil slice means the input is unconnected.
// in and any non-nil CV slice must be at least len(dst) long.
func (a *Amplifier) ProcessBlock(dst, in, linear, exp []float64, gain float64) {
	n := len(dst)
	if n == 0 {
		return
	}

	_ = in[n-1]
	vecmath.ScaleBlock(dst, in[:n], core.Clamp01(gain))

	if linear != nil {
		scratch := a.grow(n)
		for i, v := range linear[:n] {
			scratch[i] = LinearGain(v)
		}
		vecmath.MulBlockInPlace(dst, scratch)
	}

	if exp != nil {
		scratch := a.grow(n)
		for i, v := range exp[:n] {
			scratch[i] = a.ExpGain(v)
		}
		vecmath.MulBlockInPlace(dst, scratch)
	}

	for i, y := range dst {
		dst[i] = core.ClampRail(y)
	}
}

func (a *Amplifier) grow(n int) []float64 {
	if cap(a.scratch) < n {
		a.scratch = make([]float64, n)
	}
	return a.scratch[:n]
}
