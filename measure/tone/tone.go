// Package tone measures periodic signals rendered by the synthesis kernels:
// fundamental frequency, harmonic levels and the share of energy that lies
// off the harmonic series (aliasing and noise).
package tone

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-modular/dsp/window"
	vecmath "github.com/cwbudde/algo-vecmath"
)

const (
	defaultRangeLowerHz = 20.0
	defaultCaptureBins  = 8
	defaultMaxHarmonics = 16
)

// ErrEmptySignal is returned when Analyze receives no samples.
var ErrEmptySignal = errors.New("tone: empty signal")

// Config holds analysis parameters. Zero values select defaults.
type Config struct {
	SampleRate float64
	// FFTSize is rounded up to a power of two and defaults to the next power
	// of two that holds the signal.
	FFTSize int
	// RangeLowerHz excludes DC and sub-audio bins from the fundamental search
	// and the energy totals (default 20 Hz).
	RangeLowerHz float64
	// CaptureBins is the half-width, in bins, of the window summed around
	// each harmonic (default 8).
	CaptureBins int
	// MaxHarmonics limits Result.Harmonics (default 16).
	MaxHarmonics int
}

// Result holds the measurement of one signal.
type Result struct {
	FundamentalHz float64
	// FundamentalLevel is the estimated peak amplitude of the fundamental,
	// in the units of the signal.
	FundamentalLevel float64
	// Harmonics are the amplitudes of harmonics 2, 3, ... below Nyquist,
	// relative to the fundamental.
	Harmonics []float64
	// AliasRatio is the share of total energy not captured by any harmonic
	// of the fundamental below Nyquist.
	AliasRatio float64
}

// Calculator analyzes signals with a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator.
func NewCalculator(cfg Config) (*Calculator, error) {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("tone: sample rate must be > 0 and finite: %f", cfg.SampleRate)
	}

	if cfg.FFTSize < 0 {
		return nil, fmt.Errorf("tone: fft size must be >= 0: %d", cfg.FFTSize)
	}

	if cfg.RangeLowerHz <= 0 {
		cfg.RangeLowerHz = defaultRangeLowerHz
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = defaultCaptureBins
	}

	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	return &Calculator{cfg: cfg}, nil
}

// Analyze is a one-shot analysis of a time-domain signal.
func Analyze(signal []float64, cfg Config) (Result, error) {
	c, err := NewCalculator(cfg)
	if err != nil {
		return Result{}, err
	}

	return c.Analyze(signal)
}

// Analyze windows the signal with a Hann window, transforms it and measures
// the fundamental and its harmonics.
func (c *Calculator) Analyze(signal []float64) (Result, error) {
	if len(signal) == 0 {
		return Result{}, ErrEmptySignal
	}

	fftSize := nextPowerOf2(max(c.cfg.FFTSize, len(signal)))
	if fftSize < 4 {
		return Result{}, fmt.Errorf("tone: signal too short: %d samples", len(signal))
	}

	win := window.Generate(window.TypeHann, len(signal))
	windowed := make([]float64, len(signal))
	if err := window.ApplyCoefficients(windowed, signal, win); err != nil {
		return Result{}, fmt.Errorf("tone: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("tone: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("tone: fft: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)

	for i := range binCount {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, binCount)
	vecmath.Power(power, re, im)

	winEnergy := 0.0
	for _, w := range win {
		winEnergy += w * w
	}

	return c.fromPower(power, fftSize, winEnergy), nil
}

func (c *Calculator) fromPower(power []float64, fftSize int, winEnergy float64) Result {
	maxBin := len(power) - 1
	binHz := c.cfg.SampleRate / float64(fftSize)
	nyquist := c.cfg.SampleRate / 2

	lowerBin := clampInt(int(math.Round(c.cfg.RangeLowerHz/binHz)), 1, maxBin)

	peak := lowerBin
	for i := lowerBin; i <= maxBin; i++ {
		if power[i] > power[peak] {
			peak = i
		}
	}

	if power[peak] <= 0 {
		return Result{}
	}

	f0 := interpolatePeak(power, peak) * binHz
	capture := c.cfg.CaptureBins

	// amplitude of a windowed sinusoid from its one-sided energy (Parseval)
	level := func(center int) float64 {
		lo := max(center-capture, 0)
		hi := min(center+capture, maxBin)

		sum := 0.0
		for i := lo; i <= hi; i++ {
			sum += power[i]
		}

		return 2 * math.Sqrt(sum/(float64(fftSize)*winEnergy))
	}

	res := Result{
		FundamentalHz:    f0,
		FundamentalLevel: level(peak),
	}

	captured := make([]bool, len(power))

	for k := 1; float64(k)*f0 < nyquist; k++ {
		center := int(math.Round(float64(k) * f0 / binHz))
		if center > maxBin {
			break
		}

		for i := max(center-capture, 0); i <= min(center+capture, maxBin); i++ {
			captured[i] = true
		}

		if k >= 2 && len(res.Harmonics) < c.cfg.MaxHarmonics && res.FundamentalLevel > 0 {
			res.Harmonics = append(res.Harmonics, level(center)/res.FundamentalLevel)
		}
	}

	total := 0.0
	harmonic := 0.0

	for i := lowerBin; i <= maxBin; i++ {
		total += power[i]
		if captured[i] {
			harmonic += power[i]
		}
	}

	if total > 0 {
		res.AliasRatio = math.Max(0, 1-harmonic/total)
	}

	return res
}

// interpolatePeak refines a peak bin with a parabola through the log power
// of its neighbours.
func interpolatePeak(power []float64, k int) float64 {
	if k <= 0 || k >= len(power)-1 {
		return float64(k)
	}

	if power[k-1] <= 0 || power[k+1] <= 0 {
		return float64(k)
	}

	a := math.Log(power[k-1])
	b := math.Log(power[k])
	c := math.Log(power[k+1])

	den := a - 2*b + c
	if den == 0 {
		return float64(k)
	}

	return float64(k) + 0.5*(a-c)/den
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
