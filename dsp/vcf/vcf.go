package vcf

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/filter/biquad"
)

const (
	defaultDitherLevel = 1e-6
	defaultSeed        = 0x5eed
)

// Type selects the filter response.
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

func (t Type) design() biquad.Type {
	if t == Highpass {
		return biquad.Highpass
	}
	return biquad.Lowpass
}

// Controls are the per-sample inputs of the filter.
type Controls struct {
	Cutoff    core.AttenuatedCV
	Resonance core.CV
	Drive     core.CV
	Type      Type
	Input     float64 // volts
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	seed        uint64
	ditherLevel float64
}

// WithSeed seeds the dither source. Filters built with the same seed and fed
// the same controls produce identical output.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithDitherLevel sets the peak amplitude of the uniform input dither, in
// normalized filter units (default 1e-6). Zero disables dither.
func WithDitherLevel(level float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(level) || level < 0 {
			return fmt.Errorf("vcf: dither level must be >= 0 and finite: %f", level)
		}

		cfg.ditherLevel = level

		return nil
	}
}

// State is the persistent recursion history of a Filter.
type State struct {
	X1, X2 float64
	Y1, Y2 float64
}

// Filter is a single VCF instance. It is not safe for concurrent use.
type Filter struct {
	sampleRate  float64
	ditherLevel float64
	rng         *rand.Rand
	df          biquad.DirectFormI
	coeffs      biquad.Coefficients
}

// New constructs a filter for the given sample rate.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("vcf: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := config{
		seed:        defaultSeed,
		ditherLevel: defaultDitherLevel,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Filter{
		sampleRate:  sampleRate,
		ditherLevel: cfg.ditherLevel,
		rng:         rand.New(rand.NewPCG(cfg.seed, cfg.seed^0x9e3779b97f4a7c15)),
	}, nil
}

// SampleRate returns the configured sample rate.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Process filters one sample at the configured sample rate.
func (f *Filter) Process(c Controls) float64 {
	return f.Step(c, f.sampleRate)
}

// Step filters one sample at the given sample rate and returns the output in
// volts, clamped to the ±12 V rail. Invalid sample rates fall back to the
// configured one.
func (f *Filter) Step(c Controls, sampleRate float64) float64 {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		sampleRate = f.sampleRate
	}

	gain := DriveGain(c.Drive.Normalized())

	x := core.Sanitize(c.Input, 0) * gain / DriveReference
	if f.ditherLevel > 0 {
		x += f.ditherLevel * (2*f.rng.Float64() - 1)
	}

	f.coeffs = Design(c, sampleRate)

	y := f.df.Process(f.coeffs, x)
	if !core.IsFinite(y) {
		f.df.Reset()
		return 0
	}

	return core.ClampRail(core.AudioVolts * y)
}

// Design returns the biquad coefficients the filter uses for the cutoff,
// resonance and type in c at sampleRate. Drive and Input are ignored.
func Design(c Controls, sampleRate float64) biquad.Coefficients {
	fc := NormalizedCutoff(c.Cutoff.Normalized(), sampleRate)
	q := QFactor(c.Resonance.Normalized())
	return biquad.Design(c.Type.design(), fc, q)
}

// Coefficients returns the coefficients designed by the last Step.
func (f *Filter) Coefficients() biquad.Coefficients { return f.coeffs }

// Reset clears the recursion history. The dither source keeps its position.
func (f *Filter) Reset() {
	f.df.Reset()
}

// State returns a copy of the recursion history.
func (f *Filter) State() State {
	st := f.df.State()
	return State{X1: st[0], X2: st[1], Y1: st[2], Y2: st[3]}
}

// SetState restores a previously saved history.
func (f *Filter) SetState(st State) error {
	for _, v := range [...]float64{st.X1, st.X2, st.Y1, st.Y2} {
		if !core.IsFinite(v) {
			return fmt.Errorf("vcf: state contains NaN or Inf")
		}
	}

	f.df.SetState([4]float64{st.X1, st.X2, st.Y1, st.Y2})

	return nil
}
