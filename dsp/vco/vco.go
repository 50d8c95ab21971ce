package vco

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/shape"
	"github.com/cwbudde/algo-modular/dsp/trigger"
)

const (
	defaultReferenceHz = 440.0
	defaultMinOctave   = -8.0
	defaultMaxOctave   = 5.0

	// MinPulseWidth and MaxPulseWidth keep the pulse output from collapsing
	// into DC.
	MinPulseWidth = 0.01
	MaxPulseWidth = 0.99
)

// Controls are the per-sample inputs of the oscillator.
type Controls struct {
	Frequency float64 // knob, octaves relative to the reference, quantized to semitones
	Pitch     float64 // volts, 1 V/octave

	FMAmount float64 // [0, 1]
	FM       float64 // volts, scaled by FMAmount into octaves

	PulseWidth float64 // [0, 1]
	PWMAmount  float64 // [0, 1]
	PWM        float64 // volts

	HardSync      bool
	Sync          float64 // volts, rising edges through 0 V sync the oscillator
	SyncConnected bool
}

// PulseWidth returns the effective pulse width for c, clamped to
// [MinPulseWidth, MaxPulseWidth].
func PulseWidth(c Controls) float64 {
	return core.Clamp(c.PulseWidth+c.PWMAmount*c.PWM/core.CVRangeVolts, MinPulseWidth, MaxPulseWidth)
}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	referenceHz float64
	minOctave   float64
	maxOctave   float64
}

func defaultConfig() config {
	return config{
		referenceHz: defaultReferenceHz,
		minOctave:   defaultMinOctave,
		maxOctave:   defaultMaxOctave,
	}
}

// WithReferenceHz sets the frequency at 0 octaves (default 440 Hz).
func WithReferenceHz(hz float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(hz) || hz <= 0 {
			return fmt.Errorf("vco: reference frequency must be > 0 and finite: %f", hz)
		}

		cfg.referenceHz = hz

		return nil
	}
}

// WithOctaveRange limits the summed pitch to [lo, hi] octaves around the
// reference (default [-8, 5]).
func WithOctaveRange(lo, hi float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(lo) || !core.IsFinite(hi) || lo >= hi {
			return fmt.Errorf("vco: octave range must be finite with lo < hi: [%f, %f]", lo, hi)
		}

		cfg.minOctave = lo
		cfg.maxOctave = hi

		return nil
	}
}

// State is the persistent state of an Oscillator.
type State struct {
	Phase     float64 // [-0.5, 0.5)
	LastSync  float64 // sync volts of the previous sample
	Direction float64 // +1 or -1
}

// Oscillator is a single VCO instance. It is not safe for concurrent use.
type Oscillator struct {
	sampleTime  float64
	referenceHz float64
	minOctave   float64
	maxOctave   float64

	phase     float64
	direction float64
	frequency float64
	sync      trigger.Edge
}

// New constructs an oscillator for the given sample rate.
func New(sampleRate float64, opts ...Option) (*Oscillator, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("vco: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Oscillator{
		sampleTime:  1 / sampleRate,
		referenceHz: cfg.referenceHz,
		minOctave:   cfg.minOctave,
		maxOctave:   cfg.maxOctave,
		direction:   1,
		frequency:   cfg.referenceHz,
	}, nil
}

// Pitch returns the clamped pitch of c in octaves relative to the reference.
func (o *Oscillator) Pitch(c Controls) float64 {
	knob := math.Round(core.Sanitize(c.Frequency, 0)*12) / 12
	p := knob + core.Sanitize(c.Pitch, 0) + core.Sanitize(c.FMAmount*c.FM, 0)

	return core.Clamp(p, o.minOctave, o.maxOctave)
}

// FrequencyHz returns the oscillator frequency for c.
func (o *Oscillator) FrequencyHz(c Controls) float64 {
	return o.referenceHz * shape.Pow2(o.Pitch(c))
}

// Process advances the oscillator by one sample period.
func (o *Oscillator) Process(c Controls, want Outputs) Waves {
	return o.Step(c, o.sampleTime, want)
}

// Step advances the oscillator by dt seconds and returns the requested
// waveforms in volts (±5 V).
func (o *Oscillator) Step(c Controls, dt float64, want Outputs) Waves {
	if !(dt >= 0) || math.IsInf(dt, 1) {
		dt = 0
	}

	o.frequency = o.FrequencyHz(c)

	edge := false
	if c.SyncConnected {
		edge = o.sync.Process(c.Sync)
	} else {
		o.direction = 1
		o.sync.Reset()
	}

	if edge && !c.HardSync {
		o.direction = -o.direction
	}

	inc := o.frequency * dt * o.direction
	if core.IsFinite(inc) {
		o.phase = wrap(o.phase + inc)
	}

	if edge && c.HardSync {
		o.phase = 0
	}

	var w Waves
	if want == OutputNone {
		return w
	}

	if want.Has(OutputSine) {
		w.Sine = core.AudioVolts * Sine(o.phase)
	}
	if want.Has(OutputTriangle) {
		w.Triangle = core.AudioVolts * Triangle(o.phase)
	}
	if want.Has(OutputSaw) {
		w.Saw = core.AudioVolts * Saw(o.phase)
	}
	if want.Has(OutputSquare) {
		w.Square = core.AudioVolts * Square(o.phase, PulseWidth(c))
	}

	return w
}

// Phase returns the current phase in [-0.5, 0.5).
func (o *Oscillator) Phase() float64 { return o.phase }

// Direction returns +1, or -1 while soft sync has reversed the phase.
func (o *Oscillator) Direction() float64 { return o.direction }

// Frequency returns the frequency used by the last Step.
func (o *Oscillator) Frequency() float64 { return o.frequency }

// Reset sets the phase to 0 and the direction to +1.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.direction = 1
	o.sync.Reset()
}

// State returns a copy of the current state.
func (o *Oscillator) State() State {
	return State{
		Phase:     o.phase,
		LastSync:  o.sync.Last(),
		Direction: o.direction,
	}
}

// SetState restores a previously saved state.
func (o *Oscillator) SetState(st State) error {
	if !core.IsFinite(st.Phase) || !core.IsFinite(st.LastSync) {
		return fmt.Errorf("vco: state contains NaN or Inf")
	}

	if st.Phase < -0.5 || st.Phase >= 0.5 {
		return fmt.Errorf("vco: phase must be in [-0.5, 0.5): %f", st.Phase)
	}

	if st.Direction != 1 && st.Direction != -1 {
		return fmt.Errorf("vco: direction must be +1 or -1: %f", st.Direction)
	}

	o.phase = st.Phase
	o.direction = st.Direction
	o.sync.SetLast(st.LastSync)

	return nil
}

// wrap maps p into [-0.5, 0.5).
func wrap(p float64) float64 {
	p -= math.Floor(p + 0.5)
	if p >= 0.5 {
		p -= 1
	} else if p < -0.5 {
		p += 1
	}
	return p
}
