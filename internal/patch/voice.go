// Package patch wires the four kernels into a playable monophonic voice:
// envelope, oscillator, filter and amplifier, evaluated once per sample in
// that order.
package patch

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/envelope"
	"github.com/cwbudde/algo-modular/dsp/filter/biquad"
	"github.com/cwbudde/algo-modular/dsp/vca"
	"github.com/cwbudde/algo-modular/dsp/vcf"
	"github.com/cwbudde/algo-modular/dsp/vco"
)

const (
	gateVolts    = 10.0
	dcBlockerHz  = 5.0
	dcBlockerQ   = 0.7071
	defaultPitch = 0.0
)

// Knobs are the user-facing controls of a Voice. They may be set from any
// goroutine while the voice renders.
type Knobs struct {
	Attack  *core.Param
	Hold    *core.Param
	Decay   *core.Param
	Sustain *core.Param
	Release *core.Param

	Pitch      *core.Param // octaves relative to A4
	Waveform   *core.Param // 0 saw ... 1 square
	PulseWidth *core.Param

	Cutoff      *core.Param
	EnvToCutoff *core.Param // attenuverter from the envelope to the cutoff CV
	Resonance   *core.Param
	Drive       *core.Param

	Level *core.Param
}

func newKnobs() Knobs {
	return Knobs{
		Attack:  core.NewParam(0, 1, 0.2),
		Hold:    core.NewParam(0, 1, 0),
		Decay:   core.NewParam(0, 1, 0.5),
		Sustain: core.NewParam(0, 1, 0.6),
		Release: core.NewParam(0, 1, 0.5),

		Pitch:      core.NewParam(-4, 4, defaultPitch),
		Waveform:   core.NewParam(0, 1, 0),
		PulseWidth: core.NewParam(0, 1, 0.5),

		Cutoff:      core.NewParam(0, 1, 0.4),
		EnvToCutoff: core.NewParam(-1, 1, 0.4),
		Resonance:   core.NewParam(0, 1, 0.5),
		Drive:       core.NewParam(0, 1, 0.1),

		Level: core.NewParam(0, 1, 0.8),
	}
}

// Voice is a monophonic ENV → VCO → VCF → VCA chain. Render must be called
// from a single goroutine; Gate, Retrigger and the knobs may be used
// concurrently with it.
type Voice struct {
	Knobs Knobs

	cfg core.ProcessorConfig

	env  *envelope.Generator
	osc  *vco.Oscillator
	filt *vcf.Filter
	amp  *vca.Amplifier
	dc   *biquad.Section

	gate    atomic.Bool
	trigger atomic.Bool

	pre []float64 // filter output, pre-VCA
	cv  []float64 // envelope CV in volts
}

// NewVoice builds a voice. The sample rate and block size come from opts.
func NewVoice(opts ...core.ProcessorOption) (*Voice, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	env, err := envelope.New(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	osc, err := vco.New(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	filt, err := vcf.New(cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	amp, err := vca.New()
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}

	dc := biquad.NewSection(biquad.Design(biquad.Highpass, dcBlockerHz/cfg.SampleRate, dcBlockerQ))

	return &Voice{
		Knobs: newKnobs(),
		cfg:   cfg,
		env:   env,
		osc:   osc,
		filt:  filt,
		amp:   amp,
		dc:    dc,
		pre:   make([]float64, cfg.BlockSize),
		cv:    make([]float64, cfg.BlockSize),
	}, nil
}

// Config returns the processing configuration of the voice.
func (v *Voice) Config() core.ProcessorConfig { return v.cfg }

// Gate opens or closes the envelope gate from the next rendered sample on.
func (v *Voice) Gate(on bool) { v.gate.Store(on) }

// Retrigger restarts the attack on the next rendered sample if the gate is
// open.
func (v *Voice) Retrigger() { v.trigger.Store(true) }

// Envelope returns the current envelope level in [0, 1].
func (v *Voice) Envelope() float64 { return v.env.Output() }

// Render fills dst with output volts. It does not allocate.
func (v *Voice) Render(dst []float64) {
	for len(dst) > 0 {
		n := min(len(dst), len(v.pre))
		v.renderBlock(dst[:n])
		dst = dst[n:]
	}
}

func (v *Voice) renderBlock(dst []float64) {
	n := len(dst)
	pre := v.pre[:n]
	cv := v.cv[:n]
	k := &v.Knobs

	for i := range n {
		envCtl := envelope.Controls{
			Attack:  core.CV{Value: k.Attack.Get()},
			Hold:    core.CV{Value: k.Hold.Get()},
			Decay:   core.CV{Value: k.Decay.Get()},
			Sustain: core.CV{Value: k.Sustain.Get()},
			Release: core.CV{Value: k.Release.Get()},
		}

		if v.gate.Load() {
			envCtl.Gate = gateVolts
		}

		// A pending retrigger is a one-sample pulse; the Schmitt input
		// sees the following low sample as the end of the pulse.
		if v.trigger.Swap(false) {
			envCtl.Trigger = gateVolts
		}

		envVolts := v.env.Process(envCtl) * core.CVRangeVolts
		cv[i] = envVolts

		w := v.osc.Process(vco.Controls{
			Frequency:  k.Pitch.Get(),
			PulseWidth: k.PulseWidth.Get(),
		}, vco.OutputSaw|vco.OutputSquare)

		mix := k.Waveform.Get()
		osc := (1-mix)*w.Saw + mix*w.Square

		pre[i] = v.filt.Process(vcf.Controls{
			Cutoff: core.AttenuatedCV{
				Value:  k.Cutoff.Get(),
				Amount: k.EnvToCutoff.Get(),
				CV:     envVolts,
			},
			Resonance: core.CV{Value: k.Resonance.Get()},
			Drive:     core.CV{Value: k.Drive.Get()},
			Type:      vcf.Lowpass,
			Input:     osc,
		})
	}

	v.amp.ProcessBlock(dst, pre, cv, nil, v.Knobs.Level.Get())
	v.dc.ProcessBlock(dst)

	for i, y := range dst {
		dst[i] = core.ClampRail(y)
	}
}

// Reset returns every kernel to its initial state and closes the gate.
// Knob values are kept.
func (v *Voice) Reset() {
	v.gate.Store(false)
	v.trigger.Store(false)
	v.env.Reset()
	v.osc.Reset()
	v.filt.Reset()
	v.dc.Reset()
}
