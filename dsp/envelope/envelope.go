package envelope

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/shape"
	"github.com/cwbudde/algo-modular/dsp/trigger"
)

// Stage identifies the envelope segment.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageHold
	StageDecay
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageHold:
		return "hold"
	case StageDecay:
		return "decay"
	case StageRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Controls are the per-sample inputs of the generator.
type Controls struct {
	Attack  core.CV
	Hold    core.CV
	Decay   core.CV
	Sustain core.CV
	Release core.CV

	Gate    float64 // volts, open above 1 V
	Trigger float64 // volts, Schmitt-detected retrigger while the gate is open
}

// Timing is the resolved form of a Controls value.
type Timing struct {
	AttackMs  float64
	HoldMs    float64
	DecayMs   float64
	ReleaseMs float64
	Sustain   float64

	AttackBase  float64
	DecayBase   float64
	ReleaseBase float64
}

// Resolve maps the normalized controls onto durations, levels and curve bases.
func Resolve(c Controls) Timing {
	attack := c.Attack.Normalized()
	decay := c.Decay.Normalized()
	release := c.Release.Normalized()

	return Timing{
		AttackMs:    shape.DurationMs(attack),
		HoldMs:      shape.HoldMs(c.Hold.Normalized()),
		DecayMs:     shape.DurationMs(decay),
		ReleaseMs:   shape.DurationMs(release),
		Sustain:     c.Sustain.Normalized(),
		AttackBase:  shape.Base(attack),
		DecayBase:   shape.Base(decay),
		ReleaseBase: shape.Base(release),
	}
}

// gateLevel evaluates the open-gate curve t ms after the last retrigger.
func (tm Timing) gateLevel(t, start float64) float64 {
	switch {
	case t <= tm.AttackMs:
		return start + (1-start)*shape.Rise(t/tm.AttackMs, tm.AttackBase)
	case t <= tm.AttackMs+tm.HoldMs:
		return 1
	default:
		u := (t - tm.AttackMs - tm.HoldMs) / tm.DecayMs
		return tm.Sustain + (1-tm.Sustain)*shape.Fall(u, tm.DecayBase)
	}
}

// State is the persistent state of a Generator.
type State struct {
	ClockMs     float64 // elapsed since the last retrigger
	LastGate    float64 // gate volts of the previous sample
	GateStart   float64 // level the current attack started from
	GateEnd     float64 // level the release starts from
	OpenGateMs  float64 // time the gate has been open since the last retrigger
	LastOutput  float64
	TriggerHigh bool // Schmitt latch of the retrigger input
}

// Generator is a single envelope instance. It is not safe for concurrent use.
type Generator struct {
	sampleTimeMs float64

	state State
	trig  trigger.Schmitt
}

// New returns an idle generator for the given sample rate.
func New(sampleRate float64) (*Generator, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("envelope: sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Generator{
		sampleTimeMs: 1000 / sampleRate,
		trig:         trigger.NewSchmitt(),
	}, nil
}

// Process advances the generator by one sample period.
func (g *Generator) Process(c Controls) float64 {
	return g.Step(c, g.sampleTimeMs)
}

// Step advances the generator by dtMs milliseconds and returns the output
// level in [0, 1].
func (g *Generator) Step(c Controls, dtMs float64) float64 {
	if !(dtMs >= 0) || math.IsInf(dtMs, 1) {
		dtMs = 0
	}

	tm := Resolve(c)
	s := &g.state

	gate := core.Sanitize(c.Gate, 0)
	open := gate > core.GateThresholdVolts
	rising := open && s.LastGate <= core.GateThresholdVolts
	fired := g.trig.Process(c.Trigger)

	if rising || (fired && open) {
		s.GateStart = s.LastOutput
		s.OpenGateMs = 0
		s.ClockMs = 0
	}

	var v float64
	if open {
		v = clampLevel(tm.gateLevel(s.ClockMs, s.GateStart))
		s.GateEnd = v
		s.OpenGateMs += dtMs
	} else {
		u := (s.ClockMs - s.OpenGateMs) / tm.ReleaseMs
		v = clampLevel(s.GateEnd * shape.Fall(u, tm.ReleaseBase))
		s.GateStart = v
	}

	s.ClockMs += dtMs
	s.LastOutput = v
	s.LastGate = gate

	return v
}

// Stage reports the segment the next Step evaluates if the gate stays where
// it was on the previous sample.
func (g *Generator) Stage(c Controls) Stage {
	tm := Resolve(c)
	s := g.state

	if s.LastGate > core.GateThresholdVolts {
		switch {
		case s.ClockMs <= tm.AttackMs:
			return StageAttack
		case s.ClockMs <= tm.AttackMs+tm.HoldMs:
			return StageHold
		default:
			return StageDecay
		}
	}

	if s.GateEnd > 0 && s.ClockMs-s.OpenGateMs < tm.ReleaseMs {
		return StageRelease
	}

	return StageIdle
}

// Output returns the level produced by the last Step.
func (g *Generator) Output() float64 { return g.state.LastOutput }

// Reset returns the generator to idle at level 0.
func (g *Generator) Reset() {
	g.state = State{}
	g.trig.Reset()
}

// State returns a copy of the current state.
func (g *Generator) State() State {
	st := g.state
	st.TriggerHigh = g.trig.IsHigh()
	return st
}

// SetState restores a previously saved state.
func (g *Generator) SetState(st State) error {
	for _, v := range []float64{st.ClockMs, st.LastGate, st.GateStart, st.GateEnd, st.OpenGateMs, st.LastOutput} {
		if !core.IsFinite(v) {
			return fmt.Errorf("envelope: state contains NaN or Inf")
		}
	}

	if st.ClockMs < 0 || st.OpenGateMs < 0 {
		return fmt.Errorf("envelope: state clock must be >= 0: clock=%f open=%f", st.ClockMs, st.OpenGateMs)
	}

	for _, v := range []float64{st.GateStart, st.GateEnd, st.LastOutput} {
		if v < 0 || v > 1 {
			return fmt.Errorf("envelope: state level must be in [0, 1]: %f", v)
		}
	}

	g.state = st
	g.trig.SetHigh(st.TriggerHigh)

	return nil
}

func clampLevel(v float64) float64 {
	return core.Clamp01(core.Sanitize(v, 0))
}
