package envelope

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/internal/testutil"
)

const testSampleRate = 48000.0

func knobs(attack, hold, decay, sustain, release float64) Controls {
	return Controls{
		Attack:  core.CV{Value: attack},
		Hold:    core.CV{Value: hold},
		Decay:   core.CV{Value: decay},
		Sustain: core.CV{Value: sustain},
		Release: core.CV{Value: release},
	}
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(testSampleRate)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func TestNewValidation(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(sr); err == nil {
			t.Fatalf("expected error for sample rate %v", sr)
		}
	}
}

func TestAttackIsMonotonicAndReachesOne(t *testing.T) {
	for _, attack := range []float64{0, 0.1, 0.3, 0.5, 0.8, 1} {
		g := newGenerator(t)
		c := knobs(attack, 0, 0.5, 0.5, 0.5)
		c.Gate = 10

		tm := Resolve(c)
		const steps = 2000
		dt := tm.AttackMs / steps

		out := make([]float64, steps+1)
		for i := range out {
			out[i] = g.Step(c, dt)
		}

		if out[0] != 0 {
			t.Fatalf("attack=%v: first sample = %v, want 0", attack, out[0])
		}
		testutil.RequireNonDecreasing(t, out, 0)
		if last := out[steps]; last < 1-1e-9 {
			t.Fatalf("attack=%v: level at attack end = %v, want 1", attack, last)
		}
	}
}

func TestAttackEndsExactlyAtOne(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.37, 0.2, 0.5, 0.4, 0.5)
	c.Gate = 10
	tm := Resolve(c)

	if err := g.SetState(State{ClockMs: tm.AttackMs, LastGate: 10, GateStart: 0.2, OpenGateMs: tm.AttackMs}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	if got := g.Step(c, 1); got != 1 {
		t.Fatalf("level at clock == attack = %v, want exactly 1", got)
	}
}

func TestDecayApproachesSustainWithoutOvershoot(t *testing.T) {
	for _, sustain := range []float64{0, 0.25, 0.5, 0.99} {
		g := newGenerator(t)
		c := knobs(0, 0, 0.4, sustain, 0.5)
		c.Gate = 10

		n := int(testSampleRate) // 1 s, decay is ~40 ms
		out := make([]float64, n)
		for i := range out {
			out[i] = g.Process(c)
		}

		testutil.RequireFinite(t, out)

		tm := Resolve(c)
		decayStart := int(math.Ceil(tm.AttackMs*testSampleRate/1000)) + 1
		tail := out[decayStart:]
		testutil.RequireNonIncreasing(t, tail, 0)
		for i, v := range tail {
			if v < sustain {
				t.Fatalf("sustain=%v: overshoot at %d: %v", sustain, i, v)
			}
		}

		if got := out[n-1]; math.Abs(got-sustain) > 1e-12 {
			t.Fatalf("sustain=%v: settled level = %v", sustain, got)
		}
	}
}

func TestDecayReachesSustainAtEndOfDecay(t *testing.T) {
	for _, sustain := range []float64{0, 0.3, 0.75} {
		tm := Resolve(knobs(0.2, 0.1, 0.5, sustain, 0.5))
		end := tm.AttackMs + tm.HoldMs + tm.DecayMs

		if got := tm.gateLevel(end, 0); got != sustain {
			t.Fatalf("sustain=%v: level at end of decay = %v", sustain, got)
		}
		if got := tm.gateLevel(end+1000, 0); got != sustain {
			t.Fatalf("sustain=%v: level after decay = %v", sustain, got)
		}
		if got := tm.gateLevel(end-0.01*tm.DecayMs, 0); !(got > sustain) {
			t.Fatalf("sustain=%v: level just before end = %v, want above sustain", sustain, got)
		}
	}
}

func TestReleaseFallsToZero(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0, 0, 0, 0.8, 0.3)
	c.Gate = 10
	for range 200 {
		g.Process(c)
	}

	c.Gate = 0
	tm := Resolve(c)
	n := int(tm.ReleaseMs*testSampleRate/1000) + 2
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Process(c)
	}

	if math.Abs(out[0]-0.8) > 1e-12 {
		t.Fatalf("release start = %v, want 0.8", out[0])
	}
	testutil.RequireNonIncreasing(t, out, 0)
	if out[n-1] != 0 {
		t.Fatalf("level after release = %v, want 0", out[n-1])
	}
}

func TestRetriggerMidReleaseIsLegato(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.2, 0, 0.3, 0.6, 0.8)
	c.Gate = 10
	for range 4800 {
		g.Process(c)
	}

	c.Gate = 0
	var last float64
	for range 2400 {
		last = g.Process(c)
	}
	if last <= 0.01 || last >= 0.6 {
		t.Fatalf("expected to be mid-release, level = %v", last)
	}

	c.Gate = 10
	first := g.Process(c)
	if math.Abs(first-last) > 1e-12 {
		t.Fatalf("retrigger jumped from %v to %v", last, first)
	}
	if g.State().GateStart != last {
		t.Fatalf("GateStart = %v, want %v", g.State().GateStart, last)
	}

	next := g.Process(c)
	if next <= first {
		t.Fatalf("attack did not rise after retrigger: %v -> %v", first, next)
	}
}

func TestTriggerRetriggersOnlyWithOpenGate(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.1, 0, 0.1, 0.4, 0.3)
	c.Gate = 10
	for range 4800 {
		g.Process(c)
	}
	if got := g.Output(); math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("expected sustain before trigger, got %v", got)
	}

	c.Trigger = 5
	g.Process(c)
	rising := g.Process(c)
	if rising <= 0.4 {
		t.Fatalf("trigger with open gate did not restart attack: %v", rising)
	}
	if st := g.Stage(c); st != StageAttack {
		t.Fatalf("Stage() = %v, want attack", st)
	}

	c.Trigger = 0
	c.Gate = 0
	for range 48000 {
		g.Process(c)
	}

	c.Trigger = 5
	if got := g.Process(c); got != 0 {
		t.Fatalf("trigger with closed gate produced %v", got)
	}
}

func TestGateScenario(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.5, 0, 0.5, 0.5, 0.5)
	tm := Resolve(c)

	openSamples := int(2 * testSampleRate)
	total := int(3 * testSampleRate)
	gate := testutil.Gate(total, 0, openSamples, 10)

	out := make([]float64, total)
	for i := range out {
		c.Gate = gate[i]
		out[i] = g.Process(c)
	}

	testutil.RequireInRange(t, out, 0, 1)

	peak := 0.0
	for _, v := range out[:int(testSampleRate)] {
		peak = math.Max(peak, v)
	}
	if peak < 0.999 {
		t.Fatalf("peak within the first second = %v, want ~1", peak)
	}

	if got := out[openSamples-1]; math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("level at gate close = %v, want sustain 0.5", got)
	}

	release := out[openSamples:]
	testutil.RequireNonIncreasing(t, release, 0)
	below := testutil.FirstBelow(release, 0.01)
	if below < 0 {
		t.Fatal("release never crossed below 0.01")
	}
	if limit := int(tm.ReleaseMs*testSampleRate/1000) + 1; below > limit {
		t.Fatalf("release crossed 0.01 after %d samples, want <= %d", below, limit)
	}
	if out[total-1] != 0 {
		t.Fatalf("final level = %v, want 0", out[total-1])
	}
}

func TestStageSequence(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.25, 0.25, 0.25, 0.5, 0.25)
	if st := g.Stage(c); st != StageIdle {
		t.Fatalf("initial Stage() = %v", st)
	}

	c.Gate = 10
	seen := map[Stage]bool{}
	for range 4800 {
		g.Process(c)
		seen[g.Stage(c)] = true
	}
	for _, st := range []Stage{StageAttack, StageHold, StageDecay} {
		if !seen[st] {
			t.Fatalf("stage %v never observed", st)
		}
	}

	c.Gate = 0
	g.Process(c)
	if st := g.Stage(c); st != StageRelease {
		t.Fatalf("Stage() after gate close = %v, want release", st)
	}
	for range 4800 {
		g.Process(c)
	}
	if st := g.Stage(c); st != StageIdle {
		t.Fatalf("Stage() after release = %v, want idle", st)
	}
}

func TestStageString(t *testing.T) {
	if StageDecay.String() != "decay" || Stage(42).String() != "unknown" {
		t.Fatal("unexpected Stage strings")
	}
}

func TestDegenerateInputsStayBounded(t *testing.T) {
	g := newGenerator(t)
	c := Controls{
		Attack:  core.CV{Value: math.NaN()},
		Hold:    core.CV{Value: math.Inf(1)},
		Decay:   core.CV{Value: -4},
		Sustain: core.CV{Value: 0, CV: math.NaN()},
		Release: core.CV{Value: 3},
		Gate:    math.NaN(),
	}

	for i := range 1000 {
		if i%100 == 0 {
			c.Gate = 10 - c.Gate
			if math.IsNaN(c.Gate) {
				c.Gate = 10
			}
		}
		dt := 1.0
		if i%7 == 0 {
			dt = math.NaN()
		}
		v := g.Step(c, dt)
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Fatalf("step %d: level %v", i, v)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.3, 0.1, 0.4, 0.5, 0.6)
	c.Gate = 10
	for range 3000 {
		g.Process(c)
	}

	clone := newGenerator(t)
	if err := clone.SetState(g.State()); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	for i := range 6000 {
		if i == 2000 {
			c.Gate = 0
		}
		if a, b := g.Process(c), clone.Process(c); a != b {
			t.Fatalf("sample %d: %v vs %v", i, a, b)
		}
	}
}

func TestSetStateRejectsInvalid(t *testing.T) {
	g := newGenerator(t)
	if err := g.SetState(State{ClockMs: math.NaN()}); err == nil {
		t.Fatal("expected error for NaN clock")
	}
	if err := g.SetState(State{ClockMs: -1}); err == nil {
		t.Fatal("expected error for negative clock")
	}
	if err := g.SetState(State{LastOutput: 2}); err == nil {
		t.Fatal("expected error for level > 1")
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0, 0, 0, 1, 0.5)
	c.Gate = 10
	g.Process(c)
	g.Reset()
	if g.State() != (State{}) {
		t.Fatalf("State() after Reset = %#v", g.State())
	}
}

func TestProcessDoesNotAllocate(t *testing.T) {
	g := newGenerator(t)
	c := knobs(0.3, 0.1, 0.4, 0.5, 0.6)
	c.Gate = 10
	allocs := testing.AllocsPerRun(1000, func() {
		g.Process(c)
	})
	if allocs != 0 {
		t.Fatalf("Process allocates %v times per call", allocs)
	}
}
