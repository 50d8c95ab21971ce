package biquad

import (
	"math"
	"testing"
)

func TestDirectFormIMatchesSection(t *testing.T) {
	c := Design(Lowpass, 0.05, 4)
	s := NewSection(c)

	var d DirectFormI
	for i := range 2000 {
		x := math.Sin(0.03*float64(i)) + 0.1*math.Cos(0.7*float64(i))
		if got, want := d.Process(c, x), s.ProcessSample(x); !almostEqual(got, want, 1e-9) {
			t.Fatalf("sample %d: DF-I=%v, DF-IIT=%v", i, got, want)
		}
	}
}

func TestDirectFormIHistory(t *testing.T) {
	var d DirectFormI
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 0.5, A2: 0.25}

	// y0 = 1
	// y1 = 0 + 2*1 - 0.5*1 = 1.5
	// y2 = 0 + 0 + 3*1 - 0.5*1.5 - 0.25*1 = 2
	want := []float64{1, 1.5, 2}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if got := d.Process(c, x); !almostEqual(got, w, eps) {
			t.Fatalf("sample %d: got %v, want %v", i, got, w)
		}
	}

	if st := d.State(); st != [4]float64{0, 0, 2, 1.5} {
		t.Fatalf("State() = %v", st)
	}

	var e DirectFormI
	e.SetState(d.State())
	if a, b := d.Process(c, 0.5), e.Process(c, 0.5); a != b {
		t.Fatalf("restored history diverged: %v vs %v", a, b)
	}

	d.Reset()
	if d.State() != [4]float64{} {
		t.Fatalf("state after Reset = %v", d.State())
	}
}

// Switching coefficients mid-stream keeps the history, so a sweep does not
// click back to zero.
func TestDirectFormICoefficientSweep(t *testing.T) {
	var d DirectFormI

	for i := range 48000 {
		fc := 0.001 + 0.4*float64(i)/48000
		c := Design(Lowpass, fc, 0.7071)
		y := d.Process(c, 1)

		if math.IsNaN(y) || math.Abs(y) > 2 {
			t.Fatalf("sample %d: unbounded output %v during sweep", i, y)
		}
	}
}
