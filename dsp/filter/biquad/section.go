package biquad

import "github.com/cwbudde/algo-modular/dsp/core"

// Section is a fixed-coefficient biquad in transposed Direct Form II:
//
//	y  = B0*x + z1
//	z1 = B1*x - A1*y + z2
//	z2 = B2*x - A2*y
//
// It suits block processing where the coefficients change rarely, such as
// DC blockers and tone controls. For per-sample modulation use DirectFormI.
type Section struct {
	Coefficients

	z1, z2 float64
}

// NewSection returns a Section with the given coefficients and cleared history.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients replaces the coefficients and keeps the history.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.z1
	s.z1 = s.B1*x - s.A1*y + s.z2
	s.z2 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place. Denormal history is flushed to zero at
// the end of the block so long silent tails do not slow the loop down.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	z1, z2 := s.z1, s.z2

	for i, x := range buf {
		y := c.B0*x + z1
		z1 = c.B1*x - c.A1*y + z2
		z2 = c.B2*x - c.A2*y
		buf[i] = y
	}

	s.z1 = core.FlushDenormals(z1)
	s.z2 = core.FlushDenormals(z2)
}

// ProcessBlockTo filters src into dst, which must be at least as long.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	n := copy(dst, src)
	s.ProcessBlock(dst[:n])
}

// Reset clears the history.
func (s *Section) Reset() {
	s.z1, s.z2 = 0, 0
}

// State returns the two history registers.
func (s *Section) State() [2]float64 {
	return [2]float64{s.z1, s.z2}
}

// SetState restores history saved with State.
func (s *Section) SetState(state [2]float64) {
	s.z1, s.z2 = state[0], state[1]
}
