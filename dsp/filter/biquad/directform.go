package biquad

// DirectFormI holds the input and output history of a biquad evaluated as
//
//	y = B0*x + B1*x1 + B2*x2 - A1*y1 - A2*y2
//
// Coefficients are passed on every call, so a modulated filter can redesign
// them each sample without disturbing the history.
type DirectFormI struct {
	x1, x2 float64
	y1, y2 float64
}

// Process filters one sample with c and shifts the history.
func (d *DirectFormI) Process(c Coefficients, x float64) float64 {
	y := c.B0*x + c.B1*d.x1 + c.B2*d.x2 - c.A1*d.y1 - c.A2*d.y2

	d.x2 = d.x1
	d.x1 = x
	d.y2 = d.y1
	d.y1 = y

	return y
}

// Reset clears the history.
func (d *DirectFormI) Reset() {
	*d = DirectFormI{}
}

// State returns the history as [x1, x2, y1, y2].
func (d *DirectFormI) State() [4]float64 {
	return [4]float64{d.x1, d.x2, d.y1, d.y2}
}

// SetState restores history saved with State.
func (d *DirectFormI) SetState(st [4]float64) {
	d.x1, d.x2, d.y1, d.y2 = st[0], st[1], st[2], st[3]
}
