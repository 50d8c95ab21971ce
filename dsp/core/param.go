package core

import (
	"math"
	"sync/atomic"
)

// Param is a lock-free float64 control value.
//
// A UI goroutine calls Set while the audio goroutine calls Get once per
// sample. Each Get is an independent snapshot; two Gets within one sample may
// observe different values, but a single value is never torn.
type Param struct {
	bits     atomic.Uint64
	min, max float64
}

// NewParam returns a Param limited to [min, max] and set to def.
func NewParam(min, max, def float64) *Param {
	if min > max {
		min, max = max, min
	}

	p := &Param{min: min, max: max}
	p.Set(def)

	return p
}

// Get returns the current value.
func (p *Param) Get() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Set stores v clamped to the parameter range. NaN is stored as min.
func (p *Param) Set(v float64) {
	p.bits.Store(math.Float64bits(Clamp(v, p.min, p.max)))
}

// Range returns the parameter bounds.
func (p *Param) Range() (min, max float64) {
	return p.min, p.max
}
