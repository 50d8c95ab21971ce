// Package vcf implements a voltage-controlled resonant filter built on a
// single biquad section.
//
// Every sample the cutoff, resonance and drive controls are mapped to a
// normalized cutoff, a Q factor and an input gain, fresh biquad coefficients
// are designed and the Direct Form I recursion is applied. A tiny amount of
// dither on the input lets the filter ring up to self-oscillation at the top
// of the resonance range even with silent input.
package vcf
