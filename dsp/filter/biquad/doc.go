// Package biquad provides second-order IIR filter primitives.
//
// [Design] maps a filter [Type], a normalized cutoff and a Q factor to
// [Coefficients]. Two runtimes share those coefficients: [DirectFormI] keeps
// input and output history and accepts new coefficients on every sample,
// which suits modulated filters; [Section] is a Direct Form II Transposed
// section for fixed coefficients and block processing.
package biquad
