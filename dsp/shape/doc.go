// Package shape holds the exponential mappings shared by the modular kernels.
//
// Normalized knob positions p ∈ [0, 1] become physical quantities through
// scale·base^p laws ([ExpScale], [DurationMs], [HoldMs]), and the curvature of
// envelope segments comes from [Base] together with the normalized curves
// [Rise] and [Fall]. Every function returns a finite value for any input:
// out-of-domain parameters fall back to safe defaults instead of producing
// NaN or Inf.
//
// Building with the fastmath tag swaps the exponential backend for the
// algo-approx approximations.
package shape
