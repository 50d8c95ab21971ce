// Package envelope provides an attack/hold/decay/sustain/release envelope
// generator driven by a gate and an optional retrigger input.
//
// The generator keeps no explicit stage variable. The active segment is a
// pure function of the elapsed clock, the open-gate duration and the current
// controls, so moving a knob mid-note can never leave the generator in a
// stage that disagrees with its clock. [Generator.Stage] exposes the same
// classification for metering.
//
// Each segment is an exponential curve from [shape.Rise]/[shape.Fall] whose
// curvature grows with the segment's time knob: short segments are close to
// linear, long ones strongly exponential. A retrigger while the envelope is
// still sounding starts the new attack from the current level (legato).
package envelope
