// Package vco provides a voltage-controlled oscillator with sine, triangle,
// saw and pulse outputs and hard or soft sync.
//
// Pitch follows the 1 V/octave convention around A4 (440 Hz). The phase is
// kept in [-0.5, 0.5). A rising edge on the sync input either resets the
// phase (hard sync) or reverses its direction of travel (soft sync).
//
// The waveforms are computed naively from the phase and are not band-limited:
// harmonics above Nyquist fold back as aliases. This is a known limitation;
// the package tests measure it rather than hide it.
package vco
