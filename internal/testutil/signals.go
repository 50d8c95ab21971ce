package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Gate generates a gate signal: volts for samples [on, off), 0 elsewhere.
func Gate(length, on, off int, volts float64) []float64 {
	out := make([]float64, length)
	for i := max(on, 0); i < off && i < length; i++ {
		out[i] = volts
	}
	return out
}

// PulseTrain generates pulses of width samples every period samples,
// starting at sample offset.
func PulseTrain(length, offset, period, width int, volts float64) []float64 {
	out := make([]float64, length)
	if period <= 0 || width <= 0 {
		return out
	}
	for start := offset; start < length; start += period {
		for i := start; i < start+width && i < length; i++ {
			if i >= 0 {
				out[i] = volts
			}
		}
	}
	return out
}
