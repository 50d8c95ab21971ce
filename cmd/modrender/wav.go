package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth      = 16
	fullScale     = 1<<(bitDepth-1) - 1
	fullScaleVolt = 2 * core.AudioVolts
)

// normalize maps volts onto [-1, 1], with ±10 V as full scale.
func normalize(volts float64) float64 {
	return core.Clamp(volts/fullScaleVolt, -1, 1)
}

// toPCM converts volts to 16-bit integer samples.
func toPCM(samples []float64) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(normalize(v) * fullScale)
	}
	return out
}

// writeWAV writes samples as a mono 16-bit PCM WAV file.
func writeWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           toPCM(samples),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}
