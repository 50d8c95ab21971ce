// Command modrender renders one note of the demo voice to a WAV file or
// plays it through the default audio device.
//
// Usage:
//
//	modrender [flags]
//
// Examples:
//
//	modrender -out pluck.wav
//	modrender -pitch -1 -cutoff 0.2 -res 0.9 -out bass.wav
//	modrender -wave 1 -attack 0.6 -release 0.7 -dur 4 -gate 2 -play
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/internal/patch"
)

type options struct {
	out        string
	play       bool
	sampleRate int
	duration   float64 // seconds
	gate       float64 // seconds the gate stays open

	pitch, wave, pulseWidth       float64
	attack, hold, decay, sustain  float64
	release                       float64
	cutoff, envAmount, res, drive float64
	level                         float64
}

func main() {
	var o options
	flag.StringVar(&o.out, "out", "note.wav", "output WAV path")
	flag.BoolVar(&o.play, "play", false, "play through the audio device instead of writing a file")
	flag.IntVar(&o.sampleRate, "sr", 48000, "sample rate in Hz")
	flag.Float64Var(&o.duration, "dur", 2, "total length in seconds")
	flag.Float64Var(&o.gate, "gate", 1, "gate length in seconds")
	flag.Float64Var(&o.pitch, "pitch", 0, "octaves relative to A4")
	flag.Float64Var(&o.wave, "wave", 0, "waveform mix, 0 saw ... 1 square")
	flag.Float64Var(&o.pulseWidth, "pw", 0.5, "square pulse width")
	flag.Float64Var(&o.attack, "attack", 0.2, "attack knob")
	flag.Float64Var(&o.hold, "hold", 0, "hold knob")
	flag.Float64Var(&o.decay, "decay", 0.5, "decay knob")
	flag.Float64Var(&o.sustain, "sustain", 0.6, "sustain level")
	flag.Float64Var(&o.release, "release", 0.5, "release knob")
	flag.Float64Var(&o.cutoff, "cutoff", 0.4, "filter cutoff knob")
	flag.Float64Var(&o.envAmount, "env", 0.4, "envelope to cutoff amount, -1 ... 1")
	flag.Float64Var(&o.res, "res", 0.5, "filter resonance knob")
	flag.Float64Var(&o.drive, "drive", 0.1, "filter drive knob")
	flag.Float64Var(&o.level, "level", 0.8, "output level")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders one note of the envelope, VCO, VCF and VCA voice.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modrender -out pluck.wav\n")
		fmt.Fprintf(os.Stderr, "  modrender -pitch -1 -cutoff 0.2 -res 0.9 -out bass.wav\n")
		fmt.Fprintf(os.Stderr, "  modrender -dur 4 -gate 2 -play\n")
	}
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.sampleRate <= 0 {
		return errors.New("-sr must be > 0")
	}
	if !(o.duration > 0) {
		return errors.New("-dur must be > 0")
	}

	voice, err := newVoice(o)
	if err != nil {
		return err
	}

	total := int(o.duration * float64(o.sampleRate))
	hold := int(o.gate * float64(o.sampleRate))
	n := newNote(voice, total, hold)

	if o.play {
		return play(n, o.sampleRate)
	}

	samples := make([]float64, total)
	n.render(samples)

	if err := writeWAV(o.out, samples, o.sampleRate); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d samples at %d Hz\n", o.out, total, o.sampleRate)
	return nil
}

func newVoice(o options) (*patch.Voice, error) {
	v, err := patch.NewVoice(core.WithSampleRate(float64(o.sampleRate)))
	if err != nil {
		return nil, err
	}

	k := v.Knobs
	k.Attack.Set(o.attack)
	k.Hold.Set(o.hold)
	k.Decay.Set(o.decay)
	k.Sustain.Set(o.sustain)
	k.Release.Set(o.release)
	k.Pitch.Set(o.pitch)
	k.Waveform.Set(o.wave)
	k.PulseWidth.Set(o.pulseWidth)
	k.Cutoff.Set(o.cutoff)
	k.EnvToCutoff.Set(o.envAmount)
	k.Resonance.Set(o.res)
	k.Drive.Set(o.drive)
	k.Level.Set(o.level)

	return v, nil
}
