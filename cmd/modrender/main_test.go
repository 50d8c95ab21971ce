package main

import (
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-modular/internal/patch"
	"github.com/go-audio/wav"
)

func testVoice(t *testing.T) *patch.Voice {
	t.Helper()

	v, err := patch.NewVoice()
	if err != nil {
		t.Fatalf("NewVoice: %v", err)
	}
	v.Knobs.Attack.Set(0)
	v.Knobs.Release.Set(0.2)
	return v
}

func TestToPCM(t *testing.T) {
	got := toPCM([]float64{0, 5, -5, 10, -10, 25, math.NaN()})
	want := []int{0, 16383, -16383, 32767, -32767, 32767, -32767}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNoteGateSchedule(t *testing.T) {
	const (
		total = 4800
		hold  = 1000
	)

	n := newNote(testVoice(t), total, hold)

	// Odd chunk sizes cross the gate boundary mid-chunk.
	out := make([]float64, 0, total)
	buf := make([]float64, 333)
	for {
		got := n.render(buf)
		if got == 0 {
			break
		}
		out = append(out, buf[:got]...)
	}

	if len(out) != total {
		t.Fatalf("rendered %d samples, want %d", len(out), total)
	}

	if n.render(buf) != 0 {
		t.Fatal("render after the end must return 0")
	}

	if env := n.voice.Envelope(); env > 0.01 {
		t.Fatalf("envelope after release: got %f, want ~0", env)
	}
}

func TestNoteRead(t *testing.T) {
	const total = 2400

	n := newNote(testVoice(t), total, total/2)

	data, err := io.ReadAll(n)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(data) != total*4 {
		t.Fatalf("got %d bytes, want %d", len(data), total*4)
	}

	var peak float64
	for i := 0; i < len(data); i += 4 {
		v := float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
		if math.IsNaN(v) || v < -1 || v > 1 {
			t.Fatalf("sample %d out of range: %f", i/4, v)
		}
		peak = max(peak, math.Abs(v))
	}

	if peak < 0.01 {
		t.Fatalf("stream is silent, peak %f", peak)
	}
}

func TestWriteWAV(t *testing.T) {
	const sampleRate = 48000

	samples := make([]float64, 4800)
	n := newNote(testVoice(t), len(samples), len(samples)/2)
	n.render(samples)

	path := filepath.Join(t.TempDir(), "note.wav")
	if err := writeWAV(path, samples, sampleRate); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if buf.Format.SampleRate != sampleRate || buf.Format.NumChannels != 1 {
		t.Fatalf("format: got %+v", buf.Format)
	}

	if len(buf.Data) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(buf.Data), len(samples))
	}

	want := toPCM(samples)
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, buf.Data[i], want[i])
		}
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	if err := run(options{sampleRate: 0, duration: 1}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if err := run(options{sampleRate: 48000, duration: 0}); err == nil {
		t.Fatal("expected error for zero duration")
	}
}
