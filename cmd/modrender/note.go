package main

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cwbudde/algo-modular/internal/patch"
)

// note drives a voice for a fixed number of samples, opening the gate at
// the first sample and closing it after hold samples.
type note struct {
	voice *patch.Voice
	pos   int
	hold  int
	total int

	scratch []float64
}

func newNote(v *patch.Voice, total, hold int) *note {
	v.Reset()
	if hold > 0 {
		v.Gate(true)
	}

	return &note{
		voice: v,
		hold:  max(hold, 0),
		total: max(total, 0),
	}
}

// render fills dst with the next samples and returns how many were written.
// It returns 0 once the note is finished.
func (n *note) render(dst []float64) int {
	written := 0
	for written < len(dst) && n.pos < n.total {
		end := min(n.total, n.pos+len(dst)-written)
		if n.pos < n.hold {
			end = min(end, n.hold)
		}

		chunk := dst[written : written+end-n.pos]
		n.voice.Render(chunk)
		written += len(chunk)
		n.pos = end

		if n.pos == n.hold {
			n.voice.Gate(false)
		}
	}
	return written
}

// Read implements io.Reader, producing mono float32 little-endian samples
// scaled so that the audio level maps to full scale.
func (n *note) Read(p []byte) (int, error) {
	const bytesPerSample = 4

	frames := len(p) / bytesPerSample
	if frames == 0 {
		return 0, nil
	}

	if cap(n.scratch) < frames {
		n.scratch = make([]float64, frames)
	}
	buf := n.scratch[:frames]

	got := n.render(buf)
	if got == 0 {
		return 0, io.EOF
	}

	for i, v := range buf[:got] {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(float32(normalize(v))))
	}
	return got * bytesPerSample, nil
}
