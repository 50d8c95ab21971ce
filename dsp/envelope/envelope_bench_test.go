package envelope

import (
	"testing"

	"github.com/cwbudde/algo-modular/dsp/core"
)

func BenchmarkProcess(b *testing.B) {
	g, err := New(48000)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	c := Controls{
		Attack:  core.CV{Value: 0.4},
		Decay:   core.CV{Value: 0.5},
		Sustain: core.CV{Value: 0.6},
		Release: core.CV{Value: 0.5},
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := range b.N {
		if i%48000 == 0 {
			c.Gate = 10 - c.Gate
		}
		g.Process(c)
	}
}
