package vca

import (
	"fmt"
	"testing"
)

func BenchmarkStep(b *testing.B) {
	a, err := New()
	if err != nil {
		b.Fatal(err)
	}

	c := Controls{Gain: 0.8, LinearConnected: true, ExpConnected: true}

	b.ReportAllocs()

	for i := range b.N {
		c.Linear = float64(i&15) - 5
		c.Exp = float64(i & 7)
		c.Input = 1
		a.Step(c)
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	for _, size := range []int{64, 256, 1024} {
		b.Run(fmt.Sprintf("N=%d", size), func(b *testing.B) {
			a, err := New()
			if err != nil {
				b.Fatal(err)
			}

			in := make([]float64, size)
			cv := make([]float64, size)
			dst := make([]float64, size)
			for i := range in {
				in[i] = float64(i%32) - 16
				cv[i] = float64(i%10) + 0.5
			}

			b.SetBytes(int64(size * 8))
			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				a.ProcessBlock(dst, in, cv, cv, 0.9)
			}
		})
	}
}
