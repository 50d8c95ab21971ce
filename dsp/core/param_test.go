package core

import (
	"sync"
	"testing"
)

func TestParamClamps(t *testing.T) {
	p := NewParam(0, 1, 0.5)
	if got := p.Get(); got != 0.5 {
		t.Fatalf("Get() = %v, want 0.5", got)
	}

	p.Set(2)
	if got := p.Get(); got != 1 {
		t.Fatalf("Get() after Set(2) = %v, want 1", got)
	}

	lo, hi := NewParam(4, -4, 0).Range()
	if lo != -4 || hi != 4 {
		t.Fatalf("Range() = %v, %v, want -4, 4", lo, hi)
	}
}

func TestParamConcurrentAccess(t *testing.T) {
	p := NewParam(0, 1, 0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 10000 {
			p.Set(float64(i%2) * 0.75)
		}
	}()

	for range 10000 {
		v := p.Get()
		if v != 0 && v != 0.75 {
			t.Fatalf("torn read: %v", v)
		}
	}

	wg.Wait()
}
