package vco_test

import (
	"fmt"

	"github.com/cwbudde/algo-modular/dsp/vco"
)

func ExampleOscillator_Step() {
	// One cycle per second sampled eight times.
	osc, err := vco.New(8, vco.WithReferenceHz(1))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Print("saw:")
	for range 8 {
		w := osc.Process(vco.Controls{}, vco.OutputSaw|vco.OutputTriangle)
		fmt.Printf(" %.2f", w.Saw)
	}
	fmt.Println()

	osc.Reset()
	fmt.Print("tri:")
	for range 8 {
		w := osc.Process(vco.Controls{}, vco.OutputTriangle)
		fmt.Printf(" %.2f", w.Triangle)
	}
	fmt.Println()
	// Output:
	// saw: 1.25 2.50 3.75 -5.00 -3.75 -2.50 -1.25 0.00
	// tri: 2.50 5.00 2.50 0.00 -2.50 -5.00 -2.50 0.00
}
