// Command modinfo prints the control laws of the synthesis kernels.
//
// Usage:
//
//	modinfo [flags] [table ...]
//
// Without arguments it prints every table.
//
// Examples:
//
//	modinfo envelope
//	modinfo -steps 21 vcf
//	modinfo -sr 44100 vcf response
//	modinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-modular/dsp/core"
	"github.com/cwbudde/algo-modular/dsp/shape"
	"github.com/cwbudde/algo-modular/dsp/vca"
	"github.com/cwbudde/algo-modular/dsp/vcf"
	"github.com/cwbudde/algo-modular/dsp/vco"
)

type table struct {
	name  string
	about string
	print func(tw io.Writer, steps int, sampleRate float64) error
}

var registry = []table{
	{"envelope", "stage durations and curve bases per knob position", printEnvelope},
	{"vco", "pitch in volts to frequency", printVCO},
	{"vcf", "cutoff, Q and drive per knob position", printVCF},
	{"response", "lowpass magnitude and phase at cutoff 0.5 per resonance", printResponse},
	{"vca", "linear and exponential CV gain", printVCA},
}

func main() {
	steps := flag.Int("steps", 11, "rows per table (knob positions from 0 to 1)")
	sampleRate := flag.Float64("sr", 48000, "sample rate in Hz for normalized cutoff")
	list := flag.Bool("list", false, "list available tables")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modinfo [flags] [table ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the control laws of the envelope, VCO, VCF and VCA.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints every table.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modinfo envelope\n")
		fmt.Fprintf(os.Stderr, "  modinfo -steps 21 vcf\n")
		fmt.Fprintf(os.Stderr, "  modinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList(os.Stdout)
		return
	}

	if *steps < 2 {
		fmt.Fprintf(os.Stderr, "error: -steps must be >= 2\n")
		os.Exit(1)
	}

	if !(*sampleRate > 0) {
		fmt.Fprintf(os.Stderr, "error: -sr must be > 0\n")
		os.Exit(1)
	}

	tables := resolveTables(os.Stderr, flag.Args())
	if len(tables) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching tables\n")
		os.Exit(1)
	}

	if err := printTables(os.Stdout, tables, *steps, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList(w io.Writer) {
	names := make([]string, len(registry))
	for i, t := range registry {
		names[i] = fmt.Sprintf("%-10s %s", t.name, t.about)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}

func resolveTables(warn io.Writer, names []string) []table {
	if len(names) == 0 {
		return registry
	}

	byName := make(map[string]table, len(registry))
	for _, t := range registry {
		byName[t.name] = t
	}

	var result []table
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		t, ok := byName[name]
		if !ok {
			fmt.Fprintf(warn, "warning: unknown table %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, t)
	}
	return result
}

func printTables(w io.Writer, tables []table, steps int, sampleRate float64) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, "# %s: %s\n", t.name, t.about); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if err := t.print(tw, steps, sampleRate); err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("%s: flush: %w", t.name, err)
		}
	}
	return nil
}

func knob(i, steps int) float64 {
	return float64(i) / float64(steps-1)
}

func printEnvelope(tw io.Writer, steps int, _ float64) error {
	if _, err := fmt.Fprintf(tw, "Knob\tA/D/R [ms]\tHold [ms]\tCurve base\tRise(0.5)\n"); err != nil {
		return err
	}

	for i := range steps {
		p := knob(i, steps)
		base := shape.Base(p)
		if _, err := fmt.Fprintf(tw, "%.2f\t%.2f\t%.2f\t%.2f\t%.4f\n",
			p, shape.DurationMs(p), shape.HoldMs(p), base, shape.Rise(0.5, base)); err != nil {
			return err
		}
	}
	return nil
}

func printVCO(tw io.Writer, steps int, sampleRate float64) error {
	osc, err := vco.New(sampleRate)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(tw, "Pitch [V]\tFrequency [Hz]\tPhase step\n"); err != nil {
		return err
	}

	for i := range steps {
		volts := -4 + 8*knob(i, steps)
		hz := osc.FrequencyHz(vco.Controls{Pitch: volts})
		if _, err := fmt.Fprintf(tw, "%+.2f\t%.2f\t%.6f\n", volts, hz, hz/sampleRate); err != nil {
			return err
		}
	}
	return nil
}

func printVCF(tw io.Writer, steps int, sampleRate float64) error {
	if _, err := fmt.Fprintf(tw, "Knob\tCutoff [Hz]\tNormalized\tQ\tDrive gain\n"); err != nil {
		return err
	}

	for i := range steps {
		p := knob(i, steps)
		if _, err := fmt.Fprintf(tw, "%.2f\t%.1f\t%.5f\t%.2f\t%.3f\n",
			p, vcf.CutoffHz(p), vcf.NormalizedCutoff(p, sampleRate), vcf.QFactor(p), vcf.DriveGain(p)); err != nil {
			return err
		}
	}
	return nil
}

const (
	responseCutoff  = 0.5
	responseLowHz   = 20.0
	responseHighHz  = 20000.0
	responsePhaseAt = 0.5
)

var responseResonances = []float64{0, 0.5, 0.9, 1}

func printResponse(tw io.Writer, steps int, sampleRate float64) error {
	if _, err := fmt.Fprintf(tw, "Freq [Hz]\tr=0 [dB]\tr=0.5 [dB]\tr=0.9 [dB]\tr=1 [dB]\tPhase r=0.5 [deg]\n"); err != nil {
		return err
	}

	high := math.Min(responseHighHz, 0.45*sampleRate)
	for i := range steps {
		hz := responseLowHz * math.Pow(high/responseLowHz, knob(i, steps))
		if _, err := fmt.Fprintf(tw, "%.1f", hz); err != nil {
			return err
		}

		for _, r := range responseResonances {
			c := vcf.Design(vcf.Controls{
				Cutoff:    core.AttenuatedCV{Value: responseCutoff},
				Resonance: core.CV{Value: r},
			}, sampleRate)
			if _, err := fmt.Fprintf(tw, "\t%.2f", c.MagnitudeDB(hz, sampleRate)); err != nil {
				return err
			}
		}

		c := vcf.Design(vcf.Controls{
			Cutoff:    core.AttenuatedCV{Value: responseCutoff},
			Resonance: core.CV{Value: responsePhaseAt},
		}, sampleRate)
		if _, err := fmt.Fprintf(tw, "\t%.1f\n", c.Phase(hz, sampleRate)*180/math.Pi); err != nil {
			return err
		}
	}
	return nil
}

func printVCA(tw io.Writer, steps int, _ float64) error {
	amp, err := vca.New()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(tw, "CV [V]\tLinear gain\tExp gain\n"); err != nil {
		return err
	}

	for i := range steps {
		volts := -10 + 20*knob(i, steps)
		if _, err := fmt.Fprintf(tw, "%+.1f\t%.3f\t%.4f\n", volts, vca.LinearGain(volts), amp.ExpGain(volts)); err != nil {
			return err
		}
	}
	return nil
}
