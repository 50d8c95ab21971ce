package core

// Voltage conventions shared by every kernel. Hosts mixing these kernels with
// other modules rely on them, so they are fixed.
const (
	// AudioVolts is the nominal peak of an audio signal (±5 V).
	AudioVolts = 5.0
	// CVRangeVolts is the span of a unipolar control or gate signal (0–10 V).
	// A full-scale CV moves a normalized parameter by 1.
	CVRangeVolts = 10.0
	// GateThresholdVolts is the level above which a gate counts as open.
	GateThresholdVolts = 1.0
	// RailVolts bounds every audio output. Resonance and drive may push a
	// signal past AudioVolts; nothing leaves a kernel beyond ±RailVolts.
	RailVolts = 12.0
)

// ClampRail sanitizes x and limits it to [-RailVolts, RailVolts].
func ClampRail(x float64) float64 {
	if !IsFinite(x) {
		return 0
	}

	return Clamp(x, -RailVolts, RailVolts)
}

// CV is a normalized knob value with an optional control-voltage offset.
// An unpatched input is simply a zero CV.
type CV struct {
	Value float64 // knob position in [0, 1]
	CV    float64 // volts, 10 V spans the full knob range
}

// Normalized returns clamp(Value + CV/10, 0, 1).
func (c CV) Normalized() float64 {
	return Clamp01(c.Value + c.CV/CVRangeVolts)
}

// AttenuatedCV is a knob with an attenuverter in front of its CV input.
type AttenuatedCV struct {
	Value  float64 // knob position in [0, 1]
	Amount float64 // attenuverter in [-1, 1]
	CV     float64 // volts
}

// Normalized returns clamp(Value + Amount*CV/10, 0, 1).
func (c AttenuatedCV) Normalized() float64 {
	amount := Clamp(c.Amount, -1, 1)
	return Clamp01(c.Value + amount*c.CV/CVRangeVolts)
}
