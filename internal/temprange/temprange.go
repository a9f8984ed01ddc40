package temprange

import (
	"math"

	"github.com/dallonby/RotaryDial/internal/model"
)

// Canonical range and steps, in Celsius except where noted.
const (
	Min     = 10.0
	Max     = 35.0
	Default = 21.0
	StepC   = 0.5
	StepF   = 1.0 // display step after conversion to Fahrenheit

	// Tolerance is the comparison slop used everywhere a local and a
	// remote setpoint are checked for disagreement.
	Tolerance = 0.1
)

func CToF(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

func FToC(f float64) float64 {
	return (f - 32.0) * 5.0 / 9.0
}

func Clamp(v float64) float64 {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// ClampAndRound clamps v (Celsius) into range and rounds it to the display
// step for the given unit. For Fahrenheit the rounding happens on the
// converted value so the displayed number is a whole degree, then the
// result is converted back and re-clamped.
func ClampAndRound(v float64, unit model.Unit) float64 {
	v = Clamp(v)
	if unit == model.UnitFahrenheit {
		f := math.Round(CToF(v)/StepF) * StepF
		return Clamp(FToC(f))
	}
	return Clamp(math.Round(v/StepC) * StepC)
}

func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

// Display converts a canonical setpoint to the user-facing unit.
func Display(v float64, unit model.Unit) float64 {
	if unit == model.UnitFahrenheit {
		return CToF(v)
	}
	return v
}
