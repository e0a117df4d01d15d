package unit

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	if got := Yards(100).Metres(); math.Abs(got-91.44) > 1e-12 {
		t.Errorf("100 yd = %v m, want 91.44", got)
	}
	if got := Inches(1).Centimetres(); math.Abs(got-2.54) > 1e-12 {
		t.Errorf("1 in = %v cm, want 2.54", got)
	}
	if got := Kilometres(1.5).Metres(); got != 1500 {
		t.Errorf("1.5 km = %v m, want 1500", got)
	}
	if got := Feet(3).Yards(); math.Abs(got-1) > 1e-12 {
		t.Errorf("3 ft = %v yd, want 1", got)
	}
}

func TestVelocity(t *testing.T) {
	if got := FeetPerSecond(2800).MetresPerSecond(); math.Abs(got-853.44) > 1e-9 {
		t.Errorf("2800 ft/s = %v m/s, want 853.44", got)
	}
	if got := KilometresPerHour(36).MetresPerSecond(); math.Abs(got-10) > 1e-12 {
		t.Errorf("36 km/h = %v m/s, want 10", got)
	}
	if got := MilesPerHour(60).MetresPerSecond(); math.Abs(got-26.8224) > 1e-9 {
		t.Errorf("60 mph = %v m/s, want 26.8224", got)
	}
}

func TestMass(t *testing.T) {
	if got := Grains(7000).Pounds(); math.Abs(got-1) > 1e-12 {
		t.Errorf("7000 gr = %v lb, want 1", got)
	}
	if got := Grains(175).Grams(); math.Abs(got-11.33981) > 1e-4 {
		t.Errorf("175 gr = %v g, want ≈11.33981", got)
	}
}

func TestAngle(t *testing.T) {
	if got := Degrees(180).Radians(); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("180° = %v rad, want π", got)
	}
	if got := MOA(60).Degrees(); math.Abs(got-1) > 1e-12 {
		t.Errorf("60 MOA = %v°, want 1", got)
	}
	if got := Milliradians(1000).Radians(); got != 1 {
		t.Errorf("1000 mil = %v rad, want 1", got)
	}
}

func TestTemperature(t *testing.T) {
	if got := Celsius(0).Kelvin(); got != 273.15 {
		t.Errorf("0 °C = %v K, want 273.15", got)
	}
	if got := Fahrenheit(32).Celsius(); math.Abs(got) > 1e-12 {
		t.Errorf("32 °F = %v °C, want 0", got)
	}
	if got := Fahrenheit(59).Kelvin(); math.Abs(got-288.15) > 1e-12 {
		t.Errorf("59 °F = %v K, want 288.15", got)
	}
}

func TestPressure(t *testing.T) {
	if got := InchesOfMercury(29.92).HectoPascals(); math.Abs(got-1013.21) > 0.01 {
		t.Errorf("29.92 inHg = %v hPa, want ≈1013.21", got)
	}
	if got := MillimetresOfMercury(760).Pascals(); math.Abs(got-101325) > 0.5 {
		t.Errorf("760 mmHg = %v Pa, want ≈101325", got)
	}
}

func TestEnergy(t *testing.T) {
	if got := FootPounds(1000).Joules(); math.Abs(got-1355.818) > 1e-3 {
		t.Errorf("1000 ft·lb = %v J, want ≈1355.818", got)
	}
}

func TestRoundTrips(t *testing.T) {
	// Converting out and back in must be lossless to rounding.
	if got := Yards(Metres(123.4).Yards()).Metres(); math.Abs(got-123.4) > 1e-12 {
		t.Errorf("distance round trip lost precision: %v", got)
	}
	if got := Grains(Kilograms(0.0113).Grains()).Kilograms(); math.Abs(got-0.0113) > 1e-15 {
		t.Errorf("mass round trip lost precision: %v", got)
	}
	if got := MOA(Radians(0.00123).MOA()).Radians(); math.Abs(got-0.00123) > 1e-15 {
		t.Errorf("angle round trip lost precision: %v", got)
	}
}
