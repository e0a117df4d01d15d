package atmos

import (
	"errors"
	"math"
	"testing"

	"github.com/truearc/ballistics/core"
)

func TestICAOSeaLevel(t *testing.T) {
	m := ICAO(0)
	ratio, sound := m.AtAltitude(0)

	if math.Abs(ratio-1) > 1e-3 {
		t.Errorf("density ratio at sea level = %v, want ≈1", ratio)
	}
	if math.Abs(sound-340.3) > 0.2 {
		t.Errorf("speed of sound at sea level = %v m/s, want ≈340.3", sound)
	}
}

func TestICAODensityFallsWithAltitude(t *testing.T) {
	m := ICAO(0)
	prev, _ := m.AtAltitude(0)
	for _, h := range []float64{500, 1000, 3000, 8000, 15000} {
		ratio, sound := m.AtAltitude(h)
		if ratio <= 0 {
			t.Fatalf("density ratio at %v m = %v, want positive", h, ratio)
		}
		if ratio >= prev {
			t.Errorf("density ratio at %v m = %v, want below %v", h, ratio, prev)
		}
		if sound <= 0 {
			t.Fatalf("speed of sound at %v m = %v, want positive", h, sound)
		}
		prev = ratio
	}
}

func TestICAOKnownAltitudes(t *testing.T) {
	// Published standard-atmosphere density ratios.
	tests := []struct {
		altitude float64
		want     float64
	}{
		{1000, 0.907},
		{5000, 0.601},
		{11000, 0.297},
	}
	m := ICAO(0)
	for _, tt := range tests {
		ratio, _ := m.AtAltitude(tt.altitude)
		if math.Abs(ratio-tt.want) > 0.01 {
			t.Errorf("density ratio at %v m = %v, want ≈%v", tt.altitude, ratio, tt.want)
		}
	}
}

func TestICAOSiteAltitudeShiftsProfile(t *testing.T) {
	// Density 1000 m above a 1000 m site matches density at 2000 m MSL.
	site := ICAO(1000)
	sea := ICAO(0)

	gotRatio, gotSound := site.AtAltitude(1000)
	wantRatio, wantSound := sea.AtAltitude(2000)
	if math.Abs(gotRatio-wantRatio) > 1e-9 {
		t.Errorf("density ratio = %v, want %v", gotRatio, wantRatio)
	}
	if math.Abs(gotSound-wantSound) > 1e-9 {
		t.Errorf("speed of sound = %v, want %v", gotSound, wantSound)
	}
}

func TestStationConditions(t *testing.T) {
	// A hot, low-pressure day thins the air.
	m, err := Station(0, 308.15, 99000, 0)
	if err != nil {
		t.Fatalf("Station: %v", err)
	}
	ratio, sound := m.AtAltitude(0)
	if ratio >= 1 {
		t.Errorf("hot thin day density ratio = %v, want below 1", ratio)
	}
	// Speed of sound depends on temperature only.
	want := math.Sqrt(gamma * gasConstant * 308.15)
	if math.Abs(sound-want) > 1e-9 {
		t.Errorf("speed of sound = %v, want %v", sound, want)
	}
}

func TestHumidityReducesDensity(t *testing.T) {
	dry, err := Station(0, 293.15, 101325, 0)
	if err != nil {
		t.Fatalf("Station(dry): %v", err)
	}
	humid, err := Station(0, 293.15, 101325, 1)
	if err != nil {
		t.Fatalf("Station(humid): %v", err)
	}

	dryRatio, _ := dry.AtAltitude(0)
	humidRatio, _ := humid.AtAltitude(0)
	if humidRatio >= dryRatio {
		t.Errorf("humid air ratio %v >= dry %v; water vapor should thin the mix", humidRatio, dryRatio)
	}
	// The vapor correction is small, about half a percent at 20 °C.
	if dryRatio-humidRatio > 0.01 {
		t.Errorf("humidity correction %v too large", dryRatio-humidRatio)
	}
}

func TestStationRejectsBadInput(t *testing.T) {
	tests := []struct {
		name                            string
		temperature, pressure, humidity float64
	}{
		{"zero temperature", 0, 101325, 0},
		{"zero pressure", 288.15, 0, 0},
		{"negative humidity", 288.15, 101325, -0.1},
		{"humidity above one", 288.15, 101325, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Station(0, tt.temperature, tt.pressure, tt.humidity); !errors.Is(err, core.ErrInvalidConfiguration) {
				t.Errorf("err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}
