// Package atmos models the air column a trajectory flies through. It
// supplies the density ratio and speed of sound that the integration
// engine folds into drag, either from the ICAO standard atmosphere or
// from conditions measured at the firing site.
package atmos

import (
	"fmt"
	"math"

	"github.com/truearc/ballistics/core"
)

// ICAO standard sea-level reference conditions.
const (
	SeaLevelTemperature = 288.15  // K
	SeaLevelPressure    = 101325. // Pa
	SeaLevelDensity     = 1.2250  // kg/m³
)

const (
	lapseRate   = 0.0065  // K/m through the troposphere
	tropopause  = 11000.0 // m above MSL
	gasConstant = 287.058 // J/(kg·K), dry air
	vaporGas    = 461.495 // J/(kg·K), water vapor
	gamma       = 1.4
	gravity     = 9.80665
)

// Model evaluates air conditions as a function of height above the firing
// position. It satisfies core.Atmosphere and is immutable after
// construction, so one Model may serve any number of concurrent runs.
type Model struct {
	siteAltitude    float64 // m above MSL
	baseTemperature float64 // K at the site
	basePressure    float64 // Pa at the site
	humidity        float64 // relative, 0..1
}

// ICAO builds the standard atmosphere for a firing site at the given
// altitude above mean sea level. Pass 0 for sea-level conditions.
func ICAO(siteAltitude float64) *Model {
	t, p := standardConditions(siteAltitude)
	return &Model{
		siteAltitude:    siteAltitude,
		baseTemperature: t,
		basePressure:    p,
	}
}

// Station builds an atmosphere from conditions measured at the firing
// site: temperature in K, station pressure in Pa and relative humidity in
// [0, 1]. Above the site the profile follows the standard lapse rate.
func Station(siteAltitude, temperature, pressure, humidity float64) (*Model, error) {
	if !(temperature > 0) {
		return nil, fmt.Errorf("%w: temperature %v K must be positive", core.ErrInvalidConfiguration, temperature)
	}
	if !(pressure > 0) {
		return nil, fmt.Errorf("%w: pressure %v Pa must be positive", core.ErrInvalidConfiguration, pressure)
	}
	if humidity < 0 || humidity > 1 {
		return nil, fmt.Errorf("%w: humidity %v must be within [0, 1]", core.ErrInvalidConfiguration, humidity)
	}
	return &Model{
		siteAltitude:    siteAltitude,
		baseTemperature: temperature,
		basePressure:    pressure,
		humidity:        humidity,
	}, nil
}

// AtAltitude returns the density ratio against the sea-level standard and
// the local speed of sound for a height above the firing position.
func (m *Model) AtAltitude(height float64) (densityRatio, speedOfSound float64) {
	t, p := m.conditionsAt(height)
	density := airDensity(t, p, m.humidity)
	return density / SeaLevelDensity, math.Sqrt(gamma * gasConstant * t)
}

// conditionsAt propagates the site's base conditions up (or down) to the
// requested height with the standard lapse rate, switching to the
// isothermal stratosphere above the tropopause.
func (m *Model) conditionsAt(height float64) (temperature, pressure float64) {
	alt := m.siteAltitude + height
	t, p := m.baseTemperature, m.basePressure

	if m.siteAltitude < tropopause {
		segment := math.Min(alt, tropopause) - m.siteAltitude
		tNext := t - lapseRate*segment
		p *= math.Pow(tNext/t, gravity/(lapseRate*gasConstant))
		t = tNext
	}
	if alt > tropopause {
		base := math.Max(m.siteAltitude, tropopause)
		p *= math.Exp(-gravity * (alt - base) / (gasConstant * t))
	}
	return t, p
}

// airDensity applies the ideal gas law, splitting the pressure into dry
// and vapor parts when humidity is present.
func airDensity(temperature, pressure, humidity float64) float64 {
	if humidity <= 0 {
		return pressure / (gasConstant * temperature)
	}
	vapor := humidity * saturationVaporPressure(temperature)
	if vapor > pressure {
		vapor = pressure
	}
	return (pressure-vapor)/(gasConstant*temperature) + vapor/(vaporGas*temperature)
}

// saturationVaporPressure is the Magnus approximation over water, valid
// for the temperatures ballistics cares about.
func saturationVaporPressure(temperature float64) float64 {
	celsius := temperature - 273.15
	return 610.94 * math.Exp(17.625*celsius/(243.04+celsius))
}

// standardConditions evaluates the ICAO profile at an altitude above MSL.
func standardConditions(altitude float64) (temperature, pressure float64) {
	m := Model{
		baseTemperature: SeaLevelTemperature,
		basePressure:    SeaLevelPressure,
	}
	return m.conditionsAt(altitude)
}
