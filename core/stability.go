package core

import (
	"fmt"
	"math"

	"github.com/truearc/ballistics/model"
)

// MillerStability computes the gyroscopic stability factor SG for a
// projectile fired from a barrel with the given twist (m per turn) at the
// given muzzle velocity (m/s). The Miller rule works in imperial units
// internally: mass in grains, diameter in inches, twist and length in
// calibers. SG above 1 means stable; above 1.4 is the usual design margin.
func MillerStability(p model.Projectile, twist, muzzleVelocity float64) (float64, error) {
	switch {
	case twist == 0:
		return 0, fmt.Errorf("%w: twist must be non-zero for stability", ErrInvalidConfiguration)
	case !(p.Mass > 0):
		return 0, fmt.Errorf("%w: projectile mass %v must be positive", ErrInvalidConfiguration, p.Mass)
	case !(p.Diameter > 0):
		return 0, fmt.Errorf("%w: projectile diameter %v must be positive", ErrInvalidConfiguration, p.Diameter)
	case !(p.Length > 0):
		return 0, fmt.Errorf("%w: projectile length %v must be positive", ErrInvalidConfiguration, p.Length)
	}

	massGrains := p.Mass / poundToKilogram * grainsPerPound
	diameterIn := p.Diameter * inchesPerMetre
	twistCal := math.Abs(twist) / p.Diameter
	lengthCal := p.Length / p.Diameter

	sg := 30 * massGrains /
		(twistCal * twistCal * diameterIn * diameterIn * diameterIn * lengthCal * (1 + lengthCal*lengthCal))

	// Miller's velocity correction, referenced to 2800 ft/s.
	fps := muzzleVelocity / metresPerFoot
	sg *= math.Cbrt(fps / 2800)
	return sg, nil
}

// StabilityCorrection rescales an SG computed at standard conditions to
// the given air temperature (K) and pressure (Pa). Warmer, thinner air
// raises stability.
func StabilityCorrection(sg, temperature, pressure float64) float64 {
	fahrenheit := (temperature-273.15)*9/5 + 32
	inHg := pressure / 3386.389
	return sg * ((fahrenheit + 460) / (59 + 460)) * (29.92 / inHg)
}

// spinDrift is the Litz approximation for lateral drift (m) after t
// seconds of flight, positive for a right-hand twist.
func spinDrift(stability, t float64) float64 {
	const inchToMetre = 0.0254
	return 1.25 * (stability + 1.2) * math.Pow(t, 1.83) * inchToMetre
}
