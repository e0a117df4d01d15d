package core

// Physical constants shared across the package. Everything internal runs
// in SI; the imperial factors exist only where a customary formula or unit
// (ballistic coefficients, twist rules) is defined in those terms.
const (
	// gravityAccel is standard gravity in m/s², applied along -Y.
	gravityAccel = 9.80665

	// earthRotationRate is the Earth's angular velocity in rad/s, used by
	// the Coriolis option.
	earthRotationRate = 7.292e-5

	// speedOfSoundSeaLevel is the ICAO sea-level speed of sound in m/s,
	// used by the built-in fallback atmosphere.
	speedOfSoundSeaLevel = 340.294

	poundToKilogram = 0.45359237
	grainsPerPound  = 7000.0
	inchesPerMetre  = 39.37007874015748
	metresPerFoot   = 0.3048
)
