package core

// Atmosphere supplies the two atmospheric quantities the stepping loop
// needs. Implementations must be pure functions of altitude: the engine
// may call AtAltitude several times per step and relies on identical
// answers for identical inputs.
type Atmosphere interface {
	// AtAltitude returns the air density ratio (relative to ICAO
	// sea-level density) and the local speed of sound in m/s at the
	// given height in metres above the firing position.
	AtAltitude(height float64) (densityRatio, speedOfSound float64)
}

// constantAtmosphere is the fallback provider used when the caller does
// not supply one: ICAO sea-level conditions at every altitude.
type constantAtmosphere struct {
	ratio float64
	sound float64
}

func (a constantAtmosphere) AtAltitude(float64) (float64, float64) {
	return a.ratio, a.sound
}

func defaultAtmosphere() Atmosphere {
	return constantAtmosphere{ratio: 1, sound: speedOfSoundSeaLevel}
}
