package model

import (
	"fmt"
	"strings"
)

// DragFamily identifies a standard reference drag curve. G1 (flat-base
// bullets) and G7 (boat-tail bullets) are the families commonly published
// by ammunition makers.
type DragFamily string

const (
	DragFamilyG1 DragFamily = "G1"
	DragFamilyG7 DragFamily = "G7"
)

// ParseDragFamily maps a config string such as "g1" or "G7" to its
// DragFamily.
func ParseDragFamily(s string) (DragFamily, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "G1":
		return DragFamilyG1, nil
	case "G7":
		return DragFamilyG7, nil
	default:
		return "", fmt.Errorf("unknown drag family %q", s)
	}
}

// Projectile describes the fired bullet. All values are SI: kilograms and
// metres. Length is optional; it is only needed for the gyroscopic
// stability and spin-drift corrections.
type Projectile struct {
	Family   DragFamily
	BC       float64 // ballistic coefficient relative to Family, lb/in²
	Mass     float64 // kg
	Diameter float64 // m
	Length   float64 // m; 0 when unknown
}

// Weapon describes the launcher geometry. SightHeight is the vertical
// distance from the bore axis up to the sight line; SightOffset is the
// lateral offset of the sight from the bore (positive right).
type Weapon struct {
	SightHeight  float64 // m
	SightOffset  float64 // m
	Twist        float64 // m of barrel per turn; positive = right-hand, 0 = unknown
	ZeroDistance float64 // m along the sight line; 0 when the elevation is given directly
}

// Load pairs a projectile with its muzzle velocity under a name, the way
// an ammunition box would be labelled.
type Load struct {
	Name           string
	Projectile     Projectile
	MuzzleVelocity float64 // m/s
}

// WindSegment is one zone of a piecewise-constant wind field along the
// downrange axis. A segment applies from From (m downrange) until the next
// segment's From; the first segment starts at the muzzle. DirectionFrom is
// the bearing the wind blows from, relative to the line of fire: 0 is a
// headwind, π/2 is wind from the shooter's right.
type WindSegment struct {
	Speed         float64 // m/s
	DirectionFrom float64 // rad
	From          float64 // m downrange
}

// Shot describes one firing solution request. When ZeroDistance is
// positive, Elevation is ignored and solved for; otherwise Elevation is
// the barrel angle above the horizontal.
type Shot struct {
	Elevation    float64 // rad
	ZeroDistance float64 // m along the sight line
	LookAngle    float64 // rad; uphill positive
	Azimuth      float64 // rad clockwise from north; used by the Coriolis option
	Latitude     float64 // rad; used by the Coriolis option
}
