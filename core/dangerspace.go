package core

import (
	"fmt"
	"math"
	"sort"
)

// DangerSpace is the stretch of sight-line distance over which a shot
// aimed at the center of a target of a given height would still strike it.
// Near and Far are sight-line distances in metres bracketing the target.
type DangerSpace struct {
	Near float64
	Far  float64
}

// Length is the extent of the danger space along the sight line.
func (d DangerSpace) Length() float64 {
	return d.Far - d.Near
}

// DangerSpace evaluates the danger space of a recorded trajectory for a
// target of targetHeight (m) at targetDistance (m along the sight line).
// The hit band is centered on the trajectory's own height at the target
// distance, so the result answers: holding this aim, between which ranges
// would the target still be struck.
//
// lookAngle must match the angle the trajectory was integrated with,
// since the recorded drops are measured against that sight line. The
// trajectory must hold at least two samples with nondecreasing downrange
// distances, and the target must lie within the sampled span.
func (t Trajectory) DangerSpace(targetDistance, targetHeight, lookAngle float64) (DangerSpace, error) {
	if len(t) < 2 {
		return DangerSpace{}, fmt.Errorf("%w: danger space needs at least two samples, have %d",
			ErrInvalidConfiguration, len(t))
	}
	if !(targetHeight > 0) {
		return DangerSpace{}, fmt.Errorf("%w: target height %v must be positive",
			ErrInvalidConfiguration, targetHeight)
	}
	if !(targetDistance > 0) {
		return DangerSpace{}, fmt.Errorf("%w: target distance %v must be positive",
			ErrInvalidConfiguration, targetDistance)
	}
	if math.Abs(lookAngle) >= math.Pi/2 {
		return DangerSpace{}, fmt.Errorf("%w: look angle %v rad must be within ±π/2",
			ErrInvalidConfiguration, lookAngle)
	}

	cosLook := math.Cos(lookAngle)
	targetX := targetDistance * cosLook
	if targetX < t[0].Position.X || targetX > t[len(t)-1].Position.X {
		return DangerSpace{}, fmt.Errorf("target at %v m outside the sampled trajectory: %w",
			targetDistance, ErrOutOfRange)
	}

	hi := sort.Search(len(t), func(i int) bool { return t[i].Position.X >= targetX })
	if hi == 0 {
		hi = 1
	}
	lo := hi - 1

	frac := fracBetween(t[lo].Position.X, t[hi].Position.X, targetX)
	center := t[lo].Drop + frac*(t[hi].Drop-t[lo].Drop)
	top := center + targetHeight/2
	bottom := center - targetHeight/2

	outside := func(drop float64) bool { return drop > top || drop < bottom }

	// Walk back from the aim point until the trajectory leaves the band.
	nearX := t[0].Position.X
	insideX, insideDrop := targetX, center
	for i := lo; i >= 0; i-- {
		if outside(t[i].Drop) {
			nearX = bandExit(insideX, insideDrop, t[i].Position.X, t[i].Drop, top, bottom)
			break
		}
		insideX, insideDrop = t[i].Position.X, t[i].Drop
	}

	// Walk forward likewise.
	farX := t[len(t)-1].Position.X
	insideX, insideDrop = targetX, center
	for i := hi; i < len(t); i++ {
		if outside(t[i].Drop) {
			farX = bandExit(insideX, insideDrop, t[i].Position.X, t[i].Drop, top, bottom)
			break
		}
		insideX, insideDrop = t[i].Position.X, t[i].Drop
	}

	return DangerSpace{Near: nearX / cosLook, Far: farX / cosLook}, nil
}

// bandExit interpolates the downrange distance at which the trajectory
// crosses whichever band edge the outside point violated.
func bandExit(insideX, insideDrop, outsideX, outsideDrop, top, bottom float64) float64 {
	bound := top
	if outsideDrop < bottom {
		bound = bottom
	}
	frac := fracBetween(insideDrop, outsideDrop, bound)
	return insideX + frac*(outsideX-insideX)
}
