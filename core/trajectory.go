package core

import "strings"

// Event is a bit set of the flight events attached to a recorded sample.
// Crossing events are interpolated between the two integration steps that
// bracket them, never snapped to the step grid.
type Event uint8

const (
	// EventRangeStep marks a sample at a multiple of the recording interval.
	EventRangeStep Event = 1 << iota
	// EventZeroCrossing marks the trajectory crossing the line of sight.
	EventZeroCrossing
	// EventMachCrossing marks the transition through Mach 1.0.
	EventMachCrossing
	// EventApex marks the highest point of the trajectory.
	EventApex
	// EventRequested marks a caller-requested extra range point.
	EventRequested
)

// Has reports whether all bits of flag are set.
func (e Event) Has(flag Event) bool { return e&flag == flag }

func (e Event) String() string {
	if e == 0 {
		return ""
	}
	var parts []string
	if e.Has(EventRangeStep) {
		parts = append(parts, "range")
	}
	if e.Has(EventZeroCrossing) {
		parts = append(parts, "zero")
	}
	if e.Has(EventMachCrossing) {
		parts = append(parts, "mach")
	}
	if e.Has(EventApex) {
		parts = append(parts, "apex")
	}
	if e.Has(EventRequested) {
		parts = append(parts, "mark")
	}
	return strings.Join(parts, "|")
}

// Termination is the reason a stepping loop ended. MaxRange, GroundImpact
// and MinVelocity are normal outcomes; Failed means the step ceiling was
// exhausted and is always paired with ErrNonConvergent.
type Termination int

const (
	TerminationNone Termination = iota
	TerminationMaxRange
	TerminationGroundImpact
	TerminationMinVelocity
	TerminationFailed
)

func (t Termination) String() string {
	switch t {
	case TerminationMaxRange:
		return "max_range"
	case TerminationGroundImpact:
		return "ground_impact"
	case TerminationMinVelocity:
		return "min_velocity"
	case TerminationFailed:
		return "failed"
	default:
		return "none"
	}
}

// MotionState is the unit the integrator advances: one instant of flight.
// Mach and DensityRatio are derived from position and velocity when the
// state is assembled. States are plain values; a step produces a new state
// and never mutates the previous one.
type MotionState struct {
	Time         float64 // s since launch
	Position     Vec3    // m, shooter frame
	Velocity     Vec3    // m/s
	Mach         float64 // |Velocity| over local speed of sound
	DensityRatio float64 // local air density over ICAO sea level
}

// TrajectorySample is a recorded MotionState enriched with event flags and
// the sight-relative quantities a firing table reports. Drop and Windage
// are offsets from the line of sight; the adjustments are the angular
// corrections that would move the sight onto the sample.
type TrajectorySample struct {
	MotionState

	Events            Event
	Drop              float64 // m below (negative) or above the sight line
	DropAdjustment    float64 // rad
	Windage           float64 // m, positive right, includes spin drift when enabled
	WindageAdjustment float64 // rad
	Energy            float64 // J
	OptimalGameWeight float64 // kg
}

// Trajectory is the time-ordered sample sequence produced by one full-mode
// run. It is owned by the caller after return; the engine keeps no
// reference to it.
type Trajectory []TrajectorySample
