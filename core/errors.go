package core

import "errors"

var (
	// ErrInvalidDragCurve reports malformed drag-table input, detected
	// at construction time.
	ErrInvalidDragCurve = errors.New("invalid drag curve")

	// ErrOutOfRange reports a zero target beyond the projectile's
	// reachable envelope.
	ErrOutOfRange = errors.New("target out of range")

	// ErrNonConvergent reports an exhausted iteration or step ceiling.
	// Operations returning it may still carry a best-effort result.
	ErrNonConvergent = errors.New("solution did not converge")

	// ErrInvalidConfiguration reports non-physical inputs such as a zero
	// muzzle velocity or a negative step size.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
