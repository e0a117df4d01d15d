package core

import (
	"context"
	"fmt"
	"math"

	"github.com/truearc/ballistics/internal/logging"
)

// Defaults applied by Solve when the corresponding ZeroRequest field is
// zero.
const (
	DefaultZeroTolerance  = 1e-6 // m of vertical miss at the zero plane
	DefaultZeroIterations = 25
)

// maxElevation caps candidate barrel angles. Past 45° extra elevation
// shortens reach, so a solution beyond the cap is not worth chasing.
const maxElevation = math.Pi / 4

// ZeroRequest asks for the barrel elevation that puts the trajectory on
// the sight line at a given distance.
type ZeroRequest struct {
	Distance  float64 // sight-line distance to the zeroing target, m
	LookAngle float64 // sight-line angle above horizontal, rad

	InitialGuess  float64 // starting elevation, rad; 0 starts from the look angle
	Tolerance     float64 // m; 0 selects DefaultZeroTolerance
	MaxIterations int     // 0 selects DefaultZeroIterations

	Method   Method
	StepSize float64 // s; 0 selects DefaultStepSize
}

// ZeroResult reports the solver outcome. When Solve returns
// ErrNonConvergent the result still carries the best angle found so that
// callers can decide whether "close" is close enough.
type ZeroResult struct {
	Angle      float64 // barrel elevation, rad
	Converged  bool
	Iterations int
	Miss       float64 // vertical miss at the zero plane for Angle, m
}

// ZeroSolver finds zero angles by repeated terminal-mode probes of an
// Engine. The solver holds no state between calls.
type ZeroSolver struct {
	engine *Engine
}

func NewZeroSolver(e *Engine) *ZeroSolver {
	return &ZeroSolver{engine: e}
}

// Solve iterates candidate elevations until the trajectory crosses the
// sight line at the requested distance within tolerance.
//
// Each candidate costs one terminal-mode integration to the vertical
// plane at the target's downrange distance. A candidate that reaches the
// plane refines the angle proportionally from its miss; one that falls
// short triggers a single probe at the elevation cap, which either proves
// the target unreachable (ErrOutOfRange, no partial result) or brackets
// the answer for bisection. Exhausting the iteration limit returns
// ErrNonConvergent together with the best result seen.
func (s *ZeroSolver) Solve(ctx context.Context, req ZeroRequest) (ZeroResult, error) {
	e := s.engine
	if !(req.Distance > 0) {
		return ZeroResult{}, fmt.Errorf("%w: zero distance %v must be positive", ErrInvalidConfiguration, req.Distance)
	}
	if math.Abs(req.LookAngle) >= math.Pi/2 {
		return ZeroResult{}, fmt.Errorf("%w: look angle %v rad must be within ±π/2", ErrInvalidConfiguration, req.LookAngle)
	}

	tol := req.Tolerance
	if tol == 0 {
		tol = DefaultZeroTolerance
	}
	if !(tol > 0) {
		return ZeroResult{}, fmt.Errorf("%w: tolerance %v must be positive", ErrInvalidConfiguration, req.Tolerance)
	}
	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultZeroIterations
	}

	// The zero plane is vertical at the target's downrange distance.
	targetX := req.Distance * math.Cos(req.LookAngle)

	probe := func(angle float64) (reached bool, miss float64, err error) {
		p, err := e.normalize(RunConfig{
			Elevation: angle,
			LookAngle: req.LookAngle,
			Method:    req.Method,
			StepSize:  req.StepSize,
			MaxRange:  targetX,
			Mode:      ModeTerminal,
		})
		if err != nil {
			return false, 0, err
		}
		res := e.integrate(p)
		if res.termination == TerminationFailed {
			return false, 0, fmt.Errorf("zero probe at %v rad exceeded %d steps: %w",
				angle, p.stepCeiling, ErrNonConvergent)
		}
		return res.termination == TerminationMaxRange, sightOffset(res.final, p.lookTan), nil
	}

	angle := req.InitialGuess
	if angle == 0 {
		angle = req.LookAngle
	}
	angle = clampElevation(angle)

	var (
		best        ZeroResult
		haveBest    bool
		iterations  int
		lo, hi      float64
		haveBracket bool
	)
	record := func(outcome string) {
		e.log.Debug(ctx, "zero solve finished",
			logging.String("outcome", outcome),
			logging.Int("iterations", iterations),
			logging.Float("angle_rad", best.Angle),
			logging.Float("miss_m", best.Miss),
		)
		if e.metrics != nil {
			e.metrics.RecordZeroSolve(outcome, iterations)
		}
	}

	for iterations < maxIter {
		iterations++
		reached, miss, err := probe(angle)
		if err != nil {
			record("non_convergent")
			return best, err
		}

		if reached {
			if !haveBest || math.Abs(miss) < math.Abs(best.Miss) {
				best = ZeroResult{Angle: angle, Iterations: iterations, Miss: miss}
				haveBest = true
			}
			if math.Abs(miss) < tol {
				best.Converged = true
				best.Iterations = iterations
				record("converged")
				return best, nil
			}
			if haveBracket {
				// Shrink the bracket on the side the miss indicates.
				if miss > 0 {
					hi = angle
				} else {
					lo = angle
				}
			}
			next := clampElevation(angle - miss/targetX)
			if haveBracket && (next <= lo || next >= hi) {
				next = (lo + hi) / 2
			}
			angle = next
			continue
		}

		// Fell short of the plane. Decide reachability once, at the cap.
		if !haveBracket {
			iterations++
			capReached, capMiss, err := probe(maxElevation)
			if err != nil {
				record("non_convergent")
				return best, err
			}
			if !capReached {
				record("out_of_range")
				return ZeroResult{}, fmt.Errorf("target at %v m beyond maximum reach: %w",
					req.Distance, ErrOutOfRange)
			}
			if !haveBest || math.Abs(capMiss) < math.Abs(best.Miss) {
				best = ZeroResult{Angle: maxElevation, Iterations: iterations, Miss: capMiss}
				haveBest = true
			}
			if math.Abs(capMiss) < tol {
				best.Converged = true
				best.Iterations = iterations
				record("converged")
				return best, nil
			}
			lo, hi = angle, maxElevation
			haveBracket = true
		} else {
			lo = angle
		}
		angle = (lo + hi) / 2
	}

	best.Converged = false
	best.Iterations = iterations
	record("non_convergent")
	return best, fmt.Errorf("no zero within %d iterations (best miss %v m): %w",
		iterations, best.Miss, ErrNonConvergent)
}

// ZeroAngle is the common-case entry point: solve with defaults and return
// just the elevation.
func (e *Engine) ZeroAngle(ctx context.Context, distance, lookAngle float64) (float64, error) {
	res, err := NewZeroSolver(e).Solve(ctx, ZeroRequest{Distance: distance, LookAngle: lookAngle})
	if err != nil {
		return 0, err
	}
	return res.Angle, nil
}

func clampElevation(angle float64) float64 {
	if angle > maxElevation {
		return maxElevation
	}
	if angle < -maxElevation {
		return -maxElevation
	}
	return angle
}
