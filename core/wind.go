package core

import (
	"fmt"
	"math"

	"github.com/truearc/ballistics/model"
)

// windField is the resolved form of the caller's wind segments: a
// piecewise-constant vector field over the downrange axis. Segments are
// kept sorted by their start range; the active segment for a given
// downrange distance is the last one that has started.
type windField struct {
	starts  []float64
	vectors []Vec3
}

// newWindField validates the segments and precomputes their vectors.
// Segment starts must be non-negative and strictly ascending. The zone
// before the first segment (when it does not start at the muzzle) has no
// wind.
func newWindField(segments []model.WindSegment) (windField, error) {
	f := windField{
		starts:  make([]float64, 0, len(segments)),
		vectors: make([]Vec3, 0, len(segments)),
	}
	prev := math.Inf(-1)
	for i, s := range segments {
		if s.From < 0 {
			return windField{}, fmt.Errorf("%w: wind segment %d starts at %v m", ErrInvalidConfiguration, i, s.From)
		}
		if s.From <= prev {
			return windField{}, fmt.Errorf("%w: wind segment %d start %v m does not ascend", ErrInvalidConfiguration, i, s.From)
		}
		if s.Speed < 0 {
			return windField{}, fmt.Errorf("%w: wind segment %d has negative speed", ErrInvalidConfiguration, i)
		}
		prev = s.From
		f.starts = append(f.starts, s.From)
		f.vectors = append(f.vectors, windVector(s.Speed, s.DirectionFrom))
	}
	return f, nil
}

// at returns the wind vector governing the given downrange distance.
func (f windField) at(x float64) Vec3 {
	for i := len(f.starts) - 1; i >= 0; i-- {
		if x >= f.starts[i] {
			return f.vectors[i]
		}
	}
	return Vec3{}
}

// windVector converts a (speed, direction-from) pair into the shooter
// frame. Direction 0 blows from the target toward the shooter (headwind),
// π/2 from the shooter's right.
func windVector(speed, directionFrom float64) Vec3 {
	return Vec3{
		X: -speed * math.Cos(directionFrom),
		Z: -speed * math.Sin(directionFrom),
	}
}
