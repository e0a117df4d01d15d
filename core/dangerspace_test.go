package core

import (
	"errors"
	"math"
	"testing"
)

// flatSamples builds a synthetic trajectory from (range, drop) pairs; only
// the fields the evaluator reads are populated.
func flatSamples(points [][2]float64) Trajectory {
	traj := make(Trajectory, len(points))
	for i, p := range points {
		traj[i] = TrajectorySample{
			MotionState: MotionState{Time: float64(i), Position: Vec3{X: p[0]}},
			Drop:        p[1],
		}
	}
	return traj
}

func TestDangerSpaceInterpolatesBandCrossings(t *testing.T) {
	// An arc peaking on the sight line at 200 m. For a 0.2 m target held
	// center, the ±0.1 m band edges sit exactly halfway between samples.
	traj := flatSamples([][2]float64{
		{0, -0.60},
		{100, -0.20},
		{200, 0.00},
		{300, -0.20},
		{400, -0.60},
	})

	ds, err := traj.DangerSpace(200, 0.2, 0)
	if err != nil {
		t.Fatalf("DangerSpace: %v", err)
	}
	if math.Abs(ds.Near-150) > 1e-9 {
		t.Errorf("Near = %v, want 150 (lerp between 100 and 200)", ds.Near)
	}
	if math.Abs(ds.Far-250) > 1e-9 {
		t.Errorf("Far = %v, want 250 (lerp between 200 and 300)", ds.Far)
	}
	if math.Abs(ds.Length()-100) > 1e-9 {
		t.Errorf("Length = %v, want 100", ds.Length())
	}
}

func TestDangerSpaceTargetBetweenSamples(t *testing.T) {
	traj := flatSamples([][2]float64{
		{0, -0.60},
		{100, -0.20},
		{200, 0.00},
		{300, -0.20},
		{400, -0.60},
	})

	// At 250 m the interpolated center drop is -0.10; the band for a
	// 0.4 m target is [-0.30, 0.10].
	ds, err := traj.DangerSpace(250, 0.4, 0)
	if err != nil {
		t.Fatalf("DangerSpace: %v", err)
	}
	// Walking back: -0.20 and 0.00 are inside, -0.60 at 0 m exits at
	// drop -0.30, i.e. 1/4 of the way from 100 back to 0.
	if math.Abs(ds.Near-75) > 1e-9 {
		t.Errorf("Near = %v, want 75", ds.Near)
	}
	// Walking forward: -0.20 inside, -0.60 exits at -0.30 → 325 m.
	if math.Abs(ds.Far-325) > 1e-9 {
		t.Errorf("Far = %v, want 325", ds.Far)
	}
}

func TestDangerSpaceClampsToSampledSpan(t *testing.T) {
	// A shallow trajectory that never leaves the band on either side.
	traj := flatSamples([][2]float64{
		{0, -0.02},
		{100, 0.00},
		{200, -0.03},
	})

	ds, err := traj.DangerSpace(100, 1.0, 0)
	if err != nil {
		t.Fatalf("DangerSpace: %v", err)
	}
	if ds.Near != 0 || ds.Far != 200 {
		t.Errorf("DangerSpace = %+v, want the full sampled span [0, 200]", ds)
	}
}

func TestDangerSpaceLookAngleScalesAlongSightLine(t *testing.T) {
	look := 0.3
	cos := math.Cos(look)
	// Samples laid out in downrange X; distances are along the sight line.
	traj := flatSamples([][2]float64{
		{0, -0.60},
		{100 * cos, -0.20},
		{200 * cos, 0.00},
		{300 * cos, -0.20},
		{400 * cos, -0.60},
	})

	ds, err := traj.DangerSpace(200, 0.2, look)
	if err != nil {
		t.Fatalf("DangerSpace: %v", err)
	}
	if math.Abs(ds.Near-150) > 1e-9 || math.Abs(ds.Far-250) > 1e-9 {
		t.Errorf("DangerSpace = %+v, want sight-line distances [150, 250]", ds)
	}
}

func TestDangerSpaceRejectsBadInput(t *testing.T) {
	good := flatSamples([][2]float64{{0, -0.1}, {100, 0}, {200, -0.1}})

	tests := []struct {
		name     string
		traj     Trajectory
		distance float64
		height   float64
		look     float64
		want     error
	}{
		{"too few samples", good[:1], 100, 0.5, 0, ErrInvalidConfiguration},
		{"zero height", good, 100, 0, 0, ErrInvalidConfiguration},
		{"zero distance", good, 0, 0.5, 0, ErrInvalidConfiguration},
		{"vertical look angle", good, 100, 0.5, math.Pi / 2, ErrInvalidConfiguration},
		{"target beyond samples", good, 500, 0.5, 0, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.traj.DangerSpace(tt.distance, tt.height, tt.look); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
