package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/truearc/ballistics/model"
)

const (
	// seaLevelDensity is the ICAO standard air density ρ₀ in kg/m³.
	seaLevelDensity = 1.2250

	// bcToMetric converts a ballistic coefficient from its customary
	// lb/in² form to kg/m² (0.45359237 / 0.0254²).
	bcToMetric = 703.069579639
)

// DragTable is an immutable Mach-indexed deceleration curve. The stored
// coefficient folds the drag coefficient of the curve together with the
// ballistic coefficient and air-density normalization, so that
//
//	|a_drag| = CoefficientAt(mach) · densityRatio · |v_rel|²
//
// in m/s². Tables are safe for concurrent lookups from any number of runs.
type DragTable struct {
	points []dragPoint
}

type dragPoint struct {
	mach  float64
	coeff float64
}

// MachBC is one sample of a velocity-dependent ballistic coefficient, used
// when a single BC does not describe the projectile across its whole speed
// band.
type MachBC struct {
	Mach float64
	BC   float64 // lb/in², relative to the chosen reference family
}

// NewStandardTable builds a drag table from a reference family scaled by a
// single ballistic coefficient.
func NewStandardTable(family model.DragFamily, bc float64) (*DragTable, error) {
	ref, err := referenceCurve(family)
	if err != nil {
		return nil, err
	}
	if !(bc > 0) {
		return nil, fmt.Errorf("%w: ballistic coefficient %v must be positive", ErrInvalidDragCurve, bc)
	}

	points := make([]dragPoint, len(ref))
	for i, p := range ref {
		points[i] = dragPoint{mach: p.mach, coeff: scaleCd(p.cd, bc)}
	}
	return &DragTable{points: points}, nil
}

// NewMultiBCTable builds a drag table from a reference family with a
// ballistic coefficient that varies over Mach. The BC samples are sorted,
// interpolated linearly across the family's Mach grid and clamped at the
// ends. Two samples at the same Mach with different BC make the slope
// ambiguous and fail construction.
func NewMultiBCTable(family model.DragFamily, samples []MachBC) (*DragTable, error) {
	ref, err := referenceCurve(family)
	if err != nil {
		return nil, err
	}
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 BC samples, got %d", ErrInvalidDragCurve, len(samples))
	}

	sorted := make([]MachBC, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Mach < sorted[j].Mach })

	deduped := sorted[:1]
	for _, s := range sorted[1:] {
		last := deduped[len(deduped)-1]
		if s.Mach == last.Mach {
			if s.BC != last.BC {
				return nil, fmt.Errorf("%w: conflicting BC values %v and %v at Mach %v",
					ErrInvalidDragCurve, last.BC, s.BC, s.Mach)
			}
			continue
		}
		deduped = append(deduped, s)
	}
	if len(deduped) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct Mach values", ErrInvalidDragCurve)
	}
	for _, s := range deduped {
		if !(s.BC > 0) {
			return nil, fmt.Errorf("%w: ballistic coefficient %v at Mach %v must be positive",
				ErrInvalidDragCurve, s.BC, s.Mach)
		}
		if s.Mach < 0 || math.IsNaN(s.Mach) {
			return nil, fmt.Errorf("%w: Mach %v out of range", ErrInvalidDragCurve, s.Mach)
		}
	}

	points := make([]dragPoint, len(ref))
	for i, p := range ref {
		points[i] = dragPoint{mach: p.mach, coeff: scaleCd(p.cd, bcAt(deduped, p.mach))}
	}
	return &DragTable{points: points}, nil
}

// CoefficientAt returns the deceleration coefficient at the given Mach
// number: exact linear interpolation between the bracketing grid points,
// clamped to the endpoint values outside the grid.
func (t *DragTable) CoefficientAt(mach float64) float64 {
	pts := t.points
	if mach <= pts[0].mach {
		return pts[0].coeff
	}
	last := len(pts) - 1
	if mach >= pts[last].mach {
		return pts[last].coeff
	}

	// First index with mach >= query; the bracket is [hi-1, hi].
	hi := sort.Search(len(pts), func(i int) bool { return pts[i].mach >= mach })
	lo := hi - 1
	frac := (mach - pts[lo].mach) / (pts[hi].mach - pts[lo].mach)
	return pts[lo].coeff + (pts[hi].coeff-pts[lo].coeff)*frac
}

// Len returns the number of grid points in the table.
func (t *DragTable) Len() int { return len(t.points) }

// SectionalDensity returns the projectile's sectional density in the
// customary lb/in² form from SI mass (kg) and diameter (m).
func SectionalDensity(mass, diameter float64) float64 {
	if diameter <= 0 {
		return 0
	}
	return (mass / poundToKilogram) / math.Pow(diameter*inchesPerMetre, 2)
}

// FormFactor returns the ratio of sectional density to ballistic
// coefficient: how much more (or less) drag the projectile has than the
// reference shape it is compared against.
func FormFactor(mass, diameter, bc float64) float64 {
	if bc <= 0 {
		return 0
	}
	return SectionalDensity(mass, diameter) / bc
}

// scaleCd folds BC and density normalization into a reference drag
// coefficient, yielding the table form documented on DragTable. The π/8
// carries the projectile's circular cross-section: with BC = m/(i·d²),
// the point-mass drag law a = π·ρ·cd·d²·v²/(8m) collapses to
// π·ρ·cd_ref·v²/(8·BC).
func scaleCd(cd, bc float64) float64 {
	return cd * math.Pi * seaLevelDensity / (8 * bc * bcToMetric)
}

// bcAt interpolates the BC samples at the given Mach, clamped at the ends.
// The samples are sorted and strictly increasing in Mach.
func bcAt(samples []MachBC, mach float64) float64 {
	if mach <= samples[0].Mach {
		return samples[0].BC
	}
	last := len(samples) - 1
	if mach >= samples[last].Mach {
		return samples[last].BC
	}
	hi := sort.Search(len(samples), func(i int) bool { return samples[i].Mach >= mach })
	lo := hi - 1
	frac := (mach - samples[lo].Mach) / (samples[hi].Mach - samples[lo].Mach)
	return samples[lo].BC + (samples[hi].BC-samples[lo].BC)*frac
}

func referenceCurve(family model.DragFamily) ([]refPoint, error) {
	switch family {
	case model.DragFamilyG1:
		return g1Reference, nil
	case model.DragFamilyG7:
		return g7Reference, nil
	default:
		return nil, fmt.Errorf("%w: unknown drag family %q", ErrInvalidDragCurve, family)
	}
}
