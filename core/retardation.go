package core

import (
	"fmt"

	"github.com/truearc/ballistics/model"
)

// RetardationModel turns the drag table's Mach-indexed coefficient into a
// deceleration vector opposing the wind-relative velocity. It references
// the caller's projectile parameters and never copies or mutates them;
// their mass and diameter are already folded into the table's
// normalization, so Decelerate is a pure vector formula.
type RetardationModel struct {
	table *DragTable
	proj  *model.Projectile
}

// NewRetardationModel binds a drag table to the projectile it was scaled
// for.
func NewRetardationModel(table *DragTable, proj *model.Projectile) (*RetardationModel, error) {
	if table == nil || table.Len() < 2 {
		return nil, fmt.Errorf("%w: retardation model needs a drag table", ErrInvalidConfiguration)
	}
	if proj == nil {
		return nil, fmt.Errorf("%w: retardation model needs projectile parameters", ErrInvalidConfiguration)
	}
	return &RetardationModel{table: table, proj: proj}, nil
}

// Decelerate returns the drag acceleration for the given wind-relative
// velocity, strictly anti-parallel to it:
//
//	a = -coefficientAt(|v|/a_sound) · ρ · |v| · v
//
// The quadratic speed term dominates near the muzzle, which is where step
// size and integration order matter most.
func (m *RetardationModel) Decelerate(vRel Vec3, densityRatio, speedOfSound float64) Vec3 {
	speed := vRel.Norm()
	if speed == 0 {
		return Vec3{}
	}
	mach := speed / speedOfSound
	return vRel.Scale(-m.table.CoefficientAt(mach) * densityRatio * speed)
}

// Energy returns the projectile's kinetic energy in joules at the given
// speed, or zero when the mass is unknown.
func (m *RetardationModel) Energy(speed float64) float64 {
	return 0.5 * m.proj.Mass * speed * speed
}

// OptimalGameWeight returns the customary hunting heuristic for the
// heaviest game a load is adequate for, in kilograms. The underlying
// formula is defined in grains and ft/s.
func (m *RetardationModel) OptimalGameWeight(speed float64) float64 {
	grains := m.proj.Mass / poundToKilogram * grainsPerPound
	fps := speed / metresPerFoot
	return 1.5e-12 * grains * grains * fps * fps * fps * poundToKilogram
}
