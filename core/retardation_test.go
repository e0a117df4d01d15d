package core

import (
	"errors"
	"math"
	"testing"

	"github.com/truearc/ballistics/model"
)

// constTable builds a drag table whose coefficient is c at every Mach.
func constTable(c float64) *DragTable {
	return &DragTable{points: []dragPoint{{mach: 0, coeff: c}, {mach: 5, coeff: c}}}
}

func TestDecelerateOpposesRelativeVelocity(t *testing.T) {
	proj := model.Projectile{Mass: 0.01}
	m, err := NewRetardationModel(constTable(0.002), &proj)
	if err != nil {
		t.Fatalf("NewRetardationModel: %v", err)
	}

	v := Vec3{X: 30, Y: 40, Z: 0} // |v| = 50
	a := m.Decelerate(v, 1, 340)

	want := Vec3{X: -3, Y: -4, Z: 0} // -0.002·1·50·v
	if math.Abs(a.X-want.X) > 1e-12 || math.Abs(a.Y-want.Y) > 1e-12 || a.Z != 0 {
		t.Errorf("Decelerate = %v, want %v", a, want)
	}
	if dot := a.Dot(v); dot >= 0 {
		t.Errorf("drag not opposing velocity: a·v = %v", dot)
	}
	if cross := a.Cross(v).Norm(); cross > 1e-9 {
		t.Errorf("drag not anti-parallel to velocity: |a×v| = %v", cross)
	}
}

func TestDecelerateQuadraticInSpeed(t *testing.T) {
	proj := model.Projectile{Mass: 0.01}
	m, err := NewRetardationModel(constTable(0.001), &proj)
	if err != nil {
		t.Fatalf("NewRetardationModel: %v", err)
	}

	a1 := m.Decelerate(Vec3{X: 100}, 1, 340).Norm()
	a2 := m.Decelerate(Vec3{X: 200}, 1, 340).Norm()
	if math.Abs(a2-4*a1) > 1e-9*a2 {
		t.Errorf("doubling speed: |a| went %v -> %v, want factor 4", a1, a2)
	}

	// Linear in density ratio.
	half := m.Decelerate(Vec3{X: 100}, 0.5, 340).Norm()
	if math.Abs(half-a1/2) > 1e-12 {
		t.Errorf("halving density: |a| = %v, want %v", half, a1/2)
	}
}

func TestDecelerateZeroVelocity(t *testing.T) {
	proj := model.Projectile{Mass: 0.01}
	m, err := NewRetardationModel(constTable(0.001), &proj)
	if err != nil {
		t.Fatalf("NewRetardationModel: %v", err)
	}
	if got := m.Decelerate(Vec3{}, 1, 340); got != (Vec3{}) {
		t.Errorf("Decelerate(0) = %v, want zero vector", got)
	}
}

func TestEnergy(t *testing.T) {
	proj := model.Projectile{Mass: 0.01}
	m, err := NewRetardationModel(constTable(0.001), &proj)
	if err != nil {
		t.Fatalf("NewRetardationModel: %v", err)
	}
	if got := m.Energy(100); got != 50 {
		t.Errorf("Energy(100) = %v, want 50", got)
	}
}

func TestOptimalGameWeightGrowsWithSpeed(t *testing.T) {
	proj := model.Projectile{Mass: 0.0113} // ≈175 gr
	m, err := NewRetardationModel(constTable(0.001), &proj)
	if err != nil {
		t.Fatalf("NewRetardationModel: %v", err)
	}

	slow, fast := m.OptimalGameWeight(300), m.OptimalGameWeight(800)
	if !(slow > 0) || !(fast > slow) {
		t.Errorf("OptimalGameWeight = %v at 300 m/s, %v at 800 m/s; want positive and increasing", slow, fast)
	}
}

func TestNewRetardationModelRejectsMissingInputs(t *testing.T) {
	proj := model.Projectile{Mass: 0.01}
	if _, err := NewRetardationModel(nil, &proj); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nil table: err = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewRetardationModel(constTable(0.001), nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nil projectile: err = %v, want ErrInvalidConfiguration", err)
	}
}
