package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/truearc/ballistics/core"
	"github.com/truearc/ballistics/library"
	"github.com/truearc/ballistics/model"
)

const scenarioYAML = `load:
  projectile:
    family: G7
    bc: 0.22
    mass_grains: 168
    diameter_inches: 0.308
    length_inches: 1.23
  muzzle_velocity_mps: 800
weapon:
  sight_height_cm: 4
  twist_inches: 11
shot:
  zero_distance_m: 100
wind:
  - speed_mps: 4
    direction_deg: 90
run:
  method: rk4
  max_range_m: 500
  record_interval_m: 10
options:
  spin_drift: true
target:
  distance_m: 300
  height_cm: 50
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScenarioBuild(t *testing.T) {
	cfg, err := loadScenarioConfig(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("loadScenarioConfig: %v", err)
	}
	sc, err := cfg.build(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if sc.load.MuzzleVelocity != 800 {
		t.Errorf("muzzle velocity = %v, want 800", sc.load.MuzzleVelocity)
	}
	if sc.load.Projectile.Family != model.DragFamilyG7 {
		t.Errorf("family = %v, want G7", sc.load.Projectile.Family)
	}
	if math.Abs(sc.weapon.SightHeight-0.04) > 1e-12 {
		t.Errorf("sight height = %v m, want 0.04", sc.weapon.SightHeight)
	}
	if math.Abs(sc.weapon.Twist-0.2794) > 1e-9 {
		t.Errorf("twist = %v m, want 0.2794", sc.weapon.Twist)
	}
	if sc.zeroDist != 100 {
		t.Errorf("zero distance = %v, want 100", sc.zeroDist)
	}
	if sc.run.Method != core.MethodRK4 || sc.run.MaxRange != 500 || sc.run.RecordInterval != 10 {
		t.Errorf("run config = %+v, want rk4/500/10", sc.run)
	}
	if sc.target == nil || sc.target.distance != 300 || math.Abs(sc.target.height-0.5) > 1e-12 {
		t.Errorf("target = %+v, want 300 m / 0.5 m", sc.target)
	}
	// Inline projectile, ICAO atmosphere, wind and spin drift each add an
	// engine option; the scenario must build a working engine.
	engine, err := core.NewEngine(sc.load, sc.weapon, sc.engineOpts...)
	if err != nil {
		t.Fatalf("NewEngine from scenario: %v", err)
	}
	if engine == nil {
		t.Fatal("nil engine")
	}
}

func TestScenarioBuildResolvesLibraryLoad(t *testing.T) {
	lib := library.New()
	if err := lib.Register(model.Load{
		Name: "match-175",
		Projectile: model.Projectile{
			Family:   model.DragFamilyG7,
			BC:       0.243,
			Mass:     0.0113,
			Diameter: 0.0078,
		},
		MuzzleVelocity: 790,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg, err := loadScenarioConfig(writeScenario(t, `load:
  name: match-175
run:
  max_range_m: 600
`))
	if err != nil {
		t.Fatalf("loadScenarioConfig: %v", err)
	}
	sc, err := cfg.build(lib)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if sc.load.MuzzleVelocity != 790 {
		t.Errorf("library load not resolved: %+v", sc.load)
	}
	// The record interval defaults when the scenario leaves it out.
	if sc.run.RecordInterval != 100 {
		t.Errorf("record interval = %v, want the 100 m default", sc.run.RecordInterval)
	}
}

func TestScenarioBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing max range", "load:\n  projectile: {family: G1, bc: 0.4, mass_grains: 150}\n  muzzle_velocity_mps: 800\n"},
		{"missing muzzle velocity", "load:\n  projectile: {family: G1, bc: 0.4, mass_grains: 150}\nrun:\n  max_range_m: 500\n"},
		{"unknown family", "load:\n  projectile: {family: G9, bc: 0.4, mass_grains: 150}\n  muzzle_velocity_mps: 800\nrun:\n  max_range_m: 500\n"},
		{"unknown method", "load:\n  projectile: {family: G1, bc: 0.4, mass_grains: 150}\n  muzzle_velocity_mps: 800\nrun:\n  max_range_m: 500\n  method: leapfrog\n"},
		{"unnamed load without projectile", "run:\n  max_range_m: 500\n"},
		{"named load without library", "load:\n  name: ghost\nrun:\n  max_range_m: 500\n"},
		{"station atmosphere missing pressure", "load:\n  projectile: {family: G1, bc: 0.4, mass_grains: 150}\n  muzzle_velocity_mps: 800\natmosphere:\n  temperature_c: 25\nrun:\n  max_range_m: 500\n"},
		{"target without height", "load:\n  projectile: {family: G1, bc: 0.4, mass_grains: 150}\n  muzzle_velocity_mps: 800\nrun:\n  max_range_m: 500\ntarget:\n  distance_m: 300\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadScenarioConfig(writeScenario(t, tt.yaml))
			if err != nil {
				t.Fatalf("loadScenarioConfig: %v", err)
			}
			if _, err := cfg.build(nil); err == nil {
				t.Error("build accepted an invalid scenario")
			}
		})
	}
}

func TestLoadScenarioConfigMissingFile(t *testing.T) {
	if _, err := loadScenarioConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loadScenarioConfig succeeded on a missing file")
	}
}
