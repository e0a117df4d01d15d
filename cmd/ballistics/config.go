package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/truearc/ballistics/atmos"
	"github.com/truearc/ballistics/core"
	"github.com/truearc/ballistics/library"
	"github.com/truearc/ballistics/model"
	"github.com/truearc/ballistics/unit"
)

// scenario YAML shapes – unexported, with field units spelled out in the
// key names. The build step converts everything to SI through unit.
type scenarioConfig struct {
	Load       loadConfig    `yaml:"load"`
	Weapon     weaponConfig  `yaml:"weapon"`
	Shot       shotConfig    `yaml:"shot"`
	Atmosphere *atmosConfig  `yaml:"atmosphere"`
	Wind       []windConfig  `yaml:"wind"`
	Run        runConfig     `yaml:"run"`
	Options    optionsConfig `yaml:"options"`
	Target     *targetConfig `yaml:"target"`
}

type loadConfig struct {
	// Name selects a load from the ammunition library unless an inline
	// projectile is given, in which case it is just a label.
	Name              string            `yaml:"name"`
	Projectile        *projectileConfig `yaml:"projectile"`
	MuzzleVelocityMPS float64           `yaml:"muzzle_velocity_mps"`
	MuzzleVelocityFPS float64           `yaml:"muzzle_velocity_fps"`
}

type projectileConfig struct {
	Family         string  `yaml:"family"`
	BC             float64 `yaml:"bc"`
	MassGrains     float64 `yaml:"mass_grains"`
	DiameterInches float64 `yaml:"diameter_inches"`
	LengthInches   float64 `yaml:"length_inches"`
}

type weaponConfig struct {
	SightHeightCM float64 `yaml:"sight_height_cm"`
	SightOffsetCM float64 `yaml:"sight_offset_cm"`
	TwistInches   float64 `yaml:"twist_inches"`
}

type shotConfig struct {
	// A positive zero distance makes the run solve the elevation first;
	// elevation_moa is then ignored.
	ZeroDistanceM float64 `yaml:"zero_distance_m"`
	ElevationMOA  float64 `yaml:"elevation_moa"`
	LookAngleDeg  float64 `yaml:"look_angle_deg"`
	AzimuthDeg    float64 `yaml:"azimuth_deg"`
	LatitudeDeg   float64 `yaml:"latitude_deg"`
}

type atmosConfig struct {
	AltitudeM       float64  `yaml:"altitude_m"`
	TemperatureC    *float64 `yaml:"temperature_c"`
	PressureHPA     *float64 `yaml:"pressure_hpa"`
	HumidityPercent float64  `yaml:"humidity_percent"`
}

type windConfig struct {
	SpeedMPS     float64 `yaml:"speed_mps"`
	DirectionDeg float64 `yaml:"direction_deg"` // bearing the wind blows from, 0 = head-on
	FromM        float64 `yaml:"from_m"`
}

type runConfig struct {
	Method          string    `yaml:"method"`
	StepSizeS       float64   `yaml:"step_size_s"`
	MaxRangeM       float64   `yaml:"max_range_m"`
	RecordIntervalM float64   `yaml:"record_interval_m"` // 0 selects 100 m
	ExtraPointsM    []float64 `yaml:"extra_points_m"`
}

type optionsConfig struct {
	Coriolis  bool `yaml:"coriolis"`
	SpinDrift bool `yaml:"spin_drift"`
}

type targetConfig struct {
	DistanceM float64 `yaml:"distance_m"`
	HeightCM  float64 `yaml:"height_cm"`
}

// scenario is the fully-resolved, SI form the solver pipeline runs on.
type scenario struct {
	load       model.Load
	weapon     model.Weapon
	engineOpts []core.Option
	run        core.RunConfig
	zeroDist   float64 // m along the sight line; 0 = use run.Elevation as given
	target     *targetSpec
}

type targetSpec struct {
	distance float64 // m along the sight line
	height   float64 // m
}

func loadScenarioConfig(path string) (*scenarioConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()

	var cfg scenarioConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("scenario %s: decode failed: %w", path, err)
	}
	return &cfg, nil
}

// build validates the raw config and converts it to SI, resolving named
// loads against the ammunition library.
func (c *scenarioConfig) build(lib *library.Library) (*scenario, error) {
	load, err := c.buildLoad(lib)
	if err != nil {
		return nil, err
	}

	if !(c.Run.MaxRangeM > 0) {
		return nil, fmt.Errorf("scenario: run.max_range_m %v must be positive", c.Run.MaxRangeM)
	}
	method, err := core.ParseMethod(c.Run.Method)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	s := &scenario{
		load: load,
		weapon: model.Weapon{
			SightHeight:  unit.Centimetres(c.Weapon.SightHeightCM).Metres(),
			SightOffset:  unit.Centimetres(c.Weapon.SightOffsetCM).Metres(),
			Twist:        unit.Inches(c.Weapon.TwistInches).Metres(),
			ZeroDistance: c.Shot.ZeroDistanceM,
		},
		run: core.RunConfig{
			Elevation:      unit.MOA(c.Shot.ElevationMOA).Radians(),
			Azimuth:        unit.Degrees(c.Shot.AzimuthDeg).Radians(),
			LookAngle:      unit.Degrees(c.Shot.LookAngleDeg).Radians(),
			Method:         method,
			StepSize:       c.Run.StepSizeS,
			MaxRange:       c.Run.MaxRangeM,
			RecordInterval: c.Run.RecordIntervalM,
			ExtraPoints:    c.Run.ExtraPointsM,
		},
		zeroDist: c.Shot.ZeroDistanceM,
	}
	if s.run.RecordInterval == 0 {
		s.run.RecordInterval = 100
	}

	atm, err := c.buildAtmosphere()
	if err != nil {
		return nil, err
	}
	s.engineOpts = append(s.engineOpts, core.WithAtmosphere(atm))

	if len(c.Wind) > 0 {
		segments := make([]model.WindSegment, 0, len(c.Wind))
		for _, w := range c.Wind {
			segments = append(segments, model.WindSegment{
				Speed:         w.SpeedMPS,
				DirectionFrom: unit.Degrees(w.DirectionDeg).Radians(),
				From:          w.FromM,
			})
		}
		s.engineOpts = append(s.engineOpts, core.WithWind(segments))
	}
	if c.Options.Coriolis {
		s.engineOpts = append(s.engineOpts, core.WithCoriolis(unit.Degrees(c.Shot.LatitudeDeg).Radians()))
	}
	if c.Options.SpinDrift {
		s.engineOpts = append(s.engineOpts, core.WithSpinDrift())
	}

	if c.Target != nil {
		if !(c.Target.DistanceM > 0) || !(c.Target.HeightCM > 0) {
			return nil, fmt.Errorf("scenario: target needs positive distance_m and height_cm")
		}
		s.target = &targetSpec{
			distance: c.Target.DistanceM,
			height:   unit.Centimetres(c.Target.HeightCM).Metres(),
		}
	}

	return s, nil
}

func (c *scenarioConfig) buildLoad(lib *library.Library) (model.Load, error) {
	if c.Load.Projectile == nil {
		if c.Load.Name == "" {
			return model.Load{}, fmt.Errorf("scenario: load needs a library name or an inline projectile")
		}
		if lib == nil {
			return model.Load{}, fmt.Errorf("scenario: load %q named but no library loaded", c.Load.Name)
		}
		load, err := lib.Get(c.Load.Name)
		if err != nil {
			return model.Load{}, fmt.Errorf("scenario: %w", err)
		}
		return load, nil
	}

	p := c.Load.Projectile
	family, err := model.ParseDragFamily(p.Family)
	if err != nil {
		return model.Load{}, fmt.Errorf("scenario: %w", err)
	}
	if !(p.BC > 0) {
		return model.Load{}, fmt.Errorf("scenario: projectile bc %v must be positive", p.BC)
	}
	if !(p.MassGrains > 0) {
		return model.Load{}, fmt.Errorf("scenario: projectile mass_grains %v must be positive", p.MassGrains)
	}

	var mv float64
	switch {
	case c.Load.MuzzleVelocityMPS > 0 && c.Load.MuzzleVelocityFPS > 0:
		return model.Load{}, fmt.Errorf("scenario: set muzzle_velocity_mps or muzzle_velocity_fps, not both")
	case c.Load.MuzzleVelocityMPS > 0:
		mv = c.Load.MuzzleVelocityMPS
	case c.Load.MuzzleVelocityFPS > 0:
		mv = unit.FeetPerSecond(c.Load.MuzzleVelocityFPS).MetresPerSecond()
	default:
		return model.Load{}, fmt.Errorf("scenario: muzzle velocity missing")
	}

	return model.Load{
		Name: c.Load.Name,
		Projectile: model.Projectile{
			Family:   family,
			BC:       p.BC,
			Mass:     unit.Grains(p.MassGrains).Kilograms(),
			Diameter: unit.Inches(p.DiameterInches).Metres(),
			Length:   unit.Inches(p.LengthInches).Metres(),
		},
		MuzzleVelocity: mv,
	}, nil
}

func (c *scenarioConfig) buildAtmosphere() (core.Atmosphere, error) {
	a := c.Atmosphere
	if a == nil {
		return atmos.ICAO(0), nil
	}
	if a.TemperatureC == nil && a.PressureHPA == nil {
		return atmos.ICAO(a.AltitudeM), nil
	}
	if a.TemperatureC == nil || a.PressureHPA == nil {
		return nil, fmt.Errorf("scenario: station atmosphere needs both temperature_c and pressure_hpa")
	}
	m, err := atmos.Station(
		a.AltitudeM,
		unit.Celsius(*a.TemperatureC).Kelvin(),
		unit.HectoPascals(*a.PressureHPA).Pascals(),
		a.HumidityPercent/100,
	)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return m, nil
}
