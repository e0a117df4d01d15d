package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/truearc/ballistics/internal/logging"
	"github.com/truearc/ballistics/model"
)

// Method selects the numerical scheme used to advance a state by one step.
type Method int

const (
	// MethodRK4 is classic 4th-order Runge-Kutta, the default.
	MethodRK4 Method = iota
	// MethodEuler is explicit Euler, the cheap low-fidelity baseline.
	MethodEuler
	// MethodVerlet is velocity Verlet, symplectic and well behaved over
	// long arcs at large step sizes.
	MethodVerlet
)

func (m Method) String() string {
	switch m {
	case MethodRK4:
		return "rk4"
	case MethodEuler:
		return "euler"
	case MethodVerlet:
		return "verlet"
	default:
		return "unknown"
	}
}

// ParseMethod maps a config string to a Method. The empty string selects
// the default.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rk4":
		return MethodRK4, nil
	case "euler":
		return MethodEuler, nil
	case "verlet":
		return MethodVerlet, nil
	default:
		return MethodRK4, fmt.Errorf("%w: unknown integration method %q", ErrInvalidConfiguration, s)
	}
}

// accelFunc evaluates the total acceleration for a candidate position and
// velocity. Steppers call it one to four times per step depending on order.
type accelFunc func(pos, vel Vec3) Vec3

// stepper advances a (position, velocity) pair by dt.
type stepper interface {
	advance(pos, vel Vec3, dt float64, accel accelFunc) (Vec3, Vec3)
}

// eulerStepper: v' = v + a·dt, x' = x + v·dt.
type eulerStepper struct{}

func (eulerStepper) advance(pos, vel Vec3, dt float64, accel accelFunc) (Vec3, Vec3) {
	a := accel(pos, vel)
	return pos.Add(vel.Scale(dt)), vel.Add(a.Scale(dt))
}

// rk4Stepper combines four acceleration evaluations with the standard
// 1-2-2-1 weights.
type rk4Stepper struct{}

func (rk4Stepper) advance(pos, vel Vec3, dt float64, accel accelFunc) (Vec3, Vec3) {
	half := dt / 2

	k1v := accel(pos, vel)
	k1x := vel

	v2 := vel.Add(k1v.Scale(half))
	k2v := accel(pos.Add(k1x.Scale(half)), v2)
	k2x := v2

	v3 := vel.Add(k2v.Scale(half))
	k3v := accel(pos.Add(k2x.Scale(half)), v3)
	k3x := v3

	v4 := vel.Add(k3v.Scale(dt))
	k4v := accel(pos.Add(k3x.Scale(dt)), v4)
	k4x := v4

	sixth := dt / 6
	np := pos.Add(k1x.Add(k2x.Scale(2)).Add(k3x.Scale(2)).Add(k4x).Scale(sixth))
	nv := vel.Add(k1v.Add(k2v.Scale(2)).Add(k3v.Scale(2)).Add(k4v).Scale(sixth))
	return np, nv
}

// verletStepper: position from the current velocity and acceleration, new
// acceleration at the new position, velocity from the average of the two.
// The velocity fed into the second evaluation is the Euler prediction,
// since drag depends on velocity as well as position.
type verletStepper struct{}

func (verletStepper) advance(pos, vel Vec3, dt float64, accel accelFunc) (Vec3, Vec3) {
	a0 := accel(pos, vel)
	np := pos.Add(vel.Scale(dt)).Add(a0.Scale(dt * dt / 2))
	a1 := accel(np, vel.Add(a0.Scale(dt)))
	nv := vel.Add(a0.Add(a1).Scale(dt / 2))
	return np, nv
}

// newStepper selects the stepping strategy for a method.
func newStepper(m Method) (stepper, error) {
	switch m {
	case MethodRK4:
		return rk4Stepper{}, nil
	case MethodEuler:
		return eulerStepper{}, nil
	case MethodVerlet:
		return verletStepper{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown integration method %d", ErrInvalidConfiguration, int(m))
	}
}

// MetricsRecorder receives run outcomes from the engine and the zero
// solver. The engine calls it synchronously at the end of each operation;
// a nil recorder disables reporting.
type MetricsRecorder interface {
	RecordTrajectory(method, termination string, steps int, seconds float64)
	RecordZeroSolve(outcome string, iterations int)
}

// Engine integrates one projectile's flight at a time. It owns no mutable
// state across runs: every Run works on its own MotionState chain, so a
// single Engine may serve concurrent runs as long as its collaborators
// (drag table, atmosphere, wind field) stay read-only, which they are.
type Engine struct {
	load   model.Load
	weapon model.Weapon
	table  *DragTable
	retard *RetardationModel
	atmos  Atmosphere
	wind   windField

	log     logging.Logger
	metrics MetricsRecorder

	coriolisOn bool
	latitude   float64

	spinDriftOn bool
	stability   float64
	driftSign   float64

	windSegments []model.WindSegment
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDragTable overrides the table built from the load's family and BC,
// for callers with a custom or multi-BC curve.
func WithDragTable(t *DragTable) Option {
	return func(e *Engine) { e.table = t }
}

// WithAtmosphere supplies the density/speed-of-sound provider. Without it
// the engine assumes ICAO sea-level conditions everywhere.
func WithAtmosphere(a Atmosphere) Option {
	return func(e *Engine) { e.atmos = a }
}

// WithWind supplies the wind segments partitioning the downrange axis.
func WithWind(segments []model.WindSegment) Option {
	return func(e *Engine) { e.windSegments = segments }
}

// WithLogger attaches a structured logger. The default drops all logs.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics attaches a metrics recorder for run outcomes.
func WithMetrics(rec MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = rec }
}

// WithCoriolis enables the Coriolis acceleration term for a shooter at the
// given latitude (rad). The firing azimuth comes from each RunConfig.
func WithCoriolis(latitude float64) Option {
	return func(e *Engine) {
		e.coriolisOn = true
		e.latitude = latitude
	}
}

// WithSpinDrift enables the lateral spin-drift correction on recorded
// samples. Requires the weapon twist and the projectile mass, diameter and
// length.
func WithSpinDrift() Option {
	return func(e *Engine) { e.spinDriftOn = true }
}

// NewEngine validates the load and weapon, builds the drag table when none
// was supplied, and resolves all collaborators.
func NewEngine(load model.Load, weapon model.Weapon, opts ...Option) (*Engine, error) {
	e := &Engine{
		load:   load,
		weapon: weapon,
		log:    logging.Noop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !(load.MuzzleVelocity > 0) {
		return nil, fmt.Errorf("%w: muzzle velocity %v must be positive", ErrInvalidConfiguration, load.MuzzleVelocity)
	}
	if weapon.SightHeight < 0 {
		return nil, fmt.Errorf("%w: sight height %v must not be negative", ErrInvalidConfiguration, weapon.SightHeight)
	}

	if e.table == nil {
		t, err := NewStandardTable(load.Projectile.Family, load.Projectile.BC)
		if err != nil {
			return nil, err
		}
		e.table = t
	}
	retard, err := NewRetardationModel(e.table, &e.load.Projectile)
	if err != nil {
		return nil, err
	}
	e.retard = retard

	if e.atmos == nil {
		e.atmos = defaultAtmosphere()
	}

	wind, err := newWindField(e.windSegments)
	if err != nil {
		return nil, err
	}
	e.wind = wind

	if e.spinDriftOn {
		sg, err := MillerStability(load.Projectile, weapon.Twist, load.MuzzleVelocity)
		if err != nil {
			return nil, err
		}
		e.stability = sg
		e.driftSign = 1
		if weapon.Twist < 0 {
			e.driftSign = -1
		}
	}

	return e, nil
}

// Mode selects how much of a run is reported back.
type Mode int

const (
	// ModeFull records every requested sample and event.
	ModeFull Mode = iota
	// ModeTerminal reports only the final state, skipping all recording.
	// The zero solver uses it to probe candidate angles cheaply.
	ModeTerminal
)

// Defaults applied by Run when the corresponding RunConfig field is zero.
const (
	DefaultStepSize    = 1e-3   // s
	DefaultMinVelocity = 15.24  // m/s; a projectile slower than this is aerodynamically lost
	DefaultMaxDrop     = -4572. // m below the muzzle
	DefaultStepCeiling = 1 << 20
)

// stepShrinkFloor bounds how far the final-approach step may shrink
// relative to the configured step size, so the loop cannot creep toward
// the range plane in ever-smaller increments.
const stepShrinkFloor = 1e-3

// RunConfig parameterizes one integration run. Zero values select the
// documented defaults; MaxRange is the only mandatory field.
type RunConfig struct {
	Elevation float64 // barrel angle above horizontal, rad
	Azimuth   float64 // firing azimuth clockwise from north, rad; only the Coriolis term uses it
	LookAngle float64 // sight-line angle above horizontal, rad

	Method         Method
	StepSize       float64   // s; 0 selects DefaultStepSize
	MaxRange       float64   // m downrange; termination bound, required
	RecordInterval float64   // m between periodic samples; 0 disables them
	ExtraPoints    []float64 // extra downrange distances to sample, any order

	MinVelocity float64 // m/s; 0 selects DefaultMinVelocity, negative disables
	MaxDrop     float64 // m; 0 selects DefaultMaxDrop
	StepCeiling int     // 0 selects DefaultStepCeiling

	Mode Mode
}

type runParams struct {
	elevation   float64
	azimuth     float64
	lookTan     float64
	method      Method
	stepper     stepper
	dt          float64
	maxRange    float64
	interval    float64
	extra       []float64
	minVelocity float64
	maxDrop     float64
	stepCeiling int
	mode        Mode
}

func (e *Engine) normalize(cfg RunConfig) (runParams, error) {
	p := runParams{
		elevation:   cfg.Elevation,
		azimuth:     cfg.Azimuth,
		method:      cfg.Method,
		dt:          cfg.StepSize,
		maxRange:    cfg.MaxRange,
		interval:    cfg.RecordInterval,
		minVelocity: cfg.MinVelocity,
		maxDrop:     cfg.MaxDrop,
		stepCeiling: cfg.StepCeiling,
		mode:        cfg.Mode,
	}

	if p.dt == 0 {
		p.dt = DefaultStepSize
	}
	if !(p.dt > 0) {
		return runParams{}, fmt.Errorf("%w: step size %v must be positive", ErrInvalidConfiguration, cfg.StepSize)
	}
	if !(p.maxRange > 0) {
		return runParams{}, fmt.Errorf("%w: maximum range %v must be positive", ErrInvalidConfiguration, cfg.MaxRange)
	}
	if p.interval < 0 {
		return runParams{}, fmt.Errorf("%w: recording interval %v must not be negative", ErrInvalidConfiguration, cfg.RecordInterval)
	}
	if math.Abs(cfg.LookAngle) >= math.Pi/2 {
		return runParams{}, fmt.Errorf("%w: look angle %v rad must be within ±π/2", ErrInvalidConfiguration, cfg.LookAngle)
	}
	if p.mode != ModeFull && p.mode != ModeTerminal {
		return runParams{}, fmt.Errorf("%w: unknown run mode %d", ErrInvalidConfiguration, int(cfg.Mode))
	}
	p.lookTan = math.Tan(cfg.LookAngle)

	switch {
	case p.minVelocity == 0:
		p.minVelocity = DefaultMinVelocity
	case p.minVelocity < 0:
		p.minVelocity = 0
	}
	if p.maxDrop == 0 {
		p.maxDrop = DefaultMaxDrop
	}
	if p.stepCeiling <= 0 {
		p.stepCeiling = DefaultStepCeiling
	}

	st, err := newStepper(cfg.Method)
	if err != nil {
		return runParams{}, err
	}
	p.stepper = st

	if len(cfg.ExtraPoints) > 0 {
		p.extra = make([]float64, 0, len(cfg.ExtraPoints))
		for _, x := range cfg.ExtraPoints {
			if x > 0 {
				p.extra = append(p.extra, x)
			}
		}
		sort.Float64s(p.extra)
	}

	return p, nil
}

// Run integrates one trajectory. In ModeFull the returned Trajectory holds
// every recorded sample; in ModeTerminal it holds exactly the final one.
// MaxRange, GroundImpact and MinVelocity are reported as the termination
// with a nil error; an exhausted step ceiling returns TerminationFailed
// together with ErrNonConvergent and the samples recorded so far.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (Trajectory, Termination, error) {
	started := time.Now()
	p, err := e.normalize(cfg)
	if err != nil {
		return nil, TerminationNone, err
	}

	res := e.integrate(p)
	elapsed := time.Since(started)

	e.log.Debug(ctx, "trajectory integrated",
		logging.String("method", p.method.String()),
		logging.String("termination", res.termination.String()),
		logging.Int("steps", res.steps),
		logging.Float("range_m", res.final.Position.X),
		logging.Float("time_of_flight_s", res.final.Time),
	)
	if e.metrics != nil {
		e.metrics.RecordTrajectory(p.method.String(), res.termination.String(), res.steps, elapsed.Seconds())
	}

	if res.termination == TerminationFailed {
		return res.samples, TerminationFailed,
			fmt.Errorf("integration exceeded %d steps: %w", p.stepCeiling, ErrNonConvergent)
	}
	return res.samples, res.termination, nil
}

type runResult struct {
	samples     Trajectory
	final       MotionState
	termination Termination
	steps       int
}

type runState struct {
	p         runParams
	samples   Trajectory
	nextRange float64
	extraIdx  int
}

// integrate owns the stepping loop: Init, Stepping, then one of the
// termination outcomes, checked in precedence order every step.
func (e *Engine) integrate(p runParams) runResult {
	var omega Vec3
	if e.coriolisOn {
		omega = coriolisOmega(e.latitude, p.azimuth)
	}
	accel := func(pos, vel Vec3) Vec3 {
		ratio, sound := e.atmos.AtAltitude(pos.Y)
		a := e.retard.Decelerate(vel.Sub(e.wind.at(pos.X)), ratio, sound)
		a.Y -= gravityAccel
		if e.coriolisOn {
			a = a.Add(omega.Cross(vel).Scale(-2))
		}
		return a
	}

	sinEl, cosEl := math.Sincos(p.elevation)
	st := e.assemble(0,
		Vec3{Y: -e.weapon.SightHeight, Z: -e.weapon.SightOffset},
		Vec3{X: e.load.MuzzleVelocity * cosEl, Y: e.load.MuzzleVelocity * sinEl},
	)

	rs := &runState{p: p, nextRange: p.interval}
	if p.mode == ModeFull {
		flags := Event(0)
		if p.interval > 0 {
			flags = EventRangeStep
		}
		e.appendSample(rs, st, flags)
	}

	steps := 0
	for {
		dt := p.dt
		if vx := st.Velocity.X; vx > 0 {
			if remain := p.maxRange - st.Position.X; remain < vx*dt {
				dt = math.Max(remain/vx, p.dt*stepShrinkFloor)
			}
		}

		np, nv := p.stepper.advance(st.Position, st.Velocity, dt, accel)
		next := e.assemble(st.Time+dt, np, nv)
		steps++
		e.observeStep(rs, st, next)

		if next.Position.X >= p.maxRange {
			final := next
			if dx := next.Position.X - st.Position.X; next.Position.X > p.maxRange && dx > 0 {
				final = e.interpolate(st, next, (p.maxRange-st.Position.X)/dx)
			}
			return e.finish(rs, final, TerminationMaxRange, steps)
		}
		if next.Position.Y < p.maxDrop {
			return e.finish(rs, next, TerminationGroundImpact, steps)
		}
		if next.Velocity.Norm() < p.minVelocity {
			return e.finish(rs, next, TerminationMinVelocity, steps)
		}
		if steps >= p.stepCeiling {
			return e.finish(rs, next, TerminationFailed, steps)
		}
		st = next
	}
}

func (e *Engine) finish(rs *runState, final MotionState, term Termination, steps int) runResult {
	switch rs.p.mode {
	case ModeFull:
		e.appendSample(rs, final, 0)
	case ModeTerminal:
		rs.samples = Trajectory{e.enrich(final, 0, rs.p.lookTan)}
	}
	return runResult{samples: rs.samples, final: final, termination: term, steps: steps}
}

type eventHit struct {
	frac float64
	flag Event
}

// observeStep detects the events bracketed by one step and records them at
// their interpolated positions, in increasing time order. Nothing past the
// maximum range is recorded: the run ends on the range plane, so the part
// of the step beyond it never happened as far as samples are concerned.
func (e *Engine) observeStep(rs *runState, prev, next MotionState) {
	if rs.p.mode != ModeFull {
		return
	}
	limit := 1.0
	if next.Position.X > rs.p.maxRange {
		limit = fracBetween(prev.Position.X, next.Position.X, rs.p.maxRange)
	}

	var hits []eventHit
	if rs.p.interval > 0 {
		for rs.nextRange <= next.Position.X {
			if rs.nextRange > prev.Position.X {
				hits = append(hits, eventHit{
					frac: fracBetween(prev.Position.X, next.Position.X, rs.nextRange),
					flag: EventRangeStep,
				})
			}
			rs.nextRange += rs.p.interval
		}
	}
	for rs.extraIdx < len(rs.p.extra) && rs.p.extra[rs.extraIdx] <= next.Position.X {
		if xq := rs.p.extra[rs.extraIdx]; xq > prev.Position.X {
			hits = append(hits, eventHit{
				frac: fracBetween(prev.Position.X, next.Position.X, xq),
				flag: EventRequested,
			})
		}
		rs.extraIdx++
	}
	if fp, fn := sightOffset(prev, rs.p.lookTan), sightOffset(next, rs.p.lookTan); crossed(fp, fn) {
		hits = append(hits, eventHit{frac: fracBetween(fp, fn, 0), flag: EventZeroCrossing})
	}
	if crossed(prev.Mach-1, next.Mach-1) {
		hits = append(hits, eventHit{frac: fracBetween(prev.Mach-1, next.Mach-1, 0), flag: EventMachCrossing})
	}
	if vp, vn := prev.Velocity.Y, next.Velocity.Y; vp > 0 && vn <= 0 {
		hits = append(hits, eventHit{frac: fracBetween(vp, vn, 0), flag: EventApex})
	}

	if len(hits) == 0 {
		return
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].frac < hits[j].frac })
	for _, h := range hits {
		if h.frac > limit {
			break
		}
		e.appendSample(rs, e.interpolate(prev, next, h.frac), h.flag)
	}
}

// timeMergeEps merges samples whose interpolated instants coincide, so
// coincident events share one sample and times stay strictly increasing.
const timeMergeEps = 1e-12

func (e *Engine) appendSample(rs *runState, st MotionState, flags Event) {
	if n := len(rs.samples); n > 0 {
		last := &rs.samples[n-1]
		if st.Time <= last.Time+timeMergeEps {
			last.Events |= flags
			return
		}
	}
	rs.samples = append(rs.samples, e.enrich(st, flags, rs.p.lookTan))
}

// enrich turns a MotionState into a caller-facing sample with the
// sight-relative and energetic quantities filled in.
func (e *Engine) enrich(st MotionState, flags Event, lookTan float64) TrajectorySample {
	s := TrajectorySample{MotionState: st, Events: flags}
	s.Drop = sightOffset(st, lookTan)
	s.Windage = st.Position.Z
	if e.spinDriftOn {
		s.Windage += e.driftSign * spinDrift(e.stability, st.Time)
	}
	if x := st.Position.X; x > 0 {
		s.DropAdjustment = math.Atan(s.Drop / x)
		s.WindageAdjustment = math.Atan(s.Windage / x)
	}
	speed := st.Velocity.Norm()
	s.Energy = e.retard.Energy(speed)
	s.OptimalGameWeight = e.retard.OptimalGameWeight(speed)
	return s
}

// assemble builds a MotionState, deriving Mach and density from the
// atmosphere at the state's own altitude.
func (e *Engine) assemble(t float64, pos, vel Vec3) MotionState {
	ratio, sound := e.atmos.AtAltitude(pos.Y)
	return MotionState{
		Time:         t,
		Position:     pos,
		Velocity:     vel,
		Mach:         vel.Norm() / sound,
		DensityRatio: ratio,
	}
}

// interpolate lerps position and velocity between two states and
// reassembles the derived quantities at the interpolated point.
func (e *Engine) interpolate(a, b MotionState, frac float64) MotionState {
	t := a.Time + (b.Time-a.Time)*frac
	return e.assemble(t, lerpVec3(a.Position, b.Position, frac), lerpVec3(a.Velocity, b.Velocity, frac))
}

// sightOffset is the vertical distance from the line of sight, the scalar
// whose sign changes mark zero crossings.
func sightOffset(st MotionState, lookTan float64) float64 {
	return st.Position.Y - st.Position.X*lookTan
}

// crossed reports a sign change from a to b, counting a landing exactly on
// zero as crossed so the event is flagged at the step that reaches it.
func crossed(a, b float64) bool {
	return (a > 0 && b <= 0) || (a < 0 && b >= 0)
}

// fracBetween locates v between a and b as a fraction of the interval.
func fracBetween(a, b, v float64) float64 {
	if b == a {
		return 1
	}
	return (v - a) / (b - a)
}

// coriolisOmega expresses the Earth's angular velocity in the shooter
// frame for a given latitude and firing azimuth (clockwise from north).
func coriolisOmega(latitude, azimuth float64) Vec3 {
	sinLat, cosLat := math.Sincos(latitude)
	sinAz, cosAz := math.Sincos(azimuth)
	return Vec3{
		X: earthRotationRate * cosLat * cosAz,
		Y: earthRotationRate * sinLat,
		Z: -earthRotationRate * cosLat * sinAz,
	}
}
