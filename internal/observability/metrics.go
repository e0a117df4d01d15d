package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SolverCollector bundles Prometheus metrics for trajectory and zeroing
// work. It satisfies core.MetricsRecorder so an Engine can drive it
// directly, and provides a ready-made /metrics handler.
type SolverCollector struct {
	gatherer prometheus.Gatherer

	Trajectories       *prometheus.CounterVec
	IntegrationSteps   *prometheus.HistogramVec
	TrajectoryDuration *prometheus.HistogramVec

	ZeroSolves     *prometheus.CounterVec
	ZeroIterations prometheus.Histogram

	LibraryLoads prometheus.Gauge
}

// NewSolverCollector registers the solver metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSolverCollector(reg prometheus.Registerer) (*SolverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	trajectories := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ballistics_trajectories_total",
		Help: "Total number of integrated trajectories, labeled by method and termination reason.",
	}, []string{"method", "termination"})
	trajectories, err := registerCounterVec(reg, trajectories, "ballistics_trajectories_total")
	if err != nil {
		return nil, err
	}

	steps := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ballistics_integration_steps",
		Help:    "Steps taken per trajectory integration.",
		Buckets: []float64{1_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
	}, []string{"method"})
	steps, err = registerHistogramVec(reg, steps, "ballistics_integration_steps")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ballistics_trajectory_duration_seconds",
		Help:    "Wall-clock time spent integrating one trajectory, in seconds.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method"})
	durations, err = registerHistogramVec(reg, durations, "ballistics_trajectory_duration_seconds")
	if err != nil {
		return nil, err
	}

	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ballistics_zero_solves_total",
		Help: "Total number of zero-angle solves, labeled by outcome.",
	}, []string{"outcome"})
	solves, err = registerCounterVec(reg, solves, "ballistics_zero_solves_total")
	if err != nil {
		return nil, err
	}

	iterations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ballistics_zero_iterations",
		Help:    "Probe iterations used per zero-angle solve.",
		Buckets: []float64{1, 2, 3, 5, 10, 15, 20, 25},
	}), "ballistics_zero_iterations")
	if err != nil {
		return nil, err
	}

	loads, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ballistics_library_loads",
		Help: "Current number of loads registered in the ammunition library.",
	}), "ballistics_library_loads")
	if err != nil {
		return nil, err
	}

	return &SolverCollector{
		gatherer:           gatherer,
		Trajectories:       trajectories,
		IntegrationSteps:   steps,
		TrajectoryDuration: durations,
		ZeroSolves:         solves,
		ZeroIterations:     iterations,
		LibraryLoads:       loads,
	}, nil
}

// RecordTrajectory satisfies core.MetricsRecorder for integration runs.
func (c *SolverCollector) RecordTrajectory(method, termination string, steps int, seconds float64) {
	if c == nil {
		return
	}
	if c.Trajectories != nil {
		c.Trajectories.WithLabelValues(method, termination).Inc()
	}
	if c.IntegrationSteps != nil {
		c.IntegrationSteps.WithLabelValues(method).Observe(float64(steps))
	}
	if c.TrajectoryDuration != nil {
		c.TrajectoryDuration.WithLabelValues(method).Observe(seconds)
	}
}

// RecordZeroSolve satisfies core.MetricsRecorder for zeroing solves.
func (c *SolverCollector) RecordZeroSolve(outcome string, iterations int) {
	if c == nil {
		return
	}
	if c.ZeroSolves != nil {
		c.ZeroSolves.WithLabelValues(outcome).Inc()
	}
	if c.ZeroIterations != nil {
		c.ZeroIterations.Observe(float64(iterations))
	}
}

// SetLibraryLoads publishes the current ammunition library size.
func (c *SolverCollector) SetLibraryLoads(n int) {
	if c == nil || c.LibraryLoads == nil {
		return
	}
	c.LibraryLoads.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SolverCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
