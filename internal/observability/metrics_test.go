package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordTrajectory(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSolverCollector(reg)
	if err != nil {
		t.Fatalf("NewSolverCollector: %v", err)
	}

	collector.RecordTrajectory("rk4", "max_range", 3000, 0.012)
	collector.RecordTrajectory("rk4", "max_range", 2800, 0.011)
	collector.RecordTrajectory("euler", "ground_impact", 90000, 0.2)

	if got := testutil.ToFloat64(collector.Trajectories.WithLabelValues("rk4", "max_range")); got != 2 {
		t.Fatalf("ballistics_trajectories_total{rk4,max_range} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Trajectories.WithLabelValues("euler", "ground_impact")); got != 1 {
		t.Fatalf("ballistics_trajectories_total{euler,ground_impact} = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "ballistics_integration_steps", map[string]string{
		"method": "rk4",
	}); count != 2 {
		t.Fatalf("ballistics_integration_steps sample_count = %d, want 2", count)
	}
	if count := histogramSampleCount(t, reg, "ballistics_trajectory_duration_seconds", map[string]string{
		"method": "euler",
	}); count != 1 {
		t.Fatalf("ballistics_trajectory_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestRecordZeroSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSolverCollector(reg)
	if err != nil {
		t.Fatalf("NewSolverCollector: %v", err)
	}

	collector.RecordZeroSolve("converged", 4)
	collector.RecordZeroSolve("converged", 6)
	collector.RecordZeroSolve("out_of_range", 2)

	if got := testutil.ToFloat64(collector.ZeroSolves.WithLabelValues("converged")); got != 2 {
		t.Fatalf("ballistics_zero_solves_total{converged} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ZeroSolves.WithLabelValues("out_of_range")); got != 1 {
		t.Fatalf("ballistics_zero_solves_total{out_of_range} = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "ballistics_zero_iterations", nil); count != 3 {
		t.Fatalf("ballistics_zero_iterations sample_count = %d, want 3", count)
	}
}

func TestMetricsHandlerExposesSolverMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSolverCollector(reg)
	if err != nil {
		t.Fatalf("NewSolverCollector: %v", err)
	}
	collector.SetLibraryLoads(7)
	collector.RecordTrajectory("verlet", "min_velocity", 120000, 0.4)
	collector.RecordZeroSolve("non_convergent", 25)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"ballistics_trajectories_total",
		"ballistics_integration_steps",
		"ballistics_trajectory_duration_seconds",
		"ballistics_zero_solves_total",
		"ballistics_zero_iterations",
		"ballistics_library_loads",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "ballistics_library_loads 7") {
		t.Fatalf("/metrics output missing library gauge value: %s", body)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
