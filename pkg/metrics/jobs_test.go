package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestJobMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.ObserveDuration("catalog_session_sweep", 10*time.Millisecond)
	m.IncSuccess("catalog_session_sweep")
	m.IncFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "job_success", "job", "catalog_session_sweep"); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "job_failure", "job", "unknown"); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var m *JobMetrics
	m.ObserveDuration("job", time.Second)
	m.IncSuccess("job")
	m.IncFailure("job")

	unregistered := NewJobMetrics(nil)
	unregistered.IncSuccess("job")
}
