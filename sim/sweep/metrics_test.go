package sweep

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveRun(Record{Method: MethodStar, Status: StatusOK, Assignments: 5}, 150*time.Millisecond)
	m.ObserveRun(Record{Method: MethodStar, Status: StatusError, Assignments: 2}, time.Second)

	expected := `
# HELP matchsim_sweep_runs_total Total number of finished sweep runs
# TYPE matchsim_sweep_runs_total counter
matchsim_sweep_runs_total{method="star",status="error"} 1
matchsim_sweep_runs_total{method="star",status="ok"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.runs, strings.NewReader(expected)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.assignments.WithLabelValues(MethodStar)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	// GIVEN two Metrics on the same registry
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	// WHEN both observe
	first.ObserveRun(Record{Method: MethodNoStar, Status: StatusOK}, time.Millisecond)
	second.ObserveRun(Record{Method: MethodNoStar, Status: StatusOK}, time.Millisecond)

	// THEN they share counters
	assert.Equal(t, 2.0, testutil.ToFloat64(first.runs.WithLabelValues(MethodNoStar, StatusOK)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun(Record{Method: MethodStar, Status: StatusOK}, time.Second)
	})
}
