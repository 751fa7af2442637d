package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matching-sim/matching-sim/sim"
)

func smallSpec(workers int) *Spec {
	spec := &Spec{
		Horizon: 8.001,
		Alphas:  []float64{0.125},
		Discs:   []float64{1, 2},
		Seeds:   []int64{0, 1},
		Methods: []string{MethodNoStar, MethodStar, MethodGreedy},
		Workers: workers,
	}
	spec.SetDefaults()
	return spec
}

func TestRunner_Run_OneRecordPerJobInOrder(t *testing.T) {
	// GIVEN a 1 x 2 x 2 x 3 grid
	spec := smallSpec(3)

	// WHEN run
	records, err := (&Runner{Spec: spec}).Run(context.Background())
	require.NoError(t, err)

	// THEN records line up with jobs and every run succeeded
	jobs := spec.Jobs()
	require.Len(t, records, len(jobs))
	seen := map[string]bool{}
	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, jobs[i].Method, rec.Method)
		assert.Equal(t, jobs[i].Seed, rec.Seed)
		assert.Equal(t, jobs[i].Disc, rec.Disc)
		assert.Equal(t, StatusOK, rec.Status, rec.Error)
		assert.Empty(t, rec.Error)
		assert.Equal(t, "hungarian", rec.Solver)
		assert.Equal(t, 1.0, rec.ArrivalRate)
		assert.Positive(t, rec.PolicyInvocations)
		assert.InDelta(t, rec.PassengerWaitCost+rec.DriverWaitCost+rec.DistanceCost, rec.TotalCost, 1e-9)
		assert.False(t, seen[rec.RunID], "duplicate run id %s", rec.RunID)
		seen[rec.RunID] = true
	}
}

func TestRunner_Run_DeterministicAcrossWorkerCounts(t *testing.T) {
	// GIVEN the same grid run serially and in parallel
	serial, err := (&Runner{Spec: smallSpec(1)}).Run(context.Background())
	require.NoError(t, err)
	parallel, err := (&Runner{Spec: smallSpec(4)}).Run(context.Background())
	require.NoError(t, err)

	// THEN the records are identical
	assert.Equal(t, serial, parallel)
}

func TestRunner_Run_MatchesDirectSimulation(t *testing.T) {
	// GIVEN a one-job sweep
	spec := smallSpec(1)
	spec.Discs = []float64{1}
	spec.Seeds = []int64{5}
	spec.Methods = []string{MethodStar}
	records, err := (&Runner{Spec: spec}).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	// WHEN the same cell is simulated by hand
	job := spec.Jobs()[0]
	res, err := runJob(context.Background(), spec, job, nil, sim.Euclidean)
	require.NoError(t, err)

	// THEN the sweep reports the same costs
	assert.Equal(t, res.Cost.Total(), records[0].TotalCost)
	assert.Equal(t, res.Assignments, records[0].Assignments)
}

func TestRunner_Run_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Runner{Spec: smallSpec(2)}).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_Run_InvalidSpec(t *testing.T) {
	spec := smallSpec(1)
	spec.Methods = []string{"fifo"}
	_, err := (&Runner{Spec: spec}).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_Run_ReportsMetricsAndCallbacks(t *testing.T) {
	// GIVEN a runner wired to a private registry and a callback
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	var mu sync.Mutex
	var got []int
	r := &Runner{Spec: smallSpec(2), Metrics: m, OnRecord: func(rec Record) {
		mu.Lock()
		got = append(got, rec.Index)
		mu.Unlock()
	}}

	// WHEN run
	records, err := r.Run(context.Background())
	require.NoError(t, err)

	// THEN each method saw four successful runs and every job called back once
	for _, method := range []string{MethodNoStar, MethodStar, MethodGreedy} {
		assert.Equal(t, 4.0, testutil.ToFloat64(m.runs.WithLabelValues(method, StatusOK)), method)
	}
	total := 0
	for _, rec := range records {
		total += rec.Assignments
	}
	sum := 0.0
	for _, method := range []string{MethodNoStar, MethodStar, MethodGreedy} {
		sum += testutil.ToFloat64(m.assignments.WithLabelValues(method))
	}
	assert.Equal(t, float64(total), sum)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, got)
}

func TestRecord_Fill_ErrorKeepsPartialCounts(t *testing.T) {
	// GIVEN a failed run with some progress
	rec := Record{}
	res := sim.RunResult{Assignments: 3, Passengers: 1, Drivers: 2}
	res.Stats.PolicyInvocations = 4

	// WHEN filled
	rec.fill(res, sim.ErrSolverInfeasible)

	// THEN counts are kept, costs stay zero and the error is reported
	assert.Equal(t, StatusError, rec.Status)
	assert.Equal(t, sim.ErrSolverInfeasible.Error(), rec.Error)
	assert.Equal(t, 3, rec.Assignments)
	assert.Equal(t, 1, rec.WaitingPassengers)
	assert.Equal(t, 2, rec.WaitingDrivers)
	assert.Equal(t, 4, rec.PolicyInvocations)
	assert.Zero(t, rec.TotalCost)
}

func TestRunID_StableAndDistinct(t *testing.T) {
	spec := smallSpec(1)
	jobs := spec.Jobs()

	assert.Equal(t, RunID(spec, jobs[0]), RunID(spec, jobs[0]))
	assert.NotEqual(t, RunID(spec, jobs[0]), RunID(spec, jobs[1]))

	// Index is not part of the key: the same cell in another grid keeps its ID.
	moved := jobs[0]
	moved.Index = 99
	assert.Equal(t, RunID(spec, jobs[0]), RunID(spec, moved))

	other := *spec
	other.Power = 2
	assert.NotEqual(t, RunID(spec, jobs[0]), RunID(&other, jobs[0]))
}
