package sweep

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/matching-sim/matching-sim/sim"
	"github.com/matching-sim/matching-sim/sim/assign"
	"github.com/matching-sim/matching-sim/sim/workload"
)

// Runner executes every job of a Spec. Runs are independent: each owns its
// streams, State and cost functions.
type Runner struct {
	Spec    *Spec
	Metrics *Metrics // optional

	// OnRecord, when set, is called once per finished job from the worker
	// goroutine that ran it. It must be safe for concurrent use; calls may
	// arrive out of job order.
	OnRecord func(Record)
}

// Run executes all jobs with at most Spec.Workers in flight (GOMAXPROCS when
// zero) and returns one record per job in job order. A failing run yields a
// record with StatusError and does not stop the sweep; only context
// cancellation does.
func (r *Runner) Run(ctx context.Context) ([]Record, error) {
	spec := r.Spec
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep spec: %w", err)
	}
	solver, err := assign.ByName(spec.Solver)
	if err != nil {
		return nil, err
	}
	dist, err := sim.DistanceByName(spec.Distance)
	if err != nil {
		return nil, err
	}

	workers := spec.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	jobs := spec.Jobs()
	records := make([]Record, len(jobs))
	logrus.Infof("sweep: %d jobs on %d workers", len(jobs), workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			start := time.Now()
			rec := newRecord(spec, job)
			res, err := runJob(gctx, spec, job, solver, dist)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			rec.fill(res, err)
			if err != nil {
				logrus.Warnf("sweep: job %d (alpha=%g disc=%g seed=%d %s) failed: %v",
					job.Index, job.Alpha, job.Disc, job.Seed, job.Method, err)
			} else {
				logrus.Debugf("sweep: job %d done, total cost %.4f", job.Index, rec.TotalCost)
			}
			r.Metrics.ObserveRun(rec, time.Since(start))
			records[job.Index] = rec
			if r.OnRecord != nil {
				r.OnRecord(rec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logrus.Infof("sweep: finished %d jobs", len(jobs))
	return records, nil
}

func runJob(ctx context.Context, spec *Spec, job Job, solver assign.Solver, dist sim.DistanceFunc) (sim.RunResult, error) {
	passengers, drivers, err := workload.GenerateStreams(spec.Workload, job.Seed)
	if err != nil {
		return sim.RunResult{}, err
	}
	schedule, err := BuildSchedule(job.Method, job.Disc, spec.Subdivision, solver)
	if err != nil {
		return sim.RunResult{}, err
	}
	waitCost := sim.SupLinCost{Alpha: job.Alpha, Power: spec.Power}
	return sim.RunSimulation(ctx, sim.RunConfig{
		Params: sim.ProblemParams{
			PassengerWaitCost: waitCost,
			DriverWaitCost:    waitCost,
			Distance:          dist,
		},
		Passengers: passengers,
		Drivers:    drivers,
		Schedule:   schedule,
		Horizon:    spec.Horizon,
	})
}
