package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/matching-sim/matching-sim/sim/trace"
)

// RunConfig is the input of RunSimulation. Streams must already be seeded;
// the same streams and schedule always give the same result.
type RunConfig struct {
	Params     ProblemParams
	Passengers ArrivalStream
	Drivers    ArrivalStream
	Schedule   PolicySchedule
	Horizon    float64
	Trace      trace.TraceConfig
}

// RunResult is the outcome of one run.
type RunResult struct {
	// Cost is the realized plus pending cost evaluated at Horizon.
	Cost        CostResult
	State       *State
	Trace       *trace.SimulationTrace
	Stats       RunStats
	Assignments int
	Passengers  int // waiting passengers at the horizon
	Drivers     int // waiting drivers at the horizon
	Elapsed     time.Duration
}

// RunSimulation simulates cfg up to cfg.Horizon and prices the final state.
// On error the returned result still carries the partial State; Cost is left
// zero.
func RunSimulation(ctx context.Context, cfg RunConfig) (RunResult, error) {
	start := time.Now()
	sim, err := NewSimulator(SimConfig{
		Params:     cfg.Params,
		Passengers: cfg.Passengers,
		Drivers:    cfg.Drivers,
		Schedule:   cfg.Schedule,
		Horizon:    cfg.Horizon,
		Trace:      cfg.Trace,
	})
	if err != nil {
		return RunResult{}, err
	}

	res := RunResult{State: sim.State()}
	runErr := sim.Run(ctx)
	res.Stats = sim.Stats()
	res.Trace = sim.Trace()
	res.Assignments = sim.State().NumAssignments()
	res.Passengers = sim.State().NumWaiting(RolePassenger)
	res.Drivers = sim.State().NumWaiting(RoleDriver)
	res.Elapsed = time.Since(start)
	if runErr != nil {
		return res, runErr
	}

	res.Cost = Evaluate(sim.State(), cfg.Params, cfg.Horizon)
	logrus.Debugf("run finished: %d assignments, total cost %.4f (%s)",
		res.Assignments, res.Cost.Total(), res.Elapsed)
	return res, nil
}
