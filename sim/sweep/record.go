package sweep

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/matching-sim/matching-sim/sim"
)

// Run outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// runNamespace scopes run IDs so the same grid cell always gets the same ID.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matching-sim/matching-sim/sweep"))

// Record is the flat outcome of one job.
type Record struct {
	RunID       string
	Index       int
	Alpha       float64
	Power       float64
	Disc        float64
	Subdivision int
	Horizon     float64
	ArrivalRate float64
	Seed        int64
	Method      string
	Solver      string

	Assignments       int
	WaitingPassengers int
	WaitingDrivers    int
	PolicyInvocations int

	PassengerWaitCost float64
	DriverWaitCost    float64
	DistanceCost      float64
	TotalCost         float64

	Status string
	Error  string
}

// RunID derives a stable identifier for a job under spec. The ID depends only
// on the values that determine the run's outcome.
func RunID(spec *Spec, job Job) uuid.UUID {
	key := fmt.Sprintf("alpha=%s/power=%s/disc=%s/sub=%d/horizon=%s/seed=%d/method=%s/solver=%s",
		formatFloat(job.Alpha), formatFloat(spec.Power), formatFloat(job.Disc), spec.Subdivision,
		formatFloat(spec.Horizon), job.Seed, job.Method, spec.Solver)
	return uuid.NewSHA1(runNamespace, []byte(key))
}

func newRecord(spec *Spec, job Job) Record {
	rec := Record{
		RunID:       RunID(spec, job).String(),
		Index:       job.Index,
		Alpha:       job.Alpha,
		Power:       spec.Power,
		Disc:        job.Disc,
		Subdivision: spec.Subdivision,
		Horizon:     spec.Horizon,
		Seed:        job.Seed,
		Method:      job.Method,
		Solver:      spec.Solver,
	}
	if spec.Workload != nil {
		rec.ArrivalRate = spec.Workload.Passengers.Rate
	}
	if rec.Solver == "" {
		rec.Solver = "hungarian"
	}
	return rec
}

// fill copies a run outcome into rec. A failed run keeps its partial counts
// and leaves the cost columns zero.
func (rec *Record) fill(res sim.RunResult, err error) {
	rec.Assignments = res.Assignments
	rec.WaitingPassengers = res.Passengers
	rec.WaitingDrivers = res.Drivers
	rec.PolicyInvocations = res.Stats.PolicyInvocations
	if err != nil {
		rec.Status = StatusError
		rec.Error = err.Error()
		return
	}
	rec.Status = StatusOK
	rec.PassengerWaitCost = res.Cost.PassengerWait
	rec.DriverWaitCost = res.Cost.DriverWait
	rec.DistanceCost = res.Cost.Distance
	rec.TotalCost = res.Cost.Total()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
