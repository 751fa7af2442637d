// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/matching-sim/matching-sim/sim/trace"
)

// Phase is the lifecycle stage of a Simulator.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SimConfig holds everything one run needs. Streams and schedule are
// consumed by the run; they must not be shared with another Simulator
// (Passengers and Drivers may be the same stream).
type SimConfig struct {
	Params     ProblemParams
	Passengers ArrivalStream
	Drivers    ArrivalStream
	Schedule   PolicySchedule
	Horizon    float64
	Trace      trace.TraceConfig
}

// RunStats counts what the event loop did.
type RunStats struct {
	EventsExecuted    int `yaml:"events_executed"`
	EventsDiscarded   int `yaml:"events_discarded"`
	PolicyInvocations int `yaml:"policy_invocations"`
}

// Simulator is the core object that holds simulation time, the matching
// state, and the event loop. It merges passenger arrivals, driver arrivals
// and policy invocations on one EventHeap.
type Simulator struct {
	Clock   float64
	Horizon float64

	params   ProblemParams
	state    *State
	events   *EventHeap
	feeds    map[Role]*arrivalFeed
	schedule PolicySchedule
	lastTick float64

	phase       Phase
	nextEventID uint64
	trace       *trace.SimulationTrace
	stats       RunStats
}

// NewSimulator validates cfg and returns an idle Simulator over a fresh State.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(cfg.Horizon) || math.IsInf(cfg.Horizon, 0) || cfg.Horizon < 0 {
		return nil, fmt.Errorf("horizon must be a finite non-negative number, got %v", cfg.Horizon)
	}
	if cfg.Trace.Level != "" && !trace.IsValidTraceLevel(string(cfg.Trace.Level)) {
		return nil, fmt.Errorf("unknown trace level %q", cfg.Trace.Level)
	}

	sim := &Simulator{
		Horizon:  cfg.Horizon,
		params:   cfg.Params,
		state:    NewState(),
		events:   NewEventHeap(),
		schedule: cfg.Schedule,
		feeds: map[Role]*arrivalFeed{
			RolePassenger: newArrivalFeed(RolePassenger, cfg.Passengers),
			RoleDriver:    newArrivalFeed(RoleDriver, cfg.Drivers),
		},
	}
	if cfg.Trace.Enabled() {
		sim.trace = trace.NewSimulationTrace(cfg.Trace)
	}
	return sim, nil
}

// Run executes events in (timestamp, type priority, event ID) order until
// the next event lies beyond Horizon or none remain. Events beyond the
// horizon are discarded. Run returns ErrNotIdle if called twice, ctx.Err()
// when ctx is cancelled between events, or the first event error. In every
// case the simulator ends in PhaseFinished and State stays consistent.
func (sim *Simulator) Run(ctx context.Context) error {
	if sim.phase != PhaseIdle {
		return fmt.Errorf("%w: phase is %s", ErrNotIdle, sim.phase)
	}
	sim.phase = PhaseRunning
	defer func() { sim.phase = PhaseFinished }()

	if err := sim.scheduleArrival(RolePassenger); err != nil {
		return err
	}
	if err := sim.scheduleArrival(RoleDriver); err != nil {
		return err
	}
	if err := sim.schedulePolicy(); err != nil {
		return err
	}

	for sim.events.Len() > 0 {
		if err := ctx.Err(); err != nil {
			logrus.Infof("[t=%.4f] Simulation cancelled: %v", sim.Clock, err)
			return err
		}
		if next := sim.events.Peek(); next.Timestamp() > sim.Horizon {
			sim.stats.EventsDiscarded = sim.events.Len()
			sim.events.Clear()
			break
		}
		ev := sim.events.PopNext()
		if ev.Timestamp() < sim.Clock {
			panic(fmt.Sprintf("simulator clock went backwards: %v -> %v (%s #%d)",
				sim.Clock, ev.Timestamp(), ev.Type(), ev.EventID()))
		}
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[t=%.4f] Executing %s #%d", sim.Clock, ev.Type(), ev.EventID())
		// Counted even on failure: Execute may already have changed the state.
		err := ev.Execute(sim)
		sim.stats.EventsExecuted++
		if err != nil {
			return err
		}
	}
	logrus.Debugf("[t=%.4f] Simulation ended: %d events, %d policy calls, %d assignments",
		sim.Clock, sim.stats.EventsExecuted, sim.stats.PolicyInvocations, sim.state.NumAssignments())
	return nil
}

// Schedule pushes an event onto the simulator's EventHeap.
func (sim *Simulator) Schedule(ev Event) {
	sim.events.Schedule(ev)
}

func (sim *Simulator) newBaseEvent(ts float64, t EventType) BaseEvent {
	sim.nextEventID++
	return BaseEvent{timestamp: ts, eventID: sim.nextEventID, eventType: t}
}

// scheduleArrival pulls the next item of role's feed, if any, and schedules it.
func (sim *Simulator) scheduleArrival(role Role) error {
	at, loc, ok, err := sim.feeds[role].next()
	if err != nil || !ok {
		return err
	}
	t := EventTypePassengerArrival
	if role == RoleDriver {
		t = EventTypeDriverArrival
	}
	sim.Schedule(&ArrivalEvent{BaseEvent: sim.newBaseEvent(at, t), Role: role, Location: loc})
	return nil
}

// schedulePolicy pulls the next policy tick, if any, and schedules it.
func (sim *Simulator) schedulePolicy() error {
	if sim.schedule == nil {
		return nil
	}
	tick, ok := sim.schedule.Next()
	if !ok {
		return nil
	}
	if math.IsNaN(tick.Wait) || tick.Wait < 0 {
		return fmt.Errorf("%w: wait %v after t=%v", ErrInvalidSchedule, tick.Wait, sim.lastTick)
	}
	if tick.Policy == nil {
		return fmt.Errorf("%w: nil policy after t=%v", ErrInvalidSchedule, sim.lastTick)
	}
	sim.lastTick += tick.Wait
	sim.Schedule(&PolicyEvent{BaseEvent: sim.newBaseEvent(sim.lastTick, EventTypePolicy), Policy: tick.Policy})
	return nil
}

// applyPolicy runs p at now and records the invocation in the trace.
func (sim *Simulator) applyPolicy(now float64, p Policy) error {
	before := sim.state.NumAssignments()
	waitingP, waitingD := sim.state.passengers.Len(), sim.state.drivers.Len()

	err := p.Apply(now, sim.state, sim.params)
	sim.stats.PolicyInvocations++

	committed := sim.state.assignments[before:]
	logrus.Debugf("[t=%.4f] %s matched %d of %d passengers / %d drivers",
		now, p.Name(), len(committed), waitingP, waitingD)

	if sim.trace != nil {
		rec := trace.InvocationRecord{
			Clock:             now,
			Policy:            p.Name(),
			WaitingPassengers: waitingP,
			WaitingDrivers:    waitingD,
		}
		for _, a := range committed {
			rec.Matches = append(rec.Matches, trace.MatchRecord{
				PassengerID:   int64(a.Passenger.ID),
				DriverID:      int64(a.Driver.ID),
				Distance:      a.Distance(sim.params.Distance),
				PassengerWait: a.Time - a.Passenger.Arrival,
				DriverWait:    a.Time - a.Driver.Arrival,
			})
		}
		sim.trace.RecordInvocation(rec)
	}
	return err
}

// State returns the simulator's state. It stays valid after Run returns,
// including after an error or cancellation.
func (sim *Simulator) State() *State {
	return sim.state
}

// Phase returns the current lifecycle phase.
func (sim *Simulator) Phase() Phase {
	return sim.phase
}

// Trace returns the decision trace, or nil when tracing is disabled.
func (sim *Simulator) Trace() *trace.SimulationTrace {
	return sim.trace
}

// Stats returns the event loop counters.
func (sim *Simulator) Stats() RunStats {
	return sim.stats
}
