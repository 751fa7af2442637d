package sim

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// State is the authoritative container of waiting agents and committed
// assignments for one simulation run.
//
// Invariants, held after every mutation:
//   - an agent is in at most one of: waiting passengers, waiting drivers, an assignment
//   - an assignment's agents were waiting at commit time and were removed atomically
//   - an assignment's time never precedes either agent's arrival
//
// State is not safe for concurrent use; each run owns its own State.
type State struct {
	nextID      AgentID
	passengers  WaitingSet
	drivers     WaitingSet
	assignments []Assignment
}

// NewState returns an empty State whose first agent gets ID 0.
func NewState() *State {
	return &State{}
}

// AddAgent creates an agent with the next free ID and inserts it into the
// waiting set for role. It never fails.
func (s *State) AddAgent(time float64, loc Location, role Role) Agent {
	a := Agent{ID: s.nextID, Role: role, Location: loc, Arrival: time}
	switch role {
	case RolePassenger:
		s.passengers.add(a)
	case RoleDriver:
		s.drivers.add(a)
	default:
		panic(fmt.Sprintf("AddAgent: unknown role %d", role))
	}
	s.nextID++
	return a
}

// CommitAssignment matches passenger with driver at time. Either both agents
// leave their waiting sets and the assignment is recorded, or nothing changes
// and an error wrapping ErrInvalidAssignment is returned.
func (s *State) CommitAssignment(passenger, driver Agent, time float64) (Assignment, error) {
	p, ok := s.passengers.Get(passenger.ID)
	if !ok {
		return Assignment{}, fmt.Errorf("%w: passenger %d is not waiting", ErrInvalidAssignment, passenger.ID)
	}
	d, ok := s.drivers.Get(driver.ID)
	if !ok {
		return Assignment{}, fmt.Errorf("%w: driver %d is not waiting", ErrInvalidAssignment, driver.ID)
	}
	if time < p.Arrival || time < d.Arrival {
		return Assignment{}, fmt.Errorf("%w: time %v precedes arrival (passenger %v, driver %v)",
			ErrInvalidAssignment, time, p.Arrival, d.Arrival)
	}

	s.passengers.remove(p.ID)
	s.drivers.remove(d.ID)
	a := Assignment{Passenger: p, Driver: d, Time: time}
	s.assignments = append(s.assignments, a)
	return a, nil
}

// Copy returns a deep copy that shares no mutable containers with s.
func (s *State) Copy() *State {
	return &State{
		nextID:      s.nextID,
		passengers:  s.passengers.clone(),
		drivers:     s.drivers.clone(),
		assignments: slices.Clone(s.assignments),
	}
}

// NextID returns the ID the next added agent will receive. It equals the
// number of agents created so far.
func (s *State) NextID() AgentID {
	return s.nextID
}

// Passengers returns the waiting passengers in ascending ID order.
func (s *State) Passengers() []Agent {
	return s.passengers.Items()
}

// Drivers returns the waiting drivers in ascending ID order.
func (s *State) Drivers() []Agent {
	return s.drivers.Items()
}

// NumWaiting returns the number of agents of role still waiting.
func (s *State) NumWaiting(role Role) int {
	switch role {
	case RolePassenger:
		return s.passengers.Len()
	case RoleDriver:
		return s.drivers.Len()
	default:
		panic(fmt.Sprintf("NumWaiting: unknown role %d", role))
	}
}

// Assignments returns the committed assignments in commit order.
func (s *State) Assignments() []Assignment {
	return slices.Clone(s.assignments)
}

// NumAssignments returns the number of committed assignments.
func (s *State) NumAssignments() int {
	return len(s.assignments)
}

func (s *State) String() string {
	var sb strings.Builder

	byArrival := func(a, b Agent) int {
		return cmp.Or(cmp.Compare(a.Arrival, b.Arrival), cmp.Compare(a.ID, b.ID))
	}

	sb.WriteString("P:\n")
	ps := s.Passengers()
	slices.SortStableFunc(ps, byArrival)
	for _, p := range ps {
		fmt.Fprintf(&sb, "\t%s\n", p)
	}

	sb.WriteString("D:\n")
	ds := s.Drivers()
	slices.SortStableFunc(ds, byArrival)
	for _, d := range ds {
		fmt.Fprintf(&sb, "\t%s\n", d)
	}

	sb.WriteString("M:\n")
	as := s.Assignments()
	slices.SortStableFunc(as, func(a, b Assignment) int { return cmp.Compare(a.Time, b.Time) })
	for _, a := range as {
		fmt.Fprintf(&sb, "\t%.4f\t%s\t%s\n", a.Time, a.Passenger, a.Driver)
	}
	return sb.String()
}
