package sim

import "fmt"

// Role distinguishes the two sides of the market.
type Role int

const (
	RolePassenger Role = iota + 1
	RoleDriver
)

func (r Role) String() string {
	switch r {
	case RolePassenger:
		return "passenger"
	case RoleDriver:
		return "driver"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// AgentID is the identity of an agent within one State.
type AgentID int64

// Agent is a passenger or driver that arrived at Location at time Arrival.
// Agents are immutable once created.
type Agent struct {
	ID       AgentID
	Role     Role
	Location Location
	Arrival  float64
}

// Equal reports whether a and b are the same agent. Two agents sharing a
// location and arrival time are still distinct unless their IDs match.
func (a Agent) Equal(b Agent) bool {
	return a.ID == b.ID
}

func (a Agent) String() string {
	return fmt.Sprintf("%s#%d@%s t=%.4f", a.Role, a.ID, a.Location, a.Arrival)
}

// Assignment pairs a passenger with a driver at Time.
type Assignment struct {
	Passenger Agent
	Driver    Agent
	Time      float64
}

// Distance returns the travel cost of the assignment under d.
func (a Assignment) Distance(d DistanceFunc) float64 {
	return d(a.Driver.Location, a.Passenger.Location)
}
