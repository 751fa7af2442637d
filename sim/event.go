package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// EventType tags the kind of a simulation event.
type EventType string

const (
	EventTypePassengerArrival EventType = "PassengerArrival"
	EventTypeDriverArrival    EventType = "DriverArrival"
	EventTypePolicy           EventType = "Policy"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first: agents arriving at t are visible to a
// policy invoked at t.
var EventTypePriority = map[EventType]int{
	EventTypePassengerArrival: 0,
	EventTypeDriverArrival:    1,
	EventTypePolicy:           2,
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated time) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	EventID() uint64
	Type() EventType
	Execute(*Simulator) error
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp float64
	eventID   uint64
	eventType EventType
}

func (e *BaseEvent) Timestamp() float64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// ArrivalEvent represents a passenger or driver arriving at Location.
type ArrivalEvent struct {
	BaseEvent
	Role     Role
	Location Location
}

// Execute inserts the agent into its waiting set and schedules the feed's
// next arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) error {
	a := sim.state.AddAgent(e.timestamp, e.Location, e.Role)
	logrus.Debugf("<< Arrival: %s", a)
	return sim.scheduleArrival(e.Role)
}

// PolicyEvent represents one invocation of a dispatch policy.
type PolicyEvent struct {
	BaseEvent
	Policy Policy
}

// Execute applies the policy at the event time and schedules the next tick.
func (e *PolicyEvent) Execute(sim *Simulator) error {
	if err := sim.applyPolicy(e.timestamp, e.Policy); err != nil {
		return fmt.Errorf("policy %s at t=%v: %w", e.Policy.Name(), e.timestamp, err)
	}
	return sim.schedulePolicy()
}
