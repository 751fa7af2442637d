// Package trace provides decision-trace recording for dispatch policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// MatchRecord captures one passenger/driver pair committed by a policy.
type MatchRecord struct {
	PassengerID   int64   `yaml:"passenger_id"`
	DriverID      int64   `yaml:"driver_id"`
	Distance      float64 `yaml:"distance"`
	PassengerWait float64 `yaml:"passenger_wait"`
	DriverWait    float64 `yaml:"driver_wait"`
}

// InvocationRecord captures a single policy invocation.
// Waiting counts are taken before the policy ran.
type InvocationRecord struct {
	Clock             float64       `yaml:"clock"`
	Policy            string        `yaml:"policy"`
	WaitingPassengers int           `yaml:"waiting_passengers"`
	WaitingDrivers    int           `yaml:"waiting_drivers"`
	Matches           []MatchRecord `yaml:"matches,omitempty"`
}
