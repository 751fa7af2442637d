package sim

// CostResult is the cost of a State observed at one instant.
type CostResult struct {
	PassengerWait float64 `yaml:"passenger_wait_cost"`
	DriverWait    float64 `yaml:"driver_wait_cost"`
	Distance      float64 `yaml:"distance_cost"`
}

// Total returns the sum of the three cost components.
func (c CostResult) Total() float64 {
	return c.PassengerWait + c.DriverWait + c.Distance
}

// Evaluate prices state at time at. Committed assignments contribute both
// agents' wait up to the assignment time plus the travel distance; agents
// still waiting contribute their wait up to at, with no distance term.
//
// at must not precede any arrival in state. Summation order is fixed
// (commit order, then ascending ID) so equal states give bit-identical results.
func Evaluate(state *State, params ProblemParams, at float64) CostResult {
	var res CostResult
	for _, a := range state.assignments {
		res.PassengerWait += params.PassengerWaitCost.Cost(a.Time - a.Passenger.Arrival)
		res.DriverWait += params.DriverWaitCost.Cost(a.Time - a.Driver.Arrival)
		res.Distance += params.Distance(a.Driver.Location, a.Passenger.Location)
	}
	for _, p := range state.passengers.agents {
		res.PassengerWait += params.PassengerWaitCost.Cost(at - p.Arrival)
	}
	for _, d := range state.drivers.agents {
		res.DriverWait += params.DriverWaitCost.Cost(at - d.Arrival)
	}
	return res
}
