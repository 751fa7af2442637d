package sim

import "fmt"

// StarMatcher is the greedy heuristic that matches the oldest waiting
// passenger with the oldest waiting driver whenever the pair's distance is
// covered by the wait cost both sides would otherwise pay over the next
// TimeDisc.
//
// Candidates are the passengers sharing the earliest arrival and the drivers
// sharing the earliest arrival. Pairs are tried passenger-major, both sides in
// ascending ID order; the first pair satisfying
//
//	2*d <= PassengerWaitCost.Marginal(now-p.Arrival, TimeDisc)
//	2*d <= DriverWaitCost.Marginal(now-d.Arrival, TimeDisc)
//
// is committed and the search restarts. Apply returns once no candidate pair
// qualifies.
type StarMatcher struct {
	TimeDisc float64
}

// NewStarMatcher returns a StarMatcher looking timeDisc ahead.
// Panics if timeDisc is negative.
func NewStarMatcher(timeDisc float64) *StarMatcher {
	if timeDisc < 0 {
		panic(fmt.Sprintf("NewStarMatcher: timeDisc must be >= 0, got %f", timeDisc))
	}
	return &StarMatcher{TimeDisc: timeDisc}
}

func (m *StarMatcher) Name() string { return "star" }

// Apply commits qualifying oldest pairs at now until none remain.
func (m *StarMatcher) Apply(now float64, state *State, params ProblemParams) error {
	for {
		p, d, ok := m.nextPair(now, state, params)
		if !ok {
			return nil
		}
		if _, err := state.CommitAssignment(p, d, now); err != nil {
			return err
		}
	}
}

// nextPair returns the first qualifying oldest pair in enumeration order.
func (m *StarMatcher) nextPair(now float64, state *State, params ProblemParams) (Agent, Agent, bool) {
	passengers := state.passengers.Oldest()
	drivers := state.drivers.Oldest()
	for _, p := range passengers {
		pBound := params.PassengerWaitCost.Marginal(now-p.Arrival, m.TimeDisc)
		for _, d := range drivers {
			twice := 2 * params.Distance(p.Location, d.Location)
			if twice <= pBound && twice <= params.DriverWaitCost.Marginal(now-d.Arrival, m.TimeDisc) {
				return p, d, true
			}
		}
	}
	return Agent{}, Agent{}, false
}

// Qualifies reports whether the oldest waiting agents contain a pair the
// matcher would commit at now. It does not mutate state.
func (m *StarMatcher) Qualifies(now float64, state *State, params ProblemParams) bool {
	_, _, ok := m.nextPair(now, state, params)
	return ok
}
