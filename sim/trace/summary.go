package trace

import "sort"

// PolicySummary aggregates the invocations of one policy name.
type PolicySummary struct {
	Invocations  int     `yaml:"invocations"`
	Matches      int     `yaml:"matches"`
	MeanDistance float64 `yaml:"mean_distance"`
	MaxBacklog   int     `yaml:"max_backlog"` // largest waiting passengers + drivers seen before a call
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalInvocations  int                      `yaml:"total_invocations"`
	TotalMatches      int                      `yaml:"total_matches"`
	EmptyInvocations  int                      `yaml:"empty_invocations"` // calls that committed nothing
	MeanDistance      float64                  `yaml:"mean_distance"`
	MaxDistance       float64                  `yaml:"max_distance"`
	MeanPassengerWait float64                  `yaml:"mean_passenger_wait"`
	MeanDriverWait    float64                  `yaml:"mean_driver_wait"`
	ByPolicy          map[string]PolicySummary `yaml:"by_policy"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ByPolicy: make(map[string]PolicySummary),
	}
	if st == nil {
		return summary
	}

	summary.TotalInvocations = len(st.Invocations)
	distSum := make(map[string]float64)
	var totalDist, totalPWait, totalDWait float64
	for _, inv := range st.Invocations {
		ps := summary.ByPolicy[inv.Policy]
		ps.Invocations++
		if backlog := inv.WaitingPassengers + inv.WaitingDrivers; backlog > ps.MaxBacklog {
			ps.MaxBacklog = backlog
		}
		if len(inv.Matches) == 0 {
			summary.EmptyInvocations++
		}
		for _, m := range inv.Matches {
			ps.Matches++
			distSum[inv.Policy] += m.Distance
			totalDist += m.Distance
			totalPWait += m.PassengerWait
			totalDWait += m.DriverWait
			if m.Distance > summary.MaxDistance {
				summary.MaxDistance = m.Distance
			}
		}
		summary.ByPolicy[inv.Policy] = ps
		summary.TotalMatches += len(inv.Matches)
	}

	for name, ps := range summary.ByPolicy {
		if ps.Matches > 0 {
			ps.MeanDistance = distSum[name] / float64(ps.Matches)
			summary.ByPolicy[name] = ps
		}
	}
	if summary.TotalMatches > 0 {
		n := float64(summary.TotalMatches)
		summary.MeanDistance = totalDist / n
		summary.MeanPassengerWait = totalPWait / n
		summary.MeanDriverWait = totalDWait / n
	}
	return summary
}

// PolicyNames returns the policy names seen in the summary, sorted.
func (s *TraceSummary) PolicyNames() []string {
	names := make([]string, 0, len(s.ByPolicy))
	for name := range s.ByPolicy {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
