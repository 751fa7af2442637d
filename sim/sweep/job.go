package sweep

import (
	"fmt"

	"github.com/matching-sim/matching-sim/sim"
	"github.com/matching-sim/matching-sim/sim/assign"
)

// Job is one cell of the grid.
type Job struct {
	Index  int
	Alpha  float64
	Disc   float64
	Seed   int64
	Method string
}

// Jobs expands the grid in a fixed order: alpha, then disc, then seed,
// then method. Index is the position in that order.
func (s *Spec) Jobs() []Job {
	seeds := s.SeedList()
	jobs := make([]Job, 0, len(s.Alphas)*len(s.Discs)*len(seeds)*len(s.Methods))
	for _, alpha := range s.Alphas {
		for _, disc := range s.Discs {
			for _, seed := range seeds {
				for _, method := range s.Methods {
					jobs = append(jobs, Job{Index: len(jobs), Alpha: alpha, Disc: disc, Seed: seed, Method: method})
				}
			}
		}
	}
	return jobs
}

// BuildSchedule returns the policy schedule for a method.
//
//	nostar: min-cost every disc
//	star:   StarBatch(disc/subdivision, subdivision)
//	greedy: star every disc/subdivision, looking ahead one tick
func BuildSchedule(method string, disc float64, subdivision int, solver assign.Solver) (sim.PolicySchedule, error) {
	switch method {
	case MethodNoStar:
		return sim.Every(disc, sim.NewMinCostMatcher(solver)), nil
	case MethodStar:
		return sim.StarBatch(disc/float64(subdivision), subdivision, solver), nil
	case MethodGreedy:
		starDisc := disc / float64(subdivision)
		return sim.Every(starDisc, sim.NewStarMatcher(starDisc)), nil
	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}
}
