package sim

import (
	"fmt"

	"github.com/matching-sim/matching-sim/sim/assign"
)

// PolicyTick asks the scheduler to wait Wait after the previous invocation
// (or after time 0 for the first tick) and then apply Policy.
type PolicyTick struct {
	Wait   float64
	Policy Policy
}

// PolicySchedule is a pull iterator over policy ticks. Next returns false
// once the schedule is exhausted; infinite schedules never do.
type PolicySchedule interface {
	Next() (PolicyTick, bool)
}

// ScheduleFunc adapts a closure to PolicySchedule.
type ScheduleFunc func() (PolicyTick, bool)

func (f ScheduleFunc) Next() (PolicyTick, bool) { return f() }

// Every applies policy every interval, forever.
// Panics if interval is not positive or policy is nil.
func Every(interval float64, policy Policy) PolicySchedule {
	if !(interval > 0) {
		panic(fmt.Sprintf("Every: interval must be > 0, got %f", interval))
	}
	if policy == nil {
		panic("Every: nil policy")
	}
	tick := PolicyTick{Wait: interval, Policy: policy}
	return ScheduleFunc(func() (PolicyTick, bool) { return tick, true })
}

// Sequence replays ticks once, in order.
func Sequence(ticks ...PolicyTick) PolicySchedule {
	ticks = append([]PolicyTick(nil), ticks...)
	i := 0
	return ScheduleFunc(func() (PolicyTick, bool) {
		if i >= len(ticks) {
			return PolicyTick{}, false
		}
		t := ticks[i]
		i++
		return t, true
	})
}

// StarBatch runs the star heuristic every starDisc and, on every
// iterBetween-th tick, runs the min-cost matcher first at the same instant.
// Combined ticks are the iterBetween-th, 2*iterBetween-th and so on, except
// that the first tick is always star-only, even when iterBetween is 1.
// Panics if starDisc is not positive or iterBetween < 1.
func StarBatch(starDisc float64, iterBetween int, solver assign.Solver) PolicySchedule {
	if !(starDisc > 0) {
		panic(fmt.Sprintf("StarBatch: starDisc must be > 0, got %f", starDisc))
	}
	if iterBetween < 1 {
		panic(fmt.Sprintf("StarBatch: iterBetween must be >= 1, got %d", iterBetween))
	}
	star := NewStarMatcher(starDisc)
	combined := Compose(NewMinCostMatcher(solver), star)

	i := 1
	return ScheduleFunc(func() (PolicyTick, bool) {
		var p Policy = star
		if i == 0 {
			p = combined
		}
		i = (i + 1) % iterBetween
		return PolicyTick{Wait: starDisc, Policy: p}, true
	})
}
