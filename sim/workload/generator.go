package workload

import (
	"fmt"
	"math/rand/v2"

	"github.com/matching-sim/matching-sim/sim"
)

// Stream is an arrival stream generated from a StreamSpec. It implements
// sim.ArrivalStream and is infinite unless the spec sets a limit.
// Each item draws its inter-arrival time first, then its location, from one
// source.
type Stream struct {
	iat     IATSampler
	loc     LocationSampler
	limit   int
	emitted int
}

// NewStream builds a Stream over src for a validated spec.
func NewStream(spec StreamSpec, src rand.Source) (*Stream, error) {
	loc, err := NewLocationSampler(spec.Locations, src)
	if err != nil {
		return nil, err
	}
	return &Stream{
		iat:   NewArrivalSampler(spec.Arrival, spec.Rate, src),
		loc:   loc,
		limit: spec.Limit,
	}, nil
}

// Next returns the next arrival, or false once the limit is reached.
func (s *Stream) Next() (sim.Arrival, bool) {
	if s.limit > 0 && s.emitted >= s.limit {
		return sim.Arrival{}, false
	}
	s.emitted++
	iat := s.iat.Rand()
	return sim.Arrival{Interarrival: iat, Location: s.loc.Sample()}, true
}

// Emitted returns how many arrivals the stream has produced.
func (s *Stream) Emitted() int {
	return s.emitted
}

// GenerateStreams creates the passenger and driver streams for one run.
// Deterministic given the same spec and seed. When spec.Drivers is nil the
// driver stream is the passenger stream itself, so the two roles alternate
// pulls from one sequence.
func GenerateStreams(spec *WorkloadSpec, seed int64) (passengers, drivers sim.ArrivalStream, err error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid workload spec: %w", err)
	}

	// Create partitioned RNG for deterministic generation
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))

	p, err := NewStream(spec.Passengers, rng.ForSubsystem(sim.SubsystemPassengers))
	if err != nil {
		return nil, nil, fmt.Errorf("passengers: %w", err)
	}
	if spec.Drivers == nil {
		return p, p, nil
	}
	d, err := NewStream(*spec.Drivers, rng.ForSubsystem(sim.SubsystemDrivers))
	if err != nil {
		return nil, nil, fmt.Errorf("drivers: %w", err)
	}
	return p, d, nil
}
