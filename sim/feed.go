package sim

import (
	"fmt"
	"math"
)

// Arrival is one item of an arrival stream: the agent shows up Interarrival
// after the previous arrival of the same feed, at Location.
type Arrival struct {
	Interarrival float64
	Location     Location
}

// ArrivalStream is a pull iterator over arrivals. Streams may be infinite.
// Next returns false once the stream is exhausted.
type ArrivalStream interface {
	Next() (Arrival, bool)
}

// StreamFunc adapts a closure to ArrivalStream.
type StreamFunc func() (Arrival, bool)

func (f StreamFunc) Next() (Arrival, bool) { return f() }

// SliceStream replays a fixed list of arrivals once.
type SliceStream struct {
	items []Arrival
	pos   int
}

// NewSliceStream returns a stream over a copy of items.
func NewSliceStream(items ...Arrival) *SliceStream {
	return &SliceStream{items: append([]Arrival(nil), items...)}
}

func (s *SliceStream) Next() (Arrival, bool) {
	if s.pos >= len(s.items) {
		return Arrival{}, false
	}
	a := s.items[s.pos]
	s.pos++
	return a, true
}

// Remaining returns the number of arrivals not yet pulled.
func (s *SliceStream) Remaining() int {
	return len(s.items) - s.pos
}

// arrivalFeed turns relative interarrival times into absolute arrival times
// for one role. Feeds pull one item at a time; two feeds may share a stream,
// each keeping its own clock.
type arrivalFeed struct {
	role   Role
	stream ArrivalStream
	last   float64
	pulled int
}

func newArrivalFeed(role Role, stream ArrivalStream) *arrivalFeed {
	return &arrivalFeed{role: role, stream: stream}
}

// next returns the absolute time and location of the feed's next arrival.
// ok is false when the stream is exhausted.
func (f *arrivalFeed) next() (at float64, loc Location, ok bool, err error) {
	if f.stream == nil {
		return 0, Location{}, false, nil
	}
	a, ok := f.stream.Next()
	if !ok {
		return 0, Location{}, false, nil
	}
	if math.IsNaN(a.Interarrival) || a.Interarrival < 0 {
		return 0, Location{}, false, fmt.Errorf("%w: %s interarrival %v at item %d",
			ErrInvalidArrival, f.role, a.Interarrival, f.pulled)
	}
	f.pulled++
	f.last += a.Interarrival
	return f.last, a.Location, true, nil
}
