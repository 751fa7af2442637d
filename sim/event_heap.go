package sim

import "container/heap"

// EventHeap is the simulator's pending-event queue. Events come out by
// timestamp, then by EventTypePriority, then by EventID. At a shared instant
// this means passenger arrivals land before driver arrivals, and both land
// before any policy invocation, so a policy always sees every agent that
// arrived at its own timestamp. EventID is assigned at scheduling time and
// breaks the remaining ties in scheduling order.
type EventHeap struct {
	q eventQueue
}

// NewEventHeap returns an empty queue.
func NewEventHeap() *EventHeap {
	return &EventHeap{}
}

// runsBefore reports whether a must be executed before b.
func runsBefore(a, b Event) bool {
	if ta, tb := a.Timestamp(), b.Timestamp(); ta != tb {
		return ta < tb
	}
	// Arrivals outrank policies at the same instant.
	if pa, pb := EventTypePriority[a.Type()], EventTypePriority[b.Type()]; pa != pb {
		return pa < pb
	}
	return a.EventID() < b.EventID()
}

// Len returns the number of pending events.
func (h *EventHeap) Len() int { return len(h.q) }

// Schedule queues e. Scheduling never reorders events already popped.
func (h *EventHeap) Schedule(e Event) {
	heap.Push(&h.q, e)
}

// PopNext removes and returns the earliest pending event, or nil when none
// remain.
func (h *EventHeap) PopNext() Event {
	if len(h.q) == 0 {
		return nil
	}
	return heap.Pop(&h.q).(Event)
}

// Peek returns the earliest pending event without removing it, or nil.
// The run loop uses it to test the horizon before committing to an event.
func (h *EventHeap) Peek() Event {
	if len(h.q) == 0 {
		return nil
	}
	return h.q[0]
}

// Clear drops every pending event, e.g. once the horizon has been passed.
func (h *EventHeap) Clear() {
	clear(h.q)
	h.q = h.q[:0]
}

// eventQueue is the container/heap backing store, ordered by runsBefore.
type eventQueue []Event

func (q eventQueue) Len() int           { return len(q) }
func (q eventQueue) Less(i, j int) bool { return runsBefore(q[i], q[j]) }
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(Event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}
