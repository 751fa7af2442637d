// Implements the WaitingSet, which holds all agents of one role waiting to be matched.
// Agents are inserted on arrival and removed when a policy commits them.

package sim

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// WaitingSet is the set of agents of one role that have arrived and are not
// yet assigned. Membership is by agent ID. Iteration order is ascending ID,
// which is also arrival order because IDs are handed out monotonically.
type WaitingSet struct {
	agents []Agent // sorted by ID
}

// add inserts a into the set. Adding an ID that is already present panics.
// Only State mutates a WaitingSet.
func (ws *WaitingSet) add(a Agent) {
	i, found := ws.search(a.ID)
	if found {
		panic(fmt.Sprintf("WaitingSet.add: agent %d already waiting", a.ID))
	}
	ws.agents = slices.Insert(ws.agents, i, a)
}

// Get returns the waiting agent with the given ID.
func (ws *WaitingSet) Get(id AgentID) (Agent, bool) {
	i, found := ws.search(id)
	if !found {
		return Agent{}, false
	}
	return ws.agents[i], true
}

// Contains reports whether an agent with the given ID is waiting.
func (ws *WaitingSet) Contains(id AgentID) bool {
	_, found := ws.search(id)
	return found
}

// remove deletes the agent with the given ID. It reports whether the agent was present.
func (ws *WaitingSet) remove(id AgentID) bool {
	i, found := ws.search(id)
	if !found {
		return false
	}
	ws.agents = slices.Delete(ws.agents, i, i+1)
	return true
}

// Len returns the number of waiting agents.
func (ws *WaitingSet) Len() int {
	return len(ws.agents)
}

// Items returns a copy of the waiting agents in ascending ID order.
func (ws *WaitingSet) Items() []Agent {
	return slices.Clone(ws.agents)
}

// Oldest returns every waiting agent whose arrival time equals the minimum
// arrival time, in ascending ID order. Returns nil if the set is empty.
func (ws *WaitingSet) Oldest() []Agent {
	var oldest []Agent
	for _, a := range ws.agents {
		switch {
		case len(oldest) == 0 || a.Arrival < oldest[0].Arrival:
			oldest = append(oldest[:0], a)
		case a.Arrival == oldest[0].Arrival:
			oldest = append(oldest, a)
		}
	}
	return oldest
}

func (ws *WaitingSet) clone() WaitingSet {
	return WaitingSet{agents: slices.Clone(ws.agents)}
}

func (ws *WaitingSet) search(id AgentID) (int, bool) {
	return slices.BinarySearchFunc(ws.agents, id, func(a Agent, id AgentID) int {
		return cmp.Compare(a.ID, id)
	})
}

func (ws *WaitingSet) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, a := range ws.agents {
		sb.WriteString(a.String())
		if i < len(ws.agents)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
