// Package sim provides the discrete-event engine for simulating online
// passenger/driver matching.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: waiting sets and committed assignments, with the invariants every mutation keeps
//   - event.go: event types that drive the simulation (passenger arrival, driver arrival, policy)
//   - simulator.go: the event loop, horizon handling and policy invocation
//
// # Architecture
//
// The sim package defines the data model, policies and the event loop;
// collaborators live in sub-packages:
//   - sim/assign/: optimal-assignment solvers (Hungarian, LP simplex)
//   - sim/workload/: seeded arrival-stream generators and their YAML spec
//   - sim/trace/: decision trace recording
//   - sim/sweep/: parameter-grid orchestration, CSV report, metrics
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Policy: commit assignments at one instant (StarMatcher, MinCostMatcher, Compose)
//   - PolicySchedule: pull iterator of (wait, policy) ticks (Every, Sequence, StarBatch)
//   - ArrivalStream: pull iterator of (interarrival, location) items
//   - CostFunction: wait cost and its marginal over a look-ahead
//
// RunSimulation wires these together for one run and prices the final state
// with Evaluate.
package sim
