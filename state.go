package reactor

import (
	"sync/atomic"
)

// State represents the lifecycle of a Reactor.
//
// State Machine:
//
//	StateConstructing → StateReady   [New() succeeded]
//	StateReady        → StateRunning [Run()]
//	StateReady        → StateStopped [Close() without Run()]
//	StateRunning      → StateStopping [shutdown requested]
//	StateRunning      → StateStopped [fatal loop error]
//	StateStopping     → StateStopped [final drain complete, or fatal error]
//	StateStopped      → (terminal)
//
// StateStopped is reached exactly once. While StateStopping, Run is still
// executing the commands queued before shutdown, but no further work is
// accepted.
type State uint32

const (
	// StateConstructing indicates kernel resources are still being acquired.
	StateConstructing State = iota
	// StateReady indicates the reactor is constructed but Run has not started.
	StateReady
	// StateRunning indicates Run is executing the wait loop.
	StateRunning
	// StateStopping indicates shutdown was observed, and Run is finishing the
	// current batch and the final drain.
	StateStopping
	// StateStopped indicates the loop has exited, or will never run.
	StateStopped
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateConstructing:
		return "Constructing"
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// stateMachine is a lock-free state holder, transitions are pure CAS.
type stateMachine struct {
	v atomic.Uint32
}

// Load returns the current state atomically.
func (s *stateMachine) Load() State {
	return State(s.v.Load())
}

// TryTransition attempts to atomically transition from one state to another.
// Returns true if the transition was successful.
func (s *stateMachine) TryTransition(from, to State) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

// IsStopped returns true once shutdown began, i.e. no further work is
// accepted.
func (s *stateMachine) IsStopped() bool {
	switch s.Load() {
	case StateStopping, StateStopped:
		return true
	default:
		return false
	}
}

// IsActive returns true while Run is executing.
func (s *stateMachine) IsActive() bool {
	switch s.Load() {
	case StateRunning, StateStopping:
		return true
	default:
		return false
	}
}
