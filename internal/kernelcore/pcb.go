// Package kernelcore implements the kernel's PCB table, ready/reply
// queues, round-robin scheduler, syscall interception path and reply
// dispatch path. It owns all kernel mutation, spawns the children
// (Kernel.Spawn) and handles OS signals (Kernel.Run); cmd/kernelsim
// only loads the configuration and calls New, Spawn and Run.
package kernelcore

import "github.com/diogo-benchimol/INF1316-Sistemas-Operacionais/internal/sfp"

// State is one of the four PCB lifecycle states: READY, RUNNING,
// BLOCKED, or TERMINATED.
type State int

const (
	Ready State = iota
	Running
	Blocked
	Terminated
)

func (s State) String() string {
	switch s {
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Blocked:
		return "BLOCKED"
	case Terminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// PCB is one application's process control block. Index in Kernel.pcbs
// is logical id - 1; a PCB is created once and never recycled.
type PCB struct {
	Pid   int
	ID    int // logical id, 1..N
	State State
	PC    int

	// Pending holds the most recently issued syscall request, valid
	// iff State == Blocked — used for snapshot reporting.
	Pending    sfp.Message
	HasPending bool
}

// transition moves p to next, returning the prior state for logging.
// TERMINATED is absorbing: callers must not call this on a PCB already
// in that state.
func (p *PCB) transition(next State) State {
	prev := p.State
	p.State = next
	return prev
}
