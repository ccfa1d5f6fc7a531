// Package runstate holds the process-wide run flag that gates the
// capture-classify-act loop.
//
// The flag is the only shared mutable state in the program: the hotkey
// listener writes it through Apply and the main loop reads it at the top
// of every tick. Reads and writes are atomic; no broader locking is
// needed.
package runstate

import (
	"sync/atomic"
)

// State is the three-valued run flag.
type State int32

const (
	// Stopped is the initial state and, once entered via EventStop,
	// the terminal one.
	Stopped State = iota
	// Running enables the capture-classify-act loop.
	Running
	// Paused suspends the loop without tearing anything down.
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Event is a requested state transition, posted by the hotkey listener.
type Event int

const (
	// EventStart requests Running (start hotkey).
	EventStart Event = iota
	// EventPause requests Paused (pause hotkey).
	EventPause
	// EventStop requests the terminal Stopped state (exit signal).
	EventStop
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventPause:
		return "pause"
	case EventStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Flag is the guarded run-state cell. The zero value is Stopped and not
// yet terminated.
type Flag struct {
	state      atomic.Int32
	terminated atomic.Bool
}

// NewFlag returns a Flag in the initial Stopped state.
func NewFlag() *Flag {
	return &Flag{}
}

// State returns the current state.
func (f *Flag) State() State {
	return State(f.state.Load())
}

// Terminated reports whether EventStop has been applied.
func (f *Flag) Terminated() bool {
	return f.terminated.Load()
}

// Apply performs the transition for the event and returns the resulting
// state plus whether anything changed. After EventStop every further
// event is ignored: nothing leaves Stopped except a process restart.
func (f *Flag) Apply(e Event) (State, bool) {
	if f.terminated.Load() {
		return Stopped, false
	}

	current := f.State()
	next := current
	switch e {
	case EventStart:
		next = Running
	case EventPause:
		// Pausing before the first start is a no-op, not a transition
		// out of the initial state.
		if current == Running {
			next = Paused
		}
	case EventStop:
		f.terminated.Store(true)
		next = Stopped
	}

	if next == current {
		return current, false
	}
	f.state.Store(int32(next))
	return next, true
}
