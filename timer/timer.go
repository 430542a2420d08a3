package timer

// The timer package is the one-shot timer facility shared by the
// frame decoder (idle timeout) and the pattern sequencer (step tick).
// Both only ever need arm, cancel, and re-arm, which is Stop followed
// by another AfterFunc.

import (
	"time"
)

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was already stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on the runtime timers (time.AfterFunc). Callbacks run
// on their own goroutine.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
