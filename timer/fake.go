package timer

import (
	"sort"
	"sync"
	"time"
)

// Fake is a Scheduler driven by a virtual clock, for tests. Nothing
// fires until Advance is called.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	fake *Fake
	at   time.Duration
	seq  int
	fn   func()
	done bool
}

// NewFake returns a Fake with its clock at zero.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{fake: f, at: f.now + d, seq: f.seq, fn: fn}
	f.seq++
	f.timers = append(f.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves the clock forward by d, firing every callback that
// comes due, in deadline order. Callbacks run on the calling goroutine
// without the fake's lock held, so they may arm or stop timers; a timer
// armed by a callback fires within this same Advance if it is due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	end := f.now + d
	for {
		next := f.nextDue(end)
		if next == nil {
			break
		}
		next.done = true
		f.now = next.at
		f.mu.Unlock()
		next.fn()
		f.mu.Lock()
	}
	f.now = end
	f.compact()
	f.mu.Unlock()
}

// Now returns the virtual time elapsed since the fake was created.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Pending returns the number of armed timers that have not fired or
// been stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, t := range f.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// nextDue must be called with f.mu held.
func (f *Fake) nextDue(end time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range f.timers {
		if !t.done && t.at <= end {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// compact must be called with f.mu held.
func (f *Fake) compact() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(f.timers); i++ {
		f.timers[i] = nil
	}
	f.timers = live
}
