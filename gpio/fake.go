package gpio

import (
	"sync"
)

// FakeOutput is a test double for an output pin. It records every
// value written to it.
type FakeOutput struct {
	mu     sync.Mutex
	values []int
	closed bool

	// SetError, if set, is returned by SetValue (the value is still
	// recorded).
	SetError error
}

// SetValue records v.
func (f *FakeOutput) SetValue(v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = append(f.values, v)
	return f.SetError
}

// Values returns every value written so far, oldest first.
func (f *FakeOutput) Values() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.values...)
}

// Level returns the last value written, or 0.
func (f *FakeOutput) Level() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.values) == 0 {
		return 0
	}
	return f.values[len(f.values)-1]
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeOutput) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
