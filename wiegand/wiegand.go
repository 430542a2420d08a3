package wiegand

// The wiegand package decodes credentials from the edges seen on the
// D0 and D1 lines of a Wiegand badge reader or keypad.  A frame ends
// when no edge arrives for the idle window; it is then classified by
// its bit count and published.
//
// Edges and the idle timeout come from different goroutines (the GPIO
// event handler and the timer), so all frame state sits behind one
// short mutex.  Readers get a copy of the last credential and never
// take that lock.

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"hive13/wiegand/timer"
)

// DefaultWindow is how long the lines must stay quiet before a frame
// is considered complete.
const DefaultWindow = 50 * time.Millisecond

// Size of the Credentials channel buffer.
const credentialQueue = 16

// Decoder assembles frames from edges and decodes them.
type Decoder struct {
	sched  timer.Scheduler
	window time.Duration

	mu        sync.Mutex
	frame     Frame
	idle      timer.Timer
	gen       uint64
	readCount int
	closed    bool

	last atomic.Value // Credential

	out chan Credential
}

// NewDecoder returns a Decoder that uses sched for its idle timeout.
// A zero window means DefaultWindow.
func NewDecoder(sched timer.Scheduler, window time.Duration) *Decoder {
	if window <= 0 {
		window = DefaultWindow
	}
	d := &Decoder{
		sched:  sched,
		window: window,
		out:    make(chan Credential, credentialQueue),
	}
	d.last.Store(Credential{})
	return d
}

// Edge handles a transition on either line. d0 and d1 are the levels
// of both lines at the time of the transition (0 or 1).
//
// Both lines high is the return to idle after a pulse and is ignored
// without touching the idle timeout, otherwise the timeout armed by
// the last bit of a frame would be cancelled by its own trailing edge.
func (d *Decoder) Edge(d0, d1 int) {
	if d0 != 0 && d1 != 0 {
		return
	}
	bit := 0
	if d0 != 0 && d1 == 0 {
		bit = 1
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.idle != nil {
		d.idle.Stop()
	}
	d.frame.Add(bit)

	d.gen++
	gen := d.gen
	d.idle = d.sched.AfterFunc(d.window, func() { d.expire(gen) })
}

// expire runs when the idle timeout for generation gen fires.
func (d *Decoder) expire(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen {
		// An edge re-armed the timeout after this one was due; the
		// frame belongs to the newer timer.
		d.mu.Unlock()
		return
	}
	c := Decode(&d.frame)
	d.readCount++
	c.ReadCount = d.readCount
	d.frame.Reset()
	d.idle = nil
	d.last.Store(c)
	d.mu.Unlock()

	if c.Kind == Unknown {
		log.Printf("Wiegand: ignoring frame of %d bits", c.Bits)
	}

	select {
	case d.out <- c:
	default:
		log.Printf("Wiegand: consumer is behind, dropped read #%d", c.ReadCount)
	}
}

// Last returns the most recently decoded credential. Before the first
// frame it is the zero Credential.
func (d *Decoder) Last() Credential {
	return d.last.Load().(Credential)
}

// Read returns the last credential in its text form, or "" if the last
// frame was not recognized.
func (d *Decoder) Read() string {
	return d.Last().String()
}

// Credentials returns a channel that receives every decoded frame,
// recognized or not.  Frames are dropped rather than blocking the
// decoder if nobody keeps up.  The channel is never closed.
func (d *Decoder) Credentials() <-chan Credential {
	return d.out
}

// Close cancels any pending idle timeout and makes the decoder ignore
// further edges.  The partial frame, if any, is discarded.
func (d *Decoder) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}
	d.frame.Reset()
}
