package pattern

// The pattern package plays 32-bit patterns on the reader's LED and
// beeper.  A small fixed pool of slots is stepped by a single timer, so
// both outputs play at the same time without a goroutine each.

import (
	"fmt"
	"log"
	"math/bits"
	"strings"
	"sync"
	"time"

	"hive13/wiegand/timer"
)

const (
	// Number of patterns that can play at once.
	Capacity = 2
	// Number of bits emitted per pattern.
	Steps = 32
	// DefaultPeriod is the time each bit is held on the output.
	DefaultPeriod = 25 * time.Millisecond
)

// Target names a physical output.
type Target int

const (
	LED Target = iota
	Beeper
)

// String returns the token used for the target in commands and status.
func (t Target) String() string {
	switch t {
	case LED:
		return "LED"
	case Beeper:
		return "BEEP"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Output is a digital output pin.
type Output interface {
	SetValue(value int) error
}

// Slot is one pattern being played. A slot with a zero Bitmask is idle.
type Slot struct {
	Bitmask  uint32
	Position int
	Target   Target
}

// Active reports whether the slot is playing.
func (s Slot) Active() bool {
	return s.Bitmask != 0
}

// bit returns the bit for the current position. Patterns play MSB
// first from their highest set bit; the bits after the end of the mask
// are zeros.
func (s Slot) bit() int {
	aligned := s.Bitmask << uint(bits.LeadingZeros32(s.Bitmask))
	return int((aligned >> uint(Steps-1-s.Position)) & 1)
}

// Sequencer owns the slot pool and the step timer.
type Sequencer struct {
	sched   timer.Scheduler
	period  time.Duration
	outputs map[Target]Output

	mu     sync.Mutex
	slots  [Capacity]Slot
	step   timer.Timer
	closed bool
}

// NewSequencer returns a Sequencer driving the given outputs. A zero
// period means DefaultPeriod.
func NewSequencer(sched timer.Scheduler, period time.Duration, outputs map[Target]Output) *Sequencer {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Sequencer{
		sched:   sched,
		period:  period,
		outputs: outputs,
	}
}

// Start queues mask for playback on target.  The request is dropped if
// the target is already playing, if the pool is full, or if mask is
// zero.  The return value says whether the pattern was admitted; the
// caller is not expected to act on it.
//
// Playback begins at the highest set bit of mask, so leading zero bits
// cannot express a delay: 0x0F, 0xF0 and 0xF0000000 all play as four
// on steps followed by 28 off steps.
func (s *Sequencer) Start(mask uint32, target Target) bool {
	if mask == 0 {
		return false
	}
	if _, ok := s.outputs[target]; !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	free := -1
	for i, slot := range s.slots {
		if slot.Active() && slot.Target == target {
			return false
		}
		if !slot.Active() && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return false
	}
	s.slots[free] = Slot{Bitmask: mask, Target: target}

	if s.step == nil {
		s.step = s.sched.AfterFunc(s.period, s.tick)
	}
	return true
}

// tick is the step timer callback.
func (s *Sequencer) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step = nil
	if s.closed {
		return
	}
	if s.advance() {
		s.step = s.sched.AfterFunc(s.period, s.tick)
	}
}

// advance emits one bit from every active slot and retires the slots
// that have played all their bits.  It reports whether any slot is
// still active.  Must be called with s.mu held.
func (s *Sequencer) advance() bool {
	active := false
	for i := range s.slots {
		slot := &s.slots[i]
		if !slot.Active() {
			continue
		}
		if slot.Position < Steps {
			s.set(slot.Target, slot.bit())
			slot.Position++
		}
		if slot.Position >= Steps {
			*slot = Slot{}
			continue
		}
		active = true
	}
	return active
}

func (s *Sequencer) set(target Target, value int) {
	if err := s.outputs[target].SetValue(value); err != nil {
		log.Printf("Pattern: setting %s to %d: %v", target, value, err)
	}
}

// Slots returns a copy of the pool.
func (s *Sequencer) Slots() [Capacity]Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots
}

// Status returns one "<TAG>:<mask>:<position>" line per active slot.
func (s *Sequencer) Status() string {
	var b strings.Builder
	for _, slot := range s.Slots() {
		if slot.Active() {
			fmt.Fprintf(&b, "%s:%08X:%d\n", slot.Target, slot.Bitmask, slot.Position)
		}
	}
	return b.String()
}

// Close stops playback and turns every output off.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.step != nil {
		s.step.Stop()
		s.step = nil
	}
	s.slots = [Capacity]Slot{}
	for _, t := range []Target{LED, Beeper} {
		if _, ok := s.outputs[t]; ok {
			s.set(t, 0)
		}
	}
}
