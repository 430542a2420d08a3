package pattern

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hive13/wiegand/gpio"
	"hive13/wiegand/timer"
)

type rig struct {
	clk  *timer.Fake
	led  *gpio.FakeOutput
	beep *gpio.FakeOutput
	seq  *Sequencer
}

func newRig() *rig {
	r := &rig{
		clk:  timer.NewFake(),
		led:  &gpio.FakeOutput{},
		beep: &gpio.FakeOutput{},
	}
	r.seq = NewSequencer(r.clk, 0, map[Target]Output{
		LED:    r.led,
		Beeper: r.beep,
	})
	return r
}

func (r *rig) steps(n int) {
	for i := 0; i < n; i++ {
		r.clk.Advance(DefaultPeriod)
	}
}

func expect(prefix []int, total int) []int {
	out := make([]int, total)
	copy(out, prefix)
	return out
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "LED", LED.String())
	assert.Equal(t, "BEEP", Beeper.String())
	assert.Equal(t, "Target(7)", Target(7).String())
}

func TestFullPlayback(t *testing.T) {
	r := newRig()
	require.True(t, r.seq.Start(0xF0, LED))

	r.steps(31)
	assert.True(t, r.seq.Slots()[0].Active())
	assert.Equal(t, 1, r.clk.Pending())

	r.steps(1)
	assert.Equal(t, expect([]int{1, 1, 1, 1}, 32), r.led.Values())
	assert.False(t, r.seq.Slots()[0].Active())
	assert.Equal(t, 0, r.clk.Pending())
	assert.Empty(t, r.beep.Values())

	r.steps(5)
	assert.Len(t, r.led.Values(), 32)
}

func TestFourStepsOnLED(t *testing.T) {
	r := newRig()
	require.True(t, r.seq.Start(0x000000F0, LED))

	r.steps(4)
	assert.Equal(t, []int{1, 1, 1, 1}, r.led.Values())
	assert.Empty(t, r.beep.Values())
	assert.Equal(t, "LED:000000F0:4\n", r.seq.Status())
}

func TestBitOrder(t *testing.T) {
	tests := []struct {
		name string
		mask uint32
		want []int
	}{
		{"single", 0x1, expect([]int{1}, 32)},
		{"sparse", 0x5, expect([]int{1, 0, 1}, 32)},
		{"ends", 0x80000001, func() []int {
			v := expect([]int{1}, 32)
			v[31] = 1
			return v
		}()},
		{"all", 0xFFFFFFFF, func() []int {
			v := make([]int, 32)
			for i := range v {
				v[i] = 1
			}
			return v
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			require.True(t, r.seq.Start(tt.mask, Beeper))
			r.steps(Steps)
			assert.Equal(t, tt.want, r.beep.Values())
			assert.Empty(t, r.led.Values())
		})
	}
}

func TestLeadingZerosDoNotDelay(t *testing.T) {
	want := expect([]int{1, 1, 1, 1}, 32)
	for _, mask := range []uint32{0x0F, 0xF0, 0xF0000000} {
		r := newRig()
		require.True(t, r.seq.Start(mask, LED))
		r.steps(1)
		assert.Equal(t, []int{1}, r.led.Values(), "mask %08X", mask)
		r.steps(Steps - 1)
		assert.Equal(t, want, r.led.Values(), "mask %08X", mask)
	}
}

func TestBusyTargetIgnored(t *testing.T) {
	r := newRig()
	require.True(t, r.seq.Start(0xF0, LED))
	r.steps(3)

	assert.False(t, r.seq.Start(0xFF00, LED))

	slot := r.seq.Slots()[0]
	assert.Equal(t, uint32(0xF0), slot.Bitmask)
	assert.Equal(t, 3, slot.Position)
	assert.False(t, r.seq.Slots()[1].Active())

	r.steps(Steps - 3)
	assert.Equal(t, expect([]int{1, 1, 1, 1}, 32), r.led.Values())

	// Free again once finished.
	assert.True(t, r.seq.Start(0xFF00, LED))
}

func TestIndependentPlayback(t *testing.T) {
	r := newRig()
	require.True(t, r.seq.Start(0xFFFFFFFF, LED))
	r.steps(10)
	require.True(t, r.seq.Start(0x3, Beeper))
	assert.Equal(t, 1, r.clk.Pending())

	r.steps(22)
	slots := r.seq.Slots()
	assert.False(t, slots[0].Active())
	require.True(t, slots[1].Active())
	assert.Equal(t, Beeper, slots[1].Target)
	assert.Equal(t, 22, slots[1].Position)
	assert.Equal(t, "BEEP:00000003:22\n", r.seq.Status())

	r.steps(10)
	assert.Equal(t, "", r.seq.Status())
	assert.Len(t, r.led.Values(), 32)
	assert.Equal(t, expect([]int{1, 1}, 32), r.beep.Values())
	assert.Equal(t, 0, r.clk.Pending())
}

func TestStatusListsSlotsInOrder(t *testing.T) {
	r := newRig()
	require.True(t, r.seq.Start(0xABCD, Beeper))
	r.steps(2)
	require.True(t, r.seq.Start(0x1, LED))
	r.steps(1)

	assert.Equal(t, "BEEP:0000ABCD:3\nLED:00000001:1\n", r.seq.Status())
}

func TestRejectedRequests(t *testing.T) {
	r := newRig()
	assert.False(t, r.seq.Start(0, LED))
	assert.False(t, r.seq.Start(0xFF, Target(9)))
	assert.Equal(t, 0, r.clk.Pending())
	assert.Equal(t, "", r.seq.Status())
}

func TestMissingOutputRejected(t *testing.T) {
	clk := timer.NewFake()
	led := &gpio.FakeOutput{}
	seq := NewSequencer(clk, 0, map[Target]Output{LED: led})

	assert.False(t, seq.Start(0xFF, Beeper))
	assert.True(t, seq.Start(0xFF, LED))
}

func TestCustomPeriod(t *testing.T) {
	clk := timer.NewFake()
	led := &gpio.FakeOutput{}
	seq := NewSequencer(clk, 100*time.Millisecond, map[Target]Output{LED: led})

	require.True(t, seq.Start(0xC0000000, LED))
	clk.Advance(99 * time.Millisecond)
	assert.Empty(t, led.Values())
	clk.Advance(101 * time.Millisecond)
	assert.Equal(t, []int{1, 1}, led.Values())
}

func TestOutputErrorDoesNotStopPlayback(t *testing.T) {
	r := newRig()
	r.led.SetError = errors.New("line gone")
	require.True(t, r.seq.Start(0x3, LED))

	r.steps(Steps)
	assert.Len(t, r.led.Values(), Steps)
	assert.Equal(t, 0, r.clk.Pending())
}

func TestClose(t *testing.T) {
	r := newRig()
	require.True(t, r.seq.Start(0xFFFF, LED))
	r.steps(2)

	r.seq.Close()
	assert.Equal(t, 0, r.clk.Pending())
	assert.Equal(t, 0, r.led.Level())
	assert.Equal(t, []int{0}, r.beep.Values())
	assert.Equal(t, "", r.seq.Status())
	assert.False(t, r.seq.Start(0xFF, Beeper))
}

func TestRealTimerPlayback(t *testing.T) {
	led := &gpio.FakeOutput{}
	seq := NewSequencer(timer.Real{}, time.Millisecond, map[Target]Output{LED: led})
	require.True(t, seq.Start(0xF0000000, LED))

	require.Eventually(t, func() bool {
		return len(led.Values()) == Steps
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, expect([]int{1, 1, 1, 1}, 32), led.Values())
	assert.Equal(t, "", seq.Status())
}
