package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hive13/wiegand/gpio"
	"hive13/wiegand/pattern"
	"hive13/wiegand/timer"
	"hive13/wiegand/wiegand"
)

type rig struct {
	clk  *timer.Fake
	led  *gpio.FakeOutput
	beep *gpio.FakeOutput
	dev  *Device
}

func newRig() *rig {
	r := &rig{
		clk:  timer.NewFake(),
		led:  &gpio.FakeOutput{},
		beep: &gpio.FakeOutput{},
	}
	r.dev = New(r.clk, Config{}, r.led, r.beep)
	return r
}

func (r *rig) bits(bits ...int) {
	for _, b := range bits {
		if b != 0 {
			r.dev.Edge(1, 0)
		} else {
			r.dev.Edge(0, 1)
		}
		r.dev.Edge(1, 1)
	}
}

func (r *rig) number(v uint32, width int) {
	for i := width - 1; i >= 0; i-- {
		r.bits(int(v>>uint(i)) & 1)
	}
}

func TestReadCard(t *testing.T) {
	r := newRig()
	assert.Equal(t, "", r.dev.Read())

	r.bits(0)
	r.number(12, 8)
	r.number(34567, 16)
	r.bits(1)
	r.clk.Advance(wiegand.DefaultWindow)

	assert.Equal(t, "TAG:012:34567", r.dev.Read())
}

func TestReadKeypad(t *testing.T) {
	r := newRig()
	r.number(0xC, 4)
	r.clk.Advance(wiegand.DefaultWindow)
	assert.Equal(t, "PAD:C", r.dev.Read())
}

func TestControlLED(t *testing.T) {
	r := newRig()

	ok, err := r.dev.Control("LED:000000F0")
	require.NoError(t, err)
	require.True(t, ok)

	for i := 0; i < 4; i++ {
		r.clk.Advance(pattern.DefaultPeriod)
	}
	assert.Equal(t, []int{1, 1, 1, 1}, r.led.Values())
	assert.Empty(t, r.beep.Values())
	assert.Equal(t, "LED:000000F0:4\n", r.dev.Status())
}

func TestControlBusyAndMalformed(t *testing.T) {
	r := newRig()

	ok, err := r.dev.Control("BEEP:1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.dev.Control("BEEP:FF")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.dev.Control("HORN:1")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Equal(t, "BEEP:00000001:0\n", r.dev.Status())
}

func TestDecodeWhilePlaying(t *testing.T) {
	r := newRig()
	_, err := r.dev.Control("LED:FFFFFFFF")
	require.NoError(t, err)

	// Pattern steps interleave with the frame's idle timeout.
	r.number(0x5, 4)
	r.clk.Advance(pattern.DefaultPeriod)
	r.clk.Advance(pattern.DefaultPeriod)
	assert.Equal(t, "PAD:5", r.dev.Read())
	assert.Equal(t, "LED:FFFFFFFF:2\n", r.dev.Status())
}

func TestClose(t *testing.T) {
	r := newRig()
	_, err := r.dev.Control("LED:FF")
	require.NoError(t, err)
	r.clk.Advance(pattern.DefaultPeriod)
	r.bits(1, 1)

	r.dev.Close()
	assert.Equal(t, 0, r.clk.Pending())
	assert.Equal(t, 0, r.led.Level())
	assert.Equal(t, 0, r.beep.Level())
	assert.Equal(t, "", r.dev.Status())
}

func TestControlPlaysFromHighestSetBit(t *testing.T) {
	var got [][]int
	for _, cmd := range []string{"LED:F0", "LED:F0000000"} {
		r := newRig()
		admitted, err := r.dev.Control(cmd)
		require.NoError(t, err)
		require.True(t, admitted)
		for i := 0; i < pattern.Steps; i++ {
			r.clk.Advance(pattern.DefaultPeriod)
		}
		got = append(got, r.led.Values())
	}
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, []int{1, 1, 1, 1, 0}, got[0][:5])
}
