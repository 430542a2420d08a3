package device

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hive13/wiegand/pattern"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"LED:000000F0", Command{pattern.LED, 0xF0}},
		{"LED:f0", Command{pattern.LED, 0xF0}},
		{"BEEP:FFFFFFFF", Command{pattern.Beeper, 0xFFFFFFFF}},
		{"BEEP:0x5\n", Command{pattern.Beeper, 5}},
		{"  LED:AaAa  ", Command{pattern.LED, 0xAAAA}},
		{"LED:0", Command{pattern.LED, 0}},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.in), func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandUnknown(t *testing.T) {
	for _, in := range []string{"", "LED", "led:FF", "BUZZ:FF", "PAD:1", "xLED:FF"} {
		_, err := ParseCommand(in)
		assert.True(t, errors.Is(err, ErrUnknownCommand), "%q: %v", in, err)
	}
}

func TestParseCommandBadValue(t *testing.T) {
	for _, in := range []string{"LED:", "LED:xyz", "BEEP:100000000", "BEEP:-1", "LED:0x", "LED:F F"} {
		_, err := ParseCommand(in)
		var verr *ValueError
		require.True(t, errors.As(err, &verr), "%q: %v", in, err)
		assert.True(t, errors.Is(err, strconv.ErrSyntax) || errors.Is(err, strconv.ErrRange), "%q: %v", in, err)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "BEEP:0000ABCD", Command{pattern.Beeper, 0xABCD}.String())
}
