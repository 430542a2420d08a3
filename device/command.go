package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hive13/wiegand/pattern"
)

const (
	ledToken  = "LED:"
	beepToken = "BEEP:"
)

// ErrUnknownCommand is returned for text that starts with neither
// "LED:" nor "BEEP:".
var ErrUnknownCommand = errors.New("unknown command")

// ValueError reports a command whose pattern is not a 32-bit hex value.
type ValueError struct {
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("bad pattern %q: %v", e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Command is a request to play a pattern on one output.
type Command struct {
	Target  pattern.Target
	Bitmask uint32
}

func (c Command) String() string {
	return fmt.Sprintf("%s:%08X", c.Target, c.Bitmask)
}

// ParseCommand parses "LED:<hex>" or "BEEP:<hex>". Surrounding
// whitespace and a "0x" prefix on the value are accepted.  The value is
// played from its highest set bit (see pattern.Sequencer.Start), so
// "LED:F0" and "LED:F0000000" produce the same blink.
func ParseCommand(text string) (Command, error) {
	text = strings.TrimSpace(text)

	var cmd Command
	var value string
	switch {
	case strings.HasPrefix(text, ledToken):
		cmd.Target = pattern.LED
		value = text[len(ledToken):]
	case strings.HasPrefix(text, beepToken):
		cmd.Target = pattern.Beeper
		value = text[len(beepToken):]
	default:
		return Command{}, ErrUnknownCommand
	}

	digits := value
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	mask, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Command{}, &ValueError{Value: value, Err: err}
	}
	cmd.Bitmask = uint32(mask)
	return cmd, nil
}
