// Package gpio connects the reader to physical pins: the Wiegand D0/D1
// inputs through the GPIO character device, and the LED and beeper
// outputs through either the character device or the memory-mapped
// BCM283x registers.  The fake output allows testing without hardware.
package gpio

// Pin defaults (BCM numbering)
const (
	DefaultChip      = "gpiochip0"
	DefaultPinD0     = 19
	DefaultPinD1     = 26
	DefaultPinLED    = 27
	DefaultPinBeeper = 22
)

// Output drivers
const (
	DriverGpiod = "gpiod"
	DriverRpio  = "rpio"
)

const consumer = "wiegand"

// Output is a digital output pin. SetValue takes the logical level
// (1 = on); any active-low inversion is done by the pin.
type Output interface {
	SetValue(value int) error
	Close() error
}

// InputConfig selects the Wiegand input lines.
type InputConfig struct {
	// GPIO chip name (e.g. "gpiochip0")
	Chip string
	// Line offsets of D0 and D1
	PinD0 int
	PinD1 int
}

// OutputConfig selects the LED and beeper lines.
type OutputConfig struct {
	// GPIO chip name, used by the gpiod driver
	Chip string
	// DriverGpiod or DriverRpio
	Driver string
	// Line offsets (BCM pin numbers) of the reader's LED and beeper
	PinLED    int
	PinBeeper int
	// True if the reader's LED and beeper are on when driven low
	ActiveLow bool
}

// physical maps a logical level to the level to drive.
func physical(value int, activeLow bool) int {
	on := value != 0
	if on != activeLow {
		return 1
	}
	return 0
}
