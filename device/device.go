package device

// The device package is the text surface of the reader: it owns the
// frame decoder and the pattern sequencer and speaks the reader's text
// tokens ("PAD:", "TAG:", "LED:", "BEEP:").

import (
	"time"

	"hive13/wiegand/pattern"
	"hive13/wiegand/timer"
	"hive13/wiegand/wiegand"
)

// Config holds the timing for a Device. Zero values select defaults.
type Config struct {
	// Quiet time that ends a Wiegand frame
	IdleWindow time.Duration
	// Time each pattern bit is held on its output
	StepPeriod time.Duration
}

// Device is one Wiegand reader with its LED and beeper.
type Device struct {
	Decoder   *wiegand.Decoder
	Sequencer *pattern.Sequencer
}

// New builds a Device. led and beeper are the output pins.
func New(sched timer.Scheduler, cfg Config, led, beeper pattern.Output) *Device {
	return &Device{
		Decoder: wiegand.NewDecoder(sched, cfg.IdleWindow),
		Sequencer: pattern.NewSequencer(sched, cfg.StepPeriod, map[pattern.Target]pattern.Output{
			pattern.LED:    led,
			pattern.Beeper: beeper,
		}),
	}
}

// Edge feeds one input transition to the decoder.
func (d *Device) Edge(d0, d1 int) {
	d.Decoder.Edge(d0, d1)
}

// Read returns the last decoded credential as text ("" if none).
func (d *Device) Read() string {
	return d.Decoder.Read()
}

// Status returns the active patterns as text.
func (d *Device) Status() string {
	return d.Sequencer.Status()
}

// Control parses and runs one command.  A busy output or a full pool
// is not an error: the command is dropped and the returned bool is
// false.  The error is only for malformed text, which callers are
// expected to log and otherwise ignore.
func (d *Device) Control(text string) (bool, error) {
	cmd, err := ParseCommand(text)
	if err != nil {
		return false, err
	}
	return d.Sequencer.Start(cmd.Bitmask, cmd.Target), nil
}

// Close stops the decoder and the sequencer and turns the outputs off.
func (d *Device) Close() {
	d.Decoder.Close()
	d.Sequencer.Close()
}
