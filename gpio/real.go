//go:build linux
// +build linux

package gpio

import (
	"fmt"
	"sync/atomic"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/warthog618/gpiod"
)

// Inputs delivers edges on the Wiegand D0 and D1 lines.
type Inputs struct {
	chip  *gpiod.Chip
	d0    *gpiod.Line
	d1    *gpiod.Line
	pinD0 int
	pinD1 int
	edge  func(d0, d1 int)

	// Last known level of each line, updated from edge events.
	levelD0 int32
	levelD1 int32
}

// OpenInputs requests D0 and D1 with edge detection on both edges.
// edge is called from the gpiod event goroutine on every transition
// with the levels of both lines; it must not block.
func OpenInputs(cfg InputConfig, edge func(d0, d1 int)) (*Inputs, error) {
	chip, err := gpiod.NewChip(cfg.Chip, gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", cfg.Chip, err)
	}

	// Wiegand lines idle high.
	in := &Inputs{
		chip:    chip,
		pinD0:   cfg.PinD0,
		pinD1:   cfg.PinD1,
		edge:    edge,
		levelD0: 1,
		levelD1: 1,
	}

	in.d0, err = chip.RequestLine(cfg.PinD0, gpiod.AsInput, gpiod.WithBothEdges, gpiod.WithEventHandler(in.handle))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request D0 pin %d: %w", cfg.PinD0, err)
	}
	in.d1, err = chip.RequestLine(cfg.PinD1, gpiod.AsInput, gpiod.WithBothEdges, gpiod.WithEventHandler(in.handle))
	if err != nil {
		in.d0.Close()
		chip.Close()
		return nil, fmt.Errorf("request D1 pin %d: %w", cfg.PinD1, err)
	}

	if v, err := in.d0.Value(); err == nil {
		atomic.StoreInt32(&in.levelD0, int32(v))
	}
	if v, err := in.d1.Value(); err == nil {
		atomic.StoreInt32(&in.levelD1, int32(v))
	}
	return in, nil
}

func (in *Inputs) handle(evt gpiod.LineEvent) {
	level := int32(1)
	if evt.Type == gpiod.LineEventFallingEdge {
		level = 0
	}
	switch evt.Offset {
	case in.pinD0:
		atomic.StoreInt32(&in.levelD0, level)
	case in.pinD1:
		atomic.StoreInt32(&in.levelD1, level)
	default:
		return
	}
	in.edge(int(atomic.LoadInt32(&in.levelD0)), int(atomic.LoadInt32(&in.levelD1)))
}

// Close releases both lines and the chip.
func (in *Inputs) Close() error {
	var errs []error
	for _, l := range []*gpiod.Line{in.d0, in.d1} {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := in.chip.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close inputs: %v", errs)
	}
	return nil
}

// Outputs holds the LED and beeper pins.
type Outputs struct {
	LED    Output
	Beeper Output

	chip *gpiod.Chip
	rpio bool
}

// OpenOutputs requests the LED and beeper lines and turns both off.
func OpenOutputs(cfg OutputConfig) (*Outputs, error) {
	switch cfg.Driver {
	case DriverGpiod, "":
		return openGpiodOutputs(cfg)
	case DriverRpio:
		return openRpioOutputs(cfg)
	default:
		return nil, fmt.Errorf("unknown output driver %q", cfg.Driver)
	}
}

func openGpiodOutputs(cfg OutputConfig) (*Outputs, error) {
	chip, err := gpiod.NewChip(cfg.Chip, gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", cfg.Chip, err)
	}
	off := physical(0, cfg.ActiveLow)

	led, err := chip.RequestLine(cfg.PinLED, gpiod.AsOutput(off))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", cfg.PinLED, err)
	}
	beep, err := chip.RequestLine(cfg.PinBeeper, gpiod.AsOutput(off))
	if err != nil {
		led.Close()
		chip.Close()
		return nil, fmt.Errorf("request beeper pin %d: %w", cfg.PinBeeper, err)
	}

	return &Outputs{
		LED:    &lineOutput{line: led, activeLow: cfg.ActiveLow},
		Beeper: &lineOutput{line: beep, activeLow: cfg.ActiveLow},
		chip:   chip,
	}, nil
}

func openRpioOutputs(cfg OutputConfig) (*Outputs, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open rpio: %w", err)
	}
	led := &pinOutput{pin: rpio.Pin(cfg.PinLED), activeLow: cfg.ActiveLow}
	beep := &pinOutput{pin: rpio.Pin(cfg.PinBeeper), activeLow: cfg.ActiveLow}
	for _, o := range []*pinOutput{led, beep} {
		o.pin.Output()
		o.SetValue(0)
	}
	return &Outputs{LED: led, Beeper: beep, rpio: true}, nil
}

// Close turns both outputs off and releases them.
func (o *Outputs) Close() error {
	var errs []error
	for _, out := range []Output{o.LED, o.Beeper} {
		if err := out.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.rpio {
		if err := rpio.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close outputs: %v", errs)
	}
	return nil
}

// lineOutput drives a line requested from the character device.
type lineOutput struct {
	line      *gpiod.Line
	activeLow bool
}

func (o *lineOutput) SetValue(value int) error {
	return o.line.SetValue(physical(value, o.activeLow))
}

func (o *lineOutput) Close() error {
	if err := o.SetValue(0); err != nil {
		o.line.Close()
		return err
	}
	return o.line.Close()
}

// pinOutput drives a pin through the memory-mapped registers.
type pinOutput struct {
	pin       rpio.Pin
	activeLow bool
}

func (o *pinOutput) SetValue(value int) error {
	if physical(value, o.activeLow) != 0 {
		o.pin.High()
	} else {
		o.pin.Low()
	}
	return nil
}

func (o *pinOutput) Close() error {
	return o.SetValue(0)
}
