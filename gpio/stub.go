//go:build !linux
// +build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// Inputs is not available on non-Linux platforms.
type Inputs struct{}

// OpenInputs returns an error on non-Linux platforms.
func OpenInputs(cfg InputConfig, edge func(d0, d1 int)) (*Inputs, error) {
	return nil, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (in *Inputs) Close() error {
	return nil
}

// Outputs is not available on non-Linux platforms.
type Outputs struct {
	LED    Output
	Beeper Output
}

// OpenOutputs returns an error on non-Linux platforms.
func OpenOutputs(cfg OutputConfig) (*Outputs, error) {
	return nil, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (o *Outputs) Close() error {
	return nil
}
