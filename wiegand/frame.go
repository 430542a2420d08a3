package wiegand

import (
	"fmt"
)

const (
	// Number of bytes of frame storage; bits past this are counted but
	// not kept.
	FrameBytes = 6
	// Maximum number of bits stored in a Frame.
	MaxBits = FrameBytes * 8
)

// Frame is the bit capture for one Wiegand transmission. Bits are
// stored MSB-first in the order they arrive.
type Frame struct {
	buf   [FrameBytes]byte
	count int
}

// Add appends one bit. Past MaxBits the bit is dropped but still
// counted, so that an over-long frame keeps its real length.
func (f *Frame) Add(bit int) {
	if f.count < MaxBits && bit != 0 {
		f.buf[f.count/8] |= 0x80 >> uint(f.count%8)
	}
	f.count++
}

// Reset clears the buffer and the bit count together.
func (f *Frame) Reset() {
	*f = Frame{}
}

// Count returns the number of bits received, including dropped ones.
func (f *Frame) Count() int {
	return f.count
}

// Bytes returns a copy of the frame storage.
func (f *Frame) Bytes() [FrameBytes]byte {
	return f.buf
}

// Kind identifies how a frame was classified.
type Kind int

const (
	Unknown Kind = iota
	Keypad
	Card
)

func (k Kind) String() string {
	switch k {
	case Keypad:
		return "keypad"
	case Card:
		return "card"
	default:
		return "unknown"
	}
}

const (
	padToken = "PAD:"
	tagToken = "TAG:"
)

// Credential is the result of decoding one frame.
type Credential struct {
	Kind Kind
	// Keypad digit (Kind == Keypad)
	Digit uint8
	// Facility code and card number (Kind == Card)
	Facility uint32
	Number   uint32
	// Length of the decoded frame in bits
	Bits int
	// Number of frames decoded so far, this one included
	ReadCount int
}

// String formats the credential the way it is read back by clients:
// "PAD:<hex digit>" for a keypad press, "TAG:<facility>:<number>" for
// a card, and "" for anything else.
func (c Credential) String() string {
	switch c.Kind {
	case Keypad:
		return fmt.Sprintf("%s%1X", padToken, c.Digit)
	case Card:
		return fmt.Sprintf("%s%03d:%05d", tagToken, c.Facility, c.Number)
	default:
		return ""
	}
}
