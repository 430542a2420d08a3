package wiegand

// Frame lengths that are recognized. Parity bits are not checked.
const (
	KeypadBits = 4
	Card26Bits = 26
	Card34Bits = 34
)

// Decode classifies a frame by its length and extracts its fields.
// ReadCount is left for the caller to fill in.
func Decode(f *Frame) Credential {
	b := f.Bytes()
	c := Credential{Bits: f.Count()}

	switch f.Count() {
	case KeypadBits:
		c.Kind = Keypad
		c.Digit = (b[0] >> 4) & 0xF
	case Card26Bits, Card34Bits:
		// 34-bit frames go through the 26-bit layout unchanged.
		c.Kind = Card
		c.Facility, c.Number = cardFields(b)
	default:
		c.Kind = Unknown
	}
	return c
}

// cardFields slices the standard 26-bit layout: a leading parity bit,
// 8 bits of facility code, 16 bits of card number, a trailing parity
// bit.
func cardFields(b [FrameBytes]byte) (facility, number uint32) {
	facility = (uint32(b[0])<<1 | uint32(b[1])>>7) & 0xFF
	number = (uint32(b[1])&0x7F)<<9 |
		uint32(b[2])<<1 |
		uint32(b[3])>>7
	return facility, number
}
