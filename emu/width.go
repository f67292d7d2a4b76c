// Package emu provides the combinational building blocks of the calculator:
// fixed-width words, the shared adder and a zero-time functional ALU that
// serves as the reference model for the cycle-level components.
package emu

import "fmt"

// Width is the bit width W of an operand register.
type Width uint

// DefaultWidth is the register width used when none is configured.
const DefaultWidth Width = 16

const (
	// MinWidth is the narrowest supported register.
	MinWidth Width = 8
	// MaxWidth is the widest supported register. A 2W-bit working
	// register must fit in a uint64.
	MaxWidth Width = 32
)

// Validate checks that w is a whole number of nibbles within range.
func (w Width) Validate() error {
	if w < MinWidth || w > MaxWidth || w%4 != 0 {
		return fmt.Errorf("width %d: must be a multiple of 4 in [%d, %d]",
			uint(w), uint(MinWidth), uint(MaxWidth))
	}
	return nil
}

// Mask returns a value with the low W bits set.
func (w Width) Mask() uint64 {
	return (uint64(1) << w) - 1
}

// DoubleMask returns a value with the low 2W bits set.
func (w Width) DoubleMask() uint64 {
	if 2*w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << (2 * w)) - 1
}

// Trunc discards every bit above W.
func (w Width) Trunc(x uint64) uint64 {
	return x & w.Mask()
}

// SignBit reports whether bit W-1 of x is set.
func (w Width) SignBit(x uint64) bool {
	return (x>>(w-1))&1 == 1
}

// TopNibble returns bits [W-1:W-4] of x.
func (w Width) TopNibble(x uint64) uint64 {
	return (x >> (w - 4)) & 0xF
}

// Digits returns the number of hex digits a W-bit word holds.
func (w Width) Digits() int {
	return int(w / 4)
}

// ToSigned interprets the low W bits of x as a two's-complement integer.
func (w Width) ToSigned(x uint64) int64 {
	x = w.Trunc(x)
	if w.SignBit(x) {
		return int64(x) - int64(uint64(1)<<w)
	}
	return int64(x)
}

// FromSigned returns the W-bit two's-complement encoding of v.
func (w Width) FromSigned(v int64) uint64 {
	return w.Trunc(uint64(v))
}

// Magnitude splits x into an unsigned magnitude and a negative flag.
// In unsigned mode the word is returned as is.
func (w Width) Magnitude(x uint64, signed bool) (uint64, bool) {
	x = w.Trunc(x)
	if !signed || !w.SignBit(x) {
		return x, false
	}
	return Negate(w, x), true
}
