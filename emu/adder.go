package emu

// Add is the shared adder. It ripples a full adder across the low W bits of
// a and b, starting from carryIn, and returns the W-bit sum together with
// the carry out of bit W-1.
//
// Add holds no state. The core and the ALU call it with their own operand
// pair each tick they need arithmetic.
func Add(w Width, a, b uint64, carryIn bool) (sum uint64, carryOut bool) {
	c := carryIn
	for i := Width(0); i < w; i++ {
		va := (a>>i)&1 == 1
		vb := (b>>i)&1 == 1
		s := va != vb
		if s != c {
			sum |= uint64(1) << i
		}
		c = s && c || va && vb
	}
	return sum, c
}

// Sub computes a - b as a + ^b + 1. The carry out is set when no borrow
// occurred, that is when a >= b as unsigned W-bit values.
func Sub(w Width, a, b uint64) (diff uint64, carryOut bool) {
	return Add(w, a, ^b&w.Mask(), true)
}

// Negate returns the two's-complement negation of x.
func Negate(w Width, x uint64) uint64 {
	n, _ := Add(w, ^x&w.Mask(), 0, true)
	return n
}
