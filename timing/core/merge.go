package core

import "github.com/sarchlab/calcsim/emu"

// merge shifts the pending digit into reg, adding it or, for a negated
// entry in signed mode, subtracting it.
//
// A zero register always takes the digit. Otherwise the register must have
// room for another nibble: in unsigned mode the top nibble must be 0; in
// signed mode it must be all zeros or all ones and the merged value must
// keep the sign of reg. A digit that does not fit is dropped and ok is
// false.
func (c *Core) merge(reg uint64, negative bool) (v uint64, ok bool) {
	w := c.width
	signed := c.mode.Signed()
	d := uint64(c.pending)

	if reg != 0 {
		top := w.TopNibble(reg)
		if !signed && top != 0 {
			return reg, false
		}
		if signed && top != 0 && top != 0xF {
			return reg, false
		}
	}

	shifted := w.Trunc(reg << 4)
	if signed && negative {
		v, _ = emu.Sub(w, shifted, d)
	} else {
		v, _ = emu.Add(w, shifted, d, false)
	}

	if signed && reg != 0 && w.SignBit(v) != w.SignBit(reg) {
		return reg, false
	}

	c.stats.DigitsMerged++
	return v, true
}

func (c *Core) negate(x uint64) uint64 {
	return emu.Negate(c.width, x)
}
