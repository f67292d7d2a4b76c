package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/calcsim/emu"
)

var _ = Describe("Width", func() {
	DescribeTable("Validate",
		func(w emu.Width, ok bool) {
			if ok {
				Expect(w.Validate()).To(Succeed())
			} else {
				Expect(w.Validate()).NotTo(Succeed())
			}
		},
		Entry("8 bits", emu.Width(8), true),
		Entry("12 bits", emu.Width(12), true),
		Entry("16 bits", emu.Width(16), true),
		Entry("32 bits", emu.Width(32), true),
		Entry("4 bits is too narrow", emu.Width(4), false),
		Entry("10 bits is not whole nibbles", emu.Width(10), false),
		Entry("36 bits is too wide", emu.Width(36), false),
	)

	It("should compute masks", func() {
		Expect(emu.Width(16).Mask()).To(Equal(uint64(0xFFFF)))
		Expect(emu.Width(16).DoubleMask()).To(Equal(uint64(0xFFFF_FFFF)))
		Expect(emu.Width(32).DoubleMask()).To(Equal(^uint64(0)))
	})

	It("should extract the sign bit and top nibble", func() {
		w := emu.DefaultWidth
		Expect(w.SignBit(0x8000)).To(BeTrue())
		Expect(w.SignBit(0x7FFF)).To(BeFalse())
		Expect(w.TopNibble(0xA123)).To(Equal(uint64(0xA)))
		Expect(w.Digits()).To(Equal(4))
	})

	It("should convert between signed and encoded forms", func() {
		w := emu.DefaultWidth
		Expect(w.ToSigned(0xFFF9)).To(Equal(int64(-7)))
		Expect(w.ToSigned(0x7FFF)).To(Equal(int64(32767)))
		Expect(w.FromSigned(-21)).To(Equal(uint64(0xFFEB)))
	})

	It("should split magnitude and sign only in signed mode", func() {
		w := emu.DefaultWidth

		mag, neg := w.Magnitude(0xFFEB, true)
		Expect(mag).To(Equal(uint64(0x15)))
		Expect(neg).To(BeTrue())

		mag, neg = w.Magnitude(0xFFEB, false)
		Expect(mag).To(Equal(uint64(0xFFEB)))
		Expect(neg).To(BeFalse())
	})
})
