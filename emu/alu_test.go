package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/calcsim/emu"
)

var _ = Describe("ALU", func() {
	var a *emu.ALU

	BeforeEach(func() {
		a = emu.NewALU(emu.DefaultWidth)
	})

	DescribeTable("Compute",
		func(op emu.Op, x, y uint64, signed bool, want uint64) {
			got, divByZero := a.Compute(op, x, y, signed)
			Expect(divByZero).To(BeFalse())
			Expect(got).To(Equal(want))
		},
		Entry("add", emu.OpAdd, uint64(0x25), uint64(0x10), false, uint64(0x35)),
		Entry("add wraps", emu.OpAdd, uint64(0xFFFF), uint64(2), false, uint64(1)),
		Entry("sub wraps", emu.OpSub, uint64(3), uint64(5), false, uint64(0xFFFE)),
		Entry("mul truncates", emu.OpMul, uint64(0x1234), uint64(0x100), false, uint64(0x3400)),
		Entry("signed mul", emu.OpMul, uint64(0xFFF9), uint64(3), true, uint64(0xFFEB)),
		Entry("unsigned div", emu.OpDiv, uint64(0xFFF9), uint64(2), false, uint64(0x7FFC)),
		Entry("signed div truncates toward zero", emu.OpDiv, uint64(0xFFF9), uint64(2), true, uint64(0xFFFD)),
		Entry("signed div of two negatives", emu.OpDiv, uint64(0xFFF9), uint64(0xFFFE), true, uint64(3)),
	)

	It("should flag division by zero", func() {
		_, divByZero := a.Compute(emu.OpDiv, 5, 0, false)
		Expect(divByZero).To(BeTrue())
	})

	It("should name operators", func() {
		Expect(emu.OpAdd.String()).To(Equal("+"))
		Expect(emu.OpDiv.String()).To(Equal("/"))
		Expect(emu.Op(7).Valid()).To(BeFalse())
	})
})
