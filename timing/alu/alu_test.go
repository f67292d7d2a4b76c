package alu_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/timing/alu"
	"github.com/sarchlab/calcsim/timing/handshake"
)

type harness struct {
	in  *handshake.Port[alu.Request]
	out *handshake.Port[alu.Result]
	u   *alu.ALU
}

func newHarness(w emu.Width) *harness {
	h := &harness{
		in:  handshake.NewPort[alu.Request]("in"),
		out: handshake.NewPort[alu.Result]("out"),
	}
	h.u = alu.New(w, h.in, h.out, alu.WithLogger(GinkgoLogr))
	return h
}

// exec runs one request to completion. It returns the result and the number
// of ticks after the accepting tick until the result was offered.
func (h *harness) exec(req alu.Request) (alu.Result, uint64, error) {
	if !h.u.Ready() {
		return alu.Result{}, 0, fmt.Errorf("alu busy in %s", h.u.State())
	}
	h.in.Send(req)
	h.u.Tick()
	if h.in.Valid() {
		return alu.Result{}, 0, fmt.Errorf("request not accepted")
	}

	var n uint64
	for !h.out.Valid() {
		if n > 200 {
			return alu.Result{}, n, fmt.Errorf("no result after %d ticks", n)
		}
		h.u.Tick()
		n++
	}

	res, _ := h.out.Receive()
	h.u.Tick()
	return res, n, nil
}

var _ = Describe("ALU", func() {
	const w = emu.DefaultWidth

	var h *harness

	BeforeEach(func() {
		h = newHarness(w)
	})

	It("should start idle and ready", func() {
		Expect(h.u.State()).To(Equal(alu.StateIdle))
		Expect(h.u.Ready()).To(BeTrue())
	})

	DescribeTable("results and cycle counts",
		func(req alu.Request, want uint64, cycles uint64) {
			res, n, err := h.exec(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Err).To(BeFalse())
			Expect(res.Value).To(Equal(want))
			Expect(n).To(Equal(cycles))
			Expect(h.u.Ready()).To(BeTrue())
		},
		Entry("ADD", alu.Request{A: 0x25, B: 0x10, Op: emu.OpAdd}, uint64(0x35), uint64(1)),
		Entry("ADD wraps", alu.Request{A: 0xFFFF, B: 0x2, Op: emu.OpAdd}, uint64(0x1), uint64(1)),
		Entry("SUB", alu.Request{A: 0x10, B: 0x25, Op: emu.OpSub}, uint64(0xFFEB), uint64(1)),
		Entry("MUL", alu.Request{A: 0x7, B: 0x3, Op: emu.OpMul}, uint64(0x15), uint64(16)),
		Entry("MUL truncates", alu.Request{A: 0x1234, B: 0x100, Op: emu.OpMul}, uint64(0x3400), uint64(16)),
		Entry("signed MUL", alu.Request{A: 0xFFF9, B: 0x3, Op: emu.OpMul, Signed: true}, uint64(0xFFEB), uint64(16)),
		Entry("unsigned DIV", alu.Request{A: 0xFFF9, B: 0x2, Op: emu.OpDiv}, uint64(0x7FFC), uint64(16)),
		Entry("unsigned DIV by a large divisor", alu.Request{A: 0xFFFF, B: 0x8001, Op: emu.OpDiv}, uint64(1), uint64(16)),
		Entry("signed DIV, positive quotient", alu.Request{A: 0x7, B: 0x2, Op: emu.OpDiv, Signed: true}, uint64(3), uint64(18)),
		Entry("signed DIV, two negatives", alu.Request{A: 0xFFF9, B: 0xFFFE, Op: emu.OpDiv, Signed: true}, uint64(3), uint64(18)),
		Entry("signed DIV, negative quotient", alu.Request{A: 0xFFF9, B: 0x2, Op: emu.OpDiv, Signed: true}, uint64(0xFFFD), uint64(19)),
		Entry("signed DIV, zero quotient negated", alu.Request{A: 0x1, B: 0xFFFE, Op: emu.OpDiv, Signed: true}, uint64(0), uint64(19)),
	)

	It("should report division by zero without computing", func() {
		res, n, err := h.exec(alu.Request{A: 5, B: 0, Op: emu.OpDiv, Signed: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Err).To(BeTrue())
		Expect(n).To(BeZero())
		Expect(h.u.Stats().Errors).To(Equal(uint64(1)))
		Expect(h.u.Stats().BusyCycles).To(BeZero())
	})

	It("should not accept a second request while busy", func() {
		h.in.Send(alu.Request{A: 3, B: 4, Op: emu.OpMul})
		h.u.Tick()
		Expect(h.u.Ready()).To(BeFalse())
		Expect(h.u.State()).To(Equal(alu.StateMulLoop))

		Expect(h.in.Send(alu.Request{A: 1, B: 1, Op: emu.OpAdd})).To(BeTrue())
		for i := 0; i < 5; i++ {
			h.u.Tick()
			Expect(h.in.Valid()).To(BeTrue())
		}
	})

	It("should hold the result until it is taken", func() {
		h.in.Send(alu.Request{A: 1, B: 2, Op: emu.OpAdd})
		h.u.Tick()
		h.u.Tick()
		Expect(h.u.State()).To(Equal(alu.StateOutput))

		for i := 0; i < 3; i++ {
			h.u.Tick()
			Expect(h.u.State()).To(Equal(alu.StateOutput))
			Expect(h.out.Valid()).To(BeTrue())
		}

		res, _ := h.out.Receive()
		Expect(res.Value).To(Equal(uint64(3)))
		h.u.Tick()
		Expect(h.u.State()).To(Equal(alu.StateIdle))
	})

	It("should route all arithmetic through the shared adder", func() {
		_, _, err := h.exec(alu.Request{A: 0xFFFF, B: 0xFFFF, Op: emu.OpMul})
		Expect(err).NotTo(HaveOccurred())
		Expect(h.u.Stats().AdderOps).To(Equal(uint64(16)))
	})

	It("should return to idle on reset", func() {
		h.in.Send(alu.Request{A: 3, B: 4, Op: emu.OpMul})
		h.u.Tick()
		h.u.Reset()
		Expect(h.u.State()).To(Equal(alu.StateIdle))
		Expect(h.u.Stats()).To(Equal(alu.Stats{}))
	})

	It("should agree with the functional ALU for every 8-bit operand pair", func() {
		const w8 = emu.Width(8)
		h8 := newHarness(w8)
		ref := emu.NewALU(w8)
		ops := []emu.Op{emu.OpAdd, emu.OpSub, emu.OpMul, emu.OpDiv}

		var mismatches []string
		for _, signed := range []bool{false, true} {
			for _, op := range ops {
				for a := uint64(0); a < 256; a++ {
					for b := uint64(0); b < 256; b++ {
						req := alu.Request{A: a, B: b, Op: op, Signed: signed}
						res, _, err := h8.exec(req)
						if err != nil {
							mismatches = append(mismatches, fmt.Sprintf("%+v: %v", req, err))
							continue
						}
						want, divByZero := ref.Compute(op, a, b, signed)
						if res.Err != divByZero || (!divByZero && res.Value != want) {
							mismatches = append(mismatches,
								fmt.Sprintf("%+v: got %+v, want 0x%02X (div0=%v)", req, res, want, divByZero))
						}
					}
				}
			}
		}
		Expect(mismatches).To(BeEmpty())
	})

	It("should divide by truncating magnitudes in signed mode", func() {
		const w8 = emu.Width(8)
		h8 := newHarness(w8)
		for _, c := range []struct{ a, b int64 }{
			{-7, 2}, {7, -2}, {-7, -2}, {-128, 3}, {100, -7}, {-1, 5},
		} {
			res, _, err := h8.exec(alu.Request{
				A: w8.FromSigned(c.a), B: w8.FromSigned(c.b), Op: emu.OpDiv, Signed: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(w8.ToSigned(res.Value)).To(Equal(c.a/c.b), "%d / %d", c.a, c.b)
		}
	})
})
