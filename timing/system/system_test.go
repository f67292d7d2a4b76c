package system_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/calcsim/config"
	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/keys"
	"github.com/sarchlab/calcsim/timing/core"
	"github.com/sarchlab/calcsim/timing/display"
	"github.com/sarchlab/calcsim/timing/system"
)

type never struct{}

func (never) Ready(uint64) bool { return false }

func frames(s *system.System) []string {
	var out []string
	for _, f := range s.Display().Frames() {
		out = append(out, f.String())
	}
	return out
}

var _ = Describe("System", func() {
	var s *system.System

	BeforeEach(func() {
		s = system.New(emu.DefaultWidth,
			system.WithLogger(GinkgoLogr),
			system.WithRenderLatency(2),
		)
	})

	It("should clear on power-up", func() {
		Expect(s.Idle()).To(BeFalse())
		Expect(s.Run()).To(Succeed())
		Expect(s.Shown().String()).To(Equal("0000"))
		Expect(s.Core().Phase()).To(Equal(core.PhaseFirstOperand))
	})

	It("should run scenario A", func() {
		Expect(s.Enter("2 5 + 1 0 =")).To(Succeed())
		Expect(frames(s)).To(Equal([]string{"0000", "0002", "0025", "0001", "0010", "0035"}))
		Expect(s.Core().A()).To(Equal(uint64(0x35)))
	})

	It("should run scenario B", func() {
		Expect(s.Enter("5 / 0 =")).To(Succeed())
		Expect(s.Core().Phase()).To(Equal(core.PhaseError))
		Expect(s.Shown().String()).To(Equal("Err"))
		Expect(s.Stats().LastALULatency).To(BeZero())

		Expect(s.Enter("AC")).To(Succeed())
		Expect(s.Core().Phase()).To(Equal(core.PhaseFirstOperand))
		Expect(s.Core().A()).To(BeZero())
		Expect(s.Core().B()).To(BeZero())
		Expect(s.Shown().String()).To(Equal("0000"))
	})

	It("should run scenario C", func() {
		s.SetSigned(true)
		Expect(s.Enter("7 NEG * 3 =")).To(Succeed())
		Expect(frames(s)).To(Equal([]string{"0000", "0007", "-0007", "0003", "-0015"}))
		Expect(s.Shown().Signed()).To(Equal(int64(-21)))
		Expect(s.Stats().LastALULatency).To(Equal(uint64(16)))
	})

	It("should run scenario D", func() {
		Expect(s.Enter("4 + 5 =")).To(Succeed())
		Expect(s.Core().A()).To(Equal(uint64(9)))
		Expect(s.Enter("+ 1 =")).To(Succeed())
		Expect(s.Core().A()).To(Equal(uint64(0xA)))
		Expect(frames(s)).To(Equal([]string{"0000", "0004", "0005", "0009", "0001", "000A"}))
	})

	It("should time signed division", func() {
		s.SetSigned(true)
		Expect(s.Enter("NEG 7 / 2 =")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("-0003"))
		Expect(s.Stats().LastALULatency).To(Equal(uint64(19)))

		Expect(s.Enter("AC NEG 8 / NEG 2 =")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("0004"))
		Expect(s.Stats().LastALULatency).To(Equal(uint64(18)))
	})

	It("should agree with the latency table", func() {
		s.SetSigned(true)
		Expect(s.Enter("1 2 + 3 4 * 5 - 6 / NEG 7 = / 0 = AC F * F =")).To(Succeed())
		st := s.Stats()
		Expect(st.ALULatencies).To(Equal(st.Core.Evaluations))
		Expect(st.LatencyMismatches).To(BeZero())
	})

	It("should apply a mode change to later operations only", func() {
		Expect(s.Enter("F F F F / 2")).To(Succeed())
		s.SetSigned(true)
		Expect(s.Signed()).To(BeTrue())
		Expect(s.Enter("=")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("0000"))

		s.SetSigned(false)
		Expect(s.Enter("AC F F F F / 2 =")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("7FFF"))
	})

	It("should accept buttons pressed directly", func() {
		s.Press(keys.DigitButton(3), keys.OperatorButton(keys.Mul), keys.OperatorButton(keys.Equals))
		Expect(s.Run()).To(Succeed())
		Expect(s.Shown().String()).To(Equal("0009"))
	})

	It("should reject a bad key sequence", func() {
		Expect(s.PressString("1 + G")).NotTo(Succeed())
		Expect(s.Run()).To(Succeed())
		Expect(frames(s)).To(Equal([]string{"0000"}))
	})

	It("should stop after a bounded number of ticks", func() {
		Expect(s.PressString("1 2 3")).To(Succeed())
		Expect(s.RunCycles(3)).To(BeTrue())
		Expect(s.Cycles()).To(Equal(uint64(3)))
		Expect(s.RunCycles(1000)).To(BeFalse())
		Expect(s.Core().A()).To(Equal(uint64(0x123)))
	})

	It("should report a stall when the display never takes a request", func() {
		s = system.New(emu.DefaultWidth,
			system.WithReadyPolicy(never{}),
			system.WithMaxCycles(100),
		)
		err := s.Run()
		Expect(err).To(MatchError(system.ErrStalled))
		Expect(s.Cycles()).To(Equal(uint64(100)))
		Expect(s.Core().State()).To(Equal(core.StateDisplayRender))
		Expect(s.Ports().Display.Valid()).To(BeTrue())
	})

	It("should space presses by the key gap", func() {
		fast := system.New(emu.DefaultWidth)
		slow := system.New(emu.DefaultWidth, system.WithKeyGap(5))
		for _, sys := range []*system.System{fast, slow} {
			Expect(sys.Enter("1 2 3 4")).To(Succeed())
			Expect(sys.Core().A()).To(Equal(uint64(0x1234)))
		}
		Expect(slow.Cycles()).To(BeNumerically(">", fast.Cycles()))
	})

	It("should still work with a periodic display", func() {
		s = system.New(emu.DefaultWidth, system.WithReadyPolicy(display.Periodic{Period: 4}))
		Expect(s.Enter("2 5 + 1 0 =")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("0035"))
	})

	It("should still work with a random display", func() {
		s = system.New(emu.DefaultWidth, system.WithReadyPolicy(display.NewRandom(7, 5)))
		Expect(s.Enter("2 5 + 1 0 =")).To(Succeed())
		Expect(frames(s)).To(Equal([]string{"0000", "0002", "0025", "0001", "0010", "0035"}))
	})

	It("should return to power-on state on reset", func() {
		Expect(s.Enter("1 2 +")).To(Succeed())
		s.Reset()
		Expect(s.Cycles()).To(BeZero())
		Expect(s.Stats().Frames).To(BeZero())
		Expect(s.Core().State()).To(Equal(core.StateClear))
		Expect(s.Run()).To(Succeed())
		Expect(s.Core().A()).To(BeZero())
	})

	It("should collect statistics", func() {
		Expect(s.Enter("2 5 + 1 0 =")).To(Succeed())
		st := s.Stats()
		Expect(st.Cycles).To(Equal(s.Cycles()))
		Expect(st.Frames).To(Equal(6))
		Expect(st.Core.Buttons).To(Equal(uint64(6)))
		Expect(st.ALU.Requests).To(Equal(uint64(1)))
		Expect(st.LastALULatency).To(Equal(uint64(1)))
	})
})

var _ = Describe("FromConfig", func() {
	It("should build a system from the configuration", func() {
		cfg := config.Default()
		cfg.Width = 8
		cfg.Signed = true
		cfg.DisplayReady = config.ReadyPeriodic

		s, err := system.FromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Width()).To(Equal(emu.Width(8)))
		Expect(s.Signed()).To(BeTrue())

		Expect(s.Enter("NEG 5 * 3 =")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("-0F"))
	})

	It("should build a system with a random display", func() {
		cfg := config.Default()
		cfg.DisplayReady = config.ReadyRandom
		cfg.Seed = 3

		s, err := system.FromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Enter("1 + 1 =")).To(Succeed())
		Expect(s.Shown().String()).To(Equal("0002"))
	})

	It("should reject an invalid configuration", func() {
		cfg := config.Default()
		cfg.Width = 10
		_, err := system.FromConfig(cfg)
		Expect(err).To(MatchError(config.ErrInvalidWidth))
	})

	It("should let options override the configuration", func() {
		cfg := config.Default()
		cfg.MaxCycles = 5

		s, err := system.FromConfig(cfg, system.WithMaxCycles(1000))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Enter("1")).To(Succeed())
	})
})
