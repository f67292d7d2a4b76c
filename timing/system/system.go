// Package system wires the calculator components together and advances
// them one clock tick at a time.
//
// Each tick steps the components in dependency order: keypad, core, ALU,
// display driver. Links between them are single-entry handshake ports, so
// at most one button, one ALU request and one display request are ever in
// flight.
package system

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/sarchlab/calcsim/config"
	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/keys"
	"github.com/sarchlab/calcsim/timing/alu"
	"github.com/sarchlab/calcsim/timing/core"
	"github.com/sarchlab/calcsim/timing/display"
	"github.com/sarchlab/calcsim/timing/keypad"
	"github.com/sarchlab/calcsim/timing/latency"
)

// ErrStalled is returned by Run when the system does not return to waiting
// for input within the cycle bound.
var ErrStalled = errors.New("simulation stalled")

// DefaultMaxCycles bounds Run when no limit is configured.
const DefaultMaxCycles uint64 = 1000000

// Stats holds system-wide statistics.
type Stats struct {
	// Cycles is the total number of ticks simulated.
	Cycles uint64
	// Core holds the core counters.
	Core core.Stats
	// ALU holds the ALU counters.
	ALU alu.Stats
	// Frames is the number of frames rendered.
	Frames int
	// ALULatencies is the number of ALU requests timed.
	ALULatencies uint64
	// LastALULatency is the latency of the most recent ALU request.
	LastALULatency uint64
	// LatencyMismatches counts ALU requests whose measured latency
	// differed from the latency table.
	LatencyMismatches uint64
}

// Option is a functional option for configuring the System.
type Option func(*System)

// WithLogger sets the logger handed to every component.
func WithLogger(log logr.Logger) Option {
	return func(s *System) {
		s.log = log
	}
}

// WithSigned sets the initial signed mode.
func WithSigned(signed bool) Option {
	return func(s *System) {
		s.signed = signed
	}
}

// WithReadyPolicy sets the display driver ready policy.
func WithReadyPolicy(p display.ReadyPolicy) Option {
	return func(s *System) {
		s.displayOpts = append(s.displayOpts, display.WithReadyPolicy(p))
	}
}

// WithRenderLatency sets the display driver render time.
func WithRenderLatency(n uint64) Option {
	return func(s *System) {
		s.displayOpts = append(s.displayOpts, display.WithRenderLatency(n))
	}
}

// WithKeyGap sets the idle ticks between key presses.
func WithKeyGap(n uint64) Option {
	return func(s *System) {
		s.keyGap = n
	}
}

// WithMaxCycles bounds each call to Run.
func WithMaxCycles(n uint64) Option {
	return func(s *System) {
		s.maxCycles = n
	}
}

// System is a complete calculator: button source, core, ALU and display.
type System struct {
	width emu.Width
	mode  *core.Mode
	ports core.Ports
	log   logr.Logger

	keypad  *keypad.Keypad
	core    *core.Core
	alu     *alu.ALU
	display *display.Driver
	latency *latency.Table

	signed      bool
	keyGap      uint64
	maxCycles   uint64
	displayOpts []display.Option

	cycles    uint64
	inflight  alu.Request
	fireCycle uint64
	timing    bool
	stats     Stats
}

// New creates a system with W-bit registers.
func New(w emu.Width, opts ...Option) *System {
	s := &System{
		width:     w,
		log:       logr.Discard(),
		maxCycles: DefaultMaxCycles,
		ports:     core.NewPorts(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mode = core.NewMode(s.signed)
	s.keypad = keypad.New(s.ports.Buttons, s.keyGap)
	s.core = core.New(w, s.mode, s.ports, core.WithLogger(s.log.WithName("core")))
	s.alu = alu.New(w, s.ports.ALURequest, s.ports.ALUResult, alu.WithLogger(s.log.WithName("alu")))
	s.display = display.NewDriver(w, s.ports.Display, s.ports.RenderDone, s.displayOpts...)
	s.latency = latency.NewTable(w)

	return s
}

// FromConfig creates a system from a validated configuration. Extra options
// are applied after the configuration.
func FromConfig(cfg *config.Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var policy display.ReadyPolicy
	switch cfg.DisplayReady {
	case config.ReadyPeriodic:
		policy = display.Periodic{Period: cfg.DisplayReadyPeriod}
	case config.ReadyRandom:
		policy = display.NewRandom(cfg.Seed, cfg.DisplayReadyPeriod)
	default:
		policy = display.Always{}
	}

	base := []Option{
		WithSigned(cfg.Signed),
		WithReadyPolicy(policy),
		WithRenderLatency(cfg.RenderLatency),
		WithKeyGap(cfg.KeyGap),
		WithMaxCycles(cfg.MaxCycles),
	}
	return New(cfg.RegisterWidth(), append(base, opts...)...), nil
}

// Width returns the register width.
func (s *System) Width() emu.Width {
	return s.width
}

// Core returns the calculator core.
func (s *System) Core() *core.Core {
	return s.core
}

// ALU returns the arithmetic unit.
func (s *System) ALU() *alu.ALU {
	return s.alu
}

// Display returns the display driver.
func (s *System) Display() *display.Driver {
	return s.display
}

// Signed reports the current mode.
func (s *System) Signed() bool {
	return s.mode.Signed()
}

// SetSigned changes the mode input. Stored register bits are unchanged.
func (s *System) SetSigned(signed bool) {
	s.mode.SetSigned(signed)
}

// Press queues buttons on the keypad.
func (s *System) Press(buttons ...keys.Button) {
	s.keypad.Press(buttons...)
}

// PressString parses a key sequence and queues it.
func (s *System) PressString(seq string) error {
	buttons, err := keys.ParseSequence(seq)
	if err != nil {
		return err
	}
	s.keypad.Press(buttons...)
	return nil
}

// Idle reports whether every queued button has been consumed and the core
// is waiting for input.
func (s *System) Idle() bool {
	return s.keypad.Pending() == 0 && s.core.Ready()
}

// Tick advances every component by one clock cycle.
func (s *System) Tick() {
	s.cycles++

	s.keypad.Tick()
	s.core.Tick()

	req, pending := s.ports.ALURequest.Peek()
	s.alu.Tick()
	if pending && !s.ports.ALURequest.Valid() {
		s.inflight = req
		s.fireCycle = s.cycles
		s.timing = true
	}
	if s.timing && s.ports.ALUResult.Valid() {
		s.recordLatency(s.cycles - s.fireCycle)
	}

	s.display.Tick()
}

func (s *System) recordLatency(got uint64) {
	s.timing = false
	s.stats.ALULatencies++
	s.stats.LastALULatency = got
	if want := s.latency.Cycles(s.inflight); want != got {
		s.stats.LatencyMismatches++
		s.log.Error(nil, "ALU latency mismatch", "op", s.inflight.Op.String(), "want", want, "got", got)
	}
}

// Run ticks until the system is idle. It returns ErrStalled if that takes
// more than the configured number of cycles.
func (s *System) Run() error {
	start := s.cycles
	for !s.Idle() {
		if s.cycles-start >= s.maxCycles {
			return fmt.Errorf("%w: %d cycles, core in %s, alu in %s",
				ErrStalled, s.maxCycles, s.core.State(), s.alu.State())
		}
		s.Tick()
	}
	return nil
}

// RunCycles ticks n times or until idle. It returns true if the system is
// still busy.
func (s *System) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !s.Idle(); i++ {
		s.Tick()
	}
	return !s.Idle()
}

// Enter queues seq and runs until idle.
func (s *System) Enter(seq string) error {
	if err := s.PressString(seq); err != nil {
		return err
	}
	return s.Run()
}

// Shown returns the most recently rendered frame.
func (s *System) Shown() display.Frame {
	f, _ := s.display.Last()
	return f
}

// Cycles returns the number of ticks simulated.
func (s *System) Cycles() uint64 {
	return s.cycles
}

// Stats returns a snapshot of the statistics.
func (s *System) Stats() Stats {
	st := s.stats
	st.Cycles = s.cycles
	st.Core = s.core.Stats()
	st.ALU = s.alu.Stats()
	st.Frames = len(s.display.Frames())
	return st
}

// Reset returns every component to its power-on state. The mode input is
// left as is.
func (s *System) Reset() {
	for _, p := range []interface{ Reset() }{
		s.ports.Buttons, s.ports.ALURequest, s.ports.ALUResult,
		s.ports.Display, s.ports.RenderDone,
	} {
		p.Reset()
	}
	s.keypad.Reset()
	s.core.Reset()
	s.alu.Reset()
	s.display.Reset()
	s.cycles = 0
	s.timing = false
	s.stats = Stats{}
}

// Ports exposes the handshake links, mainly for tests.
func (s *System) Ports() core.Ports {
	return s.ports
}
