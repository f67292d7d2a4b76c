// Package core provides the calculator core: the control state machine and
// the register file holding the two operands, the bound operator and the
// per-register sign flags.
//
// The core consumes one button per tick while it is waiting for input. Every
// change to a shown value passes through a display request followed by a
// wait for render complete, so a new key press can never race a render.
package core

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/keys"
	"github.com/sarchlab/calcsim/timing/alu"
	"github.com/sarchlab/calcsim/timing/display"
	"github.com/sarchlab/calcsim/timing/handshake"
)

// Mode is the persistent signed-mode input. It is sampled on every
// operation, so changing it affects later operations only.
type Mode struct {
	signed bool
}

// NewMode creates a mode input.
func NewMode(signed bool) *Mode {
	return &Mode{signed: signed}
}

// Signed reports whether two's-complement mode is selected.
func (m *Mode) Signed() bool {
	return m.signed
}

// SetSigned selects two's-complement (true) or unsigned (false) mode.
func (m *Mode) SetSigned(signed bool) {
	m.signed = signed
}

// Ports are the handshake links of the core.
type Ports struct {
	Buttons    *handshake.Port[keys.Button]
	ALURequest *handshake.Port[alu.Request]
	ALUResult  *handshake.Port[alu.Result]
	Display    *handshake.Port[display.Request]
	RenderDone *handshake.Port[display.RenderDone]
}

// NewPorts creates a full set of empty ports.
func NewPorts() Ports {
	return Ports{
		Buttons:    handshake.NewPort[keys.Button]("buttons"),
		ALURequest: handshake.NewPort[alu.Request]("alu_req"),
		ALUResult:  handshake.NewPort[alu.Result]("alu_resp"),
		Display:    handshake.NewPort[display.Request]("display"),
		RenderDone: handshake.NewPort[display.RenderDone]("render_done"),
	}
}

// Stats holds core activity counters.
type Stats struct {
	// Buttons is the number of buttons consumed.
	Buttons uint64
	// DigitsMerged is the number of digits shifted into a register.
	DigitsMerged uint64
	// DigitsDropped is the number of digits discarded for lack of room.
	DigitsDropped uint64
	// Evaluations is the number of ALU requests issued.
	Evaluations uint64
	// Errors is the number of error results received.
	Errors uint64
	// Displays is the number of display requests issued.
	Displays uint64
	// Clears is the number of times the registers were cleared.
	Clears uint64
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLogger sets the logger used for transitions and results.
func WithLogger(log logr.Logger) Option {
	return func(c *Core) {
		c.log = log
	}
}

// Core is the calculator control state machine.
type Core struct {
	width emu.Width
	mode  *Mode
	ports Ports
	log   logr.Logger

	state State

	// Register file.
	a, b         uint64
	op           emu.Op
	signA, signB bool
	pending      uint8

	// Evaluation in flight.
	eval   evalKind
	req    alu.Request
	nextOp emu.Op

	// Display in flight.
	disp   display.Request
	resume State

	stats Stats
}

// New creates a core for W-bit registers. The core starts in CLEAR.
func New(w emu.Width, mode *Mode, ports Ports, opts ...Option) *Core {
	c := &Core{
		width: w,
		mode:  mode,
		ports: ports,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current micro-state.
func (c *Core) State() State {
	return c.state
}

// Phase returns the logical phase of the current micro-state.
func (c *Core) Phase() Phase {
	return c.phaseOf(c.state)
}

func (c *Core) phaseOf(s State) Phase {
	switch s {
	case StateClear:
		return PhaseClear
	case StateFirstOperand:
		return PhaseFirstOperand
	case StateSecondEmpty, StateSecondTyped:
		return PhaseSecondOperand
	case StatePostEquals:
		return PhasePostEquals
	case StateError:
		return PhaseError
	case StateALURequest, StateALUWait:
		if c.eval == evalChain {
			return PhaseSecondOperand
		}
		return PhaseEquals
	case StateDisplayRequest, StateDisplayRender:
		if c.resume.AcceptsButtons() {
			return c.phaseOf(c.resume)
		}
		return PhaseClear
	default:
		return PhaseClear
	}
}

// A returns operand register A.
func (c *Core) A() uint64 { return c.a }

// B returns operand register B.
func (c *Core) B() uint64 { return c.b }

// Operator returns the bound operator.
func (c *Core) Operator() emu.Op { return c.op }

// SignA returns the sign flag of A.
func (c *Core) SignA() bool { return c.signA }

// SignB returns the sign flag of B.
func (c *Core) SignB() bool { return c.signB }

// PendingDigit returns the most recently accepted digit.
func (c *Core) PendingDigit() uint8 { return c.pending }

// Ready reports whether the core asserts button-ready.
func (c *Core) Ready() bool {
	return c.state.AcceptsButtons()
}

// Stats returns the activity counters.
func (c *Core) Stats() Stats {
	return c.stats
}

// Reset forces the core into CLEAR and zeroes the counters.
func (c *Core) Reset() {
	c.stats = Stats{}
	c.setState(StateClear)
}

// Tick advances the core by one clock cycle.
func (c *Core) Tick() {
	switch c.state {
	case StateClear:
		c.clear()

	case StateFirstOperand, StateSecondEmpty, StateSecondTyped, StatePostEquals, StateError:
		btn, ok := c.ports.Buttons.Receive()
		if !ok {
			return
		}
		c.stats.Buttons++
		c.log.V(2).Info("button", "key", btn.String(), "state", c.state.String())
		c.handleButton(btn)

	case StateALURequest:
		if c.ports.ALURequest.Send(c.req) {
			c.setState(StateALUWait)
		}

	case StateALUWait:
		if res, ok := c.ports.ALUResult.Receive(); ok {
			c.complete(res)
		}

	case StateDisplayRequest:
		if c.ports.Display.Send(c.disp) {
			c.setState(StateDisplayRender)
		}

	case StateDisplayRender:
		if _, ok := c.ports.RenderDone.Receive(); ok {
			c.setState(c.resume)
		}

	default:
		c.log.Error(nil, "unreachable state, resetting", "state", uint8(c.state))
		c.setState(StateClear)
	}
}

func (c *Core) clear() {
	c.a, c.b = 0, 0
	c.signA, c.signB = false, false
	c.op = emu.OpAdd
	c.pending = 0
	c.stats.Clears++
	c.show(display.Request{}, StateFirstOperand)
}

func (c *Core) handleButton(btn keys.Button) {
	if c.state == StateError {
		if !btn.IsDigit() && btn.Operator() == keys.Clear {
			c.setState(StateClear)
		}
		return
	}

	if btn.IsDigit() {
		c.pending = btn.Digit()
		c.onDigit()
		return
	}

	switch op := btn.Operator(); op {
	case keys.Clear:
		c.setState(StateClear)
	case keys.Negate:
		c.onNegate()
	case keys.Equals:
		c.onEquals()
	default:
		if aluOp, ok := op.ALUOp(); ok {
			c.onOperator(aluOp)
		}
	}
}

func (c *Core) onDigit() {
	switch c.state {
	case StatePostEquals:
		c.a, c.signA = 0, false
		c.enterA()
	case StateFirstOperand:
		c.enterA()
	case StateSecondEmpty, StateSecondTyped:
		c.enterB()
	}
}

func (c *Core) enterA() {
	v, ok := c.merge(c.a, c.signA)
	if !ok {
		c.stats.DigitsDropped++
		c.setState(StateFirstOperand)
		return
	}
	c.a = v
	c.show(c.shown(c.a, c.signA), StateFirstOperand)
}

func (c *Core) enterB() {
	v, ok := c.merge(c.b, c.signB)
	if !ok {
		c.stats.DigitsDropped++
		return
	}
	c.b = v
	c.show(c.shown(c.b, c.signB), StateSecondTyped)
}

// onNegate toggles the sign of the register being entered. It has no
// effect in unsigned mode.
func (c *Core) onNegate() {
	if !c.mode.Signed() {
		return
	}

	switch c.state {
	case StateFirstOperand, StatePostEquals:
		c.a = c.negate(c.a)
		c.signA = !c.signA
		c.show(c.shown(c.a, c.signA), c.state)
	case StateSecondEmpty, StateSecondTyped:
		c.b = c.negate(c.b)
		c.signB = !c.signB
		c.show(c.shown(c.b, c.signB), c.state)
	}
}

func (c *Core) onOperator(op emu.Op) {
	switch c.state {
	case StateFirstOperand, StatePostEquals:
		c.op = op
		c.enterSecond()
	case StateSecondEmpty:
		c.op = op
	case StateSecondTyped:
		c.nextOp = op
		c.evaluate(evalChain, c.a, c.b)
	}
}

func (c *Core) onEquals() {
	switch c.state {
	case StateSecondEmpty, StatePostEquals:
		c.evaluate(evalEquals, c.a, c.a)
	case StateSecondTyped:
		c.evaluate(evalEquals, c.a, c.b)
	}
}

func (c *Core) enterSecond() {
	c.b, c.signB = 0, false
	c.setState(StateSecondEmpty)
}

func (c *Core) evaluate(kind evalKind, x, y uint64) {
	c.eval = kind
	c.req = alu.Request{A: x, B: y, Op: c.op, Signed: c.mode.Signed()}
	c.stats.Evaluations++
	c.setState(StateALURequest)
}

func (c *Core) complete(res alu.Result) {
	if res.Err {
		c.stats.Errors++
		c.log.Info("evaluation failed", "op", c.req.Op.String(), "a", c.req.A, "b", c.req.B)
		c.show(display.Request{Error: true}, StateError)
		return
	}

	c.a = c.width.Trunc(res.Value)
	c.signA, c.signB = false, false
	c.log.Info("evaluated", "op", c.req.Op.String(), "a", c.req.A, "b", c.req.B, "result", c.a)

	if c.eval == evalChain {
		c.op = c.nextOp
		c.b = 0
		c.show(c.shown(c.a, false), StateSecondEmpty)
		return
	}
	c.show(c.shown(c.a, false), StatePostEquals)
}

// shown builds the display request for a register. A zero register whose
// sign flag is set shows as -0 in signed mode.
func (c *Core) shown(v uint64, sign bool) display.Request {
	signed := c.mode.Signed()
	mag, neg := c.width.Magnitude(v, signed)
	if signed && v == 0 && sign {
		neg = true
	}
	return display.Request{Value: mag, Negative: neg}
}

func (c *Core) show(req display.Request, resume State) {
	c.disp = req
	c.resume = resume
	c.stats.Displays++
	c.setState(StateDisplayRequest)
}

func (c *Core) setState(s State) {
	if s == c.state {
		return
	}
	c.log.V(1).Info("transition", "from", c.state.String(), "to", s.String())
	c.state = s
}
