// Package alu provides the multi-cycle arithmetic unit of the calculator.
//
// The ALU takes one Request at a time from its input port while idle,
// computes over a fixed number of ticks using the shared adder, and offers a
// Result on its output port until the caller takes it.
//
// Cycle counts after the accepting tick:
//   - ADD, SUB: 1
//   - MUL: W (shift-and-add)
//   - DIV: W unsigned; W+2 signed; W+3 signed with a negated quotient
//   - DIV by zero: 0, the error result is offered in the accepting tick
package alu

import (
	"github.com/go-logr/logr"

	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/timing/handshake"
)

// Request is an evaluation request from the core.
type Request struct {
	A      uint64
	B      uint64
	Op     emu.Op
	Signed bool
}

// Result is the ALU response. Value is undefined when Err is set.
type Result struct {
	Value uint64
	Err   bool
}

// Stats holds ALU activity counters.
type Stats struct {
	// Requests is the number of accepted requests.
	Requests uint64
	// Results is the number of successful results produced.
	Results uint64
	// Errors is the number of divide-by-zero responses.
	Errors uint64
	// BusyCycles is the number of ticks spent in compute states.
	BusyCycles uint64
	// AdderOps is the number of shared adder evaluations.
	AdderOps uint64
}

// Option is a functional option for configuring the ALU.
type Option func(*ALU)

// WithLogger sets the logger used for state transitions.
func WithLogger(log logr.Logger) Option {
	return func(u *ALU) {
		u.log = log
	}
}

// ALU is the multi-cycle arithmetic unit.
type ALU struct {
	width emu.Width
	in    *handshake.Port[Request]
	out   *handshake.Port[Result]
	log   logr.Logger

	state  State
	op     emu.Op
	signed bool

	// Latched operands. During DIV_FLIP_* they are replaced by their
	// magnitudes.
	a, b uint64

	// acc is the result accumulator (product or quotient).
	acc uint64
	// ext is the 2W-bit working register.
	ext uint64
	// mreg is the multiplier or divisor register.
	mreg uint64
	// count runs from W-1 down to 0 in the loop states.
	count emu.Width
	// negResult is latched for signed division.
	negResult bool

	stats Stats
}

// New creates an ALU for W-bit operands connected to the given ports.
func New(w emu.Width, in *handshake.Port[Request], out *handshake.Port[Result], opts ...Option) *ALU {
	u := &ALU{
		width: w,
		in:    in,
		out:   out,
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// State returns the current controller state.
func (u *ALU) State() State {
	return u.state
}

// Ready reports whether the ALU would accept a request this tick.
func (u *ALU) Ready() bool {
	return u.state == StateIdle
}

// Stats returns the activity counters.
func (u *ALU) Stats() Stats {
	return u.stats
}

// Reset returns the ALU to idle and clears its registers and counters.
func (u *ALU) Reset() {
	*u = ALU{width: u.width, in: u.in, out: u.out, log: u.log}
}

// Tick advances the ALU by one clock cycle.
func (u *ALU) Tick() {
	if u.state.Busy() {
		u.stats.BusyCycles++
	}

	switch u.state {
	case StateIdle:
		u.accept()
	case StateAdd:
		sum, _ := u.add(u.a, u.b, false)
		u.finish(sum)
	case StateSub:
		diff, _ := u.add(u.a, ^u.b&u.width.Mask(), true)
		u.finish(diff)
	case StateMulLoop:
		u.mulStep()
	case StateDivFlipA:
		u.negResult = u.width.SignBit(u.a) != u.width.SignBit(u.b)
		if u.width.SignBit(u.a) {
			u.a = u.negate(u.a)
		}
		u.setState(StateDivFlipB)
	case StateDivFlipB:
		if u.width.SignBit(u.b) {
			u.b = u.negate(u.b)
		}
		u.seedDiv()
	case StateDivLoop:
		u.divStep()
	case StateDivPost:
		u.finish(u.negate(u.acc))
	case StateOutput, StateOutputError:
		if !u.out.Valid() {
			u.setState(StateIdle)
		}
	default:
		u.setState(StateIdle)
	}
}

func (u *ALU) accept() {
	req, ok := u.in.Receive()
	if !ok {
		return
	}

	w := u.width
	u.stats.Requests++
	u.op = req.Op
	u.signed = req.Signed
	u.a = w.Trunc(req.A)
	u.b = w.Trunc(req.B)
	u.negResult = false
	u.log.V(2).Info("request accepted", "op", req.Op.String(), "a", u.a, "b", u.b, "signed", req.Signed)

	switch req.Op {
	case emu.OpAdd:
		u.setState(StateAdd)
	case emu.OpSub:
		u.setState(StateSub)
	case emu.OpMul:
		u.ext = u.a
		u.mreg = u.b
		u.acc = 0
		u.count = w - 1
		u.setState(StateMulLoop)
	case emu.OpDiv:
		if u.b == 0 {
			u.fail()
			return
		}
		if req.Signed {
			u.setState(StateDivFlipA)
			return
		}
		u.seedDiv()
	default:
		u.setState(StateIdle)
	}
}

// mulStep performs one shift-and-add iteration.
func (u *ALU) mulStep() {
	w := u.width
	if u.ext&1 == 1 {
		u.acc, _ = u.add(u.acc, u.mreg, false)
	}
	u.ext >>= 1
	u.mreg = w.Trunc(u.mreg << 1)

	if u.count == 0 {
		u.finish(u.acc)
		return
	}
	u.count--
}

// seedDiv loads {0, dividend} into the working register.
func (u *ALU) seedDiv() {
	u.ext = u.a
	u.mreg = u.b
	u.acc = 0
	u.count = u.width - 1
	u.setState(StateDivLoop)
}

// divStep performs one restoring division iteration.
func (u *ALU) divStep() {
	w := u.width
	lost := (u.ext>>(2*w-1))&1 == 1
	u.ext = (u.ext << 1) & w.DoubleMask()

	upper := u.ext >> w
	diff, noBorrow := u.add(upper, ^u.mreg&w.Mask(), true)

	bit := uint64(0)
	if lost || noBorrow {
		u.ext = diff<<w | u.ext&w.Mask()
		bit = 1
	}
	u.acc = w.Trunc(u.acc<<1 | bit)

	if u.count > 0 {
		u.count--
		return
	}
	if u.negResult {
		u.setState(StateDivPost)
		return
	}
	u.finish(u.acc)
}

func (u *ALU) add(a, b uint64, carryIn bool) (uint64, bool) {
	u.stats.AdderOps++
	return emu.Add(u.width, a, b, carryIn)
}

func (u *ALU) negate(x uint64) uint64 {
	n, _ := u.add(^x&u.width.Mask(), 0, true)
	return n
}

func (u *ALU) finish(v uint64) {
	u.acc = v
	u.stats.Results++
	u.offer(Result{Value: v})
	u.setState(StateOutput)
}

func (u *ALU) fail() {
	u.stats.Errors++
	u.log.Info("divide by zero", "a", u.a)
	u.offer(Result{Value: u.acc, Err: true})
	u.setState(StateOutputError)
}

func (u *ALU) offer(r Result) {
	if !u.out.Send(r) {
		u.log.Error(nil, "result port still holds a previous result", "port", u.out.Name())
	}
}

func (u *ALU) setState(s State) {
	if s == u.state {
		return
	}
	u.log.V(1).Info("transition", "from", u.state.String(), "to", s.String())
	u.state = s
}
