// Package display provides a behavioural model of the display driver that
// sits outside the calculator core.
//
// The driver takes one Request at a time when its ready policy allows,
// spends a fixed number of ticks rendering it, then pulses render complete.
// Every rendered frame is kept so callers can inspect what was shown.
package display

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sarchlab/calcsim/emu"
	"github.com/sarchlab/calcsim/timing/handshake"
)

// Request is a value to show. Value is a magnitude; Negative selects the
// minus sign. Error selects the error indicator and ignores Value.
type Request struct {
	Value    uint64
	Negative bool
	Error    bool
}

// RenderDone is the payload of the render-complete pulse.
type RenderDone struct{}

// Frame is a rendered request.
type Frame struct {
	Request
	// Width is the register width, fixing the digit count.
	Width emu.Width
	// Tick is the driver tick on which rendering completed.
	Tick uint64
}

// String renders the frame the way the digits would read: "Err", or W/4
// hex digits with an optional leading minus sign.
func (f Frame) String() string {
	if f.Error {
		return "Err"
	}
	var sb strings.Builder
	if f.Negative {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, "%0*X", f.Width.Digits(), f.Width.Trunc(f.Value))
	return sb.String()
}

// Signed returns the displayed value as a signed integer.
func (f Frame) Signed() int64 {
	v := int64(f.Width.Trunc(f.Value))
	if f.Negative {
		return -v
	}
	return v
}

// ReadyPolicy decides on which ticks the driver asserts ready.
type ReadyPolicy interface {
	Ready(tick uint64) bool
}

// Always is ready on every tick.
type Always struct{}

// Ready implements ReadyPolicy.
func (Always) Ready(uint64) bool { return true }

// Periodic is ready on every Period-th tick.
type Periodic struct {
	Period uint64
}

// Ready implements ReadyPolicy.
func (p Periodic) Ready(tick uint64) bool {
	if p.Period <= 1 {
		return true
	}
	return tick%p.Period == 0
}

// Random toggles ready to a random level and holds it for a random number
// of ticks in [1, MaxHold].
type Random struct {
	rng     *rand.Rand
	maxHold uint64
	level   bool
	left    uint64
}

// NewRandom creates a seeded Random policy.
func NewRandom(seed int64, maxHold uint64) *Random {
	if maxHold == 0 {
		maxHold = 1
	}
	return &Random{rng: rand.New(rand.NewSource(seed)), maxHold: maxHold}
}

// Ready implements ReadyPolicy.
func (r *Random) Ready(uint64) bool {
	if r.left == 0 {
		r.level = r.rng.Intn(2) == 1
		r.left = 1 + uint64(r.rng.Int63n(int64(r.maxHold)))
	}
	r.left--
	return r.level
}

// Option is a functional option for configuring the Driver.
type Option func(*Driver)

// WithReadyPolicy sets when the driver accepts requests.
func WithReadyPolicy(p ReadyPolicy) Option {
	return func(d *Driver) {
		d.ready = p
	}
}

// WithRenderLatency sets the number of ticks spent on each frame.
func WithRenderLatency(n uint64) Option {
	return func(d *Driver) {
		d.renderLatency = n
	}
}

// Driver is the behavioural display driver.
type Driver struct {
	width         emu.Width
	in            *handshake.Port[Request]
	done          *handshake.Port[RenderDone]
	ready         ReadyPolicy
	renderLatency uint64

	tick      uint64
	busy      bool
	remaining uint64
	current   Request
	frames    []Frame
}

// NewDriver creates a driver reading requests from in and pulsing done.
func NewDriver(w emu.Width, in *handshake.Port[Request], done *handshake.Port[RenderDone], opts ...Option) *Driver {
	d := &Driver{
		width: w,
		in:    in,
		done:  done,
		ready: Always{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tick advances the driver by one clock cycle.
func (d *Driver) Tick() {
	d.tick++

	if !d.busy {
		if !d.ready.Ready(d.tick) {
			return
		}
		req, ok := d.in.Receive()
		if !ok {
			return
		}
		d.current = req
		d.busy = true
		d.remaining = d.renderLatency
	}

	if d.remaining > 0 {
		d.remaining--
		return
	}

	if d.done.Send(RenderDone{}) {
		d.frames = append(d.frames, Frame{Request: d.current, Width: d.width, Tick: d.tick})
		d.busy = false
	}
}

// Busy reports whether a frame is being rendered.
func (d *Driver) Busy() bool {
	return d.busy
}

// Frames returns every rendered frame in order.
func (d *Driver) Frames() []Frame {
	return d.frames
}

// Last returns the most recently rendered frame.
func (d *Driver) Last() (Frame, bool) {
	if len(d.frames) == 0 {
		return Frame{Width: d.width}, false
	}
	return d.frames[len(d.frames)-1], true
}

// Reset clears the render state and the frame history.
func (d *Driver) Reset() {
	d.tick = 0
	d.busy = false
	d.remaining = 0
	d.current = Request{}
	d.frames = nil
}
