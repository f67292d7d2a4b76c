// Package keypad provides a behavioural button source standing in for the
// key-matrix scanner.
package keypad

import (
	"github.com/sarchlab/calcsim/keys"
	"github.com/sarchlab/calcsim/timing/handshake"
)

// Keypad offers queued buttons to the core one at a time. After each button
// is taken it stays quiet for a configurable number of ticks.
type Keypad struct {
	out   *handshake.Port[keys.Button]
	queue []keys.Button
	gap   uint64
	wait  uint64
}

// New creates a keypad driving out.
func New(out *handshake.Port[keys.Button], gap uint64) *Keypad {
	return &Keypad{out: out, gap: gap}
}

// Press queues buttons behind any already waiting.
func (k *Keypad) Press(buttons ...keys.Button) {
	k.queue = append(k.queue, buttons...)
}

// Pending returns the number of buttons not yet taken by the core.
func (k *Keypad) Pending() int {
	n := len(k.queue)
	if k.out.Valid() {
		n++
	}
	return n
}

// Tick advances the keypad by one clock cycle.
func (k *Keypad) Tick() {
	if k.out.Valid() {
		return
	}
	if k.wait > 0 {
		k.wait--
		return
	}
	if len(k.queue) == 0 {
		return
	}
	if k.out.Send(k.queue[0]) {
		k.queue = k.queue[1:]
		k.wait = k.gap
	}
}

// Reset drops queued buttons.
func (k *Keypad) Reset() {
	k.queue = nil
	k.wait = 0
}
