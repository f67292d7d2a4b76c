// Package handshake provides the valid/ready link used between the
// components of the calculator.
//
// A Port holds at most one payload. The producer asserts valid by calling
// Send and must keep the payload in place until the consumer takes it; there
// is no way to withdraw it. The consumer asserts ready by calling Receive,
// and the transfer fires when both happen in the same tick.
package handshake

// Port is a single-entry valid/ready channel carrying values of type T.
type Port[T any] struct {
	name    string
	valid   bool
	payload T
	fires   uint64
}

// NewPort creates an empty port.
func NewPort[T any](name string) *Port[T] {
	return &Port[T]{name: name}
}

// Name returns the port name.
func (p *Port[T]) Name() string {
	return p.name
}

// Valid reports whether a payload is waiting to be taken.
func (p *Port[T]) Valid() bool {
	return p.valid
}

// Send asserts valid with v. It returns false, leaving the pending payload
// untouched, if the previous payload has not been taken yet.
func (p *Port[T]) Send(v T) bool {
	if p.valid {
		return false
	}
	p.valid = true
	p.payload = v
	return true
}

// Peek returns the pending payload without taking it.
func (p *Port[T]) Peek() (T, bool) {
	return p.payload, p.valid
}

// Receive asserts ready. If a payload is pending the transfer fires and the
// payload is returned.
func (p *Port[T]) Receive() (T, bool) {
	if !p.valid {
		var zero T
		return zero, false
	}
	v := p.payload
	var zero T
	p.payload = zero
	p.valid = false
	p.fires++
	return v, true
}

// Fires returns the number of completed transfers.
func (p *Port[T]) Fires() uint64 {
	return p.fires
}

// Reset drops any pending payload and clears the counters.
func (p *Port[T]) Reset() {
	var zero T
	p.payload = zero
	p.valid = false
	p.fires = 0
}
