package keypad_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/calcsim/keys"
	"github.com/sarchlab/calcsim/timing/handshake"
	"github.com/sarchlab/calcsim/timing/keypad"
)

var _ = Describe("Keypad", func() {
	var out *handshake.Port[keys.Button]

	BeforeEach(func() {
		out = handshake.NewPort[keys.Button]("buttons")
	})

	It("should offer buttons in order, one per tick", func() {
		k := keypad.New(out, 0)
		k.Press(keys.DigitButton(1), keys.DigitButton(2), keys.OperatorButton(keys.Add))
		Expect(k.Pending()).To(Equal(3))

		var got []keys.Button
		for i := 0; i < 5; i++ {
			k.Tick()
			if b, ok := out.Receive(); ok {
				got = append(got, b)
			}
		}
		Expect(got).To(Equal([]keys.Button{
			keys.DigitButton(1), keys.DigitButton(2), keys.OperatorButton(keys.Add),
		}))
		Expect(k.Pending()).To(BeZero())
	})

	It("should wait for the consumer", func() {
		k := keypad.New(out, 0)
		k.Press(keys.DigitButton(1), keys.DigitButton(2))
		k.Tick()
		k.Tick()
		k.Tick()
		Expect(k.Pending()).To(Equal(2))

		b, _ := out.Receive()
		Expect(b).To(Equal(keys.DigitButton(1)))
		Expect(k.Pending()).To(Equal(1))
	})

	It("should stay quiet for the gap after each press", func() {
		k := keypad.New(out, 2)
		k.Press(keys.DigitButton(1), keys.DigitButton(2))

		var sentAt []int
		for t := 1; t <= 8; t++ {
			k.Tick()
			if _, ok := out.Receive(); ok {
				sentAt = append(sentAt, t)
			}
		}
		Expect(sentAt).To(Equal([]int{1, 4}))
	})

	It("should drop queued buttons on reset", func() {
		k := keypad.New(out, 0)
		k.Press(keys.DigitButton(1), keys.DigitButton(2))
		k.Reset()
		k.Tick()
		Expect(out.Valid()).To(BeFalse())
		Expect(k.Pending()).To(BeZero())
	})
})
