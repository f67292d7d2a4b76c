package main

import (
	"fmt"
	"io"

	"github.com/pkg/term"

	"github.com/sarchlab/calcsim/keys"
	"github.com/sarchlab/calcsim/timing/system"
)

const (
	keyEOT       = 0x04
	keyBackspace = 0x08
	keyEscape    = 0x1B
	keyDelete    = 0x7F
)

// runInteractive reads single key strokes from the controlling terminal in
// cbreak mode and shows the display after each one.
func runInteractive(sys *system.System, w io.Writer) error {
	t, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer func() {
		_ = t.Restore()
		_ = t.Close()
	}()

	fmt.Fprintf(w, "calcsim: %d-bit, signed=%v. Esc clears, ~ negates, s toggles signed, q quits.\r\n",
		uint(sys.Width()), sys.Signed())

	if err := sys.Run(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\r\n", sys.Shown())

	buf := make([]byte, 1)
	for {
		if _, err := t.Read(buf); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read key: %w", err)
		}

		token, quit := keyToken(buf[0])
		if quit {
			return nil
		}
		if token == "s" {
			sys.SetSigned(!sys.Signed())
			fmt.Fprintf(w, "signed=%v\r\n", sys.Signed())
			continue
		}

		buttons, err := keys.ParseSequence(token)
		if err != nil || len(buttons) == 0 {
			fmt.Fprint(w, "\a")
			continue
		}

		sys.Press(buttons...)
		if err := sys.Run(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%-4s %s\r\n", keys.FormatSequence(buttons), sys.Shown())
	}
}

// keyToken maps a terminal byte to a key sequence token.
func keyToken(b byte) (token string, quit bool) {
	switch b {
	case 'q', 'Q', keyEOT:
		return "", true
	case '\r', '\n':
		return "=", false
	case keyEscape, keyBackspace, keyDelete:
		return "AC", false
	case 'n', 'N':
		return "~", false
	case 's', 'S':
		return "s", false
	}
	return string(b), false
}
