package keys

import (
	"strings"

	"github.com/pkg/errors"
)

var words = map[string]Operator{
	"AC":  Clear,
	"CLR": Clear,
	"NEG": Negate,
	"+/-": Negate,
}

var glyphs = map[rune]Operator{
	'+': Add,
	'-': Sub,
	'*': Mul,
	'x': Mul,
	'/': Div,
	'=': Equals,
	'~': Negate,
}

// ParseSequence converts a text key sequence into buttons.
//
// Tokens are separated by white space. A token equal to AC, CLR, NEG or +/-
// (case-insensitive) is a single operator key. Any other token is read one
// character at a time: 0-9 and A-F are digits, and + - * x / = ~ are
// operators (~ negates). "25+10=" and "2 5 + 1 0 =" are the same sequence.
// Note that "AC" is the clear key; type "A C" for the two digits.
func ParseSequence(s string) ([]Button, error) {
	var out []Button
	for i, tok := range strings.Fields(s) {
		if op, ok := words[strings.ToUpper(tok)]; ok {
			out = append(out, OperatorButton(op))
			continue
		}
		for j, r := range tok {
			b, err := parseRune(r)
			if err != nil {
				return nil, errors.Wrapf(err, "token %d (%q) offset %d", i+1, tok, j)
			}
			out = append(out, b)
		}
	}
	return out, nil
}

// MustParseSequence is like ParseSequence but panics on error.
func MustParseSequence(s string) []Button {
	seq, err := ParseSequence(s)
	if err != nil {
		panic(err)
	}
	return seq
}

func parseRune(r rune) (Button, error) {
	switch {
	case r >= '0' && r <= '9':
		return DigitButton(uint8(r - '0')), nil
	case r >= 'A' && r <= 'F':
		return DigitButton(uint8(r-'A') + 10), nil
	case r >= 'a' && r <= 'f':
		return DigitButton(uint8(r-'a') + 10), nil
	}
	if op, ok := glyphs[r]; ok {
		return OperatorButton(op), nil
	}
	return Button{}, errors.Errorf("unknown key %q", r)
}

// FormatSequence renders buttons back to text, one token per button.
func FormatSequence(seq []Button) string {
	parts := make([]string, len(seq))
	for i, b := range seq {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}
