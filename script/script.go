// Package script runs Starlark scenario scripts against a calculator system.
//
// Scripts drive the keypad and check what the display shows:
//
//	press("25+10")
//	expect("0035")
//	signed(True)
//	press("AC 7 NEG * 3 =")
//	expect("-0015")
//
// Builtins:
//
//	press(*seq)            queue key sequences (see keys.ParseSequence)
//	run(max_cycles=0)      run to idle, or at most max_cycles ticks; returns True while busy
//	expect(text)           run to idle, then fail unless the display reads text
//	display()              the last rendered frame as text
//	value()                the last rendered frame as a signed integer
//	signed(on=None)        read or set the signed mode input
//	registers()            dict with a, b, op, sign_a, sign_b
//	phase()                the core's logical phase
//	cycles()               ticks simulated so far
package script

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/calcsim/timing/system"
)

// Runner executes scripts against one system.
type Runner struct {
	sys *system.System
	out io.Writer
}

// NewRunner creates a runner. print() output goes to out.
func NewRunner(sys *system.System, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{sys: sys, out: out}
}

// Run executes the script in src (a string, []byte or io.Reader, or nil to
// read filename).
func Run(filename string, src interface{}, sys *system.System, out io.Writer) error {
	return NewRunner(sys, out).Exec(filename, src)
}

// Exec executes one script.
func (r *Runner) Exec(filename string, src interface{}) error {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(r.out, msg)
		},
	}

	_, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, r.builtins())
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return errors.Errorf("%s", evalErr.Backtrace())
		}
		return errors.Wrapf(err, "script %s", filename)
	}
	return nil
}

func (r *Runner) builtins() starlark.StringDict {
	return starlark.StringDict{
		"press":     starlark.NewBuiltin("press", r.press),
		"run":       starlark.NewBuiltin("run", r.run),
		"expect":    starlark.NewBuiltin("expect", r.expect),
		"display":   starlark.NewBuiltin("display", r.display),
		"value":     starlark.NewBuiltin("value", r.value),
		"signed":    starlark.NewBuiltin("signed", r.signed),
		"registers": starlark.NewBuiltin("registers", r.registers),
		"phase":     starlark.NewBuiltin("phase", r.phase),
		"cycles":    starlark.NewBuiltin("cycles", r.cycles),
	}
}

func (r *Runner) press(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, errors.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	for i, arg := range args {
		seq, ok := starlark.AsString(arg)
		if !ok {
			return nil, errors.Errorf("%s: argument %d is %s, want string", b.Name(), i+1, arg.Type())
		}
		if err := r.sys.PressString(seq); err != nil {
			return nil, errors.Wrapf(err, "%s", b.Name())
		}
	}
	return starlark.None, nil
}

func (r *Runner) run(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var maxCycles int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "max_cycles?", &maxCycles); err != nil {
		return nil, err
	}
	if maxCycles > 0 {
		return starlark.Bool(r.sys.RunCycles(uint64(maxCycles))), nil
	}
	if err := r.sys.Run(); err != nil {
		return nil, err
	}
	return starlark.False, nil
}

func (r *Runner) expect(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var want string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &want); err != nil {
		return nil, err
	}
	if err := r.sys.Run(); err != nil {
		return nil, err
	}
	if got := r.sys.Shown().String(); got != want {
		return nil, errors.Errorf("%s: display shows %q, want %q", b.Name(), got, want)
	}
	return starlark.None, nil
}

func (r *Runner) display(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.String(r.sys.Shown().String()), nil
}

func (r *Runner) value(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	f := r.sys.Shown()
	if f.Error {
		return starlark.None, nil
	}
	return starlark.MakeInt64(f.Signed()), nil
}

func (r *Runner) signed(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var on starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "on?", &on); err != nil {
		return nil, err
	}
	if on != starlark.None {
		r.sys.SetSigned(bool(on.Truth()))
	}
	return starlark.Bool(r.sys.Signed()), nil
}

func (r *Runner) registers(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	c := r.sys.Core()
	d := starlark.NewDict(5)
	entries := []struct {
		key string
		val starlark.Value
	}{
		{"a", starlark.MakeUint64(c.A())},
		{"b", starlark.MakeUint64(c.B())},
		{"op", starlark.String(c.Operator().String())},
		{"sign_a", starlark.Bool(c.SignA())},
		{"sign_b", starlark.Bool(c.SignB())},
	}
	for _, e := range entries {
		if err := d.SetKey(starlark.String(e.key), e.val); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (r *Runner) phase(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.String(r.sys.Core().Phase().String()), nil
}

func (r *Runner) cycles(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeUint64(r.sys.Cycles()), nil
}
