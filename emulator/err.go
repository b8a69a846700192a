package emulator

import (
	"github.com/ezrec/pipemachine/cpu"
	"github.com/ezrec/pipemachine/translate"
)

var f = translate.From

// ErrTransport is an unknown transport name.
type ErrTransport string

func (err ErrTransport) Error() string {
	return f("transport '%v' unknown", string(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     int
	Mode   cpu.Mode
	LineNo int // Source line, or 0 if no listing is attached.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc %d %v", err.Pc, err.Err)
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
