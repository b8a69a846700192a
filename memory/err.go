package memory

import (
	"errors"

	"github.com/ezrec/pipemachine/translate"
)

var f = translate.From

var (
	ErrBusClosed    = errors.New(f("memory bus closed"))
	ErrImageSize    = errors.New(f("image larger than memory"))
	ErrImageSyntax  = errors.New(f("load address syntax"))
	ErrRequestKind  = errors.New(f("unknown request kind"))
	ErrWireTruncate = errors.New(f("truncated wire message"))
)

// ErrAddress is an access outside of the cell array.
type ErrAddress int

func (err ErrAddress) Error() string {
	return f("invalid memory address %d", int(err))
}

func (err ErrAddress) Is(target error) (ok bool) {
	_, ok = target.(ErrAddress)
	return
}

// ErrCellRange is a value too wide for a cell.
type ErrCellRange int

func (err ErrCellRange) Error() string {
	return f("value %d does not fit in a cell", int(err))
}

func (err ErrCellRange) Is(target error) (ok bool) {
	_, ok = target.(ErrCellRange)
	return
}

// ErrImage locates a program image error.
type ErrImage struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrImage) Error() string {
	return f("image line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
