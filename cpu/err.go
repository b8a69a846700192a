package cpu

import (
	"errors"

	"github.com/ezrec/pipemachine/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalt          = errors.New(f("halt"))
	ErrBusMissing    = errors.New(f("bus missing"))
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrPutPort       = errors.New(f("put port invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrImageOverlap       = errors.New(f("address assembled twice"))
	ErrImageSize          = errors.New(f("address outside of memory"))
)

// ErrProtection is a user mode access to system space.
type ErrProtection int

func (ep ErrProtection) Error() string {
	return f("protection fault at address %d", int(ep))
}

func (ep ErrProtection) Is(err error) (ok bool) {
	_, ok = err.(ErrProtection)
	return
}

// ErrInterrupt is a request for an interrupt the processor does not have.
type ErrInterrupt InterruptKind

func (ei ErrInterrupt) Error() string {
	return f("invalid interrupt %d", int(ei))
}

func (ei ErrInterrupt) Is(err error) (ok bool) {
	_, ok = err.(ErrInterrupt)
	return
}

// ErrFault records the processor state at a fatal error.
type ErrFault struct {
	Pc   int
	Ir   int
	Mode Mode
	Err  error
}

func (err *ErrFault) Error() string {
	return f("%v mode pc %d ir %d (%v): %v", err.Mode, err.Pc, err.Ir, Opcode(err.Ir), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("'%v' is not an instruction", string(err))
}
