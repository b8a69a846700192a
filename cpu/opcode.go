package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an instruction code, as stored in a memory cell.
type Opcode int

const (
	OP_LOAD_VALUE        = Opcode(1)  // load
	OP_LOAD_ADDR         = Opcode(2)  // loadaddr
	OP_LOAD_IND          = Opcode(3)  // loadind
	OP_LOAD_IDX_X        = Opcode(4)  // loadidxx
	OP_LOAD_IDX_Y        = Opcode(5)  // loadidxy
	OP_LOAD_SP_X         = Opcode(6)  // loadspx
	OP_STORE             = Opcode(7)  // store
	OP_GET               = Opcode(8)  // get
	OP_PUT               = Opcode(9)  // put
	OP_ADD_X             = Opcode(10) // addx
	OP_ADD_Y             = Opcode(11) // addy
	OP_SUB_X             = Opcode(12) // subx
	OP_SUB_Y             = Opcode(13) // suby
	OP_COPY_TO_X         = Opcode(14) // copytox
	OP_COPY_FROM_X       = Opcode(15) // copyfromx
	OP_COPY_TO_Y         = Opcode(16) // copytoy
	OP_COPY_FROM_Y       = Opcode(17) // copyfromy
	OP_COPY_TO_SP        = Opcode(18) // copytosp
	OP_COPY_FROM_SP      = Opcode(19) // copyfromsp
	OP_JUMP              = Opcode(20) // jump
	OP_JUMP_IF_EQUAL     = Opcode(21) // jumpifequal
	OP_JUMP_IF_NOT_EQUAL = Opcode(22) // jumpifnotequal
	OP_CALL              = Opcode(23) // call
	OP_RET               = Opcode(24) // ret
	OP_INC_X             = Opcode(25) // incx
	OP_DEC_X             = Opcode(26) // decx
	OP_PUSH              = Opcode(27) // push
	OP_POP               = Opcode(28) // pop
	OP_INT               = Opcode(29) // int
	OP_IRET              = Opcode(30) // iret
	OP_END               = Opcode(50) // end
)

// Put instruction ports.
const (
	PUT_PORT_INT  = 1 // Decimal integer.
	PUT_PORT_CHAR = 2 // Character code.
)

type opcodeInfo struct {
	mnemonic string
	operand  bool
}

var _opcode_info = map[Opcode]opcodeInfo{
	OP_LOAD_VALUE:        {"load", true},
	OP_LOAD_ADDR:         {"loadaddr", true},
	OP_LOAD_IND:          {"loadind", true},
	OP_LOAD_IDX_X:        {"loadidxx", true},
	OP_LOAD_IDX_Y:        {"loadidxy", true},
	OP_LOAD_SP_X:         {"loadspx", false},
	OP_STORE:             {"store", true},
	OP_GET:               {"get", false},
	OP_PUT:               {"put", true},
	OP_ADD_X:             {"addx", false},
	OP_ADD_Y:             {"addy", false},
	OP_SUB_X:             {"subx", false},
	OP_SUB_Y:             {"suby", false},
	OP_COPY_TO_X:         {"copytox", false},
	OP_COPY_FROM_X:       {"copyfromx", false},
	OP_COPY_TO_Y:         {"copytoy", false},
	OP_COPY_FROM_Y:       {"copyfromy", false},
	OP_COPY_TO_SP:        {"copytosp", false},
	OP_COPY_FROM_SP:      {"copyfromsp", false},
	OP_JUMP:              {"jump", true},
	OP_JUMP_IF_EQUAL:     {"jumpifequal", true},
	OP_JUMP_IF_NOT_EQUAL: {"jumpifnotequal", true},
	OP_CALL:              {"call", true},
	OP_RET:               {"ret", false},
	OP_INC_X:             {"incx", false},
	OP_DEC_X:             {"decx", false},
	OP_PUSH:              {"push", false},
	OP_POP:               {"pop", false},
	OP_INT:               {"int", false},
	OP_IRET:              {"iret", false},
	OP_END:               {"end", false},
}

// _mnemonic_map maps lowercase mnemonics to opcodes.
var _mnemonic_map = func() map[string]Opcode {
	mm := make(map[string]Opcode, len(_opcode_info))
	for op, info := range _opcode_info {
		mm[info.mnemonic] = op
	}
	return mm
}()

// LookupMnemonic finds the opcode for a mnemonic, ignoring case.
func LookupMnemonic(mnemonic string) (op Opcode, ok bool) {
	op, ok = _mnemonic_map[strings.ToLower(mnemonic)]
	return
}

// Valid is true if the opcode is part of the instruction set.
func (op Opcode) Valid() (ok bool) {
	_, ok = _opcode_info[op]
	return
}

// HasOperand is true if the opcode is followed by an operand cell.
func (op Opcode) HasOperand() bool {
	return _opcode_info[op].operand
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return _opcode_info[op].mnemonic
}

// Mode is the processor privilege mode.
type Mode int

const (
	MODE_USER   = Mode(0) // user
	MODE_KERNEL = Mode(1) // kernel
)

func (mode Mode) String() string {
	switch mode {
	case MODE_USER:
		return "user"
	case MODE_KERNEL:
		return "kernel"
	default:
		return fmt.Sprintf("Mode(%d)", int(mode))
	}
}

// InterruptKind selects the handler entered by an interrupt.
type InterruptKind int

const (
	INTERRUPT_TIMER   = InterruptKind(0) // timer
	INTERRUPT_SYSCALL = InterruptKind(1) // syscall
)

func (kind InterruptKind) String() string {
	switch kind {
	case INTERRUPT_TIMER:
		return "timer"
	case INTERRUPT_SYSCALL:
		return "syscall"
	default:
		return fmt.Sprintf("InterruptKind(%d)", int(kind))
	}
}

// Vector returns the handler entry address.
func (kind InterruptKind) Vector() (address int, err error) {
	switch kind {
	case INTERRUPT_TIMER:
		address = TIMER_VECTOR
	case INTERRUPT_SYSCALL:
		address = TRAP_VECTOR
	default:
		err = ErrInterrupt(kind)
	}
	return
}
