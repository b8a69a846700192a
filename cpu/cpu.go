package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand/v2"

	"github.com/ezrec/pipemachine/io"
	"github.com/ezrec/pipemachine/memory"
)

// Bus is the processor side of the memory protocol.
type Bus memory.Bus

var _cpu_defines = map[string]string{
	"USER_LIMIT":    fmt.Sprintf("%v", USER_LIMIT),
	"USER_STACK":    fmt.Sprintf("%v", USER_STACK),
	"TIMER_VECTOR":  fmt.Sprintf("%v", TIMER_VECTOR),
	"TRAP_VECTOR":   fmt.Sprintf("%v", TRAP_VECTOR),
	"PUT_PORT_INT":  fmt.Sprintf("%v", PUT_PORT_INT),
	"PUT_PORT_CHAR": fmt.Sprintf("%v", PUT_PORT_CHAR),
}

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool        // Set to enable verbose logging.
	Logger  *log.Logger // Destination for diagnostics; nil for the standard logger.

	Bus    Bus             // Connection to the memory unit.
	Port   io.Port         // Device written by the put instruction.
	Random func(n int) int // Source for the get instruction, in [0, n).
	Top    int             // Top of the system stack; the memory size.

	Pc int // Program counter.
	Sp int // Stack pointer.
	Ir int // Instruction register.
	Ac int // Accumulator.
	X  int // General register.
	Y  int // General register.

	Mode              Mode // Privilege mode.
	InterruptsEnabled bool // Timer interrupts may fire.
	Timer             int  // Instructions counted towards the next timer interrupt.
	TimeConstraint    int  // Timer interrupt period.

	Halted bool // Set once the end instruction has executed.
	Ticks  int  // Instructions executed since reset.
}

// NewCpu creates a CPU attached to a bus, with a fixed timer period.
func NewCpu(bus Bus, timeConstraint int) (cpu *Cpu) {
	cpu = &Cpu{
		Bus:            bus,
		Random:         rand.IntN,
		Top:            memory.MEMORY_SIZE,
		TimeConstraint: timeConstraint,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and timer.
// - Places the user stack below system space.
// - Enters user mode with interrupts enabled.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Sp = USER_STACK
	cpu.Ir = 0
	cpu.Ac = 0
	cpu.X = 0
	cpu.Y = 0

	cpu.Mode = MODE_USER
	cpu.InterruptsEnabled = true
	cpu.Timer = 0

	cpu.Halted = false
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp", "ir", "ac", "x", "y",
		"mode", "int", "timer",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%d", cpu.Pc)
		case "sp":
			strval = fmt.Sprintf("%d", cpu.Sp)
		case "ir":
			strval = fmt.Sprintf("%d (%v)", cpu.Ir, Opcode(cpu.Ir))
		case "ac":
			strval = fmt.Sprintf("%d", cpu.Ac)
		case "x":
			strval = fmt.Sprintf("%d", cpu.X)
		case "y":
			strval = fmt.Sprintf("%d", cpu.Y)
		case "mode":
			strval = cpu.Mode.String()
		case "int":
			strval = "disabled"
			if cpu.InterruptsEnabled {
				strval = "enabled"
			}
		case "timer":
			strval = fmt.Sprintf("%d/%d", cpu.Timer, cpu.TimeConstraint)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

func (cpu *Cpu) logf(format string, args ...any) {
	if cpu.Logger != nil {
		cpu.Logger.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// checkAccess faults a user mode access to system space.
func (cpu *Cpu) checkAccess(address int) (err error) {
	if cpu.Mode == MODE_USER && address >= USER_LIMIT {
		err = ErrProtection(address)
	}
	return
}

// read fetches the cell at address from memory.
func (cpu *Cpu) read(address int) (value int, err error) {
	err = cpu.checkAccess(address)
	if err != nil {
		return
	}

	if cpu.Bus == nil {
		err = ErrBusMissing
		return
	}

	value, err = cpu.Bus.Read(address)
	return
}

// write stores value to the cell at address.
func (cpu *Cpu) write(address int, value int) (err error) {
	err = cpu.checkAccess(address)
	if err != nil {
		return
	}

	if cpu.Bus == nil {
		err = ErrBusMissing
		return
	}

	err = cpu.Bus.Write(address, value)
	return
}

// fetch loads the instruction at PC into IR.
func (cpu *Cpu) fetch() (err error) {
	cpu.Ir, err = cpu.read(cpu.Pc)
	return
}

// fetchOperand advances PC onto the operand cell, and reads it.
func (cpu *Cpu) fetchOperand() (operand int, err error) {
	cpu.Pc++
	operand, err = cpu.read(cpu.Pc)
	return
}

// cycle runs one fetch/execute cycle. Within a handler, PC is left alone
// once the instruction has returned to user mode.
func (cpu *Cpu) cycle(handler bool) (err error) {
	err = cpu.checkTimer()
	if err != nil {
		return
	}

	err = cpu.fetch()
	if err != nil {
		err = cpu.fault(err)
		return
	}

	advance, err := cpu.Execute()
	if err != nil {
		return
	}

	cpu.Ticks++

	if handler && cpu.Mode == MODE_USER {
		advance = false
	}

	if advance {
		cpu.Pc++
	}

	return
}

// Tick executes a single top level instruction cycle, including any
// interrupt handler entered on the way. Returns ErrHalt once halted.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalt
		return
	}

	return cpu.cycle(false)
}

// Run ticks until the end instruction. A clean halt returns nil.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrHalt) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// fault attaches the processor state to an error, once.
func (cpu *Cpu) fault(err error) error {
	var fault *ErrFault
	if errors.Is(err, ErrHalt) || errors.As(err, &fault) {
		return err
	}

	return &ErrFault{Pc: cpu.Pc, Ir: cpu.Ir, Mode: cpu.Mode, Err: err}
}

// Execute executes the instruction in IR. advance is false if the
// instruction has already placed PC on the next instruction to fetch.
// Arithmetic wraps at the cell width.
func (cpu *Cpu) Execute() (advance bool, err error) {
	pc := cpu.Pc
	defer func() {
		if err != nil {
			err = cpu.fault(err)
		}
	}()

	if cpu.Verbose {
		cpu.logf("cpu: %v %04d: %v", cpu.Mode, pc, Opcode(cpu.Ir))
	}

	advance = true

	var operand int

	switch Opcode(cpu.Ir) {
	case OP_LOAD_VALUE:
		cpu.Ac, err = cpu.fetchOperand()
	case OP_LOAD_ADDR:
		operand, err = cpu.fetchOperand()
		if err == nil {
			cpu.Ac, err = cpu.read(operand)
		}
	case OP_LOAD_IND:
		operand, err = cpu.fetchOperand()
		if err == nil {
			operand, err = cpu.read(operand)
		}
		if err == nil {
			cpu.Ac, err = cpu.read(operand)
		}
	case OP_LOAD_IDX_X:
		operand, err = cpu.fetchOperand()
		if err == nil {
			cpu.Ac, err = cpu.read(operand + cpu.X)
		}
	case OP_LOAD_IDX_Y:
		operand, err = cpu.fetchOperand()
		if err == nil {
			cpu.Ac, err = cpu.read(operand + cpu.Y)
		}
	case OP_LOAD_SP_X:
		cpu.Ac, err = cpu.read(cpu.Sp + cpu.X)
	case OP_STORE:
		operand, err = cpu.fetchOperand()
		if err == nil {
			err = cpu.write(operand, cpu.Ac)
		}
	case OP_GET:
		cpu.Ac = cpu.Random(100) + 1
	case OP_PUT:
		operand, err = cpu.fetchOperand()
		if err == nil {
			err = cpu.put(operand)
		}
	case OP_ADD_X:
		cpu.Ac = memory.Cell(cpu.Ac + cpu.X)
	case OP_ADD_Y:
		cpu.Ac = memory.Cell(cpu.Ac + cpu.Y)
	case OP_SUB_X:
		cpu.Ac = memory.Cell(cpu.Ac - cpu.X)
	case OP_SUB_Y:
		cpu.Ac = memory.Cell(cpu.Ac - cpu.Y)
	case OP_COPY_TO_X:
		cpu.X = cpu.Ac
	case OP_COPY_FROM_X:
		cpu.Ac = cpu.X
	case OP_COPY_TO_Y:
		cpu.Y = cpu.Ac
	case OP_COPY_FROM_Y:
		cpu.Ac = cpu.Y
	case OP_COPY_TO_SP:
		cpu.Sp = cpu.Ac
	case OP_COPY_FROM_SP:
		cpu.Ac = cpu.Sp
	case OP_JUMP:
		advance, err = cpu.jump(true)
	case OP_JUMP_IF_EQUAL:
		advance, err = cpu.jump(cpu.Ac == 0)
	case OP_JUMP_IF_NOT_EQUAL:
		advance, err = cpu.jump(cpu.Ac != 0)
	case OP_CALL:
		operand, err = cpu.fetchOperand()
		if err == nil {
			// The return address is the operand cell.
			err = cpu.push(cpu.Pc)
		}
		if err == nil {
			cpu.Pc = operand
			advance = false
		}
	case OP_RET:
		cpu.Pc, err = cpu.pop()
	case OP_INC_X:
		cpu.X = memory.Cell(cpu.X + 1)
	case OP_DEC_X:
		cpu.X = memory.Cell(cpu.X - 1)
	case OP_PUSH:
		err = cpu.push(cpu.Ac)
	case OP_POP:
		cpu.Ac, err = cpu.pop()
	case OP_INT:
		err = cpu.Interrupt(INTERRUPT_SYSCALL)
	case OP_IRET:
		err = cpu.interruptReturn()
	case OP_END:
		err = cpu.halt()
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// jump moves PC to the operand if taken, otherwise steps over the operand.
func (cpu *Cpu) jump(taken bool) (advance bool, err error) {
	if !taken {
		cpu.Pc++
		advance = true
		return
	}

	operand, err := cpu.fetchOperand()
	if err != nil {
		return
	}

	cpu.Pc = operand
	return
}

// put writes AC to the requested port. An unknown port is reported, and
// is not fatal.
func (cpu *Cpu) put(port int) (err error) {
	if cpu.Port == nil {
		err = io.ErrOutputMissing
		return
	}

	switch port {
	case PUT_PORT_INT:
		err = cpu.Port.PutInt(cpu.Ac)
	case PUT_PORT_CHAR:
		err = cpu.Port.PutChar(cpu.Ac)
	default:
		cpu.logf("cpu: %v %d", ErrPutPort, port)
	}

	return
}

// halt asks the memory unit to exit, and stops the processor.
func (cpu *Cpu) halt() (err error) {
	if cpu.Verbose {
		cpu.logf("cpu: halt after %d instructions", cpu.Ticks+1)
	}

	if cpu.Bus == nil {
		err = ErrBusMissing
		return
	}

	err = cpu.Bus.Terminate()
	if err != nil {
		return
	}

	cpu.Halted = true
	err = ErrHalt
	return
}
