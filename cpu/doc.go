// Package cpu implements the processor and assembler for the pipemachine system.
//
// The processor has a program counter (PC), stack pointer (SP), instruction
// register (IR), accumulator (AC) and two general registers (X, Y). It runs
// in user or kernel mode, and never touches memory directly: every fetch,
// load, store, push and pop is a request over a Bus to the memory unit.
// User mode may not address system space, which holds the timer and system
// call handlers and the system stack.
//
// The assembler translates mnemonic source, with labels, equates and
// compile-time $(...) expressions, into a memory image.
package cpu
