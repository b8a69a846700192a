package cpu

const (
	USER_LIMIT   = 1000 // First address of system space.
	USER_STACK   = 1000 // Initial user stack pointer; the stack grows down.
	TIMER_VECTOR = 1000 // Timer interrupt handler entry.
	TRAP_VECTOR  = 1500 // System call handler entry.
)
