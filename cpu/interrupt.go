package cpu

// checkTimer fires the timer interrupt once TimeConstraint instructions
// have been counted, then counts the instruction about to be fetched.
// Nothing is counted while interrupts are disabled.
func (cpu *Cpu) checkTimer() (err error) {
	if !cpu.InterruptsEnabled {
		return
	}

	if cpu.Timer >= cpu.TimeConstraint {
		err = cpu.Interrupt(INTERRUPT_TIMER)
		if err != nil {
			return
		}
	}

	if cpu.InterruptsEnabled {
		cpu.Timer++
	}

	return
}

// Interrupt enters kernel mode, saves the context on the system stack and
// runs the handler for kind until it returns to user mode.
//
// The stack frame, from the top of system space down, is:
// SP, PC, IR, AC, X, Y.
func (cpu *Cpu) Interrupt(kind InterruptKind) (err error) {
	defer func() {
		if err != nil {
			err = cpu.fault(err)
		}
	}()

	vector, err := kind.Vector()
	if err != nil {
		return
	}

	if cpu.Verbose {
		cpu.logf("cpu: %v interrupt at %d", kind, cpu.Pc)
	}

	cpu.Mode = MODE_KERNEL

	// SP and PC first, so that the handler has a system stack.
	sp := cpu.Sp
	cpu.Sp = cpu.Top
	err = cpu.push(sp)
	if err != nil {
		return
	}
	err = cpu.push(cpu.Pc)
	if err != nil {
		return
	}

	cpu.InterruptsEnabled = false

	for _, value := range []int{cpu.Ir, cpu.Ac, cpu.X, cpu.Y} {
		err = cpu.push(value)
		if err != nil {
			return
		}
	}

	if kind == INTERRUPT_TIMER {
		cpu.Timer = 0
	}

	cpu.Pc = vector

	for cpu.Mode == MODE_KERNEL {
		err = cpu.cycle(true)
		if err != nil {
			return
		}
	}

	return
}

// interruptReturn restores the context saved by Interrupt, in reverse
// order, and returns to user mode with interrupts enabled.
func (cpu *Cpu) interruptReturn() (err error) {
	for _, reg := range []*int{&cpu.Y, &cpu.X, &cpu.Ac, &cpu.Ir, &cpu.Pc, &cpu.Sp} {
		var value int
		value, err = cpu.pop()
		if err != nil {
			return
		}
		*reg = value
	}

	cpu.Mode = MODE_USER
	cpu.InterruptsEnabled = true

	if cpu.Verbose {
		cpu.logf("cpu: return to %d", cpu.Pc)
	}

	return
}
