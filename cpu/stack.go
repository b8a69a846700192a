package cpu

// push decrements SP, then stores value at the new top of stack.
func (cpu *Cpu) push(value int) (err error) {
	cpu.Sp--
	err = cpu.write(cpu.Sp, value)
	return
}

// pop reads the top of stack, then increments SP.
func (cpu *Cpu) pop() (value int, err error) {
	value, err = cpu.read(cpu.Sp)
	if err != nil {
		return
	}
	cpu.Sp++
	return
}
