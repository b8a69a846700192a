package emulator

import (
	"io"
	"iter"

	"github.com/ezrec/pipemachine/cpu"
	"github.com/ezrec/pipemachine/internal"
	"github.com/ezrec/pipemachine/memory"
)

// Defines returns an iterator over all of the machine equates.
func Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		(&memory.Memory{}).Defines(),
		(&cpu.Cpu{}).Defines(),
	)
}

// Assemble parses a source program, with the machine equates predefined,
// into a listing and a memory image.
func Assemble(input io.Reader, verbose bool) (prog *cpu.Program, image []int, err error) {
	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(input)
	if err != nil {
		return
	}

	image, err = prog.Image(memory.MEMORY_SIZE)
	return
}
