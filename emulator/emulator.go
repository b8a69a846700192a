// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"math/rand/v2"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/pipemachine/cpu"
	"github.com/ezrec/pipemachine/io"
	"github.com/ezrec/pipemachine/memory"
)

// Emulator state. One processor, one memory unit, and the console.
type Emulator struct {
	Verbose  bool        // If set, enables verbose logging.
	Logger   *log.Logger // Destination for diagnostics; nil for the standard logger.
	*cpu.Cpu             // Reference to the processor simulation.
	Memory   *memory.Service
	Program  *cpu.Program // Listing of the loaded image, for fault locations.

	Console   io.Console // Output of the put instruction.
	Transport Transport  // Connection between the two units.
	Seed      uint64     // If non-zero, seeds the get instruction.

	image []int
}

// NewEmulator creates an emulator with image loaded at address 0, and a
// fixed timer period.
func NewEmulator(image []int, timeConstraint int) (emu *Emulator, err error) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(nil, timeConstraint),
		Memory:  memory.NewService(memory.MEMORY_SIZE),
		Program: &cpu.Program{},
		image:   slices.Clone(image),
	}

	emu.Console.Output = os.Stdout
	emu.Cpu.Port = &emu.Console

	err = emu.Memory.Memory.Load(emu.image)
	if err != nil {
		emu = nil
		return
	}

	return
}

// Defines returns an iterator over all of the machine equates.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return Defines()
}

// Reset reloads the image, and resets the processor.
func (emu *Emulator) Reset() (err error) {
	err = emu.Memory.Memory.Load(emu.image)
	if err != nil {
		return
	}

	emu.Memory.Requests = 0
	emu.Cpu.Reset()

	return
}

// LineNo returns the source line of the instruction at PC, or 0.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

func (emu *Emulator) logf(format string, args ...any) {
	if emu.Logger != nil {
		emu.Logger.Printf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}

// engine ticks the processor until it halts, faults, or ctx is done.
func (emu *Emulator) engine(ctx context.Context) (err error) {
	for {
		err = context.Cause(ctx)
		if err != nil {
			return
		}

		err = emu.Cpu.Tick()
		if errors.Is(err, cpu.ErrHalt) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// Run starts the memory unit and the processor, and waits for both to
// exit. A clean halt returns nil. Otherwise the first fatal error from
// either unit is returned as an ErrRuntime. Once halted, Run returns
// cpu.ErrHalt until Reset.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	// A halted processor would never tell the memory unit to exit.
	if emu.Cpu.Halted {
		err = cpu.ErrHalt
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Logger = emu.Logger
	emu.Memory.Verbose = emu.Verbose
	if emu.Seed != 0 {
		emu.Cpu.Random = rand.New(rand.NewPCG(emu.Seed, 0)).IntN
	}

	g, ctx := errgroup.WithContext(ctx)

	ln, err := emu.Transport.link(ctx, emu.Memory)
	if err != nil {
		return
	}
	defer ln.close()

	if emu.Verbose {
		emu.logf("emulator: %v transport, timer %d", emu.Transport, emu.Cpu.TimeConstraint)
	}

	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: emu.Cpu.Pc, Mode: emu.Cpu.Mode, LineNo: emu.LineNo(), Err: err}
		}
	}()

	emu.Cpu.Bus = ln.bus
	engineDone := make(chan struct{})

	g.Go(func() error {
		defer close(engineDone)
		return emu.engine(ctx)
	})

	if ln.serve != nil {
		g.Go(func() error {
			return ln.serve(engineDone)
		})
	}

	err = g.Wait()

	if emu.Verbose {
		emu.logf("emulator: %d instructions, %d memory requests", emu.Cpu.Ticks, emu.Memory.Requests)
	}

	return
}
