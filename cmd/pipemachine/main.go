// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ezrec/pipemachine/cpu"
	"github.com/ezrec/pipemachine/emulator"
	"github.com/ezrec/pipemachine/memory"
	"github.com/ezrec/pipemachine/translate"
)

var f = translate.From

var ErrTimerNegative = errors.New(f("timer period must not be negative"))

type runCmd struct {
	Image     string `arg:"" type:"existingfile" help:"Program image, or assembler source if it ends in .asm."`
	Timer     int    `arg:"" help:"Timer interrupt period, in instructions."`
	Transport string `default:"channel" enum:"channel,wire,direct" help:"Connection between the processor and memory (${enum})."`
	Seed      uint64 `help:"Seed for the get instruction. 0 picks one at random."`
	Verbose   bool   `short:"v" help:"Verbose mode."`
}

func (r *runCmd) Validate() error {
	if r.Timer < 0 {
		return ErrTimerNegative
	}
	return nil
}

// load reads an image, assembling it first if it is a source file.
func load(path string, verbose bool) (prog *cpu.Program, image []int, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if strings.HasSuffix(path, ".asm") {
		prog, image, err = emulator.Assemble(inf, verbose)
	} else {
		image, err = memory.ParseImage(inf, memory.MEMORY_SIZE)
	}
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

func (r *runCmd) Run() (err error) {
	prog, image, err := load(r.Image, r.Verbose)
	if err != nil {
		return
	}

	transport, err := emulator.ParseTransport(r.Transport)
	if err != nil {
		return
	}

	emu, err := emulator.NewEmulator(image, r.Timer)
	if err != nil {
		return
	}

	if prog != nil {
		emu.Program = prog
	}
	emu.Verbose = r.Verbose
	emu.Transport = transport
	emu.Seed = r.Seed
	emu.Console.Output = os.Stdout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)

	if emu.Console.Unterminated() && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stdout)
	}

	return
}

type asmCmd struct {
	Source  string `arg:"" type:"existingfile" help:"Assembler source."`
	Output  string `short:"o" default:"-" help:"Image file to write, or - for standard output."`
	Verbose bool   `short:"v" help:"Verbose mode."`
}

func (a *asmCmd) Run() (err error) {
	inf, err := os.Open(a.Source)
	if err != nil {
		return
	}
	defer inf.Close()

	_, image, err := emulator.Assemble(inf, a.Verbose)
	if err != nil {
		err = fmt.Errorf("%v: %w", a.Source, err)
		return
	}

	if a.Output == "-" {
		err = memory.WriteImage(os.Stdout, image)
		return
	}

	ouf, err := os.Create(a.Output)
	if err != nil {
		return
	}

	err = memory.WriteImage(ouf, image)
	err = errors.Join(err, ouf.Close())

	return
}

func main() {
	var cli struct {
		Run runCmd `cmd:"" default:"withargs" help:"Run a program until it halts."`
		Asm asmCmd `cmd:"" help:"Assemble a source file into a program image."`
	}

	ctx := kong.Parse(&cli,
		kong.Name("pipemachine"),
		kong.Description("A processor and a memory unit, talking by message."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
