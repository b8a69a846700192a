package cpu

import (
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, asm *Assembler, program ...string) (image []int) {
	require := require.New(t)

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(err)

	image, err = prog.Image(2000)
	require.NoError(err)

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))
	assert.Equal("0", asm.Equate["LINENO"])

	for key, value := range (&Cpu{}).Defines() {
		asm.Predefine(key, value)
	}
	_, err = asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal("1000", asm.Equate["USER_LIMIT"])
	assert.Equal("1000", asm.Equate["TIMER_VECTOR"])
	assert.Equal("1500", asm.Equate["TRAP_VECTOR"])
	assert.Equal("2", asm.Equate["PUT_PORT_CHAR"])
}

func TestAssembler_Program(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	image := assemble(t, asm,
		"; print 5",
		"        load 5",
		"        put 1   // as an integer",
		"        END",
	)

	assert.Equal([]int{1, 5, 9, 1, 50, 0}, image[:6])
}

func TestAssembler_Labels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	image := assemble(t, asm,
		"start:  load 3",
		"        copytox",
		"loop:   decx",
		"        copyfromx",
		"        jumpifnotequal loop",
		"        jump done",
		"        .word 7 8",
		"done:",
		"        end",
	)

	assert.Equal([]int{1, 3, 14, 26, 15, 22, 3, 20, 11, 7, 8, 50}, image[:12])
	assert.Equal(map[string]int{"start": 0, "loop": 3, "done": 11}, maps.Clone(asm.Label))
}

func TestAssembler_Directives(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("TRAP_VECTOR", "1500")

	image := assemble(t, asm,
		".equ COUNT 5",
		".equ NEWLINE '\\n'",
		"        load COUNT",
		"        load 'A'",
		"        load NEWLINE",
		"        load $(COUNT * 2 + 1)",
		"        load $(LINENO)",
		"        load -0x10",
		"        int",
		"        end",
		"        .org $(TRAP_VECTOR)",
		"handler: 1 7 9 1",
		"        iret",
		"        .org 900",
		"        .word $(handler + 1)",
	)

	assert.Equal([]int{1, 5, 1, 65, 1, 10, 1, 11, 1, 7, 1, -16, 29, 50}, image[:14])
	assert.Equal([]int{1, 7, 9, 1, 30}, image[1500:1505])
	assert.Equal(1501, image[900])
}

func TestAssembler_Comments(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MEMORY_SIZE", "2000")

	image := assemble(t, asm,
		"        load ';'        ; semicolon",
		"        load '/'        // slash",
		"        load $(7 // 2)  // floor division",
		"        load $((1 + 2) * 3) ; nested",
		"        .org $(MEMORY_SIZE // 2)",
		"        end",
	)

	assert.Equal([]int{1, ';', 1, '/', 1, 3, 1, 9, 0}, image[:9])
	assert.Equal(50, image[1000])

	assert.Equal("load ';' ", stripComment("load ';' ; x"))
	assert.Equal("$(4 // 2) ", stripComment("$(4 // 2) // x"))
	assert.Equal("load $(1", stripComment("load $(1"))
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program []string
		lineno  int
		err     error
	}){
		{[]string{"bogus"}, 1, ErrMnemonic("bogus")},
		{[]string{"end", "load"}, 2, ErrOpcodeValueMissing},
		{[]string{"load 1 2"}, 1, ErrOpcodeExtraArgs},
		{[]string{"incx 1"}, 1, ErrOpcodeExtraArgs},
		{[]string{"1 x"}, 1, ErrParseNumber("x")},
		{[]string{"load 1x"}, 1, ErrParseNumber("1x")},
		{[]string{".word"}, 1, ErrOpcodeValueMissing},
		{[]string{".equ A"}, 1, ErrEquateSyntax},
		{[]string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{[]string{".org"}, 1, ErrOrgSyntax},
		{[]string{"a: end", "a: end"}, 2, ErrLabelDuplicate},
		{[]string{"1a: end"}, 1, ErrLabelInvalid},
		{[]string{"end", "", "jump nowhere"}, 3, ErrLabelMissing("nowhere")},
		{[]string{"load $(\"x\")"}, 1, ErrParseExpression("\"x\"")},
		{[]string{"load $(1 << 40)"}, 1, ErrParseExpression("1 << 40")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.program)

		var syntax ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.program) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.program)
		}
	}
}

func TestAssembler_Overlap(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader("load 1\n.org 1\nend\n"))
	assert.NoError(err)

	_, err = prog.Image(2000)
	assert.ErrorIs(err, ErrImageOverlap)
}

func TestAssembler_Run(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	for key, value := range (&Cpu{}).Defines() {
		asm.Predefine(key, value)
	}

	image := assemble(t, asm,
		"        load 'H'",
		"        put PUT_PORT_CHAR",
		"        int",
		"        load 'i'",
		"        put PUT_PORT_CHAR",
		"        end",
		"        .org TRAP_VECTOR",
		"        load 42",
		"        put PUT_PORT_INT",
		"        iret",
	)

	cpu, bus, out := newTestCpu(t, NO_TIMER, nil)
	copy(bus.Service.Memory.Cells, image)

	assert.NoError(cpu.Run())
	assert.Equal("H42i", out.String())
}
