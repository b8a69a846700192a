package cpu

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Statements: []Statement{
			{LineNo: 1, Address: 0, Words: []string{"load", "5"}, Cells: []int{1, 5}},
			{LineNo: 2, Address: 2, Words: []string{"put", "1"}, Cells: []int{9, 1}},
			{LineNo: 4, Address: 4, Words: []string{"end"}, Cells: []int{50}},
			{LineNo: 7, Address: 1500, Words: []string{"iret"}, Cells: []int{30}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	table := [](struct {
		address int
		lineno  int
		index   int
	}){
		{0, 1, 0},
		{1, 1, 1},
		{2, 2, 0},
		{3, 2, 1},
		{4, 4, 0},
		{1500, 7, 0},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.address)
		if assert.NotNil(dbg.Statement, entry) {
			assert.Equal(entry.lineno, dbg.LineNo, entry)
			assert.Equal(entry.index, dbg.Index, entry)
		}
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	for _, address := range []int{5, 999, 1501, -1} {
		dbg := prog.Debug(address)
		assert.Nil(dbg.Statement, address)
		assert.Equal(0, dbg.Index, address)
	}
}

func TestProgram_Cells(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	cells := maps.Collect(prog.Cells())
	assert.Equal(map[int]int{0: 1, 1: 5, 2: 9, 3: 1, 4: 50, 1500: 30}, cells)

	// Early exit.
	count := 0
	for range prog.Cells() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(3, count)
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	image, err := prog.Image(2000)
	assert.NoError(err)
	assert.Len(image, 2000)
	assert.Equal([]int{1, 5, 9, 1, 50, 0}, image[:6])
	assert.Equal(30, image[1500])

	_, err = prog.Image(1500)
	assert.ErrorIs(err, ErrImageSize)
	var syntax ErrSyntax
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(7, syntax.LineNo)
		assert.Equal("iret", syntax.Line)
	}

	prog.Statements = append(prog.Statements,
		Statement{LineNo: 9, Address: 3, Words: []string{"push"}, Cells: []int{27}})
	_, err = prog.Image(2000)
	assert.ErrorIs(err, ErrImageOverlap)
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(9, syntax.LineNo)
	}
}
