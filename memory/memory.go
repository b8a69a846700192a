package memory

import (
	"fmt"
	"iter"
	"maps"
	"math"
)

const (
	MEMORY_SIZE = 2000 // Default number of cells.

	CELL_MIN = math.MinInt32 // Smallest value a cell holds.
	CELL_MAX = math.MaxInt32 // Largest value a cell holds.
)

// Cell wraps value to the 32-bit two's complement cell width.
func Cell(value int) int {
	return int(int32(value))
}

// CellValid is true if value fits in a cell unchanged.
func CellValid(value int) bool {
	return value >= CELL_MIN && value <= CELL_MAX
}

var _memory_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
}

// Memory is the cell array. Every cell holds exactly one signed 32-bit integer.
type Memory struct {
	Cells []int
}

// NewMemory creates a zeroed memory of size cells.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		Cells: make([]int, size),
	}

	return
}

// Defines returns the memory equates made available to assembler sources.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Size returns the number of cells.
func (mem *Memory) Size() int {
	return len(mem.Cells)
}

// Read returns the value at address.
func (mem *Memory) Read(address int) (value int, err error) {
	if address < 0 || address >= len(mem.Cells) {
		err = ErrAddress(address)
		return
	}

	value = mem.Cells[address]
	return
}

// Write overwrites the cell at address.
func (mem *Memory) Write(address int, value int) (err error) {
	if address < 0 || address >= len(mem.Cells) {
		err = ErrAddress(address)
		return
	}

	if !CellValid(value) {
		err = ErrCellRange(value)
		return
	}

	mem.Cells[address] = value
	return
}

// Load replaces the start of memory with an image, clearing the rest.
func (mem *Memory) Load(image []int) (err error) {
	if len(image) > len(mem.Cells) {
		err = ErrImageSize
		return
	}

	for _, value := range image {
		if !CellValid(value) {
			err = ErrCellRange(value)
			return
		}
	}

	clear(mem.Cells)
	copy(mem.Cells, image)

	return
}
