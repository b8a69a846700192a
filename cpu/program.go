package cpu

import (
	"iter"
	"strings"
)

// Statement is one assembled source line.
type Statement struct {
	LineNo    int      // Source line number.
	Address   int      // Address of the first cell.
	Words     []string // Source words, after substitution.
	Cells     []int    // Assembled cells.
	LinkLabel string   // Label whose address is placed in the last cell.
}

// Program is an assembled listing.
type Program struct {
	Statements []Statement
}

// Debug locates the statement, and the cell within it, at an address.
type Debug struct {
	*Statement
	Index int
}

func (prog *Program) Debug(address int) (dbg Debug) {
	for n, st := range prog.Statements {
		if address >= st.Address && address < st.Address+len(st.Cells) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     address - st.Address,
			}
			break
		}
	}

	return
}

// Cells iterates over every assembled cell and its address.
func (prog *Program) Cells() iter.Seq2[int, int] {
	return func(yield func(address int, value int) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Cells {
				if !yield(st.Address+n, value) {
					return
				}
			}
		}
	}
}

// Image materialises the program into size cells.
func (prog *Program) Image(size int) (image []int, err error) {
	image = make([]int, size)
	used := make([]bool, size)

	for _, st := range prog.Statements {
		for n, value := range st.Cells {
			address := st.Address + n
			if address < 0 || address >= size {
				err = ErrSyntax{LineNo: st.LineNo, Line: strings.Join(st.Words, " "), Err: ErrImageSize}
				return
			}
			if used[address] {
				err = ErrSyntax{LineNo: st.LineNo, Line: strings.Join(st.Words, " "), Err: ErrImageOverlap}
				return
			}
			used[address] = true
			image[address] = value
		}
	}

	return
}
