package memory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseImage reads a textual program image into size cells.
//
// A line beginning with '.' sets the next load address. Any other line loads
// its leading integers at consecutive addresses; the first word that is not
// an integer ends the line.
func ParseImage(input io.Reader, size int) (image []int, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrImage{LineNo: lineno, Line: line, Err: err}
		}
	}()

	image = make([]int, size)
	address := 0

	for scanner.Scan() {
		lineno++
		line = strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, ".") {
			words := strings.Fields(line[1:])
			if len(words) == 0 {
				err = ErrImageSyntax
				return
			}
			address, err = strconv.Atoi(words[0])
			if err != nil {
				err = ErrImageSyntax
				return
			}
			continue
		}

		for _, word := range strings.Fields(line) {
			value, _err := strconv.Atoi(word)
			if errors.Is(_err, strconv.ErrRange) {
				err = ErrCellRange(value)
				return
			}
			if _err != nil {
				break
			}
			if !CellValid(value) {
				err = ErrCellRange(value)
				return
			}
			if address < 0 || address >= size {
				err = ErrAddress(address)
				return
			}
			image[address] = value
			address++
		}
	}

	line = ""
	err = scanner.Err()

	return
}

// WriteImage writes cells in the textual image format. Zero cells are
// skipped, and a load address line starts every run.
func WriteImage(output io.Writer, cells []int) (err error) {
	w := bufio.NewWriter(output)

	next := 0
	for address, value := range cells {
		if value == 0 {
			continue
		}
		if address != next {
			fmt.Fprintf(w, ".%d\n", address)
		}
		fmt.Fprintf(w, "%d\n", value)
		next = address + 1
	}

	err = w.Flush()
	return
}
