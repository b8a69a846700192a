package io

import (
	"io"
	"strconv"
)

// Console writes machine output to an io.Writer, and remembers enough of
// what it wrote to tidy up the terminal afterwards.
type Console struct {
	Output io.Writer

	written int
	last    byte
}

var _ Port = (*Console)(nil)

func (con *Console) write(data []byte) (err error) {
	if con.Output == nil {
		err = ErrOutputMissing
		return
	}

	n, err := con.Output.Write(data)
	if n > 0 {
		con.written += n
		con.last = data[n-1]
	}

	return
}

// PutInt writes value in base 10.
func (con *Console) PutInt(value int) error {
	return con.write(strconv.AppendInt(nil, int64(value), 10))
}

// PutChar writes the low byte of value.
func (con *Console) PutChar(value int) error {
	return con.write([]byte{byte(value)})
}

// Unterminated is true if output was written, and did not end with a newline.
func (con *Console) Unterminated() bool {
	return con.written > 0 && con.last != '\n'
}
