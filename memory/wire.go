package memory

import (
	"encoding/binary"
	"errors"
	"io"
)

// Wire sentinels. Any other leading word is the address of a Read.
const (
	WIRE_WRITE     = -1 // Followed by address, then value.
	WIRE_TERMINATE = -5 // No payload.
)

// Words on the wire are little-endian int32.
const WIRE_WORD_SIZE = 4

func writeWord(w io.Writer, value int) (err error) {
	if !CellValid(value) {
		err = ErrCellRange(value)
		return
	}

	var buf [WIRE_WORD_SIZE]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(value)))
	_, err = w.Write(buf[:])
	return
}

func readWord(r io.Reader) (value int, err error) {
	var buf [WIRE_WORD_SIZE]byte
	_, err = io.ReadFull(r, buf[:])
	if err != nil {
		return
	}
	value = int(int32(binary.LittleEndian.Uint32(buf[:])))
	return
}

// EncodeRequest writes a request in the sentinel-tagged wire format.
func EncodeRequest(w io.Writer, req Request) (err error) {
	var words []int

	switch req.Kind {
	case REQUEST_READ:
		if req.Address < 0 || req.Address > CELL_MAX {
			// Would be mistaken for a sentinel, or cannot be sent.
			err = ErrAddress(req.Address)
			return
		}
		words = []int{req.Address}
	case REQUEST_WRITE:
		if !CellValid(req.Address) {
			err = ErrAddress(req.Address)
			return
		}
		if !CellValid(req.Value) {
			err = ErrCellRange(req.Value)
			return
		}
		words = []int{WIRE_WRITE, req.Address, req.Value}
	case REQUEST_TERMINATE:
		words = []int{WIRE_TERMINATE}
	default:
		err = ErrRequestKind
		return
	}

	buf := make([]byte, 0, len(words)*WIRE_WORD_SIZE)
	for _, word := range words {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(word)))
	}

	_, err = w.Write(buf)
	return
}

// DecodeRequest reads one request in the sentinel-tagged wire format.
// A clean end of stream before the first word returns io.EOF.
func DecodeRequest(r io.Reader) (req Request, err error) {
	lead, err := readWord(r)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrWireTruncate
		}
		return
	}

	switch lead {
	case WIRE_TERMINATE:
		req = TerminateRequest()
	case WIRE_WRITE:
		var address, value int
		address, err = readWord(r)
		if err == nil {
			value, err = readWord(r)
		}
		if err != nil {
			err = errors.Join(ErrWireTruncate, err)
			return
		}
		req = WriteRequest(address, value)
	default:
		// Negative non-sentinels are reads, and fail the bounds check.
		req = ReadRequest(lead)
	}

	return
}

// WireBus carries requests over a pair of byte streams.
type WireBus struct {
	Request io.Writer // Processor to memory.
	Reply   io.Reader // Memory to processor.
}

var _ Bus = (*WireBus)(nil)

func (bus *WireBus) Read(address int) (value int, err error) {
	err = EncodeRequest(bus.Request, ReadRequest(address))
	if errors.Is(err, ErrAddress(0)) {
		return
	}
	if err != nil {
		err = errors.Join(ErrBusClosed, err)
		return
	}

	value, err = readWord(bus.Reply)
	if err != nil {
		err = errors.Join(ErrBusClosed, err)
	}
	return
}

func (bus *WireBus) Write(address int, value int) (err error) {
	err = EncodeRequest(bus.Request, WriteRequest(address, value))
	if errors.Is(err, ErrAddress(0)) || errors.Is(err, ErrCellRange(0)) {
		return
	}
	if err != nil {
		err = errors.Join(ErrBusClosed, err)
	}
	return
}

func (bus *WireBus) Terminate() (err error) {
	err = EncodeRequest(bus.Request, TerminateRequest())
	if err != nil {
		err = errors.Join(ErrBusClosed, err)
	}
	return
}
