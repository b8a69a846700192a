package memory

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(values ...int32) []byte {
	buf := &bytes.Buffer{}
	for _, value := range values {
		binary.Write(buf, binary.LittleEndian, value)
	}
	return buf.Bytes()
}

func TestEncodeRequest(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		request Request
		wire    []byte
	}){
		{"read", ReadRequest(1234), words(1234)},
		{"write", WriteRequest(1999, -42), words(-1, 1999, -42)},
		{"terminate", TerminateRequest(), words(-5)},
	}

	for _, entry := range table {
		buf := &bytes.Buffer{}
		assert.NoError(EncodeRequest(buf, entry.request), entry.name)
		assert.Equal(entry.wire, buf.Bytes(), entry.name)

		req, err := DecodeRequest(bytes.NewReader(entry.wire))
		assert.NoError(err, entry.name)
		assert.Equal(entry.request, req, entry.name)
	}
}

func TestEncodeRequest_Invalid(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	assert.ErrorIs(EncodeRequest(buf, ReadRequest(-1)), ErrAddress(0))
	assert.ErrorIs(EncodeRequest(buf, Request{Kind: RequestKind(7)}), ErrRequestKind)
	assert.Equal(0, buf.Len())
}

func TestDecodeRequest(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeRequest(bytes.NewReader(nil))
	assert.ErrorIs(err, io.EOF)

	_, err = DecodeRequest(bytes.NewReader([]byte{1, 2}))
	assert.ErrorIs(err, ErrWireTruncate)

	_, err = DecodeRequest(bytes.NewReader(words(-1, 5)))
	assert.ErrorIs(err, ErrWireTruncate)

	// Unreserved negative words decode as reads, and fault at the service.
	req, err := DecodeRequest(bytes.NewReader(words(-3)))
	assert.NoError(err)
	assert.Equal(ReadRequest(-3), req)
}

func TestWireBus(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()

	svc := NewService(MEMORY_SIZE)
	bus := &WireBus{Request: reqW, Reply: repR}

	served := make(chan error, 1)
	go func() {
		served <- svc.ServeWire(context.Background(), reqR, repW, nil)
	}()

	require.NoError(bus.Write(1500, 7))
	require.NoError(bus.Write(0, -9))

	value, err := bus.Read(1500)
	require.NoError(err)
	assert.Equal(7, value)

	value, err = bus.Read(0)
	require.NoError(err)
	assert.Equal(-9, value)

	_, err = bus.Read(-1)
	assert.ErrorIs(err, ErrAddress(0))

	require.NoError(bus.Terminate())
	assert.NoError(<-served)
	assert.Equal(7, svc.Memory.Cells[1500])
}

func TestWireBus_Fault(t *testing.T) {
	assert := assert.New(t)

	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()

	svc := NewService(10)
	bus := &WireBus{Request: reqW, Reply: repR}

	served := make(chan error, 1)
	go func() {
		err := svc.ServeWire(context.Background(), reqR, repW, nil)
		repW.CloseWithError(err)
		reqR.CloseWithError(err)
		served <- err
	}()

	_, err := bus.Read(10)
	assert.ErrorIs(err, ErrBusClosed)
	assert.ErrorIs(err, ErrAddress(0))
	assert.Equal(ErrAddress(10), <-served)
}

func TestServeWire_Closed(t *testing.T) {
	assert := assert.New(t)

	svc := NewService(10)
	err := svc.ServeWire(context.Background(), bytes.NewReader(nil), io.Discard, nil)
	assert.ErrorIs(err, ErrBusClosed)
}

func TestEncodeRequest_CellRange(t *testing.T) {
	assert := assert.New(t)

	for _, value := range []int{CELL_MIN, CELL_MIN + 1, CELL_MAX - 1, CELL_MAX} {
		buf := &bytes.Buffer{}
		assert.NoError(EncodeRequest(buf, WriteRequest(7, value)), value)

		req, err := DecodeRequest(buf)
		assert.NoError(err, value)
		assert.Equal(WriteRequest(7, value), req, value)
	}

	buf := &bytes.Buffer{}
	assert.ErrorIs(EncodeRequest(buf, WriteRequest(7, CELL_MAX+1)), ErrCellRange(0))
	assert.ErrorIs(EncodeRequest(buf, WriteRequest(7, CELL_MIN-1)), ErrCellRange(0))
	assert.ErrorIs(EncodeRequest(buf, WriteRequest(CELL_MAX+1, 0)), ErrAddress(0))
	assert.ErrorIs(EncodeRequest(buf, ReadRequest(CELL_MAX+1)), ErrAddress(0))
	assert.Equal(0, buf.Len())

	assert.ErrorIs(writeWord(buf, CELL_MAX+1), ErrCellRange(0))
	assert.Equal(0, buf.Len())
}

func TestWireBus_CellRange(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()

	svc := NewService(MEMORY_SIZE)
	bus := &WireBus{Request: reqW, Reply: repR}

	served := make(chan error, 1)
	go func() {
		served <- svc.ServeWire(context.Background(), reqR, repW, nil)
	}()

	require.NoError(bus.Write(1, CELL_MAX))
	require.NoError(bus.Write(2, CELL_MIN))

	value, err := bus.Read(1)
	require.NoError(err)
	assert.Equal(CELL_MAX, value)

	value, err = bus.Read(2)
	require.NoError(err)
	assert.Equal(CELL_MIN, value)

	// Rejected before anything is sent.
	err = bus.Write(3, CELL_MAX+1)
	assert.Equal(ErrCellRange(CELL_MAX+1), err)

	require.NoError(bus.Terminate())
	assert.NoError(<-served)
	assert.Equal(0, svc.Memory.Cells[3])
}
