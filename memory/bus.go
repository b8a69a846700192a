package memory

import (
	"context"
)

// Bus is the processor side of the memory protocol. Every call blocks
// until the memory unit has accepted the request, and for Read, until the
// value has been returned.
type Bus interface {
	// Read returns the value of the cell at address.
	Read(address int) (value int, err error)
	// Write stores value in the cell at address.
	Write(address int, value int) (err error)
	// Terminate tells the memory unit to exit.
	Terminate() (err error)
}

// ChannelBus carries requests over unbuffered Go channels.
type ChannelBus struct {
	ctx      context.Context
	requests chan Request
	replies  chan int
}

var _ Bus = (*ChannelBus)(nil)

// NewChannelBus creates a bus whose calls fail once ctx is done.
func NewChannelBus(ctx context.Context) (bus *ChannelBus) {
	bus = &ChannelBus{
		ctx:      ctx,
		requests: make(chan Request),
		replies:  make(chan int),
	}

	return
}

// Serve runs svc against this bus.
func (bus *ChannelBus) Serve(svc *Service, engineDone <-chan struct{}) error {
	return svc.Serve(bus.ctx, bus.requests, bus.replies, engineDone)
}

func (bus *ChannelBus) send(req Request) (err error) {
	select {
	case bus.requests <- req:
	case <-bus.ctx.Done():
		err = ErrBusClosed
	}
	return
}

func (bus *ChannelBus) Read(address int) (value int, err error) {
	err = bus.send(ReadRequest(address))
	if err != nil {
		return
	}

	select {
	case value = <-bus.replies:
	case <-bus.ctx.Done():
		err = ErrBusClosed
	}
	return
}

func (bus *ChannelBus) Write(address int, value int) (err error) {
	return bus.send(WriteRequest(address, value))
}

func (bus *ChannelBus) Terminate() (err error) {
	return bus.send(TerminateRequest())
}
