package emulator

import (
	"context"
	"io"
	"strings"

	"github.com/ezrec/pipemachine/memory"
)

// Transport selects how the processor reaches the memory unit.
type Transport int

const (
	TRANSPORT_CHANNEL = Transport(0) // Unbuffered Go channels between two goroutines.
	TRANSPORT_WIRE    = Transport(1) // Sentinel-tagged byte streams between two goroutines.
	TRANSPORT_DIRECT  = Transport(2) // In-process calls, with no memory goroutine.
)

var _transport_name = map[Transport]string{
	TRANSPORT_CHANNEL: "channel",
	TRANSPORT_WIRE:    "wire",
	TRANSPORT_DIRECT:  "direct",
}

func (tr Transport) String() string {
	name, ok := _transport_name[tr]
	if !ok {
		return f("Transport(%d)", int(tr))
	}
	return name
}

// ParseTransport looks up a transport by name.
func ParseTransport(name string) (tr Transport, err error) {
	for key, key_name := range _transport_name {
		if strings.EqualFold(name, key_name) {
			tr = key
			return
		}
	}

	err = ErrTransport(name)
	return
}

// link joins a processor bus to a memory service.
type link struct {
	bus   memory.Bus
	serve func(engineDone <-chan struct{}) error // nil if the service has no goroutine.
	close func()
}

// link connects svc over this transport. Every blocked call on either
// side is released once ctx is done.
func (tr Transport) link(ctx context.Context, svc *memory.Service) (ln link, err error) {
	ln.close = func() {}

	switch tr {
	case TRANSPORT_CHANNEL:
		bus := memory.NewChannelBus(ctx)
		ln.bus = bus
		ln.serve = func(engineDone <-chan struct{}) error {
			return bus.Serve(svc, engineDone)
		}
	case TRANSPORT_WIRE:
		request_r, request_w := io.Pipe()
		reply_r, reply_w := io.Pipe()
		stop := context.AfterFunc(ctx, func() {
			cause := context.Cause(ctx)
			request_r.CloseWithError(cause)
			reply_r.CloseWithError(cause)
		})
		ln.bus = &memory.WireBus{Request: request_w, Reply: reply_r}
		ln.serve = func(engineDone <-chan struct{}) error {
			return svc.ServeWire(ctx, request_r, reply_w, engineDone)
		}
		ln.close = func() {
			stop()
			request_w.Close()
			reply_w.Close()
		}
	case TRANSPORT_DIRECT:
		ln.bus = &memory.DirectBus{Service: svc}
	default:
		err = ErrTransport(tr.String())
	}

	return
}
