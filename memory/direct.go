package memory

// DirectBus calls a Service in-process, with no second unit of execution.
type DirectBus struct {
	Service *Service

	Terminated bool // Set once Terminate has been requested.
}

var _ Bus = (*DirectBus)(nil)

// NewDirectBus creates a bus over a new service of size cells.
func NewDirectBus(size int) (bus *DirectBus) {
	bus = &DirectBus{
		Service: NewService(size),
	}

	return
}

func (bus *DirectBus) Read(address int) (value int, err error) {
	if bus.Terminated {
		err = ErrBusClosed
		return
	}

	value, _, err = bus.Service.Handle(ReadRequest(address))
	return
}

func (bus *DirectBus) Write(address int, value int) (err error) {
	if bus.Terminated {
		err = ErrBusClosed
		return
	}

	_, _, err = bus.Service.Handle(WriteRequest(address, value))
	return
}

func (bus *DirectBus) Terminate() (err error) {
	if bus.Terminated {
		err = ErrBusClosed
		return
	}

	bus.Terminated = true
	return
}
