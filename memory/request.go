package memory

import (
	"fmt"
)

// RequestKind discriminates the three messages of the memory protocol.
type RequestKind int

const (
	REQUEST_READ      = RequestKind(0) // read
	REQUEST_WRITE     = RequestKind(1) // write
	REQUEST_TERMINATE = RequestKind(2) // terminate
)

var _request_kind_names = [...]string{
	REQUEST_READ:      "read",
	REQUEST_WRITE:     "write",
	REQUEST_TERMINATE: "terminate",
}

func (kind RequestKind) String() string {
	if kind < 0 || int(kind) >= len(_request_kind_names) {
		return fmt.Sprintf("RequestKind(%d)", int(kind))
	}
	return _request_kind_names[kind]
}

// Request is a single message from the processor to the memory unit.
// Only Read requests are answered.
type Request struct {
	Kind    RequestKind
	Address int
	Value   int
}

// ReadRequest asks for the value at address.
func ReadRequest(address int) Request {
	return Request{Kind: REQUEST_READ, Address: address}
}

// WriteRequest stores value at address.
func WriteRequest(address int, value int) Request {
	return Request{Kind: REQUEST_WRITE, Address: address, Value: value}
}

// TerminateRequest ends the memory unit.
func TerminateRequest() Request {
	return Request{Kind: REQUEST_TERMINATE}
}

func (req Request) String() string {
	switch req.Kind {
	case REQUEST_READ:
		return fmt.Sprintf("read %d", req.Address)
	case REQUEST_WRITE:
		return fmt.Sprintf("write %d %d", req.Address, req.Value)
	default:
		return req.Kind.String()
	}
}
