package memory

import (
	"context"
	"errors"
	"io"
	"log"
)

// Service answers memory requests, one at a time, in the order received.
type Service struct {
	Verbose bool    // If set, logs every request.
	Memory  *Memory // Backing cells.

	Requests int // Requests served since creation.
}

// NewService creates a service over a memory of size cells.
func NewService(size int) (svc *Service) {
	svc = &Service{
		Memory: NewMemory(size),
	}

	return
}

// Handle applies a Read or Write request. Reads return replied = true.
func (svc *Service) Handle(req Request) (reply int, replied bool, err error) {
	if svc.Verbose {
		log.Printf("memory: %v", req)
	}

	svc.Requests++

	switch req.Kind {
	case REQUEST_READ:
		reply, err = svc.Memory.Read(req.Address)
		replied = err == nil
	case REQUEST_WRITE:
		err = svc.Memory.Write(req.Address, req.Value)
	default:
		err = ErrRequestKind
	}

	return
}

// terminate waits for the processor to finish before the service exits.
func (svc *Service) terminate(ctx context.Context, engineDone <-chan struct{}) (err error) {
	if svc.Verbose {
		log.Printf("memory: terminate")
	}

	if engineDone == nil {
		return
	}

	select {
	case <-engineDone:
	case <-ctx.Done():
		err = context.Cause(ctx)
	}

	return
}

// Serve answers requests received on a channel until a Terminate request.
// replies must be unbuffered, so that exactly one request is outstanding.
func (svc *Service) Serve(ctx context.Context, requests <-chan Request, replies chan<- int, engineDone <-chan struct{}) (err error) {
	for {
		var req Request
		var ok bool

		select {
		case <-ctx.Done():
			err = context.Cause(ctx)
			return
		case req, ok = <-requests:
			if !ok {
				err = ErrBusClosed
				return
			}
		}

		if req.Kind == REQUEST_TERMINATE {
			err = svc.terminate(ctx, engineDone)
			return
		}

		var reply int
		var replied bool
		reply, replied, err = svc.Handle(req)
		if err != nil {
			return
		}

		if !replied {
			continue
		}

		select {
		case replies <- reply:
		case <-ctx.Done():
			err = context.Cause(ctx)
			return
		}
	}
}

// ServeWire answers sentinel-tagged requests decoded from r, writing replies to w,
// until a Terminate request.
func (svc *Service) ServeWire(ctx context.Context, r io.Reader, w io.Writer, engineDone <-chan struct{}) (err error) {
	for {
		var req Request
		req, err = DecodeRequest(r)
		if errors.Is(err, io.EOF) {
			err = ErrBusClosed
			return
		}
		if err != nil {
			return
		}

		if req.Kind == REQUEST_TERMINATE {
			err = svc.terminate(ctx, engineDone)
			return
		}

		var reply int
		var replied bool
		reply, replied, err = svc.Handle(req)
		if err != nil {
			return
		}

		if replied {
			err = writeWord(w, reply)
			if err != nil {
				return
			}
		}
	}
}
