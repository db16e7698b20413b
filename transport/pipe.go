package transport

import (
	"context"
	"fmt"
)

// Pipe is an in-process Transport driven entirely by test code: frames queued with Push are
// handed back by ReadFrame in order, and frames written via WriteFrame land in Written for
// assertions. It exists so Manager's reconnect/heartbeat/ordering behavior can be exercised
// without a real socket.
type Pipe struct {
	inbound  chan pipeFrame
	Written  [][]byte
	closed   bool
	closedBy int
}

type pipeFrame struct {
	payload []byte
	closeAt int
}

// NewPipe returns a Pipe with no queued frames.
func NewPipe() *Pipe {
	return &Pipe{inbound: make(chan pipeFrame, 64)}
}

// Push queues a frame to be returned by a future ReadFrame call.
func (p *Pipe) Push(payload []byte) {
	p.inbound <- pipeFrame{payload: payload}
}

// PushClose queues a close event with the given code to be returned by a future ReadFrame call
// as a *CloseError.
func (p *Pipe) PushClose(code int) {
	p.inbound <- pipeFrame{closeAt: code}
}

// ReadFrame implements Transport.
func (p *Pipe) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case f, ok := <-p.inbound:
		if !ok {
			return nil, &CloseError{Code: AbnormalCloseCode}
		}
		if f.closeAt != 0 {
			return nil, &CloseError{Code: f.closeAt}
		}
		return f.payload, nil
	}
}

// WriteFrame implements Transport.
func (p *Pipe) WriteFrame(ctx context.Context, payload []byte) error {
	if p.closed {
		return fmt.Errorf("transport: write on closed pipe")
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	p.Written = append(p.Written, cp)
	return nil
}

// Close implements Transport.
func (p *Pipe) Close(ctx context.Context, code int) error {
	p.closed = true
	p.closedBy = code
	close(p.inbound)
	return nil
}
