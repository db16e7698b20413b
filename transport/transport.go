// Package transport implements the I/O side of a gateway connection: dialing the WebSocket,
// framing reads/writes, and recognizing close codes. It deliberately knows nothing about the
// Discord Gateway protocol itself — that lives entirely in package gateway — so the Manager can
// swap this implementation for a fake one in tests without touching protocol logic.
package transport

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/switchupcb/websocket"
)

// Transport is the narrow interface a Manager drives: read one decoded frame at a time, write
// one outbound frame at a time, and close. Implementations may be a real WebSocket connection
// (Conn, below) or an in-process fake (Pipe, in pipe.go) wired directly to test expectations.
type Transport interface {
	// ReadFrame blocks until a frame arrives and returns its raw bytes. Conn decompresses a
	// binary frame as a self-contained zlib stream; a zlib context shared across frames is not
	// supported. A closed connection is reported via *CloseError, not as a generic error.
	ReadFrame(ctx context.Context) ([]byte, error)

	// WriteFrame sends a single text frame.
	WriteFrame(ctx context.Context, payload []byte) error

	// Close closes the connection, sending the given status code if the transport is still
	// open.
	Close(ctx context.Context, code int) error
}

// CloseError is returned by ReadFrame when the connection is closed. Code is the peer's close
// status when a close frame was received (which may still represent a Discord Gateway protocol
// failure), or AbnormalCloseCode when the read failed without one. Callers extract Code and
// hand it to gateway.Ctx.RecvCloseCode.
type CloseError struct {
	Code int
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("transport: connection closed with code %d", e.Code)
}

// AbnormalCloseCode is substituted when a transport error occurs that is not a clean WebSocket
// close — a dropped TCP connection, a read timeout, a DNS failure mid-stream. The Discord
// Gateway documents 1006 for exactly this case: a connection that simply stopped responding.
const AbnormalCloseCode = 1006

// Conn is a Transport backed by a real WebSocket connection.
type Conn struct {
	ws *websocket.Conn

	mu  sync.Mutex
	buf bytes.Buffer
}

// Dial opens a WebSocket connection to url and returns a Conn ready for ReadFrame/WriteFrame.
func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}

	return &Conn{ws: ws}, nil
}

// ReadFrame implements Transport.
func (c *Conn) ReadFrame(ctx context.Context) ([]byte, error) {
	messageType, reader, err := c.ws.Reader(ctx)
	if err != nil {
		if code := websocket.CloseStatus(err); code != -1 {
			return nil, &CloseError{Code: code}
		}
		return nil, &CloseError{Code: AbnormalCloseCode}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()

	switch messageType {
	case websocket.MessageText:
		if _, err := c.buf.ReadFrom(reader); err != nil {
			return nil, fmt.Errorf("transport: read text frame: %w", err)
		}

	case websocket.MessageBinary:
		zr, err := zlib.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("transport: open zlib stream: %w", err)
		}
		defer zr.Close()

		if _, err := c.buf.ReadFrom(zr); err != nil {
			return nil, fmt.Errorf("transport: read compressed frame: %w", err)
		}

	default:
		return nil, fmt.Errorf("transport: unrecognized message type %v", messageType)
	}

	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out, nil
}

// WriteFrame implements Transport.
func (c *Conn) WriteFrame(ctx context.Context, payload []byte) error {
	if err := c.ws.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("transport: write frame: %w", err)
	}
	return nil
}

// Close implements Transport.
func (c *Conn) Close(ctx context.Context, code int) error {
	err := c.ws.Close(websocket.StatusCode(code), "")
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("transport: close: %w", err)
	}
	return nil
}
