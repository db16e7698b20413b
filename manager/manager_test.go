package manager

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/danlionis/discord-api/gateway"
	"github.com/danlionis/discord-api/transport"
)

// newTestManager dials through an in-memory Pipe instead of a real socket, returning the
// Manager plus the Pipe so the test can script further frames and inspect writes.
func newTestManager(t *testing.T) (*Manager, *transport.Pipe) {
	t.Helper()

	pipe := transport.NewPipe()
	pipe.Push(helloFrame(10))

	m, err := Connect(context.Background(), Options{
		Config: gateway.Config{Token: "test-token", GatewayURL: "wss://gateway.test"},
		Dial: func(ctx context.Context, url string) (transport.Transport, error) {
			return pipe, nil
		},
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	return m, pipe
}

func helloFrame(interval int) []byte {
	b, _ := json.Marshal(struct {
		Op int `json:"op"`
		D  struct {
			HeartbeatInterval int `json:"heartbeat_interval"`
		} `json:"d"`
	}{Op: 10, D: struct {
		HeartbeatInterval int `json:"heartbeat_interval"`
	}{HeartbeatInterval: interval}})
	return b
}

func readyFrame(seq int64, sessionID string) []byte {
	b, _ := json.Marshal(struct {
		Op int             `json:"op"`
		S  int64           `json:"s"`
		T  string          `json:"t"`
		D  json.RawMessage `json:"d"`
	}{Op: 0, S: seq, T: "READY", D: json.RawMessage(`{"v":10,"session_id":"` + sessionID + `"}`)})
	return b
}

func TestConnectSendsIdentifyAfterHello(t *testing.T) {
	m, pipe := newTestManager(t)
	defer m.Close(context.Background())

	if len(pipe.Written) != 1 {
		t.Fatalf("expected one frame written (Identify) during Connect, got %d", len(pipe.Written))
	}

	var env struct {
		Op int `json:"op"`
	}
	if err := json.Unmarshal(pipe.Written[0], &env); err != nil {
		t.Fatalf("unmarshal written frame: %v", err)
	}
	if env.Op != 2 {
		t.Fatalf("expected Identify opcode 2, got %d", env.Op)
	}
}

func TestReceiveNextEventDeliversReady(t *testing.T) {
	m, pipe := newTestManager(t)
	defer m.Close(context.Background())

	pipe.Push(readyFrame(0, "sess-1"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, err := m.ReceiveNextEvent(ctx)
	if err != nil {
		t.Fatalf("ReceiveNextEvent: %v", err)
	}
	if ev.Kind != gateway.DispatchReady {
		t.Fatalf("expected DispatchReady, got %+v", ev)
	}
	if m.State() != gateway.StateReady {
		t.Fatalf("State() = %s, want Ready", m.State())
	}
}

func TestReceiveNextEventReturnsFailedError(t *testing.T) {
	m, pipe := newTestManager(t)
	defer m.Close(context.Background())

	pipe.PushClose(int(gateway.CloseCodeAuthenticationFailed))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := m.ReceiveNextEvent(ctx)
	var failed *FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *FailedError, got %T: %v", err, err)
	}
	if failed.Code != gateway.CloseCodeAuthenticationFailed {
		t.Fatalf("Code = %v, want AuthenticationFailed", failed.Code)
	}
}
