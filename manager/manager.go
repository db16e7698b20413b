// Package manager drives a gateway.Ctx with a real transport connection and heartbeat clock.
//
// It implements the single responsibility the protocol core leaves undone: I/O. Everything it
// decides — reconnect or not, Resume or Identify, when to heartbeat — is read directly off Ctx;
// Manager itself holds no protocol state of its own beyond the connection and the clock.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/danlionis/discord-api/gateway"
	"github.com/danlionis/discord-api/transport"
)

// gatewayVersion is the Discord Gateway API version this module speaks.
const gatewayVersion = "10"

// GatewayInfo is the subset of a gateway-bot REST response a Manager needs to connect.
type GatewayInfo struct {
	URL               string
	Shards            int
	SessionStartLimit SessionStartLimit
}

// SessionStartLimit mirrors the Discord session_start_limit object, surfaced for callers that
// want to throttle how many shards they bring up concurrently.
type SessionStartLimit struct {
	Total          int
	Remaining      int
	ResetAfter     time.Duration
	MaxConcurrency int
}

// GatewayDiscoverer resolves the WebSocket URL a Manager should dial. rest.Client implements
// this; Manager depends only on the interface so it never imports package rest directly.
type GatewayDiscoverer interface {
	DiscoverGateway(ctx context.Context) (GatewayInfo, error)
}

// Dialer opens a Transport to a fully-qualified gateway URL. transport.Dial satisfies this;
// tests substitute a Dialer that returns a transport.Pipe instead.
type Dialer func(ctx context.Context, url string) (transport.Transport, error)

// Options configures Connect.
type Options struct {
	// Config is passed to gateway.New unmodified.
	Config gateway.Config

	// Discoverer resolves the gateway URL when Config.GatewayURL is empty.
	Discoverer GatewayDiscoverer

	// Dial opens the transport. Defaults to transport.Dial.
	Dial Dialer

	// Metrics, if non-nil, receives Prometheus instrumentation for this Manager.
	Metrics *Metrics
}

// FailedError is returned by ReceiveNextEvent once the underlying Ctx has reached StateFailed.
type FailedError struct {
	Code gateway.CloseCode
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("manager: session failed permanently: %s", e.Code)
}

type frameResult struct {
	payload []byte
	err     error
}

// Manager owns one transport connection, one heartbeat pacemaker, and the gateway.Ctx they
// drive together.
type Manager struct {
	ctx  *gateway.Ctx
	opts Options

	gatewayURL  string
	transport   transport.Transport
	pacemaker   *pacemaker
	frames      chan frameResult
	correlation xid.ID

	group      *errgroup.Group
	groupClose context.CancelFunc
}

// Connect performs gateway URL discovery (unless Config.GatewayURL is set), dials the
// transport, reads the initial Hello frame, and starts the heartbeat pacemaker.
func Connect(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Dial == nil {
		opts.Dial = func(ctx context.Context, u string) (transport.Transport, error) {
			return transport.Dial(ctx, u)
		}
	}

	gwURL := opts.Config.GatewayURL
	if gwURL == "" {
		if opts.Discoverer == nil {
			return nil, errors.New("manager: Config.GatewayURL is empty and no Discoverer was supplied")
		}
		info, err := opts.Discoverer.DiscoverGateway(ctx)
		if err != nil {
			return nil, fmt.Errorf("manager: discovering gateway URL: %w", err)
		}
		gwURL = info.URL
	}

	m := &Manager{
		ctx:        gateway.New(opts.Config),
		opts:       opts,
		gatewayURL: gwURL,
	}

	tp, err := opts.Dial(ctx, m.dialURL())
	if err != nil {
		return nil, fmt.Errorf("manager: dialing gateway: %w", err)
	}

	if err := m.attach(ctx, tp); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) dialURL() string {
	return m.gatewayURL + "?v=" + gatewayVersion + "&encoding=json"
}

// attach wires a freshly-dialed transport into the Manager: it starts the read-loop goroutine,
// blocks for the mandatory initial Hello frame, hands it to Ctx (which decides Resume vs
// Identify from Ctx's own pre-attach state), and (re)arms the pacemaker at the interval Hello
// specified.
func (m *Manager) attach(ctx context.Context, tp transport.Transport) error {
	m.transport = tp
	m.frames = make(chan frameResult, 1)
	m.correlation = xid.New()

	groupCtx, cancel := context.WithCancel(ctx)
	m.group, _ = errgroup.WithContext(groupCtx)
	m.groupClose = cancel
	m.group.Go(func() error { return m.readLoop(groupCtx, tp) })

	raw, err := m.awaitFrame(ctx)
	if err != nil {
		return fmt.Errorf("manager: awaiting Hello: %w", err)
	}

	ev, err := gateway.DecodeEvent(raw)
	if err != nil {
		return fmt.Errorf("manager: decoding Hello: %w", err)
	}
	if ev.Kind != gateway.EventHello {
		return fmt.Errorf("manager: expected Hello as the first frame, got opcode kind %d", ev.Kind)
	}
	m.ctx.Recv(ev)

	m.pacemaker = newPacemaker(time.Duration(m.ctx.HeartbeatInterval()) * time.Millisecond)

	m.logSession(Logger.Info()).
		Uint64(LogCtxInterval, m.ctx.HeartbeatInterval()).
		Str(LogCtxState, m.ctx.State().String()).
		Msg("attached to gateway transport")

	// The Identify or Resume command Recv just queued must reach the wire before anything else
	// — including a heartbeat tick or the next inbound frame — is allowed to be processed.
	return m.flush(ctx)
}

// awaitFrame blocks for exactly one frame or context cancellation, used only while attaching
// (the steady-state loop selects frames against the pacemaker instead).
func (m *Manager) awaitFrame(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-m.frames:
		if res.err != nil {
			return nil, res.err
		}
		return res.payload, nil
	}
}

func (m *Manager) readLoop(ctx context.Context, tp transport.Transport) error {
	for {
		raw, err := tp.ReadFrame(ctx)
		select {
		case m.frames <- frameResult{payload: raw, err: err}:
		case <-ctx.Done():
			return ctx.Err()
		}
		if err != nil {
			return err
		}
	}
}

// ReceiveNextEvent is the single suspending operation applications drive in a loop: it blocks
// until a Dispatch event is ready, the session has failed permanently, or ctx is canceled.
func (m *Manager) ReceiveNextEvent(ctx context.Context) (gateway.DispatchEvent, error) {
	for {
		if ev, ok := m.ctx.Event(); ok {
			if err := m.flush(ctx); err != nil {
				return gateway.DispatchEvent{}, err
			}
			if m.opts.Metrics != nil {
				m.opts.Metrics.eventsReceived.WithLabelValues(ev.Name).Inc()
			}
			return ev, nil
		}

		if code, ok := m.ctx.Failed(); ok {
			return gateway.DispatchEvent{}, &FailedError{Code: code}
		}

		if m.ctx.ShouldReconnect() {
			if err := m.reconnect(ctx, "protocol"); err != nil {
				return gateway.DispatchEvent{}, err
			}
			continue
		}

		select {
		case <-ctx.Done():
			return gateway.DispatchEvent{}, ctx.Err()

		case <-m.pacemaker.C():
			if m.ctx.AckPending() {
				m.ctx.RecvCloseCode(gateway.CloseCode(transport.AbnormalCloseCode))
				if m.opts.Metrics != nil {
					m.opts.Metrics.forcedResumes.Inc()
				}
			} else {
				m.ctx.QueueHeartbeat()
				if m.opts.Metrics != nil {
					m.opts.Metrics.heartbeatsSent.WithLabelValues().Inc()
				}
			}
			m.pacemaker.reset()

		case res := <-m.frames:
			if res.err != nil {
				var closeErr *transport.CloseError
				if errors.As(res.err, &closeErr) {
					m.ctx.RecvCloseCode(gateway.CloseCode(closeErr.Code))
				} else {
					m.ctx.RecvCloseCode(gateway.CloseCode(transport.AbnormalCloseCode))
				}
			} else if err := m.ctx.RecvJSON(res.payload); err != nil {
				// Decode error: drop the frame, state unchanged. The gateway typically closes
				// with 4002 on its own malformed frames, which is recoverable.
				continue
			}
		}

		if err := m.flush(ctx); err != nil {
			return gateway.DispatchEvent{}, err
		}
	}
}

// flush drains every queued outbound command and writes it to the transport, in order. A write
// failure is treated as an abnormal close: the next loop iteration reconnects.
func (m *Manager) flush(ctx context.Context) error {
	for _, cmd := range m.ctx.SendIter() {
		payload, err := gateway.EncodeCommand(cmd)
		if err != nil {
			continue
		}

		if err := m.transport.WriteFrame(ctx, payload); err != nil {
			m.ctx.RecvCloseCode(gateway.CloseCode(transport.AbnormalCloseCode))
			return nil
		}

		if m.opts.Metrics != nil {
			m.opts.Metrics.commandsSent.WithLabelValues(commandKindLabel(int(cmd.Kind))).Inc()
		}
	}
	return nil
}

// reconnect tears down the current transport, waits for its read loop to exit, and dials a
// fresh one at the same gateway URL. The next Hello read through attach drives Resume or
// Identify according to Ctx's state, which reconnect itself never inspects.
func (m *Manager) reconnect(ctx context.Context, reason string) error {
	if m.opts.Metrics != nil {
		m.opts.Metrics.reconnects.WithLabelValues(reason).Inc()
	}

	if m.transport != nil {
		_ = m.transport.Close(ctx, 1000)
	}
	if m.group != nil {
		m.groupClose()
		_ = m.group.Wait()
	}

	tp, err := m.opts.Dial(ctx, m.dialURL())
	if err != nil {
		return fmt.Errorf("manager: reconnect dial: %w", err)
	}

	return m.attach(ctx, tp)
}

// EnqueueCommand relays an application-issued command (presence update, voice state change,
// guild member request) to Ctx's outbound queue; it is flushed on the next ReceiveNextEvent
// iteration.
func (m *Manager) EnqueueCommand(cmd gateway.GatewayCommand) {
	m.ctx.EnqueueCommand(cmd)
}

// State returns the current protocol state, primarily useful for health checks and logging.
func (m *Manager) State() gateway.State { return m.ctx.State() }

// Close tears down the transport and stops the pacemaker. It does not mutate Ctx: a Manager
// that has been Closed should be discarded, not reused.
func (m *Manager) Close(ctx context.Context) error {
	if m.pacemaker != nil {
		m.pacemaker.stop()
	}
	if m.groupClose != nil {
		m.groupClose()
	}
	if m.transport == nil {
		return nil
	}
	return m.transport.Close(ctx, 1000)
}
