// Package gateway implements the Discord Gateway protocol as a pure, sans-I/O state machine.
//
// Ctx never touches a socket, a clock, or a JSON library directly (decoding is an optional
// convenience, see json.go). It accepts decoded GatewayEvent values and a close code, and
// produces two FIFOs: outbound GatewayCommand values to transmit, and DispatchEvent values to
// surface to the application. Every method is synchronous and returns immediately; driving an
// actual connection is the job of a Manager built on top of this package.
package gateway

import "fmt"

// Ctx is the Discord Gateway protocol state machine.
//
// A Ctx is not safe for concurrent use; callers that share one across goroutines must
// synchronize externally.
type Ctx struct {
	config Config

	seq               int64
	sessionID         string
	heartbeatInterval uint64
	state             State
	failedCode        CloseCode
	socketClosed      bool
	ackPending        bool

	sendQueue []GatewayCommand
	recvQueue []DispatchEvent
}

// New constructs a Ctx in state StateClosed with empty queues.
//
// New panics if config.Token is empty: an empty token is a precondition violation the caller
// must fix before attempting to connect, not a recoverable runtime condition.
func New(config Config) *Ctx {
	if config.Token == "" {
		panic("gateway: Config.Token must not be empty")
	}

	return &Ctx{config: config.withDefaults()}
}

// Recv applies an inbound GatewayEvent, mutating state and the outbound/inbound queues as
// dictated by the protocol transition table. Recv never fails and never blocks.
func (c *Ctx) Recv(ev GatewayEvent) {
	c.socketClosed = false

	switch ev.Kind {
	case EventInvalidateSession:
		if c.state == StateFailed {
			return
		}
		if ev.Resumable {
			c.state = StateResume
		} else {
			c.state = StateReconnect
		}

	case EventReconnect:
		if c.state == StateFailed {
			return
		}
		c.state = StateResume

	case EventHeartbeatRequest:
		if c.state == StateFailed {
			return
		}
		c.queueHeartbeat()

	case EventHeartbeatAck:
		c.ackPending = false

	case EventHello:
		if c.state == StateFailed {
			return
		}

		c.heartbeatInterval = ev.HeartbeatInterval

		if c.state == StateResume || c.state == StateReady {
			c.state = StateReplaying
			c.sendQueue = append(c.sendQueue, resumeCommand(Resume{
				Token:     c.config.Token,
				SessionID: c.sessionID,
				Seq:       c.seq,
			}))
		} else {
			c.state = StateIdentify
			c.sendQueue = append(c.sendQueue, identifyCommand(c.buildIdentify()))
		}

	case EventDispatch:
		c.seq = ev.Seq

		switch ev.Dispatch.Kind {
		case DispatchReady:
			if ev.Dispatch.Ready != nil {
				c.sessionID = ev.Dispatch.Ready.SessionID
			}
			if c.state != StateFailed {
				c.state = StateReady
			}
		case DispatchResumed:
			if c.state != StateFailed {
				c.state = StateReady
			}
		}

		c.recvQueue = append(c.recvQueue, ev.Dispatch)
	}
}

// RecvCloseCode informs the Ctx that the underlying transport has closed with the given code.
//
// It sets socket_closed, and transitions to Resume (recoverable codes) or the absorbing Failed
// state (non-recoverable codes). Failed is sticky: once reached, a later close code cannot
// move the state elsewhere.
func (c *Ctx) RecvCloseCode(code CloseCode) {
	c.socketClosed = true

	if c.state == StateFailed {
		return
	}

	if code.IsRecoverable() {
		c.state = StateResume
		return
	}

	c.state = StateFailed
	c.failedCode = code
}

// QueueHeartbeat appends a Heartbeat(seq) command built from the current sequence number.
//
// It is the only Ctx entry point a Manager's own clock drives directly, as opposed to one
// triggered by an inbound frame. It is a no-op once the Ctx has failed: there is no transport
// left worth pacing.
func (c *Ctx) QueueHeartbeat() {
	if c.state == StateFailed {
		return
	}
	c.queueHeartbeat()
}

func (c *Ctx) queueHeartbeat() {
	c.ackPending = true
	c.sendQueue = append(c.sendQueue, heartbeatCommand(c.seq))
}

// EnqueueCommand appends a caller-supplied command — presence updates, voice state changes,
// guild member requests — to the outbound queue for the Manager to relay verbatim.
func (c *Ctx) EnqueueCommand(cmd GatewayCommand) {
	c.sendQueue = append(c.sendQueue, cmd)
}

// State returns the current protocol state.
func (c *Ctx) State() State { return c.state }

// HeartbeatInterval returns the interval, in milliseconds, most recently set by a Hello event.
// It is 0 until the first Hello arrives.
func (c *Ctx) HeartbeatInterval() uint64 { return c.heartbeatInterval }

// SessionID returns the session identifier established by the most recent Ready dispatch, or
// the empty string before one has arrived.
func (c *Ctx) SessionID() string { return c.sessionID }

// Seq returns the sequence number of the last Dispatch event observed, or 0 before any.
func (c *Ctx) Seq() int64 { return c.seq }

// SocketClosed reports whether the underlying transport is believed closed: true immediately
// after RecvCloseCode, cleared by the next Recv call.
func (c *Ctx) SocketClosed() bool { return c.socketClosed }

// ShouldReconnect reports whether the Manager should tear down and re-establish the transport.
//
// It is true while state is Resume or Reconnect, or whenever the socket is observed closed in
// any non-Failed state. It is always false once Failed, regardless of socket_closed.
func (c *Ctx) ShouldReconnect() bool {
	if c.state == StateFailed {
		return false
	}
	return c.state == StateResume || c.state == StateReconnect || c.socketClosed
}

// Failed returns the terminal close code and true if the Ctx has reached StateFailed, or the
// zero CloseCode and false otherwise.
func (c *Ctx) Failed() (CloseCode, bool) {
	if c.state != StateFailed {
		return 0, false
	}
	return c.failedCode, true
}

// AckPending reports whether a Heartbeat has been sent without a matching HeartbeatAck yet.
//
// A Manager should treat a still-pending ack at the next heartbeat tick as a dead connection:
// the present policy is to force a reconnect (see RecvCloseCode) rather than send a second
// heartbeat on top of an unacknowledged one.
func (c *Ctx) AckPending() bool { return c.ackPending }

// Event pops the oldest undelivered DispatchEvent, or reports ok == false if none is queued.
func (c *Ctx) Event() (ev DispatchEvent, ok bool) {
	if len(c.recvQueue) == 0 {
		return DispatchEvent{}, false
	}
	ev, c.recvQueue = c.recvQueue[0], c.recvQueue[1:]
	return ev, true
}

// EventIter drains every queued DispatchEvent in FIFO order.
func (c *Ctx) EventIter() []DispatchEvent {
	drained := c.recvQueue
	c.recvQueue = nil
	return drained
}

// Send pops the oldest unsent GatewayCommand, or reports ok == false if none is queued.
func (c *Ctx) Send() (cmd GatewayCommand, ok bool) {
	if len(c.sendQueue) == 0 {
		return GatewayCommand{}, false
	}
	cmd, c.sendQueue = c.sendQueue[0], c.sendQueue[1:]
	return cmd, true
}

// SendIter drains every queued GatewayCommand in FIFO order.
func (c *Ctx) SendIter() []GatewayCommand {
	drained := c.sendQueue
	c.sendQueue = nil
	return drained
}

func (c *Ctx) buildIdentify() Identify {
	shard := c.config.Shard
	return Identify{
		Token:          c.config.Token,
		Properties:     c.config.IdentifyProperties,
		Compress:       false,
		Intents:        c.config.Intents,
		LargeThreshold: c.config.LargeThreshold,
		Shard:          &shard,
		Presence:       c.config.Presence,
	}
}

// String implements fmt.Stringer for debugging and log messages.
func (c *Ctx) String() string {
	return fmt.Sprintf("Ctx{state=%s seq=%d session=%q heartbeat=%dms}",
		c.state, c.seq, c.sessionID, c.heartbeatInterval)
}
