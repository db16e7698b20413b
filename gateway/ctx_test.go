package gateway

import "testing"

func testConfig() Config {
	return Config{Token: "test-token", Intents: IntentGuilds}
}

func TestNewPanicsOnEmptyToken(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected New to panic on empty token")
		}
	}()
	New(Config{})
}

func TestNewInitialState(t *testing.T) {
	c := New(testConfig())
	if c.State() != StateClosed {
		t.Fatalf("State() = %s, want Closed", c.State())
	}
	if _, ok := c.Event(); ok {
		t.Fatal("expected empty recv queue")
	}
	if _, ok := c.Send(); ok {
		t.Fatal("expected empty send queue")
	}
}

// S1 — Fresh connection.
func TestFreshConnection(t *testing.T) {
	c := New(testConfig())

	c.Recv(HelloEvent(10))
	if c.HeartbeatInterval() != 10 {
		t.Fatalf("HeartbeatInterval() = %d, want 10", c.HeartbeatInterval())
	}
	if c.State() != StateIdentify {
		t.Fatalf("State() = %s, want Identify", c.State())
	}

	cmd, ok := c.Send()
	if !ok || cmd.Kind != CommandIdentify {
		t.Fatalf("expected a single Identify command, got %+v ok=%v", cmd, ok)
	}
	if cmd.Identify.Token != "test-token" {
		t.Fatalf("Identify.Token = %q, want test-token", cmd.Identify.Token)
	}
	if *cmd.Identify.Shard != ([2]int{0, 1}) {
		t.Fatalf("Identify.Shard = %v, want [0 1]", *cmd.Identify.Shard)
	}
	if _, ok := c.Send(); ok {
		t.Fatal("expected exactly one command emitted")
	}

	c.Recv(DispatchGatewayEvent(0, ReadyDispatch(&Ready{SessionID: "S"})))
	if c.State() != StateReady {
		t.Fatalf("State() = %s, want Ready", c.State())
	}
	if c.SessionID() != "S" {
		t.Fatalf("SessionID() = %q, want S", c.SessionID())
	}
	if c.Seq() != 0 {
		t.Fatalf("Seq() = %d, want 0", c.Seq())
	}

	ev, ok := c.Event()
	if !ok || ev.Kind != DispatchReady {
		t.Fatalf("expected Ready dispatch event, got %+v ok=%v", ev, ok)
	}
}

// S2 — Resume across transport bounce.
func TestResumeAcrossTransportBounce(t *testing.T) {
	c := New(testConfig())
	c.Recv(HelloEvent(10))
	c.Send()
	c.Recv(DispatchGatewayEvent(0, ReadyDispatch(&Ready{SessionID: "S"})))
	c.Event()

	c.Recv(DispatchGatewayEvent(7, UnknownDispatch("MESSAGE_CREATE", nil)))
	c.Event()
	if c.Seq() != 7 {
		t.Fatalf("Seq() = %d, want 7", c.Seq())
	}

	c.RecvCloseCode(1006)
	if !c.ShouldReconnect() {
		t.Fatal("expected ShouldReconnect() after recoverable close")
	}

	c.Recv(HelloEvent(15))
	if c.State() != StateReplaying {
		t.Fatalf("State() = %s, want Replaying", c.State())
	}

	cmd, ok := c.Send()
	if !ok || cmd.Kind != CommandResume {
		t.Fatalf("expected a single Resume command, got %+v ok=%v", cmd, ok)
	}
	if cmd.Resume.SessionID != "S" || cmd.Resume.Seq != 7 || cmd.Resume.Token != "test-token" {
		t.Fatalf("unexpected Resume payload: %+v", cmd.Resume)
	}

	c.Recv(DispatchGatewayEvent(7, ResumedDispatch()))
	if c.State() != StateReady {
		t.Fatalf("State() = %s, want Ready", c.State())
	}
}

// S3 — InvalidateSession non-resumable.
func TestInvalidateSessionNonResumable(t *testing.T) {
	c := New(testConfig())
	c.Recv(HelloEvent(10))
	c.Send()
	c.Recv(DispatchGatewayEvent(0, ReadyDispatch(&Ready{SessionID: "S"})))
	c.Event()

	c.Recv(InvalidateSessionEvent(false))
	if c.State() != StateReconnect {
		t.Fatalf("State() = %s, want Reconnect", c.State())
	}
	if _, ok := c.Send(); ok {
		t.Fatal("expected no command emitted on InvalidateSession(false)")
	}

	c.Recv(HelloEvent(20))
	cmd, ok := c.Send()
	if !ok || cmd.Kind != CommandIdentify {
		t.Fatalf("expected Identify after Reconnect-state Hello, got %+v ok=%v", cmd, ok)
	}
}

// S4 — Fatal close.
func TestFatalClose(t *testing.T) {
	c := New(testConfig())

	c.RecvCloseCode(CloseCodeAuthenticationFailed)
	if c.State() != StateFailed {
		t.Fatalf("State() = %s, want Failed", c.State())
	}

	code, ok := c.Failed()
	if !ok || code != CloseCodeAuthenticationFailed {
		t.Fatalf("Failed() = %v, %v; want AuthenticationFailed, true", code, ok)
	}
	if c.ShouldReconnect() {
		t.Fatal("expected ShouldReconnect() == false once Failed")
	}

	c.Recv(HelloEvent(10))
	if c.State() != StateFailed {
		t.Fatal("expected Failed to be absorbing across a subsequent Hello")
	}
	if _, ok := c.Send(); ok {
		t.Fatal("expected no commands produced once Failed")
	}
}

// S5 — Heartbeat request from server.
func TestHeartbeatRequestFromServer(t *testing.T) {
	c := New(testConfig())
	c.Recv(HelloEvent(10))
	c.Send()
	before := c.State()

	c.Recv(HeartbeatRequestEvent(99))
	if c.State() != before {
		t.Fatalf("State() changed from %s to %s on Heartbeat(_)", before, c.State())
	}

	cmd, ok := c.Send()
	if !ok || cmd.Kind != CommandHeartbeat {
		t.Fatalf("expected a single Heartbeat command, got %+v ok=%v", cmd, ok)
	}
	if *cmd.Heartbeat != c.Seq() {
		t.Fatalf("Heartbeat payload = %d, want Seq() = %d", *cmd.Heartbeat, c.Seq())
	}
	if _, ok := c.Send(); ok {
		t.Fatal("expected exactly one command emitted")
	}
}

// S6 — Out-of-order dispatch tolerated.
func TestOutOfOrderDispatchTolerated(t *testing.T) {
	c := New(testConfig())

	c.Recv(DispatchGatewayEvent(5, UnknownDispatch("X", nil)))
	c.Recv(DispatchGatewayEvent(4, UnknownDispatch("Y", nil)))

	events := c.EventIter()
	if len(events) != 2 || events[0].Name != "X" || events[1].Name != "Y" {
		t.Fatalf("expected [X Y] in input order, got %+v", events)
	}
	if c.Seq() != 4 {
		t.Fatalf("Seq() = %d, want 4 (core trusts server order)", c.Seq())
	}
}

func TestQueueHeartbeatAppendsExactlyOne(t *testing.T) {
	c := New(testConfig())
	c.QueueHeartbeat()

	if _, ok := c.Event(); ok {
		t.Fatal("QueueHeartbeat must not touch the recv queue")
	}

	cmd, ok := c.Send()
	if !ok || cmd.Kind != CommandHeartbeat {
		t.Fatalf("expected a Heartbeat command, got %+v ok=%v", cmd, ok)
	}
	if _, ok := c.Send(); ok {
		t.Fatal("expected exactly one Heartbeat command")
	}
}

func TestSeqMonotonicAcrossMixedInputs(t *testing.T) {
	c := New(testConfig())
	c.Recv(HelloEvent(10))
	c.Send()

	seqs := []int64{1, 1, 3, 3, 3, 9}
	var last int64
	for _, s := range seqs {
		c.Recv(DispatchGatewayEvent(s, UnknownDispatch("X", nil)))
		if c.Seq() < last {
			t.Fatalf("seq decreased: %d -> %d", last, c.Seq())
		}
		last = c.Seq()
	}
}

func TestNoOpHeartbeatAckSequenceLeavesStateUnchanged(t *testing.T) {
	c := New(testConfig())
	c.Recv(HelloEvent(10))
	c.Send()
	c.Recv(DispatchGatewayEvent(3, ReadyDispatch(&Ready{SessionID: "S"})))
	c.Event()

	stateBefore, seqBefore, sessionBefore := c.State(), c.Seq(), c.SessionID()

	for i := 0; i < 3; i++ {
		c.Recv(HeartbeatAckEvent())
	}

	if c.State() != stateBefore || c.Seq() != seqBefore || c.SessionID() != sessionBefore {
		t.Fatal("repeated HeartbeatAck must not mutate state, seq, or session_id")
	}
	if _, ok := c.Send(); ok {
		t.Fatal("repeated HeartbeatAck must not enqueue commands")
	}
}

func TestJSONRoundTripHeartbeat(t *testing.T) {
	raw, err := EncodeCommand(heartbeatCommand(42))
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	ev, err := DecodeEvent(raw)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Kind != EventHeartbeatRequest || ev.LastSeq != 42 {
		t.Fatalf("round trip mismatch: %+v", ev)
	}
}
