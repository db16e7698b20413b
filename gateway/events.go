package gateway

import "github.com/goccy/go-json"

// EventKind discriminates the variants of a GatewayEvent.
//
// Ctx only ever inspects the discriminator and the handful of fields the state machine cares
// about; it does not model every Dispatch payload shape.
type EventKind uint8

// GatewayEvent variants, one per inbound gateway opcode that Ctx understands.
const (
	EventHello EventKind = iota
	EventHeartbeatRequest
	EventHeartbeatAck
	EventReconnect
	EventInvalidateSession
	EventDispatch
)

// GatewayEvent is a tagged union of every inbound frame Ctx can receive via Recv.
//
// Only the fields relevant to Kind are populated; the rest are zero.
type GatewayEvent struct {
	Kind EventKind

	// HeartbeatInterval is populated for EventHello, in milliseconds.
	HeartbeatInterval uint64

	// LastSeq is populated for EventHeartbeatRequest: the seq the server last observed.
	LastSeq int64

	// Resumable is populated for EventInvalidateSession.
	Resumable bool

	// Seq and Dispatch are populated for EventDispatch.
	Seq      int64
	Dispatch DispatchEvent
}

// HelloEvent constructs the GatewayEvent received as Opcode 10.
func HelloEvent(heartbeatInterval uint64) GatewayEvent {
	return GatewayEvent{Kind: EventHello, HeartbeatInterval: heartbeatInterval}
}

// HeartbeatRequestEvent constructs the GatewayEvent received as Opcode 1 (server-initiated).
func HeartbeatRequestEvent(lastSeq int64) GatewayEvent {
	return GatewayEvent{Kind: EventHeartbeatRequest, LastSeq: lastSeq}
}

// HeartbeatAckEvent constructs the GatewayEvent received as Opcode 11.
func HeartbeatAckEvent() GatewayEvent {
	return GatewayEvent{Kind: EventHeartbeatAck}
}

// ReconnectEvent constructs the GatewayEvent received as Opcode 7.
func ReconnectEvent() GatewayEvent {
	return GatewayEvent{Kind: EventReconnect}
}

// InvalidateSessionEvent constructs the GatewayEvent received as Opcode 9.
func InvalidateSessionEvent(resumable bool) GatewayEvent {
	return GatewayEvent{Kind: EventInvalidateSession, Resumable: resumable}
}

// DispatchGatewayEvent constructs the GatewayEvent received as Opcode 0.
func DispatchGatewayEvent(seq int64, d DispatchEvent) GatewayEvent {
	return GatewayEvent{Kind: EventDispatch, Seq: seq, Dispatch: d}
}

// DispatchKind discriminates the variants of a DispatchEvent that Ctx inspects by name.
//
// Every Dispatch Event Name other than READY and RESUMED is surfaced as DispatchUnknown,
// carrying its name and raw payload opaquely — the core never models event bodies it does not
// need to make a state transition decision on.
type DispatchKind uint8

const (
	DispatchReady DispatchKind = iota
	DispatchResumed
	DispatchUnknown
)

// DispatchEvent is a tagged union of the Dispatch payloads Ctx can be handed.
type DispatchEvent struct {
	Kind DispatchKind

	// Name is the Dispatch Event Name from the "t" field, e.g. "READY", "MESSAGE_CREATE".
	Name string

	// Ready is populated when Kind == DispatchReady.
	Ready *Ready

	// Raw carries the undecoded payload for DispatchUnknown events, so applications can decode
	// it into their own richer event models without this package needing to know their shape.
	Raw json.RawMessage
}

// ReadyDispatch constructs a DispatchEvent carrying a Ready payload.
func ReadyDispatch(r *Ready) DispatchEvent {
	return DispatchEvent{Kind: DispatchReady, Name: FlagGatewayEventNameReady, Ready: r}
}

// ResumedDispatch constructs a DispatchEvent for a RESUMED payload.
func ResumedDispatch() DispatchEvent {
	return DispatchEvent{Kind: DispatchResumed, Name: FlagGatewayEventNameResumed}
}

// UnknownDispatch constructs a DispatchEvent for an event name Ctx does not model.
func UnknownDispatch(name string, raw json.RawMessage) DispatchEvent {
	return DispatchEvent{Kind: DispatchUnknown, Name: name, Raw: raw}
}

// Ready is the subset of the READY Dispatch payload that Ctx inspects to establish a session.
//
// https://discord.com/developers/docs/topics/gateway-events#ready
type Ready struct {
	Version   int       `json:"v"`
	SessionID string    `json:"session_id"`
	User      ReadyUser `json:"user"`
	Shard     *[2]int   `json:"shard,omitempty"`
}

// ReadyUser is the subset of the User resource present in a READY payload.
type ReadyUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
}
