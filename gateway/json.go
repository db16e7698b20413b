package gateway

import (
	"fmt"

	"github.com/goccy/go-json"
)

// envelope mirrors the Discord Gateway wire frame {"op", "s", "t", "d"}.
type envelope struct {
	Op   int             `json:"op"`
	Seq  *int64          `json:"s,omitempty"`
	Name *string         `json:"t,omitempty"`
	Data json.RawMessage `json:"d,omitempty"`
}

// helloData is the payload of a Hello frame.
type helloData struct {
	HeartbeatInterval uint64 `json:"heartbeat_interval"`
}

// invalidSessionData is the payload of an InvalidSession frame: a bare JSON boolean.
type invalidSessionData bool

// DecodeEvent parses a raw gateway text frame into a GatewayEvent.
//
// DecodeEvent is the convenience JSON adapter layered on top of the sans-I/O core; a Manager
// implementation is free to decode frames itself and call Recv directly instead.
func DecodeEvent(raw []byte) (GatewayEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return GatewayEvent{}, fmt.Errorf("gateway: decode envelope: %w", err)
	}

	switch env.Op {
	case FlagOpcodesGatewayDispatch:
		return decodeDispatch(env)

	case FlagOpcodesGatewayHeartbeat:
		var lastSeq int64
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &lastSeq); err != nil {
				return GatewayEvent{}, fmt.Errorf("gateway: decode heartbeat request: %w", err)
			}
		}
		return HeartbeatRequestEvent(lastSeq), nil

	case FlagOpcodesGatewayReconnect:
		return ReconnectEvent(), nil

	case FlagOpcodesGatewayInvalidSession:
		var resumable invalidSessionData
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &resumable); err != nil {
				return GatewayEvent{}, fmt.Errorf("gateway: decode invalid session: %w", err)
			}
		}
		return InvalidateSessionEvent(bool(resumable)), nil

	case FlagOpcodesGatewayHello:
		var h helloData
		if err := json.Unmarshal(env.Data, &h); err != nil {
			return GatewayEvent{}, fmt.Errorf("gateway: decode hello: %w", err)
		}
		return HelloEvent(h.HeartbeatInterval), nil

	case FlagOpcodesGatewayHeartbeatACK:
		return HeartbeatAckEvent(), nil

	default:
		return GatewayEvent{}, fmt.Errorf("gateway: unrecognized opcode %d", env.Op)
	}
}

func decodeDispatch(env envelope) (GatewayEvent, error) {
	var seq int64
	if env.Seq != nil {
		seq = *env.Seq
	}

	name := ""
	if env.Name != nil {
		name = *env.Name
	}

	switch name {
	case FlagGatewayEventNameReady:
		var r Ready
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return GatewayEvent{}, fmt.Errorf("gateway: decode READY: %w", err)
		}
		return DispatchGatewayEvent(seq, ReadyDispatch(&r)), nil

	case FlagGatewayEventNameResumed:
		return DispatchGatewayEvent(seq, ResumedDispatch()), nil

	default:
		return DispatchGatewayEvent(seq, UnknownDispatch(name, env.Data)), nil
	}
}

// RecvJSON decodes a raw gateway text frame and applies it via Recv in one step.
func (c *Ctx) RecvJSON(raw []byte) error {
	ev, err := DecodeEvent(raw)
	if err != nil {
		return err
	}
	c.Recv(ev)
	return nil
}

// EncodeCommand serializes a GatewayCommand into the {"op", "d"} wire envelope a transport
// writes verbatim.
func EncodeCommand(cmd GatewayCommand) ([]byte, error) {
	var out struct {
		Op int `json:"op"`
		D  any `json:"d"`
	}

	switch cmd.Kind {
	case CommandIdentify:
		out.Op, out.D = FlagOpcodesGatewayIdentify, cmd.Identify
	case CommandResume:
		out.Op, out.D = FlagOpcodesGatewayResume, cmd.Resume
	case CommandHeartbeat:
		out.Op, out.D = FlagOpcodesGatewayHeartbeat, cmd.Heartbeat
	case CommandRequestGuildMembers:
		out.Op, out.D = FlagOpcodesGatewayRequestGuildMembers, cmd.RequestGuildMembers
	case CommandUpdateVoiceState:
		out.Op, out.D = FlagOpcodesGatewayVoiceStateUpdate, cmd.UpdateVoiceState
	case CommandUpdatePresence:
		out.Op, out.D = FlagOpcodesGatewayPresenceUpdate, cmd.UpdatePresence
	default:
		return nil, fmt.Errorf("gateway: unknown command kind %d", cmd.Kind)
	}

	return json.Marshal(out)
}
