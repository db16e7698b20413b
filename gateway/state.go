package gateway

import "fmt"

// State represents the current state of a Ctx.
//
// State does NOT reflect the state of the underlying transport connection itself; it reflects
// what the gateway protocol expects to happen next.
type State uint8

// Ctx states.
const (
	// StateClosed is the initial state: no HELLO has been received yet.
	StateClosed State = iota

	// StateIdentify indicates an Identify command was queued and a READY is awaited.
	StateIdentify

	// StateReady indicates the session is fully established (READY or RESUMED was received).
	StateReady

	// StateReconnect indicates the transport must be re-established before resuming is possible.
	StateReconnect

	// StateResume indicates the transport must be re-established and the next HELLO should
	// result in a Resume command rather than a fresh Identify.
	StateResume

	// StateReplaying indicates a Resume command was sent and missed Dispatch events are
	// being replayed, pending a RESUMED Dispatch event.
	StateReplaying

	// StateFailed is an absorbing state: the session is terminated and will not reconnect.
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateIdentify:
		return "Identify"
	case StateReady:
		return "Ready"
	case StateReconnect:
		return "Reconnect"
	case StateResume:
		return "Resume"
	case StateReplaying:
		return "Replaying"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}
