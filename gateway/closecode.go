package gateway

import "fmt"

// CloseCode represents a Discord Gateway WebSocket Close Event Code.
//
// https://discord.com/developers/docs/topics/opcodes-and-status-codes#gateway-gateway-close-event-codes
type CloseCode uint16

// Gateway Close Event Codes.
const (
	CloseCodeUnknownError         CloseCode = 4000
	CloseCodeUnknownOpcode        CloseCode = 4001
	CloseCodeDecodeError          CloseCode = 4002
	CloseCodeNotAuthenticated     CloseCode = 4003
	CloseCodeAuthenticationFailed CloseCode = 4004
	CloseCodeAlreadyAuthenticated CloseCode = 4005
	CloseCodeInvalidSeq           CloseCode = 4007
	CloseCodeRateLimited          CloseCode = 4008
	CloseCodeSessionTimedOut      CloseCode = 4009
	CloseCodeInvalidShard         CloseCode = 4010
	CloseCodeShardingRequired     CloseCode = 4011
	CloseCodeInvalidAPIVersion    CloseCode = 4012
	CloseCodeInvalidIntents       CloseCode = 4013
	CloseCodeDisallowedIntents    CloseCode = 4014
)

// closeCodeDescriptions maps a known CloseCode to a human-readable explanation.
var closeCodeDescriptions = map[CloseCode]string{
	CloseCodeUnknownError:         "unknown error",
	CloseCodeUnknownOpcode:        "unknown opcode",
	CloseCodeDecodeError:          "decode error",
	CloseCodeNotAuthenticated:     "not authenticated",
	CloseCodeAuthenticationFailed: "authentication failed",
	CloseCodeAlreadyAuthenticated: "already authenticated",
	CloseCodeInvalidSeq:           "invalid seq",
	CloseCodeRateLimited:          "rate limited",
	CloseCodeSessionTimedOut:      "session timed out",
	CloseCodeInvalidShard:         "invalid shard",
	CloseCodeShardingRequired:     "sharding required",
	CloseCodeInvalidAPIVersion:    "invalid API version",
	CloseCodeInvalidIntents:       "invalid intent(s)",
	CloseCodeDisallowedIntents:    "disallowed intent(s)",
}

// nonRecoverableCloseCodes lists the Close Event Codes that terminate a session for good.
//
// Every other code — including non-4xxx codes such as 1000 (Normal) and 1006 (Abnormal) — is
// treated as recoverable by resuming the session.
var nonRecoverableCloseCodes = map[CloseCode]bool{
	CloseCodeAuthenticationFailed: true,
	CloseCodeInvalidShard:         true,
	CloseCodeShardingRequired:     true,
	CloseCodeInvalidAPIVersion:    true,
	CloseCodeInvalidIntents:       true,
	CloseCodeDisallowedIntents:    true,
}

// IsRecoverable reports whether a dropped connection using this CloseCode can be resumed.
func (c CloseCode) IsRecoverable() bool {
	return !nonRecoverableCloseCodes[c]
}

// String implements fmt.Stringer.
func (c CloseCode) String() string {
	if desc, ok := closeCodeDescriptions[c]; ok {
		return fmt.Sprintf("%d (%s)", uint16(c), desc)
	}

	return fmt.Sprintf("%d", uint16(c))
}
