package manager

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Logger is the package-wide zerolog.Logger every Manager logs to.
//
// It defaults to Disabled so that embedding applications opt into Manager logging explicitly,
// the same default disgo ships for its own Logger.
var Logger = zerolog.New(os.Stdout).Level(zerolog.Disabled)

// Log field keys, matching the flat key-per-concept convention used throughout this module's
// ambient logging rather than nested nested structs.
const (
	LogCtxSession     = "session"
	LogCtxCorrelation = "xid"
	LogCtxState       = "state"
	LogCtxOpcode      = "opcode"
	LogCtxCloseCode   = "close_code"
	LogCtxInterval    = "heartbeat_interval"
	LogCtxReason      = "reason"
)

// logSession returns a log event pre-populated with the correlation ID for one connection
// generation, so every line logged across a reconnect attempt can be grepped together.
func (m *Manager) logSession(ev *zerolog.Event) *zerolog.Event {
	return ev.Timestamp().
		Str(LogCtxCorrelation, m.correlation.String()).
		Str(LogCtxSession, m.ctx.SessionID())
}
