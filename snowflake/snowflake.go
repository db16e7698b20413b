// Package snowflake implements Discord's Snowflake ID format: a 64-bit integer encoding a
// creation timestamp plus worker/process/increment bits, always transmitted as a JSON string
// to avoid precision loss in languages whose numbers can't hold a full uint64.
//
// https://discord.com/developers/docs/reference#snowflakes
package snowflake

import (
	"fmt"
	"strconv"
)

// discordEpochMillis is the first millisecond of the Discord Epoch (2015-01-01T00:00:00.000Z),
// the zero point Snowflake timestamps are offset from.
const discordEpochMillis = 1420070400000

// ID is a Discord Snowflake.
type ID uint64

// New wraps a raw uint64 ID.
func New(v uint64) ID { return ID(v) }

// Parse parses a decimal Snowflake string, the wire representation Discord always uses.
func Parse(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("snowflake: parse %q: %w", s, err)
	}
	return ID(v), nil
}

// Timestamp returns the creation time of this ID in milliseconds since the Unix epoch.
func (id ID) Timestamp() uint64 {
	return uint64(id>>22) + discordEpochMillis
}

// InternalWorkerID returns the internal worker ID bits this ID was generated on.
func (id ID) InternalWorkerID() uint64 {
	return (uint64(id) & 0x3E0000) >> 17
}

// InternalProcessID returns the internal process ID bits this ID was generated on.
func (id ID) InternalProcessID() uint64 {
	return (uint64(id) & 0x1F000) >> 12
}

// Increment returns the per-process increment for this ID.
func (id ID) Increment() uint64 {
	return uint64(id) & 0xFFF
}

// String returns the decimal representation, the same text Discord transmits on the wire.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// MarshalJSON encodes the ID as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON decodes an ID from a JSON string or, leniently, a bare JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("snowflake: unmarshal %s: %w", data, err)
	}

	*id = ID(v)
	return nil
}
