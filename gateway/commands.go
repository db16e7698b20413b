package gateway

// CommandKind discriminates the variants of a GatewayCommand.
type CommandKind uint8

// GatewayCommand variants, one per outbound opcode Ctx or a caller can enqueue.
const (
	CommandIdentify CommandKind = iota
	CommandResume
	CommandHeartbeat
	CommandRequestGuildMembers
	CommandUpdateVoiceState
	CommandUpdatePresence
)

// GatewayCommand is a tagged union of every outbound frame Send/SendIter can yield.
//
// Only the field matching Kind is populated.
type GatewayCommand struct {
	Kind CommandKind

	Identify            *Identify
	Resume              *Resume
	Heartbeat           *int64
	RequestGuildMembers *RequestGuildMembers
	UpdateVoiceState    *UpdateVoiceState
	UpdatePresence      *UpdatePresence
}

func identifyCommand(id Identify) GatewayCommand {
	return GatewayCommand{Kind: CommandIdentify, Identify: &id}
}

func resumeCommand(r Resume) GatewayCommand {
	return GatewayCommand{Kind: CommandResume, Resume: &r}
}

func heartbeatCommand(seq int64) GatewayCommand {
	return GatewayCommand{Kind: CommandHeartbeat, Heartbeat: &seq}
}

// RequestGuildMembersCommand wraps an application-issued Opcode 8 request for relay through
// EnqueueCommand.
func RequestGuildMembersCommand(r RequestGuildMembers) GatewayCommand {
	return GatewayCommand{Kind: CommandRequestGuildMembers, RequestGuildMembers: &r}
}

// UpdateVoiceStateCommand wraps an application-issued Opcode 4 request for relay through
// EnqueueCommand.
func UpdateVoiceStateCommand(v UpdateVoiceState) GatewayCommand {
	return GatewayCommand{Kind: CommandUpdateVoiceState, UpdateVoiceState: &v}
}

// UpdatePresenceCommand wraps an application-issued Opcode 3 request for relay through
// EnqueueCommand.
func UpdatePresenceCommand(p UpdatePresence) GatewayCommand {
	return GatewayCommand{Kind: CommandUpdatePresence, UpdatePresence: &p}
}

// Identify is the Opcode 2 payload sent to start a new session.
//
// https://discord.com/developers/docs/topics/gateway-events#identify
type Identify struct {
	Token          string             `json:"token"`
	Properties     IdentifyProperties `json:"properties"`
	Compress       bool               `json:"compress"`
	Intents        Intents            `json:"intents"`
	LargeThreshold int                `json:"large_threshold,omitempty"`
	Shard          *[2]int            `json:"shard,omitempty"`
	Presence       *UpdatePresence    `json:"presence,omitempty"`
}

// Resume is the Opcode 6 payload sent to replay a dropped session.
//
// https://discord.com/developers/docs/topics/gateway-events#resume
type Resume struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
}

// RequestGuildMembers is the Opcode 8 payload requesting offline guild members.
//
// https://discord.com/developers/docs/topics/gateway-events#request-guild-members
type RequestGuildMembers struct {
	GuildID   string   `json:"guild_id"`
	Query     *string  `json:"query,omitempty"`
	Limit     int      `json:"limit"`
	Presences bool     `json:"presences,omitempty"`
	UserIDs   []string `json:"user_ids,omitempty"`
	Nonce     string   `json:"nonce,omitempty"`
}

// UpdateVoiceState is the Opcode 4 payload joining, moving, or leaving a voice channel.
//
// https://discord.com/developers/docs/topics/gateway-events#update-voice-state
type UpdateVoiceState struct {
	GuildID   string  `json:"guild_id"`
	ChannelID *string `json:"channel_id"`
	SelfMute  bool    `json:"self_mute"`
	SelfDeaf  bool    `json:"self_deaf"`
}

// UpdatePresence is the Opcode 3 payload describing a client's presence, also sent optionally
// with Identify.
//
// https://discord.com/developers/docs/topics/gateway-events#update-presence
type UpdatePresence struct {
	Since      *int64             `json:"since"`
	Activities []PresenceActivity `json:"activities"`
	Status     string             `json:"status"`
	AFK        bool               `json:"afk"`
}

// PresenceActivity is a single entry of UpdatePresence.Activities.
type PresenceActivity struct {
	Name string  `json:"name"`
	Type int     `json:"type"`
	URL  *string `json:"url,omitempty"`
}
