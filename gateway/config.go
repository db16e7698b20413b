package gateway

// IdentifyProperties represents the OS/browser/device strings sent with an Identify command.
//
// https://discord.com/developers/docs/topics/gateway-events#identify-identify-connection-properties
type IdentifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

// defaultIdentifyProperties returns the IdentifyProperties a caller gets when none is configured.
func defaultIdentifyProperties() IdentifyProperties {
	return IdentifyProperties{
		OS:      "linux",
		Browser: libraryName,
		Device:  libraryName,
	}
}

// libraryName identifies this library to the Discord Gateway.
const libraryName = "discord-api"

// defaultLargeThreshold is the guild size (in members) at which Discord omits the offline
// member list from a GUILD_CREATE payload unless requested.
const defaultLargeThreshold = 50

// Config carries the immutable configuration of a Ctx for the context's lifetime.
//
// Config is never mutated by Ctx once passed to New.
type Config struct {
	// Token is the bot's authentication secret. Required, non-empty.
	Token string

	// Intents is the bitfield of event categories the client wishes to receive.
	Intents Intents

	// Shard is the [id, total] pair partitioning guilds across multiple connections of the
	// same bot. The zero value is treated as [0, 1].
	Shard [2]int

	// LargeThreshold is the guild size at which member lists are omitted. Defaults to 50.
	LargeThreshold int

	// Presence is an optional initial presence sent with Identify.
	Presence *UpdatePresence

	// IdentifyProperties carries the OS/browser/device strings sent with Identify.
	IdentifyProperties IdentifyProperties

	// GatewayURL optionally overrides gateway URL discovery via REST.
	GatewayURL string
}

// withDefaults returns a copy of c with zero-valued fields replaced by their defaults.
func (c Config) withDefaults() Config {
	if c.Shard == ([2]int{}) {
		c.Shard = [2]int{0, 1}
	}

	if c.LargeThreshold == 0 {
		c.LargeThreshold = defaultLargeThreshold
	}

	if c.IdentifyProperties == (IdentifyProperties{}) {
		c.IdentifyProperties = defaultIdentifyProperties()
	}

	return c
}

// Intents is a bitfield of Discord Gateway event categories.
//
// https://discord.com/developers/docs/topics/gateway#gateway-intents
type Intents uint32

// Gateway Intents.
const (
	IntentGuilds                 Intents = 1 << 0
	IntentGuildMembers           Intents = 1 << 1
	IntentGuildModeration        Intents = 1 << 2
	IntentGuildEmojisAndStickers Intents = 1 << 3
	IntentGuildIntegrations      Intents = 1 << 4
	IntentGuildWebhooks          Intents = 1 << 5
	IntentGuildInvites           Intents = 1 << 6
	IntentGuildVoiceStates       Intents = 1 << 7
	IntentGuildPresences         Intents = 1 << 8
	IntentGuildMessages          Intents = 1 << 9
	IntentGuildMessageReactions  Intents = 1 << 10
	IntentGuildMessageTyping     Intents = 1 << 11
	IntentDirectMessages         Intents = 1 << 12
	IntentDirectMessageReactions Intents = 1 << 13
	IntentDirectMessageTyping    Intents = 1 << 14
	IntentMessageContent         Intents = 1 << 15
	IntentGuildScheduledEvents   Intents = 1 << 16
	IntentAutoModerationConfig   Intents = 1 << 20
	IntentAutoModerationExec     Intents = 1 << 21

	IntentsNone Intents = 0
	IntentsAll  Intents = IntentGuilds | IntentGuildMembers | IntentGuildModeration |
		IntentGuildEmojisAndStickers | IntentGuildIntegrations | IntentGuildWebhooks |
		IntentGuildInvites | IntentGuildVoiceStates | IntentGuildPresences | IntentGuildMessages |
		IntentGuildMessageReactions | IntentGuildMessageTyping | IntentDirectMessages |
		IntentDirectMessageReactions | IntentDirectMessageTyping | IntentMessageContent |
		IntentGuildScheduledEvents | IntentAutoModerationConfig | IntentAutoModerationExec
)
