package gateway

// Gateway Opcodes
//
// https://discord.com/developers/docs/topics/opcodes-and-status-codes#gateway-gateway-opcodes
const (
	FlagOpcodesGatewayDispatch            = 0
	FlagOpcodesGatewayHeartbeat           = 1
	FlagOpcodesGatewayIdentify            = 2
	FlagOpcodesGatewayPresenceUpdate      = 3
	FlagOpcodesGatewayVoiceStateUpdate    = 4
	FlagOpcodesGatewayResume              = 6
	FlagOpcodesGatewayReconnect           = 7
	FlagOpcodesGatewayRequestGuildMembers = 8
	FlagOpcodesGatewayInvalidSession      = 9
	FlagOpcodesGatewayHello               = 10
	FlagOpcodesGatewayHeartbeatACK        = 11
)

// Gateway Dispatch Event Names recognized by Ctx.
//
// Every other Dispatch Event Name passes through opaquely as a DispatchUnknown payload.
const (
	FlagGatewayEventNameReady   = "READY"
	FlagGatewayEventNameResumed = "RESUMED"
)
