// Grounded in original_source/gateway/src/main.rs, which identifies with
// twilight_gateway::Intents::all() — the bitfield values themselves are
// Discord's documented gateway intents, reusing the BitMaskAdd/Has/Missing
// generics ported in bitfield.go.
package discordtypes

// GatewayIntent is a bit in the Gateway IDENTIFY intents bitfield.
type GatewayIntent uint64

const (
	IntentGuilds                      GatewayIntent = 1 << 0
	IntentGuildMembers                GatewayIntent = 1 << 1
	IntentGuildModeration             GatewayIntent = 1 << 2
	IntentGuildExpressions             GatewayIntent = 1 << 3
	IntentGuildIntegrations            GatewayIntent = 1 << 4
	IntentGuildWebhooks                GatewayIntent = 1 << 5
	IntentGuildInvites                 GatewayIntent = 1 << 6
	IntentGuildVoiceStates             GatewayIntent = 1 << 7
	IntentGuildPresences               GatewayIntent = 1 << 8
	IntentGuildMessages                GatewayIntent = 1 << 9
	IntentGuildMessageReactions        GatewayIntent = 1 << 10
	IntentGuildMessageTyping           GatewayIntent = 1 << 11
	IntentDirectMessages               GatewayIntent = 1 << 12
	IntentDirectMessageReactions       GatewayIntent = 1 << 13
	IntentDirectMessageTyping          GatewayIntent = 1 << 14
	IntentMessageContent               GatewayIntent = 1 << 15
	IntentGuildScheduledEvents         GatewayIntent = 1 << 16
	IntentAutoModerationConfiguration  GatewayIntent = 1 << 20
	IntentAutoModerationExecution      GatewayIntent = 1 << 21
	IntentGuildMessagePolls            GatewayIntent = 1 << 24
	IntentDirectMessagePolls           GatewayIntent = 1 << 25
)

// IntentsAll is every currently defined gateway intent, mirroring the
// original gateway process's Intents::all() identify configuration.
const IntentsAll = IntentGuilds | IntentGuildMembers | IntentGuildModeration |
	IntentGuildExpressions | IntentGuildIntegrations | IntentGuildWebhooks |
	IntentGuildInvites | IntentGuildVoiceStates | IntentGuildPresences |
	IntentGuildMessages | IntentGuildMessageReactions | IntentGuildMessageTyping |
	IntentDirectMessages | IntentDirectMessageReactions | IntentDirectMessageTyping |
	IntentMessageContent | IntentGuildScheduledEvents |
	IntentAutoModerationConfiguration | IntentAutoModerationExecution |
	IntentGuildMessagePolls | IntentDirectMessagePolls

// Has reports whether all of the given intents are set.
func (g GatewayIntent) Has(intents ...GatewayIntent) bool {
	return BitMaskHas(g, intents...)
}

// Add returns g with the given intents set.
func (g GatewayIntent) Add(intents ...GatewayIntent) GatewayIntent {
	return BitMaskAdd(g, intents...)
}
