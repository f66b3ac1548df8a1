// EventKind names the generic event-subscriber family's routing key
// (spec.md §3 "events: Map<EventKind, Set<EventHandler>>"). Values mirror
// the Gateway dispatch "t" field verbatim, matching
// marouanesouiri-dwaz's event.go naming (ReadyEvent, MessageCreateEvent,
// ...) trimmed to the kinds the core and its example modules need.
package discordtypes

// EventKind is a Gateway dispatch event name, e.g. "MESSAGE_CREATE".
type EventKind string

const (
	EventReady             EventKind = "READY"
	EventResumed           EventKind = "RESUMED"
	EventGuildCreate       EventKind = "GUILD_CREATE"
	EventGuildDelete       EventKind = "GUILD_DELETE"
	EventMessageCreate     EventKind = "MESSAGE_CREATE"
	EventMessageDelete     EventKind = "MESSAGE_DELETE"
	EventMessageUpdate     EventKind = "MESSAGE_UPDATE"
	EventInteractionCreate EventKind = "INTERACTION_CREATE"
)

// MessageCreateEvent is the MESSAGE_CREATE dispatch payload, trimmed to
// the fields the pluralkit example module's proxy-detection subscriber
// reads.
type MessageCreateEvent struct {
	ID              Snowflake  `json:"id"`
	ChannelID       Snowflake  `json:"channel_id"`
	GuildID         *Snowflake `json:"guild_id,omitempty"`
	Content         string     `json:"content"`
	Author          User       `json:"author"`
	WebhookID       *Snowflake `json:"webhook_id,omitempty"`
	ApplicationID   *Snowflake `json:"application_id,omitempty"`
}
