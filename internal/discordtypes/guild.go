// Grounded in marouanesouiri-dwaz's guild.go naming conventions, trimmed
// to the lifecycle payloads the gateway ingress's ShardState bookkeeping
// needs (spec.md §3/§4 table) — the full guild object graph is this
// module's object-graph Non-goal.
package discordtypes

// GuildCreateEvent is the GUILD_CREATE dispatch payload (the subset the
// gateway ingress reads to maintain the shard's guild id set, whose size
// is ShardState.GuildCount).
type GuildCreateEvent struct {
	ID          Snowflake `json:"id"`
	Unavailable bool      `json:"unavailable,omitempty"`
}

// GuildDeleteEvent is the GUILD_DELETE dispatch payload.
type GuildDeleteEvent struct {
	ID          Snowflake `json:"id"`
	Unavailable bool      `json:"unavailable,omitempty"`
}

// ReadyEvent is the READY dispatch payload the gateway ingress decodes:
// the session/resume-url fields plus the initial unavailable-guilds list
// used to seed the shard's guild id set.
type ReadyEvent struct {
	SessionID        string             `json:"session_id"`
	ResumeGatewayURL string             `json:"resume_gateway_url"`
	Guilds           []GuildCreateEvent `json:"guilds"`
	Application      struct {
		ID Snowflake `json:"id"`
	} `json:"application"`
}
