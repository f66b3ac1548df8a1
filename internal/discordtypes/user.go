// Grounded in marouanesouiri-dwaz's user.go/member.go field layout and
// doc-comment style, trimmed to the subset a command/component handler
// actually reads (identity + display name) — the full profile graph
// (banner, avatar decorations, premium type, ...) is the object-graph
// Non-goal spec.md excludes.
package discordtypes

// User represents a Discord user object.
//
// Reference: https://discord.com/developers/docs/resources/user#user-object-user-structure
type User struct {
	// ID is the user's unique Discord snowflake ID. Always present.
	ID Snowflake `json:"id"`

	// Username is the user's username (not unique). Always present.
	Username string `json:"username"`

	// GlobalName is the user's display name, empty if unset.
	GlobalName string `json:"global_name"`

	// Avatar is the user's avatar hash, empty if no avatar.
	Avatar string `json:"avatar"`

	// Bot indicates if the user is a bot account.
	Bot bool `json:"bot,omitempty"`
}

// DisplayName returns GlobalName if set, falling back to Username.
func (u *User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Member represents a Discord guild member object.
//
// Reference: https://discord.com/developers/docs/resources/guild#guild-member-object
type Member struct {
	User        *User       `json:"user,omitempty"`
	Nick        string      `json:"nick,omitempty"`
	Roles       []Snowflake `json:"roles"`
	Permissions string      `json:"permissions,omitempty"`
}

// DisplayName returns the member's nickname if set, falling back to the
// underlying user's display name.
func (m *Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return m.User.DisplayName()
	}
	return ""
}
