// Grounded in marouanesouiri-dwaz's interaction.go: InteractionFields/
// Interaction interface and the UnmarshalInteraction type-switch are
// reused directly, trimmed to the three interaction kinds a handler
// registry actually dispatches (ApplicationCommand, MessageComponent,
// ModalSubmit) per spec.md §5 — other kinds (Ping, Autocomplete) decode
// to their common InteractionFields, which the handler runtime's
// dispatcher answers as a RouteMiss.
package discordtypes

import (
	"github.com/bytedance/sonic"
)

type InteractionType int

const (
	InteractionTypePing InteractionType = iota + 1
	InteractionTypeApplicationCommand
	InteractionTypeMessageComponent
	InteractionTypeAutocomplete
	InteractionTypeModalSubmit
)

// ComponentType distinguishes the kinds of message components that can
// raise a MessageComponentInteraction.
type ComponentType int

const (
	ComponentTypeActionRow ComponentType = iota + 1
	ComponentTypeButton
	ComponentTypeStringSelect
	ComponentTypeTextInput
	ComponentTypeUserSelect
	ComponentTypeRoleSelect
	ComponentTypeMentionableSelect
	ComponentTypeChannelSelect
)

// Interaction is implemented by every concrete interaction payload.
type Interaction interface {
	GetID() Snowflake
	GetType() InteractionType
	GetApplicationID() Snowflake
	GetToken() string
	GetGuildID() *Snowflake
	GetChannelID() *Snowflake
	GetMember() *Member
	GetUser() *User
}

// InteractionFields holds the fields common to every interaction payload.
type InteractionFields struct {
	ID            Snowflake       `json:"id"`
	Type          InteractionType `json:"type"`
	ApplicationID Snowflake       `json:"application_id"`
	Token         string          `json:"token"`
	Version       int             `json:"version"`
	GuildID       *Snowflake      `json:"guild_id,omitempty"`
	ChannelID     *Snowflake      `json:"channel_id,omitempty"`
	Member        *Member         `json:"member,omitempty"`
	User          *User           `json:"user,omitempty"`
}

func (i *InteractionFields) GetID() Snowflake            { return i.ID }
func (i *InteractionFields) GetType() InteractionType    { return i.Type }
func (i *InteractionFields) GetApplicationID() Snowflake { return i.ApplicationID }
func (i *InteractionFields) GetToken() string            { return i.Token }
func (i *InteractionFields) GetGuildID() *Snowflake      { return i.GuildID }
func (i *InteractionFields) GetChannelID() *Snowflake    { return i.ChannelID }
func (i *InteractionFields) GetMember() *Member          { return i.Member }
func (i *InteractionFields) GetUser() *User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// PingInteraction is Discord's Gateway/webhook liveness probe; the
// handler runtime never sees one (the gateway ingress never forwards it).
type PingInteraction struct {
	InteractionFields
}

// ApplicationCommandInteraction is raised when a user invokes a slash or
// context-menu command.
type ApplicationCommandInteraction struct {
	InteractionFields
	Data ApplicationCommandData `json:"data"`
	Locale Locale `json:"locale,omitempty"`
}

// MessageComponentData is the Data field of a MessageComponentInteraction.
type MessageComponentData struct {
	CustomID string        `json:"custom_id"`
	Type     ComponentType `json:"component_type"`
	Values   []string      `json:"values,omitempty"`
}

// MessageComponentInteraction is raised when a user clicks a button or
// submits a select menu.
type MessageComponentInteraction struct {
	InteractionFields
	Data MessageComponentData `json:"data"`
}

// ModalSubmitData is the Data field of a ModalSubmitInteraction.
type ModalSubmitData struct {
	CustomID  string           `json:"custom_id"`
	Components []ResolvedOption `json:"components,omitempty"`
}

// ModalSubmitInteraction is raised when a user submits a modal dialog.
// spec.md §5 marks modal-submit dispatch unimplemented; the type still
// needs to exist so UnmarshalInteraction can decode it for the
// not-implemented error path rather than failing to parse.
type ModalSubmitInteraction struct {
	InteractionFields
	Data ModalSubmitData `json:"data"`
}

// UnmarshalInteraction decodes a raw interaction payload into its
// concrete type based on the "type" discriminator field. Kinds without a
// concrete type here decode to *InteractionFields.
func UnmarshalInteraction(buf []byte) (Interaction, error) {
	var meta struct {
		Type InteractionType `json:"type"`
	}
	if err := sonic.Unmarshal(buf, &meta); err != nil {
		return nil, err
	}

	switch meta.Type {
	case InteractionTypeApplicationCommand:
		var i ApplicationCommandInteraction
		return &i, sonic.Unmarshal(buf, &i)
	case InteractionTypeMessageComponent:
		var i MessageComponentInteraction
		return &i, sonic.Unmarshal(buf, &i)
	case InteractionTypeModalSubmit:
		var i ModalSubmitInteraction
		return &i, sonic.Unmarshal(buf, &i)
	default:
		var i InteractionFields
		return &i, sonic.Unmarshal(buf, &i)
	}
}

var (
	_ Interaction = (*ApplicationCommandInteraction)(nil)
	_ Interaction = (*MessageComponentInteraction)(nil)
	_ Interaction = (*ModalSubmitInteraction)(nil)
)
