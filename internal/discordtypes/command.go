// Grounded in marouanesouiri-dwaz's application_command.go: the
// OptionBase/RequiredBase/ChoiceBase composition pattern and the
// ApplicationCommandOption interface are reused directly. Trimmed to the
// option types a command/component/event handler registry (per spec.md
// §5) actually needs to resolve and dispatch — the full Discord option
// catalogue (attachments, fine-grained numeric constraints, per-choice
// localization) is the module graph spec.md's Non-goals exclude.
package discordtypes

import "github.com/bytedance/sonic"

// ApplicationCommandType distinguishes slash commands from context-menu commands.
type ApplicationCommandType int

const (
	ApplicationCommandTypeChatInput ApplicationCommandType = iota + 1
	ApplicationCommandTypeUser
	ApplicationCommandTypeMessage
)

// ApplicationCommandOptionType represents the type of a command option.
//
// Reference: https://discord.com/developers/docs/interactions/application-commands#application-command-object-application-command-option-type
type ApplicationCommandOptionType int

const (
	ApplicationCommandOptionTypeSubCommand ApplicationCommandOptionType = iota + 1
	ApplicationCommandOptionTypeSubCommandGroup
	ApplicationCommandOptionTypeString
	ApplicationCommandOptionTypeInteger
	ApplicationCommandOptionTypeBool
	ApplicationCommandOptionTypeUser
	ApplicationCommandOptionTypeChannel
	ApplicationCommandOptionTypeRole
	ApplicationCommandOptionTypeMentionable
	ApplicationCommandOptionTypeNumber
	ApplicationCommandOptionTypeAttachment
)

// OptionBase contains the fields common to every command option definition.
type OptionBase struct {
	Type        ApplicationCommandOptionType `json:"type"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
}

func (o *OptionBase) GetType() ApplicationCommandOptionType { return o.Type }
func (o *OptionBase) GetName() string                       { return o.Name }
func (o *OptionBase) GetDescription() string                { return o.Description }

// RequiredBase marks a value option as mandatory.
type RequiredBase struct {
	Required bool `json:"required,omitempty"`
}

// CommandOptionDef is the interface for a registered command's option
// definitions, sent to Discord when (re)publishing a command.
type CommandOptionDef interface {
	GetType() ApplicationCommandOptionType
	GetName() string
	GetDescription() string
}

// StringOption, IntegerOption, BoolOption, ... are the concrete option
// definitions a Module author builds a Command out of. Each composes
// OptionBase the same way the teacher's option types do.
type StringOption struct {
	OptionBase
	RequiredBase
}

type IntegerOption struct {
	OptionBase
	RequiredBase
}

type BoolOption struct {
	OptionBase
	RequiredBase
}

type UserOption struct {
	OptionBase
	RequiredBase
}

type ChannelOption struct {
	OptionBase
	RequiredBase
}

type RoleOption struct {
	OptionBase
	RequiredBase
}

type MentionableOption struct {
	OptionBase
	RequiredBase
}

type NumberOption struct {
	OptionBase
	RequiredBase
}

type SubCommandOption struct {
	OptionBase
	Options []CommandOptionDef `json:"options,omitempty"`
}

// Command is the definition of a registered slash or context-menu command,
// as submitted to Discord via bulk overwrite.
type Command struct {
	Name                     string                 `json:"name"`
	Description              string                 `json:"description,omitempty"`
	Type                     ApplicationCommandType `json:"type,omitempty"`
	Options                  []CommandOptionDef     `json:"options,omitempty"`
	DefaultMemberPermissions *string                `json:"default_member_permissions,omitempty"`
	DMPermission             *bool                  `json:"dm_permission,omitempty"`
}

// MarshalJSON encodes the command with sonic. The alias type drops this
// method so the call does not recurse; each entry of Options is encoded
// through its concrete option type.
func (c *Command) MarshalJSON() ([]byte, error) {
	type alias Command
	return sonic.Marshal((*alias)(c))
}

// ResolvedOption is a single option value as delivered in an
// ApplicationCommandInteraction's Data.Options, after Discord resolves it
// against the user's input.
type ResolvedOption struct {
	Name    string                       `json:"name"`
	Type    ApplicationCommandOptionType `json:"type"`
	Value   any                          `json:"value,omitempty"`
	Options []ResolvedOption             `json:"options,omitempty"`
	Focused bool                         `json:"focused,omitempty"`
}

// ApplicationCommandData is the Data field of an ApplicationCommandInteraction.
type ApplicationCommandData struct {
	ID      Snowflake              `json:"id"`
	Name    string                 `json:"name"`
	Type    ApplicationCommandType `json:"type"`
	Options []ResolvedOption       `json:"options,omitempty"`
	GuildID *Snowflake             `json:"guild_id,omitempty"`
	TargetID *Snowflake            `json:"target_id,omitempty"`
}
