// Grounded in original_source/framework/src/context.rs's per-invocation
// Context/CommandContext/ComponentContext/EventContext/TaskContext
// family (spec.md §4.4) and marouanesouiri-dwaz's interaction.go reply
// helpers (CreateInteractionResponse call shapes), adapted onto
// restclient.Client and kept in this package rather than a separate
// internal/context package to avoid a name collision with the stdlib
// context package every handler signature already needs (see DESIGN.md).
package framework

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/db"
	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/restclient"
)

// Services bundles the shared, long-lived collaborators every Context
// carries a reference to (spec.md §4.4).
type Services struct {
	KV       *kv.Store
	DB       *db.Pool
	Registry *Registry
}

// Context is the base embedded in every per-invocation context, carrying
// the application id, shared services, a REST client, and a logger
// already annotated with request-scoped fields.
type Context struct {
	context.Context

	ApplicationID discordtypes.Snowflake
	Services      Services
	REST          *restclient.Client
	Logger        zerolog.Logger
}

// CommandContext is handed to a CommandFunc invocation.
type CommandContext struct {
	Context

	Interaction *discordtypes.ApplicationCommandInteraction

	deferred bool
}

// GetArgString returns the string value of a required option named name,
// per spec.md §4.4's typed option accessors. Panics-free: a missing or
// mistyped option returns "".
func (c *CommandContext) GetArgString(name string) string {
	v, _ := c.GetArgStringOptional(name)
	return v
}

// GetArgStringOptional returns the string value of an option named name
// and whether it was present at all (spec.md §4.4).
func (c *CommandContext) GetArgStringOptional(name string) (string, bool) {
	for _, opt := range c.Interaction.Data.Options {
		if opt.Name != name {
			continue
		}
		s, ok := opt.Value.(string)
		return s, ok
	}
	return "", false
}

// GuildID returns the invoking guild's id, or nil for a DM invocation.
func (c *CommandContext) GuildID() *discordtypes.Snowflake {
	return c.Interaction.GuildID
}

// Guild fetches and returns the invoking guild, or nil if the command was
// invoked in a DM (spec.md §4.4's guild() convenience operation).
func (c *CommandContext) Guild() (*restclient.Guild, error) {
	if c.Interaction.GuildID == nil {
		return nil, nil
	}
	return c.REST.GetGuild(*c.Interaction.GuildID)
}

// Reply answers the interaction immediately with a non-ephemeral message.
func (c *CommandContext) Reply(content string) error {
	return c.respond(content, 0)
}

// ReplyEphemeral answers the interaction immediately, visible only to the
// invoking user.
func (c *CommandContext) ReplyEphemeral(content string) error {
	return c.respond(content, restclient.MessageFlagEphemeral)
}

func (c *CommandContext) respond(content string, flags int) error {
	return c.REST.CreateInteractionResponse(c.Interaction.ID, c.Interaction.Token, restclient.InteractionResponse{
		Type: restclient.InteractionResponseTypeChannelMessageWithSource,
		Data: &restclient.InteractionCallbackMessage{Content: content, Flags: flags},
	})
}

// Defer acknowledges the interaction without a visible message yet,
// extending the 15 minute follow-up window (spec.md §4.4).
func (c *CommandContext) Defer() error {
	return c.defer_(0)
}

// DeferEphemeral is Defer, but the eventual follow-up is ephemeral.
func (c *CommandContext) DeferEphemeral() error {
	return c.defer_(restclient.MessageFlagEphemeral)
}

func (c *CommandContext) defer_(flags int) error {
	c.deferred = true
	return c.REST.CreateInteractionResponse(c.Interaction.ID, c.Interaction.Token, restclient.InteractionResponse{
		Type: restclient.InteractionResponseTypeDeferredChannelMessageWithSource,
		Data: &restclient.InteractionCallbackMessage{Flags: flags},
	})
}

// Update fills in a previously deferred response.
func (c *CommandContext) Update(content string) error {
	return c.REST.EditOriginalResponse(c.ApplicationID, c.Interaction.Token, content)
}

// ComponentInteractionContext is handed to a ComponentFunc invocation.
type ComponentInteractionContext struct {
	Context

	Interaction *discordtypes.MessageComponentInteraction

	deferred bool
}

// GuildID returns the invoking guild's id, or nil for a DM invocation.
func (c *ComponentInteractionContext) GuildID() *discordtypes.Snowflake {
	return c.Interaction.GuildID
}

// Guild fetches and returns the invoking guild, or nil if the component
// was invoked in a DM.
func (c *ComponentInteractionContext) Guild() (*restclient.Guild, error) {
	if c.Interaction.GuildID == nil {
		return nil, nil
	}
	return c.REST.GetGuild(*c.Interaction.GuildID)
}

// Reply answers the interaction immediately with a non-ephemeral message.
func (c *ComponentInteractionContext) Reply(content string) error {
	return c.REST.CreateInteractionResponse(c.Interaction.ID, c.Interaction.Token, restclient.InteractionResponse{
		Type: restclient.InteractionResponseTypeChannelMessageWithSource,
		Data: &restclient.InteractionCallbackMessage{Content: content},
	})
}

// Defer acknowledges the interaction while leaving the triggering
// message unchanged, per spec.md §4.4's component-specific deferral kind.
func (c *ComponentInteractionContext) Defer() error {
	c.deferred = true
	return c.REST.CreateInteractionResponse(c.Interaction.ID, c.Interaction.Token, restclient.InteractionResponse{
		Type: restclient.InteractionResponseTypeDeferredUpdateMessage,
	})
}

// Update edits the message the component is attached to in place.
func (c *ComponentInteractionContext) Update(content string) error {
	if c.deferred {
		return c.REST.EditOriginalResponse(c.ApplicationID, c.Interaction.Token, content)
	}
	return c.REST.CreateInteractionResponse(c.Interaction.ID, c.Interaction.Token, restclient.InteractionResponse{
		Type: restclient.InteractionResponseTypeUpdateMessage,
		Data: &restclient.InteractionCallbackMessage{Content: content},
	})
}

// EventContext is handed to an EventFunc invocation.
type EventContext struct {
	Context

	Kind discordtypes.EventKind
	Raw  []byte
}

// TaskContext is handed to a TaskFunc invocation.
type TaskContext struct {
	Context

	TaskName string
}
