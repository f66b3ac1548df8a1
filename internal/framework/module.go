// Package framework is the handler runtime "core" (spec.md §4.3-§4.5):
// the Module/Registry data model, the per-invocation Context family, the
// interaction dispatcher, and the consume-loop Runtime that ties them
// together. Grounded in original_source/framework/src/module.rs's
// ModuleBuilder (method-chaining command()/component()/event()/task()
// calls building up a Module's four handler maps) and
// original_source/framework/src/module/registry.rs's Registry
// (register()/global_commands()/module_commands()/guild_module_names()).
package framework

import (
	"github.com/tulpje/tulpje/internal/apperr"
	"github.com/tulpje/tulpje/internal/discordtypes"
)

// CommandFunc handles an ApplicationCommand interaction.
type CommandFunc func(ctx CommandContext) error

// ComponentFunc handles a MessageComponent interaction.
type ComponentFunc func(ctx ComponentInteractionContext) error

// EventFunc handles a generic subscribed Gateway event.
type EventFunc func(ctx EventContext) error

// TaskFunc handles one cron task invocation.
type TaskFunc func(ctx TaskContext) error

// CommandHandler pairs a command's published Definition with the
// function that handles invocations of it, per spec.md §3.
type CommandHandler struct {
	Module     string
	Definition *discordtypes.Command
	Func       CommandFunc
}

// ComponentHandler pairs a message component's custom_id with its handler.
type ComponentHandler struct {
	Module   string
	CustomID string
	Func     ComponentFunc
}

// EventHandler is a single subscriber to an EventKind, keyed by a UUID so
// duplicate registrations are idempotent (spec.md §3).
type EventHandler struct {
	Module string
	UUID   string
	Kind   discordtypes.EventKind
	Func   EventFunc
}

// TaskHandler is one named, cron-scheduled periodic task.
type TaskHandler struct {
	Module string
	Name   string
	Cron   string
	Func   TaskFunc
}

// Module is a statically registered bundle of commands, components,
// event subscribers, and tasks, either global or guild-scoped
// (spec.md §3).
type Module struct {
	Name        string
	GuildScoped bool

	Commands   map[string]CommandHandler
	Components map[string]ComponentHandler
	Events     map[discordtypes.EventKind]map[string]EventHandler
	Tasks      map[string]TaskHandler
}

// ModuleBuilder accumulates a Module's handler maps via method chaining,
// matching the teacher-less original's fluent ModuleBuilder.
type ModuleBuilder struct {
	name        string
	guildScoped bool

	commands   map[string]CommandHandler
	components map[string]ComponentHandler
	events     map[discordtypes.EventKind]map[string]EventHandler
	tasks      map[string]TaskHandler

	err error
}

// NewModule starts building a module named name.
func NewModule(name string) *ModuleBuilder {
	return &ModuleBuilder{
		name:       name,
		commands:   make(map[string]CommandHandler),
		components: make(map[string]ComponentHandler),
		events:     make(map[discordtypes.EventKind]map[string]EventHandler),
		tasks:      make(map[string]TaskHandler),
	}
}

// Guild marks the module as guild-scoped: its commands contribute to
// per-guild reconciliation only, never to the global command set.
func (b *ModuleBuilder) Guild() *ModuleBuilder {
	b.guildScoped = true
	return b
}

// Command registers a slash/context-menu command and its handler.
// Command names must be unique within a module; last registration wins.
func (b *ModuleBuilder) Command(definition *discordtypes.Command, fn CommandFunc) *ModuleBuilder {
	b.commands[definition.Name] = CommandHandler{Module: b.name, Definition: definition, Func: fn}
	return b
}

// Component registers a message-component handler keyed by custom_id.
func (b *ModuleBuilder) Component(customID string, fn ComponentFunc) *ModuleBuilder {
	b.components[customID] = ComponentHandler{Module: b.name, CustomID: customID, Func: fn}
	return b
}

// Event subscribes fn to every dispatch of the given kind. Each call adds
// a distinct subscriber (deduplicated by a fresh UUID), matching
// spec.md §3's "event handlers deduplicated by uuid".
func (b *ModuleBuilder) Event(kind discordtypes.EventKind, fn EventFunc) *ModuleBuilder {
	if b.events[kind] == nil {
		b.events[kind] = make(map[string]EventHandler)
	}
	id := newHandlerUUID()
	b.events[kind][id] = EventHandler{Module: b.name, UUID: id, Kind: kind, Func: fn}
	return b
}

// Task registers a named cron-scheduled task. A malformed cronExpr is
// recorded and surfaces from Build, per spec.md §4.6's "malformed
// expressions are a fatal configuration error at registration time".
func (b *ModuleBuilder) Task(name, cronExpr string, fn TaskFunc) *ModuleBuilder {
	if b.err == nil {
		if err := validateCronExpr(cronExpr); err != nil {
			b.err = apperr.Wrap(apperr.KindParse, "task "+name+" cron expression", err)
			return b
		}
	}
	b.tasks[name] = TaskHandler{Module: b.name, Name: name, Cron: cronExpr, Func: fn}
	return b
}

// Build finalizes the module, returning the cron-validation error (if
// any) collected along the way.
func (b *ModuleBuilder) Build() (Module, error) {
	if b.err != nil {
		return Module{}, b.err
	}
	return Module{
		Name:        b.name,
		GuildScoped: b.guildScoped,
		Commands:    b.commands,
		Components:  b.components,
		Events:      b.events,
		Tasks:       b.tasks,
	}, nil
}
