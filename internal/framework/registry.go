package framework

import (
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/tulpje/tulpje/internal/discordtypes"
)

// cronParser mirrors the 6-field (seconds-mandatory) parser
// internal/scheduler builds its cron.Cron with, so a Task registered here
// is rejected at build time with the same grammar it will later run
// under (spec.md §4.6).
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

func validateCronExpr(expr string) error {
	_, err := cronParser.Parse(expr)
	return err
}

func newHandlerUUID() string {
	return uuid.NewString()
}

// Registry flattens every registered Module into the lookup maps the
// interaction dispatcher and consume loop use, per spec.md §4.5.
// Registration is last-write-wins: a later Register call for the same
// module name, command name, or custom_id replaces the earlier one.
type Registry struct {
	mu sync.RWMutex

	modules map[string]Module

	commandsByName map[string]CommandHandler
	componentsByID map[string]ComponentHandler
	eventsByKind   map[discordtypes.EventKind]map[string]EventHandler
	tasksByName    map[string]TaskHandler
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:        make(map[string]Module),
		commandsByName: make(map[string]CommandHandler),
		componentsByID: make(map[string]ComponentHandler),
		eventsByKind:   make(map[discordtypes.EventKind]map[string]EventHandler),
		tasksByName:    make(map[string]TaskHandler),
	}
}

// Register adds m to the registry, flattening its handler maps into the
// registry-wide lookup tables. Calling Register twice for the same
// module name replaces the stored module; lookup entries from the
// earlier registration that the later one does not redefine stay in the
// lookup tables.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.modules[m.Name] = m

	for name, h := range m.Commands {
		r.commandsByName[name] = h
	}
	for id, h := range m.Components {
		r.componentsByID[id] = h
	}
	for kind, subs := range m.Events {
		if r.eventsByKind[kind] == nil {
			r.eventsByKind[kind] = make(map[string]EventHandler)
		}
		for uuid, h := range subs {
			r.eventsByKind[kind][uuid] = h
		}
	}
	for name, h := range m.Tasks {
		r.tasksByName[name] = h
	}
}

// GlobalCommands returns every command belonging to a non-guild-scoped
// module, the set published via BulkOverwriteGlobalCommands
// (spec.md §4.3 step 7).
func (r *Registry) GlobalCommands() []*discordtypes.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*discordtypes.Command
	for _, m := range r.modules {
		if m.GuildScoped {
			continue
		}
		for _, h := range m.Commands {
			out = append(out, h.Definition)
		}
	}
	return out
}

// ModuleCommands returns the commands contributed by a single named
// module, used by the reconciler to build a guild's enabled command set
// (spec.md §4.7).
func (r *Registry) ModuleCommands(name string) []*discordtypes.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	if !ok {
		return nil
	}
	var out []*discordtypes.Command
	for _, h := range m.Commands {
		out = append(out, h.Definition)
	}
	return out
}

// FindCommand resolves an invoked command name to its handler.
func (r *Registry) FindCommand(name string) (CommandHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.commandsByName[name]
	return h, ok
}

// FindComponent resolves an invoked custom_id to its handler.
func (r *Registry) FindComponent(customID string) (ComponentHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.componentsByID[customID]
	return h, ok
}

// EventsFor returns every subscriber to kind, for the consume loop's
// event fan-out (spec.md §4.3).
func (r *Registry) EventsFor(kind discordtypes.EventKind) []EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.eventsByKind[kind]
	out := make([]EventHandler, 0, len(subs))
	for _, h := range subs {
		out = append(out, h)
	}
	return out
}

// Tasks returns every registered task, for the scheduler to schedule at
// startup (spec.md §4.6).
func (r *Registry) Tasks() []TaskHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TaskHandler, 0, len(r.tasksByName))
	for _, h := range r.tasksByName {
		out = append(out, h)
	}
	return out
}

// GuildModuleNames returns the names of every registered guild-scoped
// module, the universe of modules /enable, /disable, and /modules can
// operate over (spec.md §4.7).
func (r *Registry) GuildModuleNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for name, m := range r.modules {
		if m.GuildScoped {
			out = append(out, name)
		}
	}
	return out
}

// HasGuildModule reports whether name is a registered guild-scoped
// module, used to validate /enable and /disable arguments.
func (r *Registry) HasGuildModule(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return ok && m.GuildScoped
}
