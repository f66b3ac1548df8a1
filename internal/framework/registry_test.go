package framework

import (
	"testing"

	"github.com/tulpje/tulpje/internal/discordtypes"
)

func TestRegistry_LastWriteWins(t *testing.T) {
	reg := NewRegistry()

	first, err := NewModule("stats").
		Command(&discordtypes.Command{Name: "ping"}, func(CommandContext) error { return nil }).
		Build()
	if err != nil {
		t.Fatalf("build first module: %v", err)
	}
	reg.Register(first)

	second, err := NewModule("stats").
		Command(&discordtypes.Command{Name: "ping"}, func(CommandContext) error { return nil }).
		Command(&discordtypes.Command{Name: "pong"}, func(CommandContext) error { return nil }).
		Build()
	if err != nil {
		t.Fatalf("build second module: %v", err)
	}
	reg.Register(second)

	if _, ok := reg.FindCommand("pong"); !ok {
		t.Fatal("expected pong command to be registered after re-registering module")
	}
	if len(reg.modules) != 1 {
		t.Fatalf("expected exactly one module named stats, got %d", len(reg.modules))
	}
}

func TestRegistry_EventsDedupedByUUID(t *testing.T) {
	reg := NewRegistry()

	var calls int
	m, err := NewModule("pluralkit").
		Guild().
		Event(discordtypes.EventMessageCreate, func(EventContext) error { calls++; return nil }).
		Event(discordtypes.EventMessageCreate, func(EventContext) error { calls++; return nil }).
		Build()
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	reg.Register(m)

	subs := reg.EventsFor(discordtypes.EventMessageCreate)
	if len(subs) != 2 {
		t.Fatalf("expected 2 distinct subscribers, got %d", len(subs))
	}
	if subs[0].UUID == subs[1].UUID {
		t.Fatal("expected distinct UUIDs for separate Event() calls")
	}
}

func TestRegistry_GlobalCommandsExcludesGuildScoped(t *testing.T) {
	reg := NewRegistry()

	global, err := NewModule("stats").
		Command(&discordtypes.Command{Name: "stats"}, func(CommandContext) error { return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	reg.Register(global)

	guildScoped, err := NewModule("core").
		Guild().
		Command(&discordtypes.Command{Name: "enable"}, func(CommandContext) error { return nil }).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	reg.Register(guildScoped)

	cmds := reg.GlobalCommands()
	if len(cmds) != 1 || cmds[0].Name != "stats" {
		t.Fatalf("expected only the global module's command, got %+v", cmds)
	}

	if !reg.HasGuildModule("core") {
		t.Fatal("expected core to be a registered guild module")
	}
	if reg.HasGuildModule("stats") {
		t.Fatal("stats is not guild-scoped")
	}
}

func TestModuleBuilder_RejectsMalformedCron(t *testing.T) {
	_, err := NewModule("pluralkit").
		Task("broken", "not a cron expr", func(TaskContext) error { return nil }).
		Build()
	if err == nil {
		t.Fatal("expected malformed cron expression to fail Build")
	}
}
