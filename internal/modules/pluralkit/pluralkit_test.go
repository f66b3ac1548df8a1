package pluralkit

import (
	"testing"

	"github.com/tulpje/tulpje/internal/discordtypes"
)

func TestBuild_RegistersEventAndTask(t *testing.T) {
	m, err := Build(NoopClient{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !m.GuildScoped {
		t.Fatal("expected pluralkit to be a guild-scoped module")
	}

	subs := m.Events[discordtypes.EventMessageCreate]
	if len(subs) != 1 {
		t.Fatalf("expected exactly one MESSAGE_CREATE subscriber, got %d", len(subs))
	}

	task, ok := m.Tasks["pk:update-fronters"]
	if !ok {
		t.Fatal("expected pk:update-fronters task to be registered")
	}
	if task.Cron != fronterRefreshCron {
		t.Fatalf("task cron = %q, want %q", task.Cron, fronterRefreshCron)
	}
}

func TestNoopClient_ReturnsNoFronters(t *testing.T) {
	fronters, err := NoopClient{}.Fronters(nil, "sys-id") //nolint:staticcheck // nil context is fine for a no-op
	if err != nil {
		t.Fatalf("Fronters() error: %v", err)
	}
	if fronters != nil {
		t.Fatalf("expected no fronters, got %+v", fronters)
	}
}
