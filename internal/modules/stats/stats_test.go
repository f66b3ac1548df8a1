package stats

import "testing"

func TestBuild_RegistersExpectedCommands(t *testing.T) {
	m, err := Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	for _, name := range []string{"stats", "shards", "processes"} {
		h, ok := m.Commands[name]
		if !ok {
			t.Fatalf("expected command %q to be registered", name)
		}
		if h.Definition.DMPermission == nil || *h.Definition.DMPermission {
			t.Fatalf("expected command %q to reject DM usage", name)
		}
	}

	if m.GuildScoped {
		t.Fatal("stats is a global module, not guild-scoped")
	}
}

func TestMax64(t *testing.T) {
	if got := max64(3, 7); got != 7 {
		t.Fatalf("max64(3, 7) = %d, want 7", got)
	}
	if got := max64(7, 3); got != 7 {
		t.Fatalf("max64(7, 3) = %d, want 7", got)
	}
}
