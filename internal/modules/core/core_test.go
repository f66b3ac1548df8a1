package core

import "testing"

func TestBuild_RegistersExpectedCommands(t *testing.T) {
	m, err := Build(nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !m.GuildScoped {
		t.Fatal("expected core to be a guild-scoped module")
	}

	for _, name := range []string{"enable", "disable", "modules"} {
		if _, ok := m.Commands[name]; !ok {
			t.Fatalf("expected command %q to be registered", name)
		}
	}

	for _, name := range []string{"enable", "disable"} {
		def := m.Commands[name].Definition
		if def.DefaultMemberPermissions == nil || *def.DefaultMemberPermissions != adminOnly {
			t.Fatalf("expected %q to require the MANAGE_GUILD permission", name)
		}
	}
}
