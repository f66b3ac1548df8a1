// Package core is a supplemented built-in module (spec.md §9): the
// guild-scoped, privileged /enable, /disable, and /modules commands that
// drive the reconciler, grounded in
// original_source/handler/src/modules/core.rs.
package core

import (
	"fmt"
	"strings"

	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/framework"
	"github.com/tulpje/tulpje/internal/reconciler"
)

// adminOnly is the default_member_permissions bitstring for "Manage
// Guild", the permission original_source/handler/src/modules/core.rs
// requires of /enable, /disable, and /modules.
const adminOnly = "32" // MANAGE_GUILD = 1 << 5

func permString(s string) *string { return &s }

// Build assembles the core module. rec is the shared Reconciler every
// handler in the module calls into; it closes over the same Registry
// the runtime builds its command set from.
func Build(rec *reconciler.Reconciler) (framework.Module, error) {
	return framework.NewModule("core").
		Guild().
		Command(enableCommand(), handleEnable(rec)).
		Command(disableCommand(), handleDisable(rec)).
		Command(modulesCommand(), handleModules(rec)).
		Build()
}

func enableCommand() *discordtypes.Command {
	return &discordtypes.Command{
		Name:        "enable",
		Description: "Enable a module for this server.",
		Type:        discordtypes.ApplicationCommandTypeChatInput,
		DefaultMemberPermissions: permString(adminOnly),
		Options: []discordtypes.CommandOptionDef{
			&discordtypes.StringOption{
				OptionBase:   discordtypes.OptionBase{Type: discordtypes.ApplicationCommandOptionTypeString, Name: "module", Description: "Module name"},
				RequiredBase: discordtypes.RequiredBase{Required: true},
			},
		},
	}
}

func disableCommand() *discordtypes.Command {
	return &discordtypes.Command{
		Name:        "disable",
		Description: "Disable a module for this server.",
		Type:        discordtypes.ApplicationCommandTypeChatInput,
		DefaultMemberPermissions: permString(adminOnly),
		Options: []discordtypes.CommandOptionDef{
			&discordtypes.StringOption{
				OptionBase:   discordtypes.OptionBase{Type: discordtypes.ApplicationCommandOptionTypeString, Name: "module", Description: "Module name"},
				RequiredBase: discordtypes.RequiredBase{Required: true},
			},
		},
	}
}

func modulesCommand() *discordtypes.Command {
	return &discordtypes.Command{
		Name:        "modules",
		Description: "List this server's enabled modules.",
		Type:        discordtypes.ApplicationCommandTypeChatInput,
		DefaultMemberPermissions: permString(adminOnly),
	}
}

func handleEnable(rec *reconciler.Reconciler) framework.CommandFunc {
	return func(ctx framework.CommandContext) error {
		guildID := ctx.GuildID()
		if guildID == nil {
			return ctx.ReplyEphemeral("this command can only be used in a server")
		}
		module := ctx.GetArgString("module")
		if err := rec.Enable(ctx, *guildID, module); err != nil {
			return ctx.ReplyEphemeral(fmt.Sprintf("could not enable %q: %v", module, err))
		}
		return ctx.Reply(fmt.Sprintf("enabled **%s**", module))
	}
}

func handleDisable(rec *reconciler.Reconciler) framework.CommandFunc {
	return func(ctx framework.CommandContext) error {
		guildID := ctx.GuildID()
		if guildID == nil {
			return ctx.ReplyEphemeral("this command can only be used in a server")
		}
		module := ctx.GetArgString("module")
		if err := rec.Disable(ctx, *guildID, module); err != nil {
			return ctx.ReplyEphemeral(fmt.Sprintf("could not disable %q: %v", module, err))
		}
		return ctx.Reply(fmt.Sprintf("disabled **%s**", module))
	}
}

func handleModules(rec *reconciler.Reconciler) framework.CommandFunc {
	return func(ctx framework.CommandContext) error {
		guildID := ctx.GuildID()
		if guildID == nil {
			return ctx.ReplyEphemeral("this command can only be used in a server")
		}
		enabled, err := ctx.Services.DB.GuildModules(ctx, *guildID)
		if err != nil {
			return err
		}

		enabledSet := make(map[string]struct{}, len(enabled))
		for _, m := range enabled {
			enabledSet[m] = struct{}{}
		}

		var available []string
		for _, m := range ctx.Services.Registry.GuildModuleNames() {
			if _, ok := enabledSet[m]; !ok {
				available = append(available, m)
			}
		}

		return ctx.Reply(fmt.Sprintf("Enabled: %s\nAvailable: %s", strings.Join(enabled, ", "), strings.Join(available, ", ")))
	}
}
