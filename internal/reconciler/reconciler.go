// Package reconciler is the sole writer of Discord's per-guild command
// set (spec.md §4.7): a guild's published commands are always exactly
// the union of its enabled modules' commands, bulk-overwritten in one
// REST call per guild. Grounded in original_source/handler/src/modules/
// core.rs's enable/disable handlers (each one calls the same
// reconcile-then-overwrite routine the startup sweep calls).
package reconciler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/apperr"
	"github.com/tulpje/tulpje/internal/db"
	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/framework"
	"github.com/tulpje/tulpje/internal/restclient"
)

// Reconciler owns every BulkOverwriteGuildCommands call in the process.
type Reconciler struct {
	db       *db.Pool
	rest     *restclient.Client
	registry *framework.Registry
	appID    discordtypes.Snowflake
	logger   zerolog.Logger
}

// New builds a Reconciler.
func New(pool *db.Pool, rest *restclient.Client, registry *framework.Registry, appID discordtypes.Snowflake, logger zerolog.Logger) *Reconciler {
	return &Reconciler{db: pool, rest: rest, registry: registry, appID: appID, logger: logger}
}

// Enable records module as enabled for guildID and republishes the
// guild's full command set. Idempotent: enabling an already-enabled
// module still reconciles (spec.md §8).
func (r *Reconciler) Enable(ctx context.Context, guildID discordtypes.Snowflake, module string) error {
	if !r.registry.HasGuildModule(module) {
		return apperr.New(apperr.KindRouteMiss, "unknown module: "+module)
	}
	if err := r.db.EnableModule(ctx, guildID, module); err != nil {
		return err
	}
	return r.reconcileGuild(ctx, guildID)
}

// Disable removes module from guildID's enabled set and republishes.
func (r *Reconciler) Disable(ctx context.Context, guildID discordtypes.Snowflake, module string) error {
	if !r.registry.HasGuildModule(module) {
		return apperr.New(apperr.KindRouteMiss, "unknown module: "+module)
	}
	if err := r.db.DisableModule(ctx, guildID, module); err != nil {
		return err
	}
	return r.reconcileGuild(ctx, guildID)
}

// reconcileGuild recomputes guildID's full command set from its enabled
// modules and bulk-overwrites it. This is the only place
// BulkOverwriteGuildCommands is called, per spec.md §4.7's single-writer
// invariant.
func (r *Reconciler) reconcileGuild(ctx context.Context, guildID discordtypes.Snowflake) error {
	modules, err := r.db.GuildModules(ctx, guildID)
	if err != nil {
		return err
	}

	var commands []*discordtypes.Command
	for _, name := range modules {
		commands = append(commands, r.registry.ModuleCommands(name)...)
	}

	return r.rest.BulkOverwriteGuildCommands(r.appID, guildID, commands)
}

// ReconcileAll republishes every guild's command set, run once at
// handler startup (spec.md §4.3 step 8) so a command set change that
// happened while the handler was down still converges.
func (r *Reconciler) ReconcileAll(ctx context.Context) error {
	all, err := r.db.AllGuildModules(ctx)
	if err != nil {
		return err
	}

	for guildID := range all {
		if err := r.reconcileGuild(ctx, guildID); err != nil {
			r.logger.Error().Err(err).Uint64("guild_id", uint64(guildID)).Msg("guild command reconciliation failed")
		}
	}
	return nil
}
