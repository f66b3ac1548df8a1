// Package db provides the core's one piece of durable external state: the
// guild_modules(guild_id, module) table (spec.md §6), read to compute a
// guild's enabled module set and written only by the module reconciler's
// enable/disable operations (spec.md §4.7).
//
// No teacher file covers this — marouanesouiri-dwaz is a client library
// with no persistence layer. Grounded on github.com/jackc/pgx/v5/pgxpool,
// named directly in other_examples/manifests/{Duragraph-duragraph,
// WAN-Ninjas-AmityVox}/go.mod as a real fleet Postgres driver, matching
// original_source/handler/src/modules/core.rs's sqlx-over-Postgres
// queries (upsert-on-conflict enable, delete disable, scalar selects).
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tulpje/tulpje/internal/apperr"
	"github.com/tulpje/tulpje/internal/discordtypes"
)

// Pool wraps a pgx connection pool restricted to the guild_modules table.
type Pool struct {
	pool *pgxpool.Pool
}

// New connects to a Postgres instance at url. Schema migrations are
// applied by an external collaborator before the handler runtime starts
// (spec.md §1 Non-goals).
func New(ctx context.Context, url string) (*Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "parse DATABASE_URL", err)
	}
	return &Pool{pool: pool}, nil
}

// Ping verifies connectivity, used at startup to fail fast per spec.md §7.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransport, "database ping", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *Pool) Close() {
	p.pool.Close()
}

// EnableModule upserts a guild_modules row, a no-op if the module is
// already enabled for guildID — idempotent per spec.md §8
// "enable(m); enable(m) is idempotent".
func (p *Pool) EnableModule(ctx context.Context, guildID discordtypes.Snowflake, module string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO guild_modules (guild_id, module) VALUES ($1, $2) ON CONFLICT (guild_id, module) DO NOTHING`,
		int64(guildID), module,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "enable module", err)
	}
	return nil
}

// DisableModule deletes a guild_modules row.
func (p *Pool) DisableModule(ctx context.Context, guildID discordtypes.Snowflake, module string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM guild_modules WHERE guild_id = $1 AND module = $2`,
		int64(guildID), module,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "disable module", err)
	}
	return nil
}

// GuildModules lists the modules enabled for a single guild.
func (p *Pool) GuildModules(ctx context.Context, guildID discordtypes.Snowflake) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT module FROM guild_modules WHERE guild_id = $1`, int64(guildID))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "query guild modules", err)
	}
	defer rows.Close()

	var modules []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, apperr.Wrap(apperr.KindTransport, "scan guild module", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GuildsWithModule lists every guild that has module enabled, used by a
// module to enumerate its own active guild set (e.g. for a cron task
// that refreshes per-guild state).
func (p *Pool) GuildsWithModule(ctx context.Context, module string) ([]discordtypes.Snowflake, error) {
	rows, err := p.pool.Query(ctx, `SELECT guild_id FROM guild_modules WHERE module = $1`, module)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "query guilds with module", err)
	}
	defer rows.Close()

	var guilds []discordtypes.Snowflake
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Wrap(apperr.KindTransport, "scan guild id", err)
		}
		guilds = append(guilds, discordtypes.Snowflake(id))
	}
	return guilds, rows.Err()
}

// AllGuildModules returns the full guild→modules mapping, used at handler
// startup (spec.md §4.3 step 8) to publish every guild's command set.
func (p *Pool) AllGuildModules(ctx context.Context) (map[discordtypes.Snowflake][]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT guild_id, module FROM guild_modules`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "query all guild modules", err)
	}
	defer rows.Close()

	result := make(map[discordtypes.Snowflake][]string)
	for rows.Next() {
		var id int64
		var module string
		if err := rows.Scan(&id, &module); err != nil {
			return nil, apperr.Wrap(apperr.KindTransport, "scan guild module row", err)
		}
		guildID := discordtypes.Snowflake(id)
		result[guildID] = append(result[guildID], module)
	}
	return result, rows.Err()
}
