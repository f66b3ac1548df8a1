// Package stats is a supplemented built-in module (spec.md §9): global,
// DM-rejected commands surfacing the fleet's own health — shard liveness
// and per-process resource usage — straight out of the KV store every
// gateway/handler process already writes to. Grounded in
// original_source/handler/src/modules/stats.rs's /stats, /shards, and
// /processes commands, ported onto framework.ModuleBuilder.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/framework"
	"github.com/tulpje/tulpje/internal/shared"
)

// Build assembles the stats module: three global slash commands, no
// events, no tasks.
func Build() (framework.Module, error) {
	return framework.NewModule("stats").
		Command(statsCommand(), handleStats).
		Command(shardsCommand(), handleShards).
		Command(processesCommand(), handleProcesses).
		Build()
}

func dmRejected() *bool {
	f := false
	return &f
}

func statsCommand() *discordtypes.Command {
	return &discordtypes.Command{
		Name:         "stats",
		Description:  "Show aggregate fleet statistics.",
		Type:         discordtypes.ApplicationCommandTypeChatInput,
		DMPermission: dmRejected(),
	}
}

func shardsCommand() *discordtypes.Command {
	return &discordtypes.Command{
		Name:         "shards",
		Description:  "Show per-shard connection status.",
		Type:         discordtypes.ApplicationCommandTypeChatInput,
		DMPermission: dmRejected(),
	}
}

func processesCommand() *discordtypes.Command {
	return &discordtypes.Command{
		Name:         "processes",
		Description:  "Show per-process resource usage.",
		Type:         discordtypes.ApplicationCommandTypeChatInput,
		DMPermission: dmRejected(),
	}
}

func handleStats(ctx framework.CommandContext) error {
	raw, err := ctx.Services.KV.AllShardStates(ctx)
	if err != nil {
		return err
	}

	now := shared.Now()
	var up, total, guilds int
	for _, data := range raw {
		st, err := shared.UnmarshalShardState(data)
		if err != nil {
			continue
		}
		total++
		guilds += st.GuildCount
		if st.IsUp(now) {
			up++
		}
	}

	return ctx.Reply(fmt.Sprintf("**%d/%d** shards up · **%d** guilds", up, total, guilds))
}

func handleShards(ctx framework.CommandContext) error {
	raw, err := ctx.Services.KV.AllShardStates(ctx)
	if err != nil {
		return err
	}

	now := shared.Now()
	var ids []int
	states := make(map[int]*shared.ShardState, len(raw))
	for _, data := range raw {
		st, err := shared.UnmarshalShardState(data)
		if err != nil {
			continue
		}
		ids = append(ids, st.ShardID)
		states[st.ShardID] = st
	}
	sort.Ints(ids)

	var b strings.Builder
	for _, id := range ids {
		st := states[id]
		status := "🔴 down"
		if st.IsUp(now) {
			status = "🟢 up"
		}
		uptime := shared.FormatSignificantDuration(uint64(max64(0, now-st.LastStarted)))
		fmt.Fprintf(&b, "shard %d — %s · %d guilds · up %s\n", id, status, st.GuildCount, uptime)
	}
	if b.Len() == 0 {
		return ctx.Reply("no shard status reported yet")
	}
	return ctx.Reply(b.String())
}

func handleProcesses(ctx framework.CommandContext) error {
	raw, err := ctx.Services.KV.AllMetrics(ctx)
	if err != nil {
		return err
	}

	var names []string
	metrics := make(map[string]*shared.ProcessMetrics, len(raw))
	for name, data := range raw {
		m, err := shared.UnmarshalProcessMetrics(data)
		if err != nil {
			continue
		}
		names = append(names, name)
		metrics[name] = m
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		m := metrics[name]
		fmt.Fprintf(&b, "%s — %.1f%% cpu · %.1f MiB\n", name, m.CPUUsage*100, float64(m.MemoryUsage)/(1024*1024))
	}
	if b.Len() == 0 {
		return ctx.Reply("no process metrics reported yet")
	}
	return ctx.Reply(b.String())
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
