// Supplemented ambient addition (observability is never excluded by
// spec.md's Non-goals): exposes the same two self-sampled gauges plus
// shard/guild counts read back from the KV store over a Prometheus HTTP
// endpoint, the way original_source/shared/src/metrics.rs's install()
// wires metrics_exporter_prometheus — grounded here in
// adred-codev-ws_poc's use of prometheus/client_golang for the same kind
// of process-health exposition.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/shared"
)

// Gauges holds the process-level Prometheus gauges every binary exposes,
// labeled with the process name the way the original's global "process"
// label does.
type Gauges struct {
	cpuUsage    prometheus.Gauge
	memoryUsage prometheus.Gauge
	shardsUp    prometheus.Gauge
	guildCount  prometheus.Gauge
}

// NewGauges registers the process gauges under a fresh registry.
func NewGauges(reg *prometheus.Registry, processName string) *Gauges {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"process": processName}
	return &Gauges{
		cpuUsage: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "tulpje_process_cpu_usage",
			Help:        "Fraction of a CPU core consumed by this process over the last sample interval.",
			ConstLabels: labels,
		}),
		memoryUsage: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "tulpje_process_memory_usage_bytes",
			Help:        "Resident memory usage of this process in bytes.",
			ConstLabels: labels,
		}),
		shardsUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tulpje_shards_up",
			Help: "Number of shards considered up per the IsUp heuristic.",
		}),
		guildCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tulpje_guild_count",
			Help: "Total guild count summed across all known shards.",
		}),
	}
}

// Update refreshes the gauges from a fresh sample and the KV shard_status
// hash, called on the same tick as the KV-writing sample.
func (g *Gauges) Update(ctx context.Context, cpuUsage float64, memoryUsage uint64, store *kv.Store) {
	g.cpuUsage.Set(cpuUsage)
	g.memoryUsage.Set(float64(memoryUsage))

	raw, err := store.AllShardStates(ctx)
	if err != nil {
		return
	}
	var up, guilds int
	now := shared.Now()
	for _, data := range raw {
		st, err := shared.UnmarshalShardState(data)
		if err != nil {
			continue
		}
		if st.IsUp(now) {
			up++
		}
		guilds += st.GuildCount
	}
	g.shardsUp.Set(float64(up))
	g.guildCount.Set(float64(guilds))
}

// Serve starts an HTTP server exposing /metrics on addr, blocking until
// ctx is canceled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
