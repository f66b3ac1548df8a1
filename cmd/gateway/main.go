// Command gateway is the gateway ingress worker's entrypoint (spec.md
// §4.1): one process per shard (or a subset, selected by SHARD_ID/
// SHARD_COUNT/TASK_SLOT), connecting to the upstream chat service and
// publishing every dispatch onto the durable work queue. Grounded in
// original_source/gateway/src/main.rs's startup sequence, adapted onto
// this repo's config/applog/metrics packages.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/tulpje/tulpje/internal/applog"
	"github.com/tulpje/tulpje/internal/config"
	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/gateway"
	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/metrics"
	"github.com/tulpje/tulpje/internal/queue"
)

func main() {
	if _, err := maxprocs.Set(); err != nil {
		fmt.Fprintln(os.Stderr, "maxprocs: ", err)
	}

	cfg, err := config.LoadGateway()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config: ", err)
		os.Exit(1)
	}

	processName := fmt.Sprintf("gateway-%d", cfg.ShardID)
	logger := applog.New(processName, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := kv.New(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	gauges := metrics.NewGauges(reg, processName)

	sampler, err := metrics.NewSampler(processName, store, gauges, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init metrics sampler")
	}
	go sampler.Run(ctx)
	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, logger); err != nil {
			logger.Error().Err(err).Msg("metrics server exited")
		}
	}()

	backend := queue.Backend(cfg.QueueBackend)
	queueURL := cfg.NATSAddr
	if backend == queue.BackendAMQP {
		queueURL = cfg.RabbitMQAddr
	}

	ingressCfg := gateway.IngressConfig{
		Token:           cfg.DiscordToken,
		ProxyURL:        cfg.DiscordProxy,
		GatewayQueueURL: cfg.GatewayQueue,
		ShardID:         cfg.ShardID,
		ShardCount:      cfg.ShardCount,
		QueueBackend:    backend,
		QueueURL:        queueURL,
		KVURL:           cfg.RedisURL,
		Intents:         discordtypes.IntentsAll,
		Version:         cfg.BuildVersion,
		UseCompression:  true,
	}

	logger.Info().Int("shard_id", cfg.ShardID).Int("shard_count", cfg.ShardCount).Msg("starting gateway ingress worker")

	if err := gateway.Run(ctx, ingressCfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("gateway ingress worker exited")
	}
}
