// Command handler is the handler runtime's entrypoint (spec.md §4.3):
// loads configuration, brings up every shared service, registers the
// three built-in modules, publishes commands, and runs the consume loop
// until signaled to stop. Grounded in
// original_source/handler/src/main.rs's startup sequence.
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
	"github.com/tulpje/tulpje/internal/db"
	"github.com/tulpje/tulpje/internal/framework"
	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/metrics"
	"github.com/tulpje/tulpje/internal/modules/core"
	"github.com/tulpje/tulpje/internal/modules/pluralkit"
	"github.com/tulpje/tulpje/internal/modules/stats"
	"github.com/tulpje/tulpje/internal/queue"
	"github.com/tulpje/tulpje/internal/reconciler"
	"github.com/tulpje/tulpje/internal/restclient"
	"github.com/tulpje/tulpje/internal/scheduler"
)

func main() {
	if _, err := maxprocs.Set(); err != nil {
		fmt.Fprintln(os.Stderr, "maxprocs: ", err)
	}

	cfg, err := config.LoadHandler()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config: ", err)
		os.Exit(1)
	}

	processName := fmt.Sprintf("handler-%d", cfg.HandlerID)
	logger := applog.New(processName, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := kv.New(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	pool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

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

	rest := restclient.New(cfg.DiscordToken, logger)
	app, err := rest.GetCurrentApplication()
	if err != nil {
		logger.Fatal().Err(err).Msg("resolve application id")
	}

	registry := framework.NewRegistry()

	statsModule, err := stats.Build()
	if err != nil {
		logger.Fatal().Err(err).Msg("build stats module")
	}
	registry.Register(statsModule)

	rec := reconciler.New(pool, rest, registry, app.ID, logger)

	coreModule, err := core.Build(rec)
	if err != nil {
		logger.Fatal().Err(err).Msg("build core module")
	}
	registry.Register(coreModule)

	pkModule, err := pluralkit.Build(pluralkit.NoopClient{})
	if err != nil {
		logger.Fatal().Err(err).Msg("build pluralkit module")
	}
	registry.Register(pkModule)

	if err := rest.BulkOverwriteGlobalCommands(app.ID, registry.GlobalCommands()); err != nil {
		logger.Fatal().Err(err).Msg("publish global commands")
	}

	if err := rec.ReconcileAll(ctx); err != nil {
		logger.Error().Err(err).Msg("initial guild command reconciliation failed")
	}

	services := framework.Services{KV: store, DB: pool, Registry: registry}
	rt := framework.NewRuntime(app.ID, services, rest, logger)

	sched := scheduler.New()
	for _, task := range registry.Tasks() {
		task := task
		if err := sched.Schedule(task.Name, task.Cron, func() {
			tctx := framework.TaskContext{
				Context: framework.Context{
					Context:       ctx,
					ApplicationID: app.ID,
					Services:      services,
					REST:          rest,
					Logger:        logger.With().Str("module", task.Module).Str("task", task.Name).Logger(),
				},
				TaskName: task.Name,
			}
			if err := task.Func(tctx); err != nil {
				logger.Error().Err(err).Str("task", task.Name).Msg("task failed")
			}
		}); err != nil {
			logger.Fatal().Err(err).Str("task", task.Name).Msg("schedule task")
		}
	}
	sched.Start()
	defer sched.Stop()

	backend := queue.Backend(cfg.QueueBackend)
	queueURL := cfg.NATSAddr
	if backend == queue.BackendAMQP {
		queueURL = cfg.RabbitMQAddr
	}
	q, err := queue.Open(ctx, backend, queueURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open work queue")
	}
	defer q.Close()

	logger.Info().Int("handler_id", cfg.HandlerID).Int("handler_count", cfg.HandlerCount).Msg("starting handler runtime")

	if err := rt.Run(ctx, q); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("handler runtime exited")
	}
}
