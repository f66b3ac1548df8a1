// Grounded in original_source/handler/src/main.rs's startup sequence
// (spec.md §4.3): config/logging, metrics sampler, KV+DB pools, REST
// client + application id resolution, empty Registry filled in by
// caller-supplied modules, global command publish, per-guild
// reconciliation, cron scheduler, then the queue consume loop — every
// envelope decoded, dispatched through a WorkerPool so a slow handler
// never stalls delivery of the next envelope.
package framework

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/queue"
	"github.com/tulpje/tulpje/internal/restclient"
	"github.com/tulpje/tulpje/internal/shared"
)

// Runtime is the handler process's consume loop: it decodes queue
// envelopes, routes interactions through the dispatcher, and fans
// gateway events out to subscribed modules.
type Runtime struct {
	applicationID discordtypes.Snowflake
	services      Services
	rest          *restclient.Client
	registry      *Registry
	logger        zerolog.Logger
	pool          WorkerPool
}

// NewRuntime builds a Runtime. registry should already have every module
// registered (commands published and reconciled) before Run is called.
func NewRuntime(appID discordtypes.Snowflake, services Services, rest *restclient.Client, logger zerolog.Logger) *Runtime {
	return &Runtime{
		applicationID: appID,
		services:      services,
		rest:          rest,
		registry:      services.Registry,
		logger:        logger,
		pool:          NewWorkerPool(logger),
	}
}

// Run subscribes to q and processes envelopes until ctx is canceled or
// the subscription fails unrecoverably.
func (rt *Runtime) Run(ctx context.Context, q queue.Queue) error {
	defer rt.pool.Shutdown()

	return q.Subscribe(ctx, func(body []byte) {
		rt.pool.Submit(func() {
			rt.handleEnvelope(ctx, body)
		})
	})
}

// handleEnvelope decodes one queue message and processes it. Every
// failure is logged with the envelope's uuid and never propagated —
// per spec.md §4.3, a bad envelope must not stop the consume loop.
func (rt *Runtime) handleEnvelope(ctx context.Context, body []byte) {
	env, err := shared.UnmarshalEnvelope(body)
	if err != nil {
		rt.logger.Error().Err(err).Msg("failed to unmarshal envelope")
		return
	}

	logger := rt.logger.With().Str("envelope_uuid", env.Meta.UUID).Int("shard", env.Meta.Shard).Logger()

	var payload discordtypes.GatewayPayload
	if err := json.Unmarshal([]byte(env.Payload), &payload); err != nil {
		logger.Error().Err(err).Msg("failed to unmarshal gateway payload")
		return
	}

	if payload.Op != discordtypes.GatewayOpcodeDispatch {
		return
	}

	kind := discordtypes.EventKind(payload.T)

	if kind == discordtypes.EventInteractionCreate {
		if err := rt.DispatchInteraction(ctx, payload.D); err != nil {
			logger.Error().Err(err).Msg("interaction dispatch failed")
		}
	}

	rt.DispatchEvent(ctx, kind, payload.D)
}
