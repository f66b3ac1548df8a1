// Authored for spec.md §4.1's process-level algorithm; there is no
// single teacher file that owns "the gateway process" (the teacher is a
// library, callers assemble shards themselves), so this orchestrates the
// already-ported Shard/ratelimiter against the algorithm's exact step
// order: queue → KV → the mandatory gateway-queue HTTP gate → connect.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/apperr"
	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/queue"
)

// IngressConfig carries everything the gateway ingress worker needs to
// start a single shard, per spec.md §4.1 Inputs.
type IngressConfig struct {
	Token          string
	ProxyURL       string
	GatewayQueueURL string
	ShardID        int
	ShardCount     int
	QueueBackend   queue.Backend
	QueueURL       string
	KVURL          string
	Intents        discordtypes.GatewayIntent
	Version        string
	UseCompression bool
}

// Run executes spec.md §4.1's algorithm end to end: opens the queue and
// KV connections, blocks on the external rate-limit gate, then connects
// the shard and blocks until ctx is canceled.
func Run(ctx context.Context, cfg IngressConfig, logger zerolog.Logger) error {
	q, err := queue.Open(ctx, cfg.QueueBackend, cfg.QueueURL)
	if err != nil {
		return err
	}
	defer q.Close()

	kvStore, err := kv.New(cfg.KVURL)
	if err != nil {
		return err
	}
	defer kvStore.Close()
	if err := kvStore.Ping(ctx); err != nil {
		return err
	}

	if err := waitForGatewayQueueGate(ctx, cfg.GatewayQueueURL, logger); err != nil {
		return err
	}

	limiter := NewIdentifyRateLimiter(1, 5*time.Second)

	shard := New(Config{
		ID:             cfg.ShardID,
		Total:          cfg.ShardCount,
		Token:          cfg.Token,
		Intents:        cfg.Intents,
		ProxyURL:       cfg.ProxyURL,
		Version:        cfg.Version,
		UseCompression: cfg.UseCompression,
		Properties: discordtypes.IdentifyProperties{
			OS:      "linux",
			Browser: "tulpje",
			Device:  "tulpje",
		},
	}, q, kvStore, limiter, logger)

	if err := shard.Connect(ctx); err != nil {
		return apperr.Wrap(apperr.KindTransport, "gateway connect", err)
	}

	<-ctx.Done()
	shard.Shutdown()
	return nil
}

// waitForGatewayQueueGate blocks on an HTTP GET to the external
// rate-limit coordinator before this shard is allowed to identify, per
// spec.md §4.1 step 5's "mandatory ordering gate".
func waitForGatewayQueueGate(ctx context.Context, gateURL string, logger zerolog.Logger) error {
	logger.Info().Str("url", gateURL).Msg("waiting on gateway queue gate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gateURL, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindConfig, "build gateway queue request", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, "gateway queue gate request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apperr.New(apperr.KindTransport, "gateway queue gate returned "+resp.Status)
	}

	logger.Info().Msg("gateway queue gate cleared")
	return nil
}
