// Ported from marouanesouiri-dwaz's shard.go ShardsIdentifyRateLimiter/
// DefaultShardsRateLimiter. spec.md §4.1 adds an external HTTP GET gate
// (DISCORD_GATEWAY_QUEUE) as the primary Identify-ordering coordinator
// across the fleet; this in-process token bucket stays as a
// defense-in-depth limit on a single process's own Identify rate,
// matching Discord's documented one-per-5-seconds-per-shard-bucket limit.
package gateway

import "time"

// IdentifyRateLimiter blocks Wait() until an Identify payload may be sent.
type IdentifyRateLimiter interface {
	Wait()
}

// tokenBucketLimiter implements IdentifyRateLimiter with a buffered
// channel of tokens refilled on a fixed interval.
type tokenBucketLimiter struct {
	tokens chan struct{}
}

// NewIdentifyRateLimiter creates a limiter allowing r Identify calls per
// interval.
func NewIdentifyRateLimiter(r int, interval time.Duration) IdentifyRateLimiter {
	rl := &tokenBucketLimiter{tokens: make(chan struct{}, r)}
	for range r {
		rl.tokens <- struct{}{}
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			select {
			case rl.tokens <- struct{}{}:
			default:
			}
		}
	}()
	return rl
}

func (rl *tokenBucketLimiter) Wait() {
	<-rl.tokens
}
