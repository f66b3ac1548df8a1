// Grounded in marouanesouiri-dwaz's requester.go: the per-bucket +
// per-major-param mutex, the atomic global-reset tracker, and the retry/
// backoff loop over 429 and 5xx are ported near verbatim, generalized to
// log through zerolog (this project's ambient logging choice, per
// internal/applog) instead of the teacher's own Logger interface.
package restclient

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/discordtypes"
)

const (
	apiVersion       = "v10"
	baseAPIURL       = "https://discord.com/api/" + apiVersion
	maxRetries       = 5
	headerRetryAfter = "Retry-After"
	headerGlobal     = "X-RateLimit-Global"
	headerRemaining  = "X-RateLimit-Remaining"
	headerResetAfter = "X-RateLimit-Reset-After"
	headerScope      = "X-RateLimit-Scope"
)

var retryableStatusCodes = map[int]struct{}{
	429: {}, 500: {}, 502: {}, 503: {}, 504: {},
}

// globalRateLimit stores the earliest time global requests can resume.
type globalRateLimit int64

func (g *globalRateLimit) set(t time.Time) {
	newVal := t.UnixNano()
	for {
		oldVal := atomic.LoadInt64((*int64)(g))
		if newVal <= oldVal {
			return
		}
		if atomic.CompareAndSwapInt64((*int64)(g), oldVal, newVal) {
			return
		}
	}
}

func (g *globalRateLimit) get() time.Time {
	return time.Unix(0, atomic.LoadInt64((*int64)(g)))
}

// ratelimitBucket holds per-route rate limit info.
type ratelimitBucket struct {
	sync.Mutex
	remaining int
	resetAt   time.Time
}

// requester performs HTTP requests against the Discord REST API with
// bucket- and global-rate-limit compliance.
type requester struct {
	client    *http.Client
	token     string
	buckets   sync.Map // map[bucketRoute]*ratelimitBucket
	queues    sync.Map // map[bucketRoute:majorParam]*sync.Mutex
	global    globalRateLimit
	userAgent string
	logger    zerolog.Logger
}

func newRequester(token string, logger zerolog.Logger) *requester {
	return &requester{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          500,
				MaxIdleConnsPerHost:   100,
				MaxConnsPerHost:       200,
				IdleConnTimeout:       120 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				ForceAttemptHTTP2:     true,
			},
		},
		token:     "Bot " + token,
		userAgent: "DiscordBot (tulpje, 0.1.0)",
		logger:    logger,
	}
}

func (r *requester) updateBucket(b *ratelimitBucket, h http.Header) {
	b.Lock()
	defer b.Unlock()

	if rem := h.Get(headerRemaining); rem != "" {
		if n, err := strconv.Atoi(rem); err == nil {
			b.remaining = n
		}
	}
	if resetAfter := h.Get(headerResetAfter); resetAfter != "" {
		if dur, err := strconv.ParseFloat(resetAfter, 64); err == nil {
			b.resetAt = time.Now().Add(time.Duration(dur * float64(time.Second)))
		}
	}
}

// do sends an HTTP request, retrying on rate limits and transient 5xx
// errors. authRequired controls whether the bot token is attached.
func (r *requester) do(method, endpoint string, body []byte, authRequired bool) (*http.Response, error) {
	route := r.generateRouteData(method, endpoint)

	queueKey := route.bucketRoute + ":" + route.majorParam
	queue, _ := r.queues.LoadOrStore(queueKey, &sync.Mutex{})
	q := queue.(*sync.Mutex)

	bucket, _ := r.buckets.LoadOrStore(route.bucketRoute, &ratelimitBucket{remaining: 1})
	b := bucket.(*ratelimitBucket)

	q.Lock()
	defer q.Unlock()

	for tries := range maxRetries {
		r.logger.Debug().Int("attempt", tries+1).Str("method", method).Str("endpoint", endpoint).Msg("rest call")

		b.Lock()
		if b.remaining == 0 && time.Now().Before(b.resetAt) {
			wait := time.Until(b.resetAt) + 100*time.Millisecond
			b.Unlock()
			time.Sleep(wait)
			b.Lock()
		}
		if now, globalReset := time.Now(), r.global.get(); globalReset.After(now) {
			wait := globalReset.Sub(now) + 100*time.Millisecond
			b.Unlock()
			time.Sleep(wait)
			b.Lock()
		}
		b.Unlock()

		req, err := http.NewRequest(method, baseAPIURL+endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if authRequired {
			req.Header.Set("Authorization", r.token)
		}
		req.Header.Set("User-Agent", r.userAgent)
		if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := r.client.Do(req)
		if err != nil {
			r.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("rest transport error, retrying")
			time.Sleep(time.Second)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := time.Second
			if retry := resp.Header.Get(headerRetryAfter); retry != "" {
				if sec, err := strconv.ParseFloat(retry, 64); err == nil {
					whole, frac := math.Modf(sec)
					retryAfter = time.Duration(whole)*time.Second + time.Duration(frac*1000)*time.Millisecond
				}
			}
			r.updateBucket(b, resp.Header)
			if resp.Header.Get(headerGlobal) == "true" || resp.Header.Get(headerScope) == "shared" {
				r.global.set(time.Now().Add(retryAfter))
			}
			resp.Body.Close()
			time.Sleep(retryAfter)
			continue
		}

		if _, retry := retryableStatusCodes[resp.StatusCode]; retry {
			resp.Body.Close()
			time.Sleep(time.Second)
			continue
		}

		r.updateBucket(b, resp.Header)
		return resp, nil
	}

	return nil, errors.New("restclient: max retries reached for " + method + " " + endpoint)
}

type routeData struct {
	bucketRoute string
	majorParam  string
}

var (
	reSnowflake    = regexp.MustCompile(`\d{17,19}`)
	reReaction     = regexp.MustCompile(`/reactions/.*`)
	reWebhookToken = regexp.MustCompile(`/webhooks/:id/[^/?]+`)
)

// generateRouteData normalizes endpoint into a rate-limit bucket key and
// extracts the major parameter (guild/channel/webhook id) it shares the
// bucket with.
func (r *requester) generateRouteData(method, endpoint string) routeData {
	if strings.HasPrefix(endpoint, "/interactions/") && strings.HasSuffix(endpoint, "/callback") {
		return routeData{bucketRoute: method + ":/interactions/:id/:token/callback", majorParam: "global"}
	}

	majorMatch := reSnowflake.FindString(endpoint)
	baseRoute := reSnowflake.ReplaceAllString(endpoint, ":id")
	baseRoute = reReaction.ReplaceAllString(baseRoute, "/reactions/:reaction")
	baseRoute = reWebhookToken.ReplaceAllString(baseRoute, "/webhooks/:id/:token")

	if method == http.MethodDelete && strings.HasPrefix(baseRoute, "/channels/:id/messages/:id") {
		parts := strings.Split(endpoint, "/")
		if id, err := strconv.ParseUint(parts[len(parts)-1], 10, 64); err == nil {
			if time.Since(discordtypes.Snowflake(id).CreatedAt()) > 14*24*time.Hour {
				baseRoute += "/DELETE_Old_MESSAGE"
			}
		}
	}

	return routeData{bucketRoute: method + ":" + baseRoute, majorParam: majorMatch}
}
