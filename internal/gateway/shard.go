// Ported from marouanesouiri-dwaz's shard.go: connection/resume URL
// handling, the zlib-stream read loop via gatewayReader, the heartbeat
// goroutine with jittered first beat and ack-timeout reconnect, and the
// exponential-backoff reconnect loop are generalized almost unchanged.
// What's replaced is handleGatewayPayload's body: instead of invoking an
// in-process event dispatcher, every DISPATCH frame is wrapped in a
// shared.Envelope and published to the work queue (spec.md §4.1), and
// the lifecycle-event subset updates a shared.ShardState record written
// to the KV store instead of being held in Shard fields alone.
package gateway

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/rs/zerolog"

	"github.com/tulpje/tulpje/internal/apperr"
	"github.com/tulpje/tulpje/internal/discordtypes"
	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/queue"
	"github.com/tulpje/tulpje/internal/shared"
)

const (
	gatewayVersion = "10"
	gatewayURL     = "wss://gateway.discord.gg/?v=" + gatewayVersion + "&encoding=json"
	gatewayURLZlib = "wss://gateway.discord.gg/?v=" + gatewayVersion + "&encoding=json&compress=zlib-stream"

	// activityTypeCustom is Discord's Custom Status activity type, the
	// kind spec.md §8 scenario 6 requires for the version presence.
	activityTypeCustom = 4
)

// Shard maintains one websocket session to the upstream chat gateway for
// a single shard index (id, total), per spec.md §4.1.
type Shard struct {
	id          int
	total       int
	token       string
	intents     discordtypes.GatewayIntent
	proxyURL    string
	version     string
	properties  discordtypes.IdentifyProperties
	useCompression bool

	logger          zerolog.Logger
	queue           queue.Queue
	kv              *kv.Store
	identifyLimiter IdentifyRateLimiter

	conn net.Conn

	seq       int64
	sessionID string
	resumeURL string

	latency           int64
	lastHeartbeatSent int64
	lastHeartbeatACK  atomic.Bool
	heartbeatStop     chan struct{}

	presenceSent atomic.Bool

	guildIDs map[discordtypes.Snowflake]struct{}
}

// Config configures a single Shard.
type Config struct {
	ID             int
	Total          int
	Token          string
	Intents        discordtypes.GatewayIntent
	ProxyURL       string
	Version        string
	UseCompression bool
	Properties     discordtypes.IdentifyProperties
}

// New constructs a Shard ready to Connect.
func New(cfg Config, q queue.Queue, kvStore *kv.Store, limiter IdentifyRateLimiter, logger zerolog.Logger) *Shard {
	return &Shard{
		id:             cfg.ID,
		total:          cfg.Total,
		token:          cfg.Token,
		intents:        cfg.Intents,
		proxyURL:       cfg.ProxyURL,
		version:        cfg.Version,
		useCompression: cfg.UseCompression,
		properties:     cfg.Properties,
		logger:         logger.With().Int("shard_id", cfg.ID).Logger(),
		queue:          q,
		kv:             kvStore,
		identifyLimiter: limiter,
		guildIDs:       make(map[discordtypes.Snowflake]struct{}),
	}
}

// ID returns the shard's zero-based index.
func (s *Shard) ID() int { return s.id }

// Connect establishes (or resumes) the websocket connection and starts
// the read loop in a new goroutine.
func (s *Shard) Connect(ctx context.Context) error {
	if s.heartbeatStop != nil {
		close(s.heartbeatStop)
	}
	s.heartbeatStop = make(chan struct{})

	if s.conn != nil {
		s.conn.Close()
	}

	connURL := s.resumeURL
	if connURL == "" {
		connURL = s.baseURL()
	} else {
		connURL = s.buildResumeURL(connURL)
	}
	if s.proxyURL != "" {
		connURL = s.proxyURL
	}

	dialer := ws.Dialer{}
	conn, _, _, err := dialer.Dial(ctx, connURL)
	if err != nil {
		return err
	}

	s.logger.Info().Msg("connected")
	s.conn = conn
	s.lastHeartbeatACK.Store(true)
	atomic.StoreInt64(&s.latency, 0)

	s.updateShardState(func(st *shared.ShardState) {
		st.LastConnection = shared.Now()
	})

	go s.readLoop()
	return nil
}

func (s *Shard) baseURL() string {
	if s.useCompression {
		return gatewayURLZlib
	}
	return gatewayURL
}

func (s *Shard) buildResumeURL(resumeURL string) string {
	parsed, err := url.Parse(resumeURL)
	if err != nil {
		return resumeURL
	}
	q := parsed.Query()
	if q.Get("v") == "" {
		q.Set("v", gatewayVersion)
	}
	if q.Get("encoding") == "" {
		q.Set("encoding", "json")
	}
	if s.useCompression && q.Get("compress") == "" {
		q.Set("compress", "zlib-stream")
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// readLoop continuously reads messages from the Gateway WebSocket,
// handling opcodes, publishing DISPATCH frames, and triggering
// reconnects as needed.
func (s *Shard) readLoop() {
	var (
		decoder *json.Decoder
		z       io.ReadCloser
		err     error
	)

	if s.useCompression {
		gr := &gatewayReader{conn: s.conn}
		z, err = zlib.NewReader(gr)
		if err != nil {
			s.logger.Error().Err(err).Msg("zlib handshake failed")
			s.reconnect()
			return
		}
		defer z.Close()
		decoder = json.NewDecoder(z)
	}

	defer s.conn.Close()

	for {
		var raw json.RawMessage

		if s.useCompression {
			if err := decoder.Decode(&raw); err != nil {
				s.logger.Error().Err(err).Msg("decode/read error")
				s.recordClose()
				s.reconnect()
				return
			}
		} else {
			msg, op, err := wsutil.ReadServerData(s.conn)
			if err != nil {
				s.logger.Error().Err(err).Msg("read error")
				s.recordClose()
				s.reconnect()
				return
			}
			if op == ws.OpText {
				raw = msg
			} else if op == ws.OpClose {
				s.recordClose()
				s.reconnect()
				return
			} else {
				continue
			}
		}

		var payload discordtypes.GatewayPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.logger.Error().Err(err).Msg("unmarshal error")
			continue
		}

		s.handleGatewayPayload(payload, raw)
	}
}

// gatewayReader implements io.Reader to bridge WebSocket frames to a
// zlib stream, buffering binary frames and handling control frames.
type gatewayReader struct {
	conn net.Conn
	buf  bytes.Buffer
}

func (gr *gatewayReader) Read(p []byte) (n int, err error) {
	if gr.buf.Len() > 0 {
		return gr.buf.Read(p)
	}
	for {
		msg, op, err := wsutil.ReadServerData(gr.conn)
		if err != nil {
			return 0, err
		}
		switch op {
		case ws.OpBinary:
			gr.buf.Write(msg)
			return gr.buf.Read(p)
		case ws.OpClose:
			return 0, io.EOF
		case ws.OpPing:
			wsutil.WriteClientMessage(gr.conn, ws.OpPong, msg)
		case ws.OpPong, ws.OpText:
		}
	}
}

// handleGatewayPayload implements the per-frame algorithm of spec.md §4.1
// step 7: DISPATCH frames are forwarded to the work queue, and the
// lifecycle-event subset updates ShardState in the KV store. Other
// opcodes stay local to the ingress.
func (s *Shard) handleGatewayPayload(payload discordtypes.GatewayPayload, raw []byte) {
	if payload.S > 0 {
		atomic.StoreInt64(&s.seq, payload.S)
	}

	switch payload.Op {
	case discordtypes.GatewayOpcodeDispatch:
		s.handleDispatch(payload, raw)

	case discordtypes.GatewayOpcodeReconnect:
		s.logger.Info().Msg("RECONNECT received")
		s.conn.Close()

	case discordtypes.GatewayOpcodeInvalidSession:
		var resumable bool
		json.Unmarshal(payload.D, &resumable)
		time.Sleep(time.Duration(100+s.id%500) * time.Millisecond)

		if resumable {
			s.logger.Info().Msg("session invalid (resumable), resuming")
			s.sendResume()
		} else {
			s.logger.Info().Msg("session invalid (non-resumable), identifying")
			s.sessionID = ""
			s.seq = 0
			s.sendIdentify()
		}

	case discordtypes.GatewayOpcodeHello:
		var hello discordtypes.HelloData
		json.Unmarshal(payload.D, &hello)
		if hello.HeartbeatInterval <= 0 {
			s.logger.Error().Err(apperr.New(apperr.KindParse, "HELLO heartbeat_interval must be positive")).Msg("invalid HELLO payload")
			s.conn.Close()
			return
		}
		interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond

		s.updateShardState(func(st *shared.ShardState) {
			st.HeartbeatInterval = int64(hello.HeartbeatInterval)
			st.LastConnection = shared.Now()
		})

		go s.startHeartbeat(interval)

		if s.sessionID != "" && atomic.LoadInt64(&s.seq) > 0 {
			s.logger.Info().Msg("resuming session")
			s.sendResume()
		} else {
			s.logger.Debug().Msg("identifying new session")
			s.sendIdentify()
		}

	case discordtypes.GatewayOpcodeHeartbeatACK:
		s.lastHeartbeatACK.Store(true)
		sent := atomic.LoadInt64(&s.lastHeartbeatSent)
		if sent > 0 {
			rtt := time.Since(time.Unix(0, sent)).Milliseconds()
			atomic.StoreInt64(&s.latency, rtt)
		}
		s.updateShardState(func(st *shared.ShardState) {
			st.Up = true
			st.LastHeartbeat = shared.Now()
			st.Latency = atomic.LoadInt64(&s.latency)
		})

	case discordtypes.GatewayOpcodeHeartbeat:
		s.sendHeartbeat()
	}
}

// handleDispatch implements step 7a/7b: opportunistic ShardState update
// for the lifecycle-event subset, then unconditional envelope publish.
func (s *Shard) handleDispatch(payload discordtypes.GatewayPayload, raw []byte) {
	switch payload.T {
	case "READY":
		var ready discordtypes.ReadyEvent
		json.Unmarshal(payload.D, &ready)
		s.sessionID = ready.SessionID
		s.resumeURL = ready.ResumeGatewayURL
		for _, g := range ready.Guilds {
			s.guildIDs[g.ID] = struct{}{}
		}
		s.updateShardState(func(st *shared.ShardState) {
			st.Up = true
			st.GuildCount = len(s.guildIDs)
		})
		s.logger.Info().Msg("READY received")

		// Exactly one presence update, on shard 0's first READY only,
		// per spec.md §8 scenario 6.
		if s.id == 0 && s.presenceSent.CompareAndSwap(false, true) {
			if err := s.sendPresenceUpdate(); err != nil {
				s.logger.Error().Err(err).Msg("presence update failed")
			}
		}

	case "RESUMED":
		s.updateShardState(func(st *shared.ShardState) {
			st.Up = true
			st.LastConnection = shared.Now()
		})
		s.logger.Info().Msg("RESUMED received")

	case "GUILD_CREATE":
		var g discordtypes.GuildCreateEvent
		json.Unmarshal(payload.D, &g)
		s.guildIDs[g.ID] = struct{}{}
		s.updateShardState(func(st *shared.ShardState) {
			st.GuildCount = len(s.guildIDs)
		})

	case "GUILD_DELETE":
		var g discordtypes.GuildDeleteEvent
		json.Unmarshal(payload.D, &g)
		delete(s.guildIDs, g.ID)
		s.updateShardState(func(st *shared.ShardState) {
			st.GuildCount = len(s.guildIDs)
		})
	}

	s.publishEnvelope(raw)
}

// publishEnvelope wraps the full raw dispatch frame (opcode, type, and
// data) in a time-sortable envelope and publishes it to the "discord"
// work queue — the handler runtime's dispatcher needs the frame's "t"
// field to route the event, not just its "d" payload.
func (s *Shard) publishEnvelope(raw []byte) {
	env := shared.NewEnvelope(s.id, string(raw))
	body, err := env.Marshal()
	if err != nil {
		s.logger.Error().Err(err).Msg("envelope marshal failed")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.queue.Publish(ctx, body); err != nil {
		s.logger.Error().Err(err).Msg("envelope publish failed")
	}
}

// recordClose implements the Close-frame branch of spec.md §4.1 step 7.
func (s *Shard) recordClose() {
	s.updateShardState(func(st *shared.ShardState) {
		st.Up = false
		st.DisconnectCount++
	})
}

// updateShardState reads the current ShardState (or starts fresh), applies
// mutate, and writes a full JSON overwrite back to the KV store — there
// is no partial update, per spec.md §4.1. Errors are logged, never fatal.
func (s *Shard) updateShardState(mutate func(*shared.ShardState)) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := s.kv.GetShardState(ctx, s.id)
	if err != nil {
		s.logger.Error().Err(err).Msg("shard state read failed")
		return
	}

	var st *shared.ShardState
	if raw == nil {
		st = shared.NewShardState(s.id)
	} else {
		st, err = shared.UnmarshalShardState(raw)
		if err != nil {
			s.logger.Error().Err(err).Msg("shard state decode failed")
			st = shared.NewShardState(s.id)
		}
	}

	mutate(st)

	data, err := st.Marshal()
	if err != nil {
		s.logger.Error().Err(err).Msg("shard state encode failed")
		return
	}
	if err := s.kv.PutShardState(ctx, s.id, data); err != nil {
		s.logger.Error().Err(err).Msg("shard state write failed")
	}
}

func (s *Shard) sendIdentify() error {
	s.identifyLimiter.Wait()
	payload, _ := json.Marshal(map[string]any{
		"op": discordtypes.GatewayOpcodeIdentify,
		"d": map[string]any{
			"token":      s.token,
			"properties": s.properties,
			"shards":     [2]int{s.id, s.total},
			"intents":    s.intents,
		},
	})
	return wsutil.WriteClientMessage(s.conn, ws.OpText, payload)
}

// sendPresenceUpdate announces the build version as a Custom Status
// activity, per spec.md §8 scenario 6: a Custom (type 4) activity whose
// state is " Version: <semver> (<sha>)", sent once after shard 0's first
// READY rather than folded into IDENTIFY.
func (s *Shard) sendPresenceUpdate() error {
	payload, _ := json.Marshal(map[string]any{
		"op": discordtypes.GatewayOpcodePresenceUpdate,
		"d": map[string]any{
			"since": nil,
			"activities": []map[string]any{{
				"name":  "Custom Status",
				"type":  activityTypeCustom,
				"state": formatVersionState(s.version),
			}},
			"status": "online",
			"afk":    false,
		},
	})
	return wsutil.WriteClientMessage(s.conn, ws.OpText, payload)
}

// formatVersionState renders the build version as the presence state
// spec.md §8 scenario 6 pins down: "1.2.3/abcdef-dirty" becomes
// " Version: 1.2.3 (abcdef-dirty)" — leading space, sha parenthesized.
func formatVersionState(version string) string {
	semver, sha, ok := strings.Cut(version, "/")
	if !ok {
		return fmt.Sprintf(" Version: %s", version)
	}
	return fmt.Sprintf(" Version: %s (%s)", semver, sha)
}

func (s *Shard) sendResume() error {
	payload, _ := json.Marshal(map[string]any{
		"op": discordtypes.GatewayOpcodeResume,
		"d": map[string]any{
			"token":      s.token,
			"session_id": s.sessionID,
			"seq":        atomic.LoadInt64(&s.seq),
		},
	})
	return wsutil.WriteClientMessage(s.conn, ws.OpText, payload)
}

func (s *Shard) sendHeartbeat() error {
	payload, _ := json.Marshal(map[string]any{
		"op": discordtypes.GatewayOpcodeHeartbeat,
		"d":  atomic.LoadInt64(&s.seq),
	})
	return wsutil.WriteClientMessage(s.conn, ws.OpText, payload)
}

// startHeartbeat begins sending heartbeats at interval, with a jittered
// first beat. A missed ACK closes the connection and returns, letting
// readLoop's error path trigger reconnect.
func (s *Shard) startHeartbeat(interval time.Duration) {
	jitter := time.Duration(rand.Float64() * float64(interval))
	select {
	case <-time.After(jitter):
	case <-s.heartbeatStop:
		return
	}

	if err := s.sendHeartbeat(); err != nil {
		s.logger.Error().Err(err).Msg("first heartbeat error")
		return
	}
	s.lastHeartbeatACK.Store(false)
	atomic.StoreInt64(&s.lastHeartbeatSent, time.Now().UnixNano())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.heartbeatStop:
			return
		case <-ticker.C:
			if s.conn == nil {
				return
			}
			if !s.lastHeartbeatACK.Load() {
				s.logger.Error().Msg("heartbeat not ACKed, reconnecting")
				s.conn.Close()
				return
			}
			s.lastHeartbeatACK.Store(false)
			atomic.StoreInt64(&s.lastHeartbeatSent, time.Now().UnixNano())

			if err := s.sendHeartbeat(); err != nil {
				s.logger.Error().Err(err).Msg("heartbeat error")
				s.conn.Close()
				return
			}
		}
	}
}

// reconnect closes the current connection and retries with exponential
// backoff, maxing out at one minute.
func (s *Shard) reconnect() {
	if s.conn != nil {
		s.conn.Close()
	}

	backoff := time.Second
	maxBackoff := 60 * time.Second

	for {
		s.logger.Info().Dur("backoff", backoff).Msg("attempting reconnect")
		time.Sleep(backoff)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		err := s.Connect(ctx)
		cancel()

		if err == nil {
			s.logger.Debug().Msg("reconnected successfully")
			return
		}

		s.logger.Error().Err(err).Msg("reconnect failed")
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// Latency returns the current heartbeat round-trip time in milliseconds.
func (s *Shard) Latency() int64 {
	return atomic.LoadInt64(&s.latency)
}

// Shutdown cleanly closes the shard's websocket connection.
func (s *Shard) Shutdown() error {
	if s.heartbeatStop != nil {
		close(s.heartbeatStop)
	}
	if s.conn != nil {
		s.logger.Info().Msg("shutting down")
		return s.conn.Close()
	}
	return nil
}
