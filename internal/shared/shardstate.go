// Grounded in original_source/gateway/src/shard_state.rs: the ShardState
// record and its is_up() heuristic, ported field-for-field.
package shared

import "encoding/json"

// ShardState is the durable, per-shard health snapshot stored in the KV
// shard_status hash. Invariants per spec.md §3:
//   - heartbeat_interval > 0 once HELLO has been processed
//   - last_heartbeat is monotonic non-decreasing within one session
//   - up is a derived hint; canonical liveness is IsUp(now)
type ShardState struct {
	ShardID           int   `json:"shard_id"`
	GuildCount        int   `json:"guild_count"`
	Up                bool  `json:"up"`
	DisconnectCount   int   `json:"disconnect_count"`
	Latency           int64 `json:"latency"`
	HeartbeatInterval int64 `json:"heartbeat_interval"`
	LastStarted       int64 `json:"last_started"`
	LastHeartbeat     int64 `json:"last_heartbeat"`
	LastConnection    int64 `json:"last_connection"`
}

// NewShardState creates a freshly-started shard's state record.
func NewShardState(shardID int) *ShardState {
	return &ShardState{
		ShardID:     shardID,
		LastStarted: Now(),
	}
}

// IsUp implements the canonical liveness heuristic from spec.md §3/§8:
//
//	is_up(state, now) ⇒ state.up ∧ (now − state.last_heartbeat) < 1.2·heartbeat_interval/1000
//
// heartbeat_interval is stored in milliseconds; now is unix-seconds.
func (s *ShardState) IsUp(now int64) bool {
	if !s.Up {
		return false
	}
	thresholdSecs := float64(s.HeartbeatInterval) / 1000.0 * 1.2
	return float64(now-s.LastHeartbeat) < thresholdSecs
}

// Marshal encodes the shard state for the KV store.
func (s *ShardState) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalShardState decodes a KV shard_status value.
func UnmarshalShardState(data []byte) (*ShardState, error) {
	var s ShardState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
