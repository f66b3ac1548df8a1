package shared

import "testing"

func TestShardStateIsUp(t *testing.T) {
	s := &ShardState{
		Up:                true,
		HeartbeatInterval: 40_000, // 40s
		LastHeartbeat:     100,
	}

	// within 1.2x interval (48s)
	if !s.IsUp(140) {
		t.Error("expected shard to be up just under the threshold")
	}

	// past 1.2x interval
	if s.IsUp(149) {
		t.Error("expected shard to be down past the threshold")
	}

	s.Up = false
	if s.IsUp(100) {
		t.Error("up=false must never report up regardless of heartbeat recency")
	}
}

func TestShardStateRoundTrip(t *testing.T) {
	s := NewShardState(3)
	s.GuildCount = 12
	s.Up = true

	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	got, err := UnmarshalShardState(data)
	if err != nil {
		t.Fatalf("UnmarshalShardState() error: %v", err)
	}

	if got.ShardID != s.ShardID || got.GuildCount != s.GuildCount || got.Up != s.Up {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, s)
	}
}
