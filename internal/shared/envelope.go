// Package shared holds the small set of types that cross process
// boundaries: the queue envelope, shard health snapshot, process metrics
// sample, color parsing, and duration formatting.
//
// Grounded in original_source/shared/src/lib.rs (DiscordEvent/DiscordEventMeta)
// generalized to Go with google/uuid's NewV7 standing in for Rust's
// uuid::Uuid::now_v7.
package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EnvelopeMeta is the immutable metadata attached to an Envelope at publish
// time. Per spec.md §3, once published this is never mutated.
type EnvelopeMeta struct {
	// UUID is a time-sortable identifier assigned at ingress, used for tracing.
	UUID string `json:"uuid"`
	// Shard is the non-negative shard index that produced this envelope.
	Shard int `json:"shard"`
}

// Envelope is the unit crossing the work queue: an opaque raw gateway event
// payload tagged with tracing metadata.
type Envelope struct {
	Meta    EnvelopeMeta `json:"meta"`
	Payload string       `json:"payload"`
}

// NewEnvelope builds an Envelope for payload originating on shard, stamping a
// fresh time-sortable UUID.
func NewEnvelope(shard int, payload string) Envelope {
	return Envelope{
		Meta: EnvelopeMeta{
			UUID:  uuid.Must(uuid.NewV7()).String(),
			Shard: shard,
		},
		Payload: payload,
	}
}

// Marshal encodes the envelope to JSON.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEnvelope decodes a queue message body into an Envelope.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(data, &e)
	return e, err
}

// Now returns the current unix-seconds timestamp, the timebase ShardState and
// ProcessMetrics are stamped with.
func Now() int64 {
	return time.Now().Unix()
}
