// Grounded in original_source/gateway/src/metrics.rs and
// original_source/handler/src/metrics.rs (both processes publish the same
// shape, just under a different process name).
package shared

import "encoding/json"

// ProcessMetrics is the per-process resource sample stored in the KV metrics
// hash, keyed by process name (e.g. "gateway-3", "handler-0").
type ProcessMetrics struct {
	Name        string  `json:"name"`
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage uint64  `json:"memory_usage"`
}

// Marshal encodes the sample for the KV store.
func (p *ProcessMetrics) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalProcessMetrics decodes a KV metrics value.
func UnmarshalProcessMetrics(data []byte) (*ProcessMetrics, error) {
	var p ProcessMetrics
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
