// Package metrics implements the cross-process observability substrate
// (spec.md §4.8): a 10s self-sampler writing a ProcessMetrics record to
// the KV metrics hash, plus a Prometheus HTTP exposition surface.
//
// Grounded in original_source/shared/src/metrics.rs's MetricsManager
// (interval_ms/prev_cpu_ms delta-cpu bookkeeping, ported field-for-field)
// and original_source/gateway|handler/src/metrics.rs's per-process
// install() wrappers (process name "gateway-N"/"handler-N", a global
// "process" label). gopsutil/v3/process stands in for metrics_process's
// /proc introspection; prometheus/client_golang stands in for
// metrics_exporter_prometheus, both grounded in adred-codev-ws_poc's use
// of the same two libraries.
package metrics

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/tulpje/tulpje/internal/kv"
	"github.com/tulpje/tulpje/internal/shared"
)

const sampleInterval = 10 * time.Second

// Sampler periodically snapshots this process's CPU/memory usage into the
// KV metrics hash under its own name.
type Sampler struct {
	name    string
	kv      *kv.Store
	proc    *process.Process
	logger  zerolog.Logger
	gauges  *Gauges
	prevCPU float64 // milliseconds of CPU time consumed as of the last sample
	prevAt  time.Time
}

// NewSampler builds a Sampler for the current process, identified by name
// (e.g. "gateway-3", "handler-0") in the KV metrics hash. gauges may be
// nil if the Prometheus exposition surface isn't wired up.
func NewSampler(name string, store *kv.Store, gauges *Gauges, logger zerolog.Logger) (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{name: name, kv: store, proc: proc, gauges: gauges, logger: logger, prevAt: time.Now()}, nil
}

// Run samples on a fixed interval until ctx is canceled. Failures are
// logged and retried on the next tick, per spec.md §4.8.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sample(ctx); err != nil {
				s.logger.Error().Err(err).Msg("metrics sample failed")
			}
		}
	}
}

// sample computes one ProcessMetrics record and writes it to the KV
// metrics hash, overwriting the previous value in place.
func (s *Sampler) sample(ctx context.Context) error {
	now := time.Now()
	intervalMs := now.Sub(s.prevAt).Milliseconds()

	times, err := s.proc.Times()
	if err != nil {
		return err
	}
	memInfo, err := s.proc.MemoryInfo()
	if err != nil {
		return err
	}

	currCPUMs := (times.User + times.System) * 1000
	cpuUsage := computeCPUUsage(currCPUMs, s.prevCPU, intervalMs)

	s.prevCPU = currCPUMs
	s.prevAt = now

	record := &shared.ProcessMetrics{
		Name:        s.name,
		CPUUsage:    cpuUsage,
		MemoryUsage: memInfo.RSS,
	}

	data, err := record.Marshal()
	if err != nil {
		return err
	}

	if s.gauges != nil {
		s.gauges.Update(ctx, cpuUsage, memInfo.RSS, s.kv)
	}

	return s.kv.PutMetrics(ctx, s.name, data)
}

// computeCPUUsage derives a fraction-of-one-core CPU usage from the
// milliseconds of CPU time consumed between two samples, guarding
// against a zero-length interval (spec.md §8 boundary behavior: a
// simultaneous/zero-duration interval must not divide by zero).
func computeCPUUsage(currCPUMs, prevCPUMs float64, intervalMs int64) float64 {
	if intervalMs <= 0 {
		return 0
	}
	return (currCPUMs - prevCPUMs) / float64(intervalMs)
}
