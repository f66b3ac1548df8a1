/************************************************************************************
 *
 * yada (yet another discord api), A Lightweight Go library for Discord API
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 * Copyright 2025 Marouane Souiri
 *
 * Licensed under the BSD 3-Clause License.
 * See the LICENSE file for details.
 *
 ************************************************************************************/

// Adapted from the teacher's root workerpool.go: same dynamic min/max
// worker, idle-timeout, queue-grow-threshold design, with the teacher's
// bespoke Logger interface swapped for zerolog so the consume loop's
// "never blocks on a handler" requirement (spec.md §4.3) shares the
// runtime's own logging stack instead of a parallel one.
package framework

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// WorkerTask is one fire-and-forget unit of work submitted to a pool.
type WorkerTask func()

// WorkerPool decouples the consume loop from handler execution latency:
// Submit never blocks, and a full queue drops the task rather than
// stalling the caller.
type WorkerPool interface {
	// Submit returns false if the task was dropped because the queue is full.
	Submit(task WorkerTask) bool
	Shutdown()
}

type defaultWorkerPool struct {
	logger zerolog.Logger

	minWorkers int
	maxWorkers int
	queueCap   int

	workerCount        int32
	queue              chan WorkerTask
	queueGrowThreshold float64

	stopSignal   chan struct{}
	shutdownOnce atomic.Bool
	idleTimeout  time.Duration
}

type workerOption func(*defaultWorkerPool)

// WithMinWorkers sets the pool's floor worker count.
func WithMinWorkers(n int) workerOption {
	return func(p *defaultWorkerPool) { p.minWorkers = n }
}

// WithMaxWorkers sets the pool's worker ceiling.
func WithMaxWorkers(n int) workerOption {
	return func(p *defaultWorkerPool) { p.maxWorkers = n }
}

// WithQueueCap sets the pending-task queue capacity.
func WithQueueCap(n int) workerOption {
	return func(p *defaultWorkerPool) { p.queueCap = n }
}

// WithIdleTimeout sets how long an above-minimum worker waits for work
// before exiting.
func WithIdleTimeout(d time.Duration) workerOption {
	return func(p *defaultWorkerPool) { p.idleTimeout = d }
}

// WithQueueGrowThreshold sets the queue-fullness fraction at which the
// pool spawns an additional worker (0.75 = grow once 75% full).
func WithQueueGrowThreshold(threshold float64) workerOption {
	return func(p *defaultWorkerPool) { p.queueGrowThreshold = threshold }
}

// NewWorkerPool builds a pool with minWorkers already running.
func NewWorkerPool(logger zerolog.Logger, opts ...workerOption) WorkerPool {
	p := &defaultWorkerPool{
		logger:             logger,
		minWorkers:         10,
		maxWorkers:         300,
		queueCap:           200,
		idleTimeout:        10 * time.Second,
		stopSignal:         make(chan struct{}),
		queueGrowThreshold: 0.75,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan WorkerTask, p.queueCap)

	for i := 0; i < p.minWorkers; i++ {
		p.addWorker()
	}

	return p
}

func (p *defaultWorkerPool) addWorker() {
	atomic.AddInt32(&p.workerCount, 1)

	go func() {
		idleTimer := time.NewTimer(p.idleTimeout)
		defer idleTimer.Stop()

		for {
			select {
			case task := <-p.queue:
				task()

				if !idleTimer.Stop() {
					select {
					case <-idleTimer.C:
					default:
					}
				}
				idleTimer.Reset(p.idleTimeout)

			case <-idleTimer.C:
				if atomic.LoadInt32(&p.workerCount) > int32(p.minWorkers) {
					atomic.AddInt32(&p.workerCount, -1)
					p.logger.Debug().Msg("workerpool: worker exited due to idle timeout")
					return
				}
				idleTimer.Reset(p.idleTimeout)

			case <-p.stopSignal:
				return
			}
		}
	}()
}

// Submit submits a task to the pool. Returns false if the queue is full
// and the task was dropped.
func (p *defaultWorkerPool) Submit(task WorkerTask) bool {
	if p.shutdownOnce.Load() {
		return false
	}

	if float64(len(p.queue)) >= float64(p.queueCap)*p.queueGrowThreshold {
		if atomic.LoadInt32(&p.workerCount) < int32(p.maxWorkers) {
			p.addWorker()
			p.logger.Debug().Msg("workerpool: spawned new worker due to high queue usage")
		}
	}

	select {
	case p.queue <- task:
		return true
	default:
		p.logger.Debug().Msg("workerpool: dropping task due to full queue")
		return false
	}
}

// Shutdown stops the pool immediately; no waiting for in-flight workers.
func (p *defaultWorkerPool) Shutdown() {
	if p.shutdownOnce.CompareAndSwap(false, true) {
		close(p.stopSignal)
	}
}
