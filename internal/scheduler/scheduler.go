// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs the periodic best-seller refresh.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher periodically invokes a refresh function, typically the
// best-seller recalculation. A run that is still in progress when the
// next tick fires makes the tick a no-op rather than stacking runs.
type Refresher struct {
	interval time.Duration
	refresh  func() error
	logger   *slog.Logger

	running sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRefresher creates a refresher that calls refresh every interval.
func NewRefresher(interval time.Duration, refresh func() error, logger *slog.Logger) *Refresher {
	return &Refresher{
		interval: interval,
		refresh:  refresh,
		logger:   logger,
	}
}

// Start launches the refresh loop in a goroutine. One refresh runs
// immediately so a fresh deployment does not wait a full interval for
// its first best-seller set.
func (r *Refresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(ctx)
}

func (r *Refresher) loop(ctx context.Context) {
	defer close(r.done)

	r.run()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.run()
		}
	}
}

// run executes one refresh, skipping if the previous one has not
// finished.
func (r *Refresher) run() {
	if !r.running.TryLock() {
		r.logger.Warn("refresh still running, skipping tick")
		return
	}
	defer r.running.Unlock()

	start := time.Now()
	if err := r.refresh(); err != nil {
		r.logger.Error("refresh failed", "error", err)
		return
	}
	r.logger.Info("refresh complete", "duration", time.Since(start))
}

// Stop halts the loop and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}
