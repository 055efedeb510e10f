// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download

import (
	"context"
	"log/slog"
	"time"

	"github.com/medscope/medscope/internal/platform/ctxutil"
)

// Lease grants one instance the right to sweep for a period.
type Lease interface {
	// Acquire reports whether this caller now holds the lease for ttl.
	Acquire(context context.Context, ttl time.Duration) (bool, error)
}

// Reaper periodically deletes expired download tokens.
//
// With several API instances running, the lease keeps sweeps to one per interval.
// A nil lease sweeps unconditionally.
type Reaper struct {
	service  *Service
	lease    Lease
	interval time.Duration
	logger   *slog.Logger
}

// NewReaper constructs a [Reaper].
func NewReaper(service *Service, lease Lease, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{service: service, lease: lease, interval: interval, logger: logger}
}

/*
Run sweeps once immediately, then on every tick until ctx is cancelled.
*/
func (reaper *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(reaper.interval)
	defer ticker.Stop()

	reaper.logger.Info("download_reaper_started", slog.Duration("interval", reaper.interval))

	for {
		if _, _, err := reaper.Sweep(ctx); err != nil && ctx.Err() == nil {
			reaper.logger.Error("download_reaper_sweep_failed", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			reaper.logger.Info("download_reaper_stopped")
			return
		case <-ticker.C:
		}
	}
}

/*
Sweep acquires the lease and deletes expired tokens.

Returns:
  - int64: Number of deleted tokens
  - bool: false when another instance holds the lease and the sweep was skipped
  - error: Lease or storage failures
*/
func (reaper *Reaper) Sweep(ctx context.Context) (int64, bool, error) {
	ctx = ctxutil.WithLogger(ctx, reaper.logger)

	if reaper.lease != nil {
		acquired, err := reaper.lease.Acquire(ctx, reaper.leaseTTL())
		if err != nil {
			return 0, false, err
		}
		if !acquired {
			reaper.logger.Debug("download_reaper_lease_held_elsewhere")
			return 0, false, nil
		}
	}

	count, err := reaper.service.Reap(ctx)
	if err != nil {
		return 0, true, err
	}
	return count, true, nil
}

// leaseTTL expires slightly before the next tick so the next sweep can run.
func (reaper *Reaper) leaseTTL() time.Duration {
	ttl := reaper.interval * 9 / 10
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
