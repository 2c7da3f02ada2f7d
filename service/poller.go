package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WatchSafe polls the safe snapshot and both transaction lists at the given
// interval until ctx is cancelled. Polls are independent; a slow response
// is dropped by the generation check instead of overwriting newer state
// (latest wins, not necessarily monotonic).
func (s *Service) WatchSafe(ctx context.Context, safeID int64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.pollOnce(ctx, safeID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx, safeID)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context, safeID int64) {
	if err := s.limiter.Wait(ctx); err != nil {
		return
	}
	gen := s.snapshotContext()

	safe, err := s.BuildSafe(ctx, safeID)
	if err != nil {
		s.Logger.Warn("safe poll failed", zap.Int64("safeId", safeID), zap.Error(err))
		return
	}
	// The chain may have switched while the snapshot was in flight; a
	// mismatched result must not feed the reconciler.
	if s.stale(gen) || safe.ChainID != s.Chain.ChainID {
		s.Logger.Debug("dropping stale safe snapshot", zap.Int64("safeId", safeID))
		return
	}

	if changed, err := s.RefreshQueue(ctx, safe); err != nil {
		s.Logger.Warn("queue poll failed", zap.String("safe", safe.Address), zap.Error(err))
	} else if changed {
		s.Logger.Debug("queue updated", zap.String("safe", safe.Address))
	}

	if changed, err := s.RefreshHistory(ctx, safe); err != nil {
		s.Logger.Warn("history poll failed", zap.String("safe", safe.Address), zap.Error(err))
	} else if changed {
		s.Logger.Debug("history updated", zap.String("safe", safe.Address))
	}
}
