// Package service orchestrates the wallet core: it owns the local store,
// the gateway client, the reconciler and the per-safe polling, and it is
// the only layer that mutates shared state.
package service

import (
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/transaction/composer"
	"github.com/aura-nw/msafe-core/transaction/reconcile"
)

type Service struct {
	DB       *gorm.DB
	Client   *gateway.Client
	Composer *composer.Composer
	Rec      *reconcile.Reconciler
	Logger   *zap.Logger
	Chain    composer.ChainConfig

	limiter *rate.Limiter

	mu sync.Mutex
	// generation advances whenever the session's chain/safe context
	// switches. Every async fetch captures the generation at issue time and
	// its result is dropped when the generation moved on, so a slow response
	// can never overwrite state that belongs to a newer context.
	generation  uint64
	currentSafe string
}

func New(db *gorm.DB, client *gateway.Client, comp *composer.Composer, rec *reconcile.Reconciler, chain composer.ChainConfig, pollRate float64, logger *zap.Logger) *Service {
	return &Service{
		DB:       db,
		Client:   client,
		Composer: comp,
		Rec:      rec,
		Logger:   logger,
		Chain:    chain,
		limiter:  rate.NewLimiter(rate.Limit(pollRate), 1),
	}
}

// SwitchSafe makes safeAddress the session's current safe. The previous
// safe's pagination state is forgotten so a later visit starts from page
// one, and all in-flight fetches for it become stale.
func (s *Service) SwitchSafe(safeAddress string) {
	s.mu.Lock()
	prev := s.currentSafe
	if prev == safeAddress {
		s.mu.Unlock()
		return
	}
	s.currentSafe = safeAddress
	s.generation++
	s.mu.Unlock()

	if prev != "" {
		s.Rec.Forget(s.Chain.ChainID, prev)
	}
	s.Logger.Info("safe context switched", zap.String("safe", safeAddress))
}

// snapshotContext returns the generation to tag an outgoing fetch with.
func (s *Service) snapshotContext() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// stale reports whether a fetch issued at gen finished after the context
// moved on. Stale results are discarded, never merged.
func (s *Service) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}
