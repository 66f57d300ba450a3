package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/natterhq/natter/internal/token/repository"
)

// Sweeper periodically deletes expired token records so they do not
// accumulate. Reads already treat expired records as absent; the sweeper
// only reclaims storage off the request path.
type Sweeper struct {
	repo     repository.TokenRepository
	interval time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a sweeper with the given interval.
func NewSweeper(repo repository.TokenRepository, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. The first sweep runs after
// one full interval.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit. Safe to call
// more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// sweep removes expired records. A failed sweep is logged and retried on
// the next tick; it never affects request handling.
func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("token sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("token sweep completed", "deleted", deleted)
	}
}
