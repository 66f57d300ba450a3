package store

import (
	"context"
	"time"

	"github.com/natterhq/natter/internal/metrics"
	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// storeWithMetrics decorates a Store with metrics instrumentation.
type storeWithMetrics struct {
	next    Store
	metrics metrics.BusinessMetrics
}

// NewStoreWithMetrics wraps a Store with metrics recording.
func NewStoreWithMetrics(store Store, m metrics.BusinessMetrics) Store {
	return &storeWithMetrics{
		next:    store,
		metrics: m,
	}
}

// Create records metrics for token creation.
func (s *storeWithMetrics) Create(ctx context.Context, token *tokenDomain.Token) (string, error) {
	start := time.Now()
	id, err := s.next.Create(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "token", "create", status)
	s.metrics.RecordDuration(ctx, "token", "create", time.Since(start), status)

	return id, err
}

// Read records metrics for token resolution.
func (s *storeWithMetrics) Read(ctx context.Context, tokenID string) (*tokenDomain.Token, error) {
	start := time.Now()
	token, err := s.next.Read(ctx, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "token", "read", status)
	s.metrics.RecordDuration(ctx, "token", "read", time.Since(start), status)

	return token, err
}

// Revoke records metrics for token revocation.
func (s *storeWithMetrics) Revoke(ctx context.Context, tokenID string) error {
	start := time.Now()
	err := s.next.Revoke(ctx, tokenID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "token", "revoke", status)
	s.metrics.RecordDuration(ctx, "token", "revoke", time.Since(start), status)

	return err
}
