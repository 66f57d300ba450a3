// Package usecase implements the audit log business logic.
package usecase

import (
	"context"
	"time"

	"github.com/natterhq/natter/internal/audit/domain"
)

// RecordInput carries the request facts an audit entry captures. Status is
// only set for end entries.
type RecordInput struct {
	RequestID string
	Method    string
	Path      string
	Subject   *string
	Status    *int
}

// UseCase defines the audit business logic operations.
type UseCase interface {
	// RecordStart appends the start entry for a request. Callers must
	// treat a failure as fatal for the request: a request that cannot be
	// audited must not be served.
	RecordStart(ctx context.Context, input RecordInput) error

	// RecordEnd appends the end entry after the response is committed.
	RecordEnd(ctx context.Context, input RecordInput) error

	// List retrieves audit entries, newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.Entry, error)

	// Purge removes entries older than the retention cutoff. With dryRun
	// set it only counts the entries that would be removed.
	Purge(ctx context.Context, before time.Time, dryRun bool) (int64, error)
}

// AuditRepository defines the audit repository operations.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	List(ctx context.Context, offset, limit int) ([]*domain.Entry, error)
	CountBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// AuditUseCase handles audit log operations.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) UseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// RecordStart appends the start entry for a request.
func (uc *AuditUseCase) RecordStart(ctx context.Context, input RecordInput) error {
	return uc.auditRepo.Create(ctx, &domain.Entry{
		RequestID: input.RequestID,
		Phase:     domain.PhaseStart,
		Method:    input.Method,
		Path:      input.Path,
		Subject:   input.Subject,
		AuditTime: time.Now().UTC(),
	})
}

// RecordEnd appends the end entry for a request.
func (uc *AuditUseCase) RecordEnd(ctx context.Context, input RecordInput) error {
	return uc.auditRepo.Create(ctx, &domain.Entry{
		RequestID: input.RequestID,
		Phase:     domain.PhaseEnd,
		Method:    input.Method,
		Path:      input.Path,
		Subject:   input.Subject,
		Status:    input.Status,
		AuditTime: time.Now().UTC(),
	})
}

// List retrieves audit entries, newest first.
func (uc *AuditUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Entry, error) {
	return uc.auditRepo.List(ctx, offset, limit)
}

// Purge removes entries older than the retention cutoff. With dryRun set
// it only counts the entries that would be removed.
func (uc *AuditUseCase) Purge(ctx context.Context, before time.Time, dryRun bool) (int64, error) {
	if dryRun {
		return uc.auditRepo.CountBefore(ctx, before)
	}
	return uc.auditRepo.DeleteBefore(ctx, before)
}
