package usecase

import (
	"context"
	"time"

	"github.com/natterhq/natter/internal/metrics"
	"github.com/natterhq/natter/internal/space/domain"
)

// useCaseWithMetrics decorates the space UseCase with metrics
// instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a space UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "space", operation, status)
	u.metrics.RecordDuration(ctx, "space", operation, time.Since(start), status)
}

// CreateSpace records metrics for space creation.
func (u *useCaseWithMetrics) CreateSpace(ctx context.Context, input CreateSpaceInput) (*domain.Space, error) {
	start := time.Now()
	space, err := u.next.CreateSpace(ctx, input)
	u.record(ctx, "create", start, err)
	return space, err
}

// AddMember records metrics for membership grants.
func (u *useCaseWithMetrics) AddMember(ctx context.Context, input AddMemberInput) (*domain.Permission, error) {
	start := time.Now()
	perm, err := u.next.AddMember(ctx, input)
	u.record(ctx, "add_member", start, err)
	return perm, err
}

// PostMessage records metrics for message posts.
func (u *useCaseWithMetrics) PostMessage(ctx context.Context, input PostMessageInput) (*domain.Message, error) {
	start := time.Now()
	message, err := u.next.PostMessage(ctx, input)
	u.record(ctx, "post_message", start, err)
	return message, err
}

// GetMessage records metrics for message reads.
func (u *useCaseWithMetrics) GetMessage(ctx context.Context, spaceID, messageID int64) (*domain.Message, error) {
	start := time.Now()
	message, err := u.next.GetMessage(ctx, spaceID, messageID)
	u.record(ctx, "get_message", start, err)
	return message, err
}

// ListMessages records metrics for message listings.
func (u *useCaseWithMetrics) ListMessages(
	ctx context.Context,
	spaceID int64,
	offset, limit int,
) ([]*domain.Message, error) {
	start := time.Now()
	messages, err := u.next.ListMessages(ctx, spaceID, offset, limit)
	u.record(ctx, "list_messages", start, err)
	return messages, err
}

// HasPermission records metrics for permission checks.
func (u *useCaseWithMetrics) HasPermission(
	ctx context.Context,
	spaceID int64,
	username, capability string,
) (bool, error) {
	start := time.Now()
	allowed, err := u.next.HasPermission(ctx, spaceID, username, capability)
	u.record(ctx, "has_permission", start, err)
	return allowed, err
}

// GrantPermission records metrics for direct grants.
func (u *useCaseWithMetrics) GrantPermission(
	ctx context.Context,
	spaceID int64,
	username, perms string,
) error {
	start := time.Now()
	err := u.next.GrantPermission(ctx, spaceID, username, perms)
	u.record(ctx, "grant_permission", start, err)
	return err
}
