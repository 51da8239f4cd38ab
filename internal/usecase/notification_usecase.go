package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// NotificationFeedUsecase is the admin feed of new orders and contact messages.
type NotificationFeedUsecase interface {
	// List returns the current notices, newest first, deduplicated and capped.
	List(ctx context.Context) ([]*entity.Notice, error)

	// Dismiss acknowledges one notice so it does not come back.
	Dismiss(ctx context.Context, noticeType entity.NoticeType, id uuid.UUID) error

	// ClearAll acknowledges every order and contact message.
	ClearAll(ctx context.Context) error
}
