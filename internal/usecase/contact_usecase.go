package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactUsecase stores contact form submissions and serves them to admins.
type ContactUsecase interface {
	Submit(ctx context.Context, input *ContactInput) (*entity.ContactMessage, error)
	ListMessages(ctx context.Context) ([]*entity.ContactMessage, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}
