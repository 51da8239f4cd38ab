package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type contactService struct {
	contactRepo repository.ContactRepository
	publisher   service.EventPublisher
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewContactService creates the contact form service.
func NewContactService(
	contactRepo repository.ContactRepository,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.ContactUsecase {
	return &contactService{
		contactRepo: contactRepo,
		publisher:   publisher,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// Submit stores the message and announces it to the notification feed.
func (srv *contactService) Submit(ctx context.Context, input *usecase.ContactInput) (*entity.ContactMessage, error) {
	msg := &entity.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", msg.Name},
		{"email", msg.Email},
		{"message", msg.Message},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}
	if err := srv.validate.Var(msg.Email, "email"); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid email address")
	}

	if err := srv.contactRepo.Create(ctx, msg); err != nil {
		return nil, errors.Wrap(err, "failed to save contact message")
	}

	occurredAt := msg.CreatedAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	if err := srv.publisher.PublishInsert(ctx, &service.InsertEvent{
		Table:      constants.TableContactMessages,
		RecordID:   msg.ID.String(),
		Message:    entity.NewContactNotice(msg).Message,
		OccurredAt: occurredAt,
	}); err != nil {
		srv.logger.Warn("Failed to publish contact message insert", "messageID", msg.ID, "error", err)
	}

	return msg, nil
}

func (srv *contactService) ListMessages(ctx context.Context) ([]*entity.ContactMessage, error) {
	messages, err := srv.contactRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list contact messages")
	}

	return messages, nil
}

func (srv *contactService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if err := srv.contactRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContactMessageNotFound) {
			return errors.Wrap(domainerrors.ErrContactMessageNotFound, id.String())
		}

		return errors.Wrap(err, "failed to delete contact message")
	}

	return nil
}
