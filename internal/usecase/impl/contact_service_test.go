package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	contactRepo := mockRepo.NewMockContactRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	srv := NewContactService(contactRepo, publisher, newDiscardLogger())

	ctx := context.Background()
	messageID := uuid.New()

	contactRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.ContactMessage")).
		Run(func(_ context.Context, msg *entity.ContactMessage) {
			msg.ID = messageID
		}).
		Return(nil)
	publisher.EXPECT().
		PublishInsert(ctx, mock.MatchedBy(func(event *service.InsertEvent) bool {
			return event.Table == constants.TableContactMessages &&
				event.RecordID == messageID.String() &&
				event.Message == "New message from Amina: Sizes"
		})).
		Return(errors.New("broker down"))

	msg, err := srv.Submit(ctx, &usecase.ContactInput{
		Name:    " Amina ",
		Email:   "amina@example.com",
		Subject: "Sizes",
		Message: "Do you have XL?",
	})

	require.NoError(t, err)
	assert.Equal(t, messageID, msg.ID)
	assert.Equal(t, "Amina", msg.Name)
}

func TestContactService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   *usecase.ContactInput
		details string
	}{
		{
			name:    "missing fields",
			input:   &usecase.ContactInput{Subject: "hi"},
			details: "missing name, email, message",
		},
		{
			name:    "bad email",
			input:   &usecase.ContactInput{Name: "Amina", Email: "not-an-email", Message: "hi"},
			details: "invalid email address",
		},
		{
			name:    "display name form",
			input:   &usecase.ContactInput{Name: "Amina", Email: "Amina <amina@example.com>", Message: "hi"},
			details: "invalid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contactRepo := mockRepo.NewMockContactRepository(t)
			srv := NewContactService(contactRepo, mockSvc.NewMockEventPublisher(t), newDiscardLogger())

			_, err := srv.Submit(context.Background(), tt.input)

			require.Error(t, err)
			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
			assert.Equal(t, tt.details, appErr.Details())
		})
	}
}

func TestContactService_ListAndDelete(t *testing.T) {
	contactRepo := mockRepo.NewMockContactRepository(t)
	srv := NewContactService(contactRepo, mockSvc.NewMockEventPublisher(t), newDiscardLogger())

	ctx := context.Background()
	messages := []*entity.ContactMessage{{ID: uuid.New()}}
	id := uuid.New()

	contactRepo.EXPECT().FindAll(ctx).Return(messages, nil)
	contactRepo.EXPECT().Delete(ctx, id).Return(repository.ErrContactMessageNotFound)

	got, err := srv.ListMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, messages, got)

	err = srv.DeleteMessage(ctx, id)
	assert.True(t, errors.Is(err, domainerrors.ErrContactMessageNotFound))
}
