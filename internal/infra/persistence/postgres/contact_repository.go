package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contactRepository implements the repository.ContactRepository interface.
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository is the constructor for contactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	msgM := fromContactDomain(msg)

	if err := repo.db.WithContext(ctx).Create(msgM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required contact information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create contact message")
	}

	msg.ID = msgM.ID
	msg.CreatedAt = msgM.CreatedAt

	return nil
}

func (repo *contactRepository) FindAll(ctx context.Context) ([]*entity.ContactMessage, error) {
	return repo.find(repo.db.WithContext(ctx).Order("created_at DESC"), "failed to list contact messages")
}

func (repo *contactRepository) FindUnseen(ctx context.Context, limit int) ([]*entity.ContactMessage, error) {
	return repo.find(repo.db.WithContext(ctx).
		Where("seen = ?", false).
		Order("created_at DESC").
		Limit(limit), "failed to list unseen contact messages")
}

func (repo *contactRepository) MarkSeen(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ContactMessageModel{}).
		Where("id = ?", id).
		Update("seen", true)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark contact message seen")
	}

	if result.RowsAffected == 0 {
		return repository.ErrContactMessageNotFound
	}

	return nil
}

func (repo *contactRepository) MarkAllSeen(ctx context.Context) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.ContactMessageModel{}).
		Where("seen = ?", false).
		Update("seen", true).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark contact messages seen")
	}

	return nil
}

func (repo *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ContactMessageModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete contact message")
	}

	if result.RowsAffected == 0 {
		return repository.ErrContactMessageNotFound
	}

	return nil
}

func (repo *contactRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).Model(&model.ContactMessageModel{}).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count contact messages")
	}

	return count, nil
}

func (repo *contactRepository) find(query *gorm.DB, failure string) ([]*entity.ContactMessage, error) {
	var msgModels []*model.ContactMessageModel

	if err := query.Find(&msgModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, failure)
	}

	msgs := make([]*entity.ContactMessage, 0, len(msgModels))
	for _, msgM := range msgModels {
		msgs = append(msgs, toContactDomain(msgM))
	}

	return msgs, nil
}

func toContactDomain(data *model.ContactMessageModel) *entity.ContactMessage {
	return &entity.ContactMessage{
		ID:        data.ID,
		Name:      data.Name,
		Email:     data.Email,
		Subject:   data.Subject,
		Message:   data.Message,
		Seen:      data.Seen,
		CreatedAt: data.CreatedAt,
	}
}

func fromContactDomain(data *entity.ContactMessage) *model.ContactMessageModel {
	return &model.ContactMessageModel{
		ID:        data.ID,
		Name:      data.Name,
		Email:     data.Email,
		Subject:   data.Subject,
		Message:   data.Message,
		Seen:      data.Seen,
		CreatedAt: data.CreatedAt,
	}
}
