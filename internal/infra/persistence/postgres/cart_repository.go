package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// cartRepository implements the repository.CartRepository interface.
// Cart reads always go to the primary: a shopper reads the cart right after changing it,
// and checkout must price what was just written, not what a replica has caught up to.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// FindLinesByUser returns the user's lines with their current products.
func (repo *cartRepository) FindLinesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartLine, error) {
	var lineModels []*model.CartItemModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load cart")
	}

	lines := make([]*entity.CartLine, 0, len(lineModels))
	for _, lineM := range lineModels {
		lines = append(lines, toCartLineDomain(lineM))
	}

	return lines, nil
}

// FindLine returns the line for a product in the user's cart.
func (repo *cartRepository) FindLine(ctx context.Context, userID, productID uuid.UUID) (*entity.CartLine, error) {
	var lineM model.CartItemModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&lineM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartLineNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find cart line")
	}

	return toCartLineDomain(&lineM), nil
}

// CreateLine inserts a new cart line.
func (repo *cartRepository) CreateLine(ctx context.Context, line *entity.CartLine) error {
	lineM := fromCartLineDomain(line)

	if err := repo.db.WithContext(ctx).Omit("Product").Create(lineM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("product already in cart")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductNotFound.WrapMessage("product no longer exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add cart line")
	}

	line.ID = lineM.ID
	line.CreatedAt = lineM.CreatedAt
	line.UpdatedAt = lineM.UpdatedAt

	return nil
}

// UpdateQuantity sets the quantity of a line.
func (repo *cartRepository) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("id = ?", lineID).
		Update("quantity", quantity)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart quantity")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

// DeleteLine removes the line for a product. Zero affected rows is success.
func (repo *cartRepository) DeleteLine(ctx context.Context, userID, productID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove cart line")
	}

	return nil
}

// DeleteAllByUser empties the user's cart.
func (repo *cartRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear cart")
	}

	return nil
}

func toCartLineDomain(data *model.CartItemModel) *entity.CartLine {
	line := &entity.CartLine{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Product != nil {
		line.Product = toProductDomain(data.Product)
	}

	return line
}

func fromCartLineDomain(data *entity.CartLine) *model.CartItemModel {
	return &model.CartItemModel{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
