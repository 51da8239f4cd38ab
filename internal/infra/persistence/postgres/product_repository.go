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
)

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindProducts lists products ordered by name with their categories attached.
func (repo *productRepository) FindProducts(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var productModels []*model.ProductModel

	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if err := query.Order("name ASC").Find(&productModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	if err := repo.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// FindByID retrieves a product regardless of its active flag.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product")
	}

	product := toProductDomain(&productM)
	if err := repo.attachCategories(ctx, []*entity.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid product data")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update overwrites every editable product column.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":           product.Name,
			"description":    product.Description,
			"price":          product.Price,
			"image_url":      product.ImageURL,
			"stock_quantity": product.StockQuantity,
			"category_id":    product.CategoryID,
			"is_active":      product.IsActive,
		})
	if result.Error != nil {
		if isNotNullConstraintViolation(result.Error) || isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid product data")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// Delete removes a product. Cart lines holding it are removed by the foreign key cascade.
func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// Count returns the number of products, active or not.
func (repo *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count products")
	}

	return count, nil
}

// attachCategories loads the categories referenced by products in one query.
// Dangling category ids are left with a nil Category.
func (repo *productRepository) attachCategories(ctx context.Context, products []*entity.Product) error {
	ids := make([]uuid.UUID, 0, len(products))
	seen := make(map[uuid.UUID]struct{}, len(products))
	for _, product := range products {
		if product.CategoryID == nil {
			continue
		}
		if _, ok := seen[*product.CategoryID]; ok {
			continue
		}
		seen[*product.CategoryID] = struct{}{}
		ids = append(ids, *product.CategoryID)
	}
	if len(ids) == 0 {
		return nil
	}

	var categoryModels []*model.CategoryModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&categoryModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to load product categories")
	}

	byID := make(map[uuid.UUID]*entity.Category, len(categoryModels))
	for _, categoryM := range categoryModels {
		byID[categoryM.ID] = toCategoryDomain(categoryM)
	}
	for _, product := range products {
		if product.CategoryID != nil {
			product.Category = byID[*product.CategoryID]
		}
	}

	return nil
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	return &entity.Product{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		ImageURL:      data.ImageURL,
		StockQuantity: data.StockQuantity,
		CategoryID:    data.CategoryID,
		IsActive:      data.IsActive,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	return &model.ProductModel{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		Price:         data.Price,
		ImageURL:      data.ImageURL,
		StockQuantity: data.StockQuantity,
		CategoryID:    data.CategoryID,
		IsActive:      data.IsActive,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
