package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogUsecase serves the shopper-facing catalog. Only active products are visible.
type CatalogUsecase interface {
	// ListProducts returns active products ordered by name. An empty, "all" or unknown slug applies no filter.
	ListProducts(ctx context.Context, categorySlug string) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
}

// ImageUpload is an image attached to an admin form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductInput is the admin product form.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    *uuid.UUID
	IsActive      bool
	ImageURL      string
	Image         *ImageUpload // Replaces ImageURL when present.
}

// ProductAdminUsecase manages products from the back office.
type ProductAdminUsecase interface {
	// ListProducts includes inactive products.
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CategoryInput is the admin category form.
type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	Image       *ImageUpload
}

// CategoryUsecase manages categories from the back office.
type CategoryUsecase interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}
