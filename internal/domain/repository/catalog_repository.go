package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for catalog persistence.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategoryID *uuid.UUID // Nil means every category.
	ActiveOnly bool
}

// ProductRepository defines the persistence operations for catalog products.
type ProductRepository interface {
	// FindProducts lists products ordered by name, each with its category loaded.
	FindProducts(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// FindByID retrieves a product regardless of its active flag.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository defines the persistence operations for product categories.
type CategoryRepository interface {
	// FindAll lists categories ordered by name.
	FindAll(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes the category. Products keep their dangling category id.
	Delete(ctx context.Context, id uuid.UUID) error
}
