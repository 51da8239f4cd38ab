package impl

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
	storage      service.ImageStorage
	cache        service.CatalogCache
	bucket       string
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for the category service.
type CategoryServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	Storage      service.ImageStorage
	Cache        service.CatalogCache
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCategoryService creates the back office category service.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		categoryRepo: params.CategoryRepo,
		storage:      params.Storage,
		cache:        params.Cache,
		bucket:       params.Config.Storage.CategoryBucket,
		logger:       params.Logger,
	}
}

func (srv *categoryService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

func (srv *categoryService) CreateCategory(ctx context.Context, input *usecase.CategoryInput) (*entity.Category, error) {
	category := &entity.Category{}
	if err := srv.apply(ctx, category, input); err != nil {
		return nil, err
	}

	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	srv.logger.Info("Category created", "categoryID", category.ID, "name", category.Name)
	invalidateCatalog(ctx, srv.cache, srv.logger)

	return category, nil
}

func (srv *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input *usecase.CategoryInput) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err, id)
	}

	if err := srv.apply(ctx, category, input); err != nil {
		return nil, err
	}

	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, mapCategoryError(err, id)
	}

	srv.logger.Info("Category updated", "categoryID", id)
	invalidateCatalog(ctx, srv.cache, srv.logger)

	return category, nil
}

// DeleteCategory leaves products pointing at the deleted id; they simply lose their category.
func (srv *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := srv.categoryRepo.Delete(ctx, id); err != nil {
		return mapCategoryError(err, id)
	}

	srv.logger.Info("Category deleted", "categoryID", id)
	invalidateCatalog(ctx, srv.cache, srv.logger)

	return nil
}

func (srv *categoryService) apply(ctx context.Context, category *entity.Category, input *usecase.CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	}

	imageURL := input.ImageURL
	if input.Image != nil {
		url, err := uploadImage(ctx, srv.storage, srv.bucket, input.Image)
		if err != nil {
			return err
		}
		imageURL = url
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	category.ImageURL = imageURL

	return nil
}

func mapCategoryError(err error, id uuid.UUID) error {
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return errors.Wrap(domainerrors.ErrCategoryNotFound, id.String())
	}

	return errors.Wrap(err, "category store operation failed")
}
