package impl

import (
	"context"
	"log/slog"
	"mime"
	"path"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productAdminService implements ProductAdminUsecase.
type productAdminService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	storage      service.ImageStorage
	cache        service.CatalogCache
	bucket       string
	logger       *slog.Logger
}

// ProductAdminServiceParams holds dependencies for the product admin service.
type ProductAdminServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Storage      service.ImageStorage
	Cache        service.CatalogCache
	Config       *config.Config
	Logger       *slog.Logger
}

// NewProductAdminService creates the back office product service.
func NewProductAdminService(params ProductAdminServiceParams) usecase.ProductAdminUsecase {
	return &productAdminService{
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		storage:      params.Storage,
		cache:        params.Cache,
		bucket:       params.Config.Storage.ProductBucket,
		logger:       params.Logger,
	}
}

func (srv *productAdminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productAdminService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.FindProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *productAdminService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

func (srv *productAdminService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	product := &entity.Product{}
	if err := srv.apply(ctx, product, input); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))
	invalidateCatalog(ctx, srv.cache, srv.log(ctx))

	return product, nil
}

func (srv *productAdminService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := srv.apply(ctx, product, input); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	srv.log(ctx).Info("Product updated", slog.Any("productID", product.ID))
	invalidateCatalog(ctx, srv.cache, srv.log(ctx))

	return product, nil
}

// DeleteProduct removes the product and any cart lines holding it. Order items keep their snapshot.
func (srv *productAdminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}

		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))
	invalidateCatalog(ctx, srv.cache, srv.log(ctx))

	return nil
}

// apply validates the form and copies it onto product, uploading the image first when one is attached.
func (srv *productAdminService) apply(ctx context.Context, product *entity.Product, input *usecase.ProductInput) error {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	case input.Price.IsNegative():
		return domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	case input.StockQuantity < 0:
		return domainerrors.ErrValidationFailed.WithDetails("stock quantity must not be negative")
	}

	if input.CategoryID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrValidationFailed.WithDetails("unknown category " + input.CategoryID.String())
			}

			return errors.Wrap(err, "failed to find category")
		}
	}

	imageURL := input.ImageURL
	if input.Image != nil {
		url, err := uploadImage(ctx, srv.storage, srv.bucket, input.Image)
		if err != nil {
			return err
		}
		imageURL = url
	}

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price.Round(2)
	product.StockQuantity = input.StockQuantity
	product.CategoryID = input.CategoryID
	product.IsActive = input.IsActive
	product.ImageURL = imageURL

	return nil
}

// uploadImage stores an admin form image under a fresh name and returns its URL.
func uploadImage(ctx context.Context, storage service.ImageStorage, bucket string, image *usecase.ImageUpload) (string, error) {
	if !strings.HasPrefix(image.ContentType, "image/") {
		return "", domainerrors.ErrValidationFailed.WithDetails("uploaded file is not an image")
	}

	ext := strings.ToLower(path.Ext(image.Filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(image.ContentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	url, err := storage.Upload(ctx, bucket, uuid.New().String()+ext, image.ContentType, image.Data)
	if err != nil {
		return "", errors.Wrap(err, "failed to upload image")
	}

	return url, nil
}
