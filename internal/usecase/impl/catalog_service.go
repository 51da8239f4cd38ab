package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

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

const (
	cacheKeyCategories  = "categories"
	cacheKeyProductsAll = "products:all"
)

// catalogService implements CatalogUsecase with a read-through cache.
// Cart and checkout pricing always read the store directly.
type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        service.CatalogCache
	ttl          time.Duration
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for the catalog service.
type CatalogServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Cache        service.CatalogCache
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCatalogService creates the shopper-facing catalog.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	var ttl time.Duration
	if params.Config.Redis != nil {
		ttl = params.Config.Redis.CatalogTTL
	}

	return &catalogService{
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		cache:        params.Cache,
		ttl:          ttl,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) ListProducts(ctx context.Context, categorySlug string) ([]*entity.Product, error) {
	filter := repository.ProductFilter{ActiveOnly: true}
	cacheKey := cacheKeyProductsAll

	slug := strings.ToLower(strings.TrimSpace(categorySlug))
	if slug != "" && slug != entity.CategorySlugAll {
		categories, err := srv.ListCategories(ctx)
		if err != nil {
			return nil, err
		}

		for _, category := range categories {
			if category.Slug() == slug {
				filter.CategoryID = &category.ID
				cacheKey = "products:" + category.ID.String()

				break
			}
		}
	}

	var products []*entity.Product
	if srv.readCache(ctx, cacheKey, &products) {
		return products, nil
	}

	products, err := srv.productRepo.FindProducts(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	srv.writeCache(ctx, cacheKey, products)

	return products, nil
}

// GetProduct returns an active product. Inactive products look missing to shoppers.
func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	cacheKey := "product:" + id.String()

	var product *entity.Product
	if srv.readCache(ctx, cacheKey, &product) && product != nil {
		return product, nil
	}

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	if !product.IsActive {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product is not active")
	}

	srv.writeCache(ctx, cacheKey, product)

	return product, nil
}

func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	if srv.readCache(ctx, cacheKeyCategories, &categories) {
		return categories, nil
	}

	categories, err := srv.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	srv.writeCache(ctx, cacheKeyCategories, categories)

	return categories, nil
}

// readCache decodes a cached value into dst. Cache failures are logged and treated as a miss.
func (srv *catalogService) readCache(ctx context.Context, key string, dst any) bool {
	raw, found, err := srv.cache.Get(ctx, key)
	if err != nil {
		srv.log(ctx).Warn("Catalog cache read failed", slog.String("key", key), slog.Any("error", err))

		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		srv.log(ctx).Warn("Discarding undecodable catalog cache entry", slog.String("key", key), slog.Any("error", err))

		return false
	}

	return true
}

func (srv *catalogService) writeCache(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		srv.log(ctx).Warn("Failed to encode catalog cache entry", slog.String("key", key), slog.Any("error", err))

		return
	}

	if err := srv.cache.Set(ctx, key, raw, srv.ttl); err != nil {
		srv.log(ctx).Warn("Catalog cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// invalidateCatalog drops cached listings after an admin write. On failure entries expire with their TTL.
func invalidateCatalog(ctx context.Context, cache service.CatalogCache, logger *slog.Logger) {
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("Catalog cache invalidation failed", slog.Any("error", err))
	}
}
