package impl

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// catalogServiceFixtures holds all test dependencies for catalog service tests.
type catalogServiceFixtures struct {
	service      usecase.CatalogUsecase
	productRepo  *mockRepo.MockProductRepository
	categoryRepo *mockRepo.MockCategoryRepository
	cache        *mockSvc.MockCatalogCache
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	cache := mockSvc.NewMockCatalogCache(t)

	srv := NewCatalogService(CatalogServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		Cache:        cache,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return catalogServiceFixtures{
		service:      srv,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func TestCatalogService_ListProducts_FiltersBySlug(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	homeware := &entity.Category{ID: uuid.New(), Name: "Home  Ware"}
	categories := []*entity.Category{{ID: uuid.New(), Name: "Clothing"}, homeware}
	products := []*entity.Product{newTestProduct("basket", 900, 4)}

	fx.cache.EXPECT().Get(ctx, cacheKeyCategories).Return(nil, false, nil)
	fx.categoryRepo.EXPECT().FindAll(ctx).Return(categories, nil)
	fx.cache.EXPECT().Set(ctx, cacheKeyCategories, mock.Anything, time.Minute).Return(nil)

	productsKey := "products:" + homeware.ID.String()
	fx.cache.EXPECT().Get(ctx, productsKey).Return(nil, false, nil)
	fx.productRepo.EXPECT().
		FindProducts(ctx, repository.ProductFilter{CategoryID: &homeware.ID, ActiveOnly: true}).
		Return(products, nil)
	fx.cache.EXPECT().Set(ctx, productsKey, mock.Anything, time.Minute).Return(nil)

	got, err := fx.service.ListProducts(ctx, "home-ware")

	require.NoError(t, err)
	assert.Equal(t, products, got)
}

func TestCatalogService_ListProducts_AllAndUnknownSlug(t *testing.T) {
	for _, slug := range []string{"", "all", "no-such-category"} {
		t.Run("slug "+slug, func(t *testing.T) {
			fx := createTestCatalogService(t)
			ctx := context.Background()

			if slug == "no-such-category" {
				fx.cache.EXPECT().Get(ctx, cacheKeyCategories).Return(nil, false, nil)
				fx.categoryRepo.EXPECT().FindAll(ctx).Return([]*entity.Category{{ID: uuid.New(), Name: "Clothing"}}, nil)
				fx.cache.EXPECT().Set(ctx, cacheKeyCategories, mock.Anything, time.Minute).Return(nil)
			}

			fx.cache.EXPECT().Get(ctx, cacheKeyProductsAll).Return(nil, false, nil)
			fx.productRepo.EXPECT().FindProducts(ctx, repository.ProductFilter{ActiveOnly: true}).Return(nil, nil)
			fx.cache.EXPECT().Set(ctx, cacheKeyProductsAll, mock.Anything, time.Minute).Return(nil)

			_, err := fx.service.ListProducts(ctx, slug)
			require.NoError(t, err)
		})
	}
}

func TestCatalogService_ListProducts_CacheHit(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	product := newTestProduct("kikoy", 500, 3)
	raw, err := json.Marshal([]*entity.Product{product})
	require.NoError(t, err)

	fx.cache.EXPECT().Get(ctx, cacheKeyProductsAll).Return(raw, true, nil)

	got, err := fx.service.ListProducts(ctx, "")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, product.ID, got[0].ID)
	assert.True(t, decimal.NewFromInt(500).Equal(got[0].Price))
	fx.productRepo.AssertNotCalled(t, "FindProducts", mock.Anything, mock.Anything)
}

func TestCatalogService_CacheFailureFallsThrough(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	categories := []*entity.Category{{ID: uuid.New(), Name: "Clothing"}}

	fx.cache.EXPECT().Get(ctx, cacheKeyCategories).Return(nil, false, errors.New("redis down"))
	fx.categoryRepo.EXPECT().FindAll(ctx).Return(categories, nil)
	fx.cache.EXPECT().Set(ctx, cacheKeyCategories, mock.Anything, time.Minute).Return(errors.New("redis down"))

	got, err := fx.service.ListCategories(ctx)

	require.NoError(t, err)
	assert.Equal(t, categories, got)
}

func TestCatalogService_GetProduct_InactiveIsNotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	product := newTestProduct("retired", 100, 1)
	product.IsActive = false

	fx.cache.EXPECT().Get(ctx, "product:"+product.ID.String()).Return(nil, false, nil)
	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	_, err := fx.service.GetProduct(ctx, product.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCatalogService_GetProduct_Missing(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.cache.EXPECT().Get(ctx, "product:"+id.String()).Return(nil, false, nil)
	fx.productRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.GetProduct(ctx, id)

	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

// productAdminFixtures holds all test dependencies for product admin tests.
type productAdminFixtures struct {
	service      usecase.ProductAdminUsecase
	productRepo  *mockRepo.MockProductRepository
	categoryRepo *mockRepo.MockCategoryRepository
	storage      *mockSvc.MockImageStorage
	cache        *mockSvc.MockCatalogCache
}

func createTestProductAdminService(t *testing.T) productAdminFixtures {
	fx := productAdminFixtures{
		productRepo:  mockRepo.NewMockProductRepository(t),
		categoryRepo: mockRepo.NewMockCategoryRepository(t),
		storage:      mockSvc.NewMockImageStorage(t),
		cache:        mockSvc.NewMockCatalogCache(t),
	}
	fx.service = NewProductAdminService(ProductAdminServiceParams{
		ProductRepo:  fx.productRepo,
		CategoryRepo: fx.categoryRepo,
		Storage:      fx.storage,
		Cache:        fx.cache,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return fx
}

func TestProductAdminService_CreateProduct_WithImage(t *testing.T) {
	fx := createTestProductAdminService(t)

	ctx := context.Background()
	categoryID := uuid.New()
	input := &usecase.ProductInput{
		Name:          " Kikoy ",
		Price:         decimal.RequireFromString("499.999"),
		StockQuantity: 12,
		CategoryID:    &categoryID,
		IsActive:      true,
		Image: &usecase.ImageUpload{
			Filename:    "kikoy.PNG",
			ContentType: "image/png",
			Data:        []byte("png"),
		},
	}

	fx.categoryRepo.EXPECT().FindByID(ctx, categoryID).Return(&entity.Category{ID: categoryID}, nil)
	fx.storage.EXPECT().
		Upload(ctx, "product-images", mock.MatchedBy(func(name string) bool {
			return len(name) == 36+len(".png") && name[36:] == ".png"
		}), "image/png", []byte("png")).
		Return("https://cdn.example.com/product-images/x.png", nil)
	fx.productRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	fx.cache.EXPECT().Invalidate(ctx).Return(nil)

	product, err := fx.service.CreateProduct(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "Kikoy", product.Name)
	assert.Equal(t, "500.00", product.Price.StringFixed(2))
	assert.Equal(t, "https://cdn.example.com/product-images/x.png", product.ImageURL)
	assert.Equal(t, &categoryID, product.CategoryID)
}

func TestProductAdminService_CreateProduct_Validation(t *testing.T) {
	unknownCategory := uuid.New()
	tests := []struct {
		name  string
		input *usecase.ProductInput
		setup func(fx productAdminFixtures)
	}{
		{name: "missing name", input: &usecase.ProductInput{Name: " "}},
		{name: "negative price", input: &usecase.ProductInput{Name: "x", Price: decimal.NewFromInt(-1)}},
		{name: "negative stock", input: &usecase.ProductInput{Name: "x", StockQuantity: -1}},
		{
			name:  "unknown category",
			input: &usecase.ProductInput{Name: "x", CategoryID: &unknownCategory},
			setup: func(fx productAdminFixtures) {
				fx.categoryRepo.EXPECT().FindByID(mock.Anything, unknownCategory).Return(nil, repository.ErrCategoryNotFound)
			},
		},
		{
			name: "not an image",
			input: &usecase.ProductInput{
				Name:  "x",
				Image: &usecase.ImageUpload{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hi")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestProductAdminService(t)
			if tt.setup != nil {
				tt.setup(fx)
			}

			_, err := fx.service.CreateProduct(context.Background(), tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			fx.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestProductAdminService_UpdateProduct(t *testing.T) {
	fx := createTestProductAdminService(t)

	ctx := context.Background()
	product := newTestProduct("kikoy", 500, 3)

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.productRepo.EXPECT().Update(ctx, product).Return(nil)
	fx.cache.EXPECT().Invalidate(ctx).Return(errors.New("redis down"))

	updated, err := fx.service.UpdateProduct(ctx, product.ID, &usecase.ProductInput{
		Name:          "kikoy",
		Price:         decimal.NewFromInt(650),
		StockQuantity: 0,
		ImageURL:      product.ImageURL,
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(650).Equal(updated.Price))
	assert.False(t, updated.IsActive)
	assert.False(t, updated.InStock())
}

func TestProductAdminService_DeleteProduct(t *testing.T) {
	fx := createTestProductAdminService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.productRepo.EXPECT().Delete(ctx, id).Return(nil).Once()
	fx.cache.EXPECT().Invalidate(ctx).Return(nil)
	require.NoError(t, fx.service.DeleteProduct(ctx, id))

	missing := uuid.New()
	fx.productRepo.EXPECT().Delete(ctx, missing).Return(repository.ErrProductNotFound)
	assert.True(t, errors.Is(fx.service.DeleteProduct(ctx, missing), domainerrors.ErrProductNotFound))
}

func TestProductAdminService_ListProductsIncludesInactive(t *testing.T) {
	fx := createTestProductAdminService(t)

	ctx := context.Background()
	fx.productRepo.EXPECT().FindProducts(ctx, repository.ProductFilter{}).Return(nil, nil)

	_, err := fx.service.ListProducts(ctx)
	require.NoError(t, err)
}

func TestUploadImage_ExtensionFromContentType(t *testing.T) {
	storage := mockSvc.NewMockImageStorage(t)
	ctx := context.Background()

	storage.EXPECT().
		Upload(ctx, "category-images", mock.MatchedBy(func(name string) bool {
			return len(name) > 36 && name[36] == '.'
		}), "image/jpeg", []byte("jpg")).
		Return("/category-images/x.jpg", nil)

	url, err := uploadImage(ctx, storage, "category-images", &usecase.ImageUpload{ContentType: "image/jpeg", Data: []byte("jpg")})

	require.NoError(t, err)
	assert.Equal(t, "/category-images/x.jpg", url)
}

func TestUploadImage_StorageFailure(t *testing.T) {
	storage := mockSvc.NewMockImageStorage(t)
	ctx := context.Background()

	storage.EXPECT().
		Upload(ctx, "category-images", mock.Anything, "image/png", mock.Anything).
		Return("", domainerrors.ErrImageUploadFailed)

	_, err := uploadImage(ctx, storage, "category-images", &usecase.ImageUpload{Filename: "a.png", ContentType: "image/png", Data: []byte("x")})

	assert.True(t, errors.Is(err, domainerrors.ErrImageUploadFailed))
}

// categoryServiceFixtures holds all test dependencies for category service tests.
type categoryServiceFixtures struct {
	service      usecase.CategoryUsecase
	categoryRepo *mockRepo.MockCategoryRepository
	storage      *mockSvc.MockImageStorage
	cache        *mockSvc.MockCatalogCache
}

func createTestCategoryService(t *testing.T) categoryServiceFixtures {
	fx := categoryServiceFixtures{
		categoryRepo: mockRepo.NewMockCategoryRepository(t),
		storage:      mockSvc.NewMockImageStorage(t),
		cache:        mockSvc.NewMockCatalogCache(t),
	}
	fx.service = NewCategoryService(CategoryServiceParams{
		CategoryRepo: fx.categoryRepo,
		Storage:      fx.storage,
		Cache:        fx.cache,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return fx
}

func TestCategoryService_CreateCategory(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()

	fx.categoryRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(c *entity.Category) bool {
			return c.Name == "Home Ware" && c.Slug() == "home-ware"
		})).
		Return(nil)
	fx.cache.EXPECT().Invalidate(ctx).Return(nil)

	category, err := fx.service.CreateCategory(ctx, &usecase.CategoryInput{Name: " Home Ware "})

	require.NoError(t, err)
	assert.Equal(t, "Home Ware", category.Name)

	_, err = fx.service.CreateCategory(ctx, &usecase.CategoryInput{})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCategoryService_UpdateCategory_NotFound(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.categoryRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrCategoryNotFound)

	_, err := fx.service.UpdateCategory(ctx, id, &usecase.CategoryInput{Name: "x"})

	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))
}

func TestCategoryService_UpdateCategory_WithImage(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	category := &entity.Category{ID: uuid.New(), Name: "Clothing", ImageURL: "/old.png"}

	fx.categoryRepo.EXPECT().FindByID(ctx, category.ID).Return(category, nil)
	fx.storage.EXPECT().
		Upload(ctx, "category-images", mock.Anything, "image/webp", []byte("webp")).
		Return("/category-images/new.webp", nil)
	fx.categoryRepo.EXPECT().Update(ctx, category).Return(nil)
	fx.cache.EXPECT().Invalidate(ctx).Return(nil)

	updated, err := fx.service.UpdateCategory(ctx, category.ID, &usecase.CategoryInput{
		Name:  "Clothing",
		Image: &usecase.ImageUpload{Filename: "c.webp", ContentType: "image/webp", Data: []byte("webp")},
	})

	require.NoError(t, err)
	assert.Equal(t, "/category-images/new.webp", updated.ImageURL)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	id := uuid.New()

	fx.categoryRepo.EXPECT().Delete(ctx, id).Return(nil)
	fx.cache.EXPECT().Invalidate(ctx).Return(nil)

	require.NoError(t, fx.service.DeleteCategory(ctx, id))
}
