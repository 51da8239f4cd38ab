package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// cartServiceFixtures holds all test dependencies for cart service tests.
type cartServiceFixtures struct {
	service     usecase.CartUsecase
	txManager   *mockRepo.MockTransactionManager
	cartRepo    *mockRepo.MockCartRepository
	txCartRepo  *mockRepo.MockCartRepository
	productRepo *mockRepo.MockProductRepository
	factory     *mockRepo.MockRepositoryFactory
}

func createTestCartService(t *testing.T) cartServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	cartRepo := mockRepo.NewMockCartRepository(t)

	srv := NewCartService(CartServiceParams{
		TxManager: txManager,
		CartRepo:  cartRepo,
		Logger:    newDiscardLogger(),
	})

	return cartServiceFixtures{
		service:     srv,
		txManager:   txManager,
		cartRepo:    cartRepo,
		txCartRepo:  mockRepo.NewMockCartRepository(t),
		productRepo: mockRepo.NewMockProductRepository(t),
		factory:     mockRepo.NewMockRepositoryFactory(t),
	}
}

// expectTx runs the transaction body against the fixture's factory.
func (fx cartServiceFixtures) expectTx(ctx context.Context) {
	fx.factory.EXPECT().CartRepo().Return(fx.txCartRepo)
	fx.factory.EXPECT().ProductRepo().Return(fx.productRepo)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(fx.factory)
		})
}

func TestCartService_AddToCart_NewLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("kikoy", 500, 10)

	fx.expectTx(ctx)
	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.txCartRepo.EXPECT().FindLine(ctx, userID, product.ID).Return(nil, repository.ErrCartLineNotFound)
	fx.txCartRepo.EXPECT().
		CreateLine(ctx, mock.MatchedBy(func(line *entity.CartLine) bool {
			return line.UserID == userID && line.ProductID == product.ID && line.Quantity == 2
		})).
		Return(nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return([]*entity.CartLine{newCartLine(userID, product, 2)}, nil)

	cart, err := fx.service.AddToCart(ctx, userID, product.ID, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount())
	assert.True(t, decimal.NewFromInt(1000).Equal(cart.Total()))
}

func TestCartService_AddToCart_IncrementsExistingLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("kikoy", 500, 10)
	existing := newCartLine(userID, product, 3)

	fx.expectTx(ctx)
	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.txCartRepo.EXPECT().FindLine(ctx, userID, product.ID).Return(existing, nil)
	fx.txCartRepo.EXPECT().UpdateQuantity(ctx, existing.ID, 4).Return(nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return([]*entity.CartLine{newCartLine(userID, product, 4)}, nil)

	cart, err := fx.service.AddToCart(ctx, userID, product.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCartService_AddToCart_ExceedsStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("kikoy", 500, 3)

	fx.expectTx(ctx)
	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.txCartRepo.EXPECT().FindLine(ctx, userID, product.ID).Return(newCartLine(userID, product, 2), nil)

	_, err := fx.service.AddToCart(ctx, userID, product.ID, 2)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	fx.txCartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_AddToCart_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		product *entity.Product
	}{
		{name: "inactive", product: &entity.Product{ID: uuid.New(), Name: "old", StockQuantity: 5}},
		{name: "sold out", product: &entity.Product{ID: uuid.New(), Name: "rare", IsActive: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestCartService(t)
			ctx := context.Background()

			fx.expectTx(ctx)
			fx.productRepo.EXPECT().FindByID(ctx, tt.product.ID).Return(tt.product, nil)

			_, err := fx.service.AddToCart(ctx, uuid.New(), tt.product.ID, 1)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestCartService_AddToCart_Guards(t *testing.T) {
	fx := createTestCartService(t)
	ctx := context.Background()

	_, err := fx.service.AddToCart(ctx, uuid.Nil, uuid.New(), 1)
	assert.True(t, errors.Is(err, domainerrors.ErrAuthRequired))

	_, err = fx.service.AddToCart(ctx, uuid.New(), uuid.New(), 0)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productA := newTestProduct("a", 500, 10)
	productB := newTestProduct("b", 1200, 10)

	fx.cartRepo.EXPECT().DeleteLine(ctx, userID, productA.ID).Return(nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return([]*entity.CartLine{newCartLine(userID, productB, 1)}, nil)

	cart, err := fx.service.UpdateQuantity(ctx, userID, productA.ID, 0)

	require.NoError(t, err)
	assert.Nil(t, cart.Line(productA.ID))
	assert.True(t, decimal.NewFromInt(1200).Equal(cart.Total()))
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCartService_UpdateQuantity_ClampsToStock(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("kikoy", 500, 4)
	line := newCartLine(userID, product, 1)

	fx.expectTx(ctx)
	fx.txCartRepo.EXPECT().FindLine(ctx, userID, product.ID).Return(line, nil)
	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.txCartRepo.EXPECT().UpdateQuantity(ctx, line.ID, 4).Return(nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return([]*entity.CartLine{newCartLine(userID, product, 4)}, nil)

	cart, err := fx.service.UpdateQuantity(ctx, userID, product.ID, 9)

	require.NoError(t, err)
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCartService_UpdateQuantity_SoldOutDeletesLine(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	product := newTestProduct("kikoy", 500, 0)

	fx.expectTx(ctx)
	fx.txCartRepo.EXPECT().FindLine(ctx, userID, product.ID).Return(newCartLine(userID, product, 2), nil)
	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.txCartRepo.EXPECT().DeleteLine(ctx, userID, product.ID).Return(nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(nil, nil)

	cart, err := fx.service.UpdateQuantity(ctx, userID, product.ID, 2)

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartService_UpdateQuantity_LineMissing(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.factory.EXPECT().CartRepo().Return(fx.txCartRepo)
	fx.txManager.EXPECT().
		Execute(ctx, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(fx.factory)
		})
	fx.txCartRepo.EXPECT().FindLine(ctx, userID, productID).Return(nil, repository.ErrCartLineNotFound)

	_, err := fx.service.UpdateQuantity(ctx, userID, productID, 2)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestCartService_CountAndTotal(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	lines := twoLineCart(userID)

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(lines, nil).Twice()

	count, err := fx.service.GetCartItemCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	total, err := fx.service.GetCartTotal(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "2200.00", total.StringFixed(2))
}

func TestCartService_RemoveAndClear(t *testing.T) {
	fx := createTestCartService(t)

	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	fx.cartRepo.EXPECT().DeleteLine(ctx, userID, productID).Return(nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(nil, nil)
	fx.cartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(nil)

	cart, err := fx.service.RemoveFromCart(ctx, userID, productID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	require.NoError(t, fx.service.ClearCart(ctx, userID))
}

func TestCartService_GetCart_AuthRequired(t *testing.T) {
	fx := createTestCartService(t)

	_, err := fx.service.GetCart(context.Background(), uuid.Nil)

	assert.True(t, errors.Is(err, domainerrors.ErrAuthRequired))
}
