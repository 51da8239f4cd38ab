package impl

import (
	"context"
	"testing"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
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

// checkoutServiceFixtures holds all test dependencies for checkout service tests.
type checkoutServiceFixtures struct {
	service     usecase.CheckoutUsecase
	txManager   *mockRepo.MockTransactionManager
	cartRepo    *mockRepo.MockCartRepository
	profileRepo *mockRepo.MockProfileRepository
	orderRepo   *mockRepo.MockOrderRepository
	publisher   *mockSvc.MockEventPublisher
}

func createTestCheckoutService(t *testing.T, mutate ...func(*config.CheckoutConfig)) checkoutServiceFixtures {
	cfg := newTestConfig()
	for _, fn := range mutate {
		fn(cfg.Checkout)
	}

	txManager := mockRepo.NewMockTransactionManager(t)
	cartRepo := mockRepo.NewMockCartRepository(t)
	profileRepo := mockRepo.NewMockProfileRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	srv := NewCheckoutService(CheckoutServiceParams{
		TxManager:   txManager,
		CartRepo:    cartRepo,
		ProfileRepo: profileRepo,
		OrderRepo:   orderRepo,
		Publisher:   publisher,
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})

	return checkoutServiceFixtures{
		service:     srv,
		txManager:   txManager,
		cartRepo:    cartRepo,
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// twoLineCart is product A at 500 x2 and product B at 1200 x1.
func twoLineCart(userID uuid.UUID) []*entity.CartLine {
	return []*entity.CartLine{
		newCartLine(userID, newTestProduct("a", 500, 10), 2),
		newCartLine(userID, newTestProduct("b", 1200, 3), 1),
	}
}

func assignOrderID(orderID uuid.UUID) func(context.Context, *entity.Order) error {
	return func(_ context.Context, order *entity.Order) error {
		order.ID = orderID

		return nil
	}
}

func TestCheckoutService_PlaceOrder_Success(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()
	lines := twoLineCart(userID)

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(lines, nil)

	var created *entity.Order
	fx.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		RunAndReturn(func(ctx context.Context, order *entity.Order) error {
			created = order

			return assignOrderID(orderID)(ctx, order)
		})

	fx.publisher.EXPECT().
		PublishInsert(ctx, mock.MatchedBy(func(event *service.InsertEvent) bool {
			return event.Table == constants.TableOrders && event.RecordID == orderID.String()
		})).
		Return(nil)

	var items []*entity.OrderItem
	fx.orderRepo.EXPECT().
		CreateItems(ctx, mock.AnythingOfType("[]*entity.OrderItem")).
		RunAndReturn(func(_ context.Context, got []*entity.OrderItem) error {
			items = got

			return nil
		})

	fx.cartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(nil)

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})
	require.NoError(t, err)

	assert.Equal(t, entity.CheckoutStateSucceeded, result.State)
	assert.Equal(t, []entity.CheckoutState{
		entity.CheckoutStateIdle,
		entity.CheckoutStateValidating,
		entity.CheckoutStatePlacingOrder,
		entity.CheckoutStateSucceeded,
	}, result.States)
	assert.Equal(t, orderID, result.OrderID)
	assert.Equal(t, orderID.String()[:8], result.Reference)
	assert.True(t, decimal.NewFromInt(2200).Equal(result.TotalAmount))
	assert.Empty(t, result.Warning)
	assert.Equal(t, usecase.OrdersRedirect, result.RedirectTo)

	require.NotNil(t, created)
	assert.Equal(t, entity.OrderStatusPending, created.Status)
	assert.Equal(t, "Nairobi, Kenya", created.ShippingAddress)

	require.Len(t, items, 2)
	assert.Equal(t, orderID, items[0].OrderID)
	assert.True(t, decimal.NewFromInt(500).Equal(items[0].Price))
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(1200).Equal(items[1].Price))
	assert.Equal(t, 1, items[1].Quantity)
}

func TestCheckoutService_PlaceOrder_MissingCity(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()

	result, err := fx.service.PlaceOrder(ctx, uuid.New(), &usecase.ShippingInput{Address: "Moi Avenue 1", City: "  "})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Equal(t, entity.CheckoutStateFailed, result.State)
	assert.Equal(t, uuid.Nil, result.OrderID)
	fx.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_RequiredFieldsFromConfig(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.RequireAddress = true
		cfg.RequirePostalCode = true
	})

	_, err := fx.service.PlaceOrder(context.Background(), uuid.New(), &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "missing address, postal_code", appErr.Details())
}

func TestCheckoutService_PlaceOrder_PhoneFallsBackToProfile(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.RequirePhone = true
	})

	ctx := context.Background()
	userID := uuid.New()

	fx.profileRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(&entity.Profile{UserID: userID, FirstName: "Wanjiru", Phone: "+254700000000"}, nil)
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)

	var created *entity.Order
	fx.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		RunAndReturn(func(ctx context.Context, order *entity.Order) error {
			created = order

			return assignOrderID(uuid.New())(ctx, order)
		})
	fx.publisher.EXPECT().PublishInsert(ctx, mock.Anything).Return(nil)
	fx.orderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(nil)
	fx.cartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(nil)

	_, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})
	require.NoError(t, err)
	assert.Equal(t, "+254700000000", created.Phone)
}

func TestCheckoutService_PlaceOrder_PhoneRequired(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.RequirePhone = true
	})

	ctx := context.Background()
	userID := uuid.New()

	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(nil, repository.ErrProfileNotFound)

	_, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCheckoutService_PlaceOrder_ProfileIncomplete(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.RequireCompleteProfile = true
	})

	ctx := context.Background()
	userID := uuid.New()

	fx.profileRepo.EXPECT().
		FindByUserID(ctx, userID).
		Return(&entity.Profile{UserID: userID, Phone: "+254700000000"}, nil)

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrProfileIncomplete))
	assert.Equal(t, entity.CheckoutStateFailed, result.State)
}

func TestCheckoutService_PlaceOrder_AuthRequired(t *testing.T) {
	fx := createTestCheckoutService(t)

	result, err := fx.service.PlaceOrder(context.Background(), uuid.Nil, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAuthRequired))
	assert.Equal(t, []entity.CheckoutState{entity.CheckoutStateIdle, entity.CheckoutStateFailed}, result.States)
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(nil, nil)

	_, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))
}

func TestCheckoutService_PlaceOrder_OrderInsertFails(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.orderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(errors.New("connection reset"))

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderCreationFailed))
	assert.Equal(t, entity.CheckoutStateFailed, result.State)
	fx.orderRepo.AssertNotCalled(t, "CreateItems", mock.Anything, mock.Anything)
	fx.cartRepo.AssertNotCalled(t, "DeleteAllByUser", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_ItemInsertFailsLeavesOrder(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.orderRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Order")).RunAndReturn(assignOrderID(orderID))
	fx.publisher.EXPECT().PublishInsert(ctx, mock.Anything).Return(nil)
	fx.orderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(errors.New("insert failed"))

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderItemsFailed))
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), orderID.String()[:8])
	assert.Equal(t, entity.CheckoutStateFailed, result.State)
	fx.cartRepo.AssertNotCalled(t, "DeleteAllByUser", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_CartClearFailsIsWarning(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).RunAndReturn(assignOrderID(uuid.New()))
	fx.publisher.EXPECT().PublishInsert(ctx, mock.Anything).Return(nil)
	fx.orderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(nil)
	fx.cartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(errors.New("timeout"))

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStateSucceeded, result.State)
	assert.Equal(t, domainerrors.ErrCartClearFailed.ErrorCode(), result.Warning)
}

func TestCheckoutService_PlaceOrder_PublishFailureIgnored(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).RunAndReturn(assignOrderID(uuid.New()))
	fx.publisher.EXPECT().PublishInsert(ctx, mock.Anything).Return(errors.New("broker down"))
	fx.orderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(nil)
	fx.cartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(nil)

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutStateSucceeded, result.State)
}

func TestCheckoutService_PlaceOrder_CancelledContext(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).Return(context.Canceled)

	_, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderFailed))
	assert.False(t, errors.Is(err, domainerrors.ErrOrderCreationFailed))
}

// A retry after an item failure places a second order: nothing ties attempts together.
func TestCheckoutService_PlaceOrder_RetryCreatesSecondOrder(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()
	firstID, secondID := uuid.New(), uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil).Twice()
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).RunAndReturn(assignOrderID(firstID)).Once()
	fx.orderRepo.EXPECT().Create(ctx, mock.Anything).RunAndReturn(assignOrderID(secondID)).Once()
	fx.publisher.EXPECT().PublishInsert(ctx, mock.Anything).Return(nil).Twice()
	fx.orderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(errors.New("insert failed")).Once()
	fx.orderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(nil).Once()
	fx.cartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(nil)

	_, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})
	require.Error(t, err)

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})
	require.NoError(t, err)
	assert.Equal(t, secondID, result.OrderID)
	assert.NotEqual(t, firstID, result.OrderID)
}

func TestCheckoutService_PlaceOrder_Transactional(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.Transactional = true
	})

	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)

	txOrderRepo := mockRepo.NewMockOrderRepository(t)
	txCartRepo := mockRepo.NewMockCartRepository(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().OrderRepo().Return(txOrderRepo)
	factory.EXPECT().CartRepo().Return(txCartRepo)

	txOrderRepo.EXPECT().Create(ctx, mock.Anything).RunAndReturn(assignOrderID(orderID))
	txOrderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(nil)
	txCartRepo.EXPECT().DeleteAllByUser(ctx, userID).Return(nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})

	fx.publisher.EXPECT().
		PublishInsert(ctx, mock.MatchedBy(func(event *service.InsertEvent) bool {
			return event.RecordID == orderID.String()
		})).
		Return(nil)

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.NoError(t, err)
	assert.Equal(t, orderID, result.OrderID)
	assert.True(t, decimal.NewFromInt(2200).Equal(result.TotalAmount))
	fx.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_TransactionalRollback(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.Transactional = true
	})

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)

	txOrderRepo := mockRepo.NewMockOrderRepository(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().OrderRepo().Return(txOrderRepo)

	txOrderRepo.EXPECT().Create(ctx, mock.Anything).RunAndReturn(assignOrderID(uuid.New()))
	txOrderRepo.EXPECT().CreateItems(ctx, mock.Anything).Return(errors.New("constraint violation"))

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderFailed))
	assert.False(t, errors.Is(err, domainerrors.ErrOrderItemsFailed))
	assert.Equal(t, uuid.Nil, result.OrderID)
	assert.Equal(t, entity.CheckoutStateFailed, result.State)
	fx.publisher.AssertNotCalled(t, "PublishInsert", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_TransactionalPanic(t *testing.T) {
	fx := createTestCheckoutService(t, func(cfg *config.CheckoutConfig) {
		cfg.Transactional = true
	})

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.txManager.EXPECT().
		Execute(ctx, mock.Anything).
		RunAndReturn(func(context.Context, func(repository.RepositoryFactory) error) error {
			panic("driver bug")
		})

	result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderFailed))
	assert.Equal(t, entity.CheckoutStateFailed, result.State)
	assert.Equal(t, uuid.Nil, result.OrderID)
	fx.publisher.AssertNotCalled(t, "PublishInsert", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_InventoryChangedSinceCarting(t *testing.T) {
	tests := []struct {
		name    string
		product *entity.Product
		qty     int
		details string
	}{
		{
			name:    "stock dropped below quantity",
			product: newTestProduct("kikoy", 500, 1),
			qty:     5,
			details: "only 1 of kikoy in stock",
		},
		{
			name:    "product deactivated",
			product: &entity.Product{ID: uuid.New(), Name: "kanga", Price: decimal.NewFromInt(1200), StockQuantity: 4},
			qty:     1,
			details: "kanga is not available",
		},
		{
			name:    "sold out",
			product: newTestProduct("shuka", 800, 0),
			qty:     1,
			details: "shuka is sold out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestCheckoutService(t)

			ctx := context.Background()
			userID := uuid.New()
			lines := []*entity.CartLine{
				newCartLine(userID, newTestProduct("a", 500, 10), 2),
				newCartLine(userID, tt.product, tt.qty),
			}

			fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(lines, nil)

			result, err := fx.service.PlaceOrder(ctx, userID, &usecase.ShippingInput{City: "Nairobi"})

			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.details, appErr.Details())
			assert.Equal(t, entity.CheckoutStateFailed, result.State)
			assert.Equal(t, uuid.Nil, result.OrderID)
			fx.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			fx.cartRepo.AssertNotCalled(t, "DeleteAllByUser", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutService_Prepare(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return(twoLineCart(userID), nil)
	fx.profileRepo.EXPECT().FindByUserID(ctx, userID).Return(nil, repository.ErrProfileNotFound)

	summary, err := fx.service.Prepare(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.ItemCount)
	assert.True(t, decimal.NewFromInt(2200).Equal(summary.Total))
	assert.Nil(t, summary.Profile)
}

func TestCheckoutService_Prepare_Guards(t *testing.T) {
	fx := createTestCheckoutService(t)

	ctx := context.Background()

	_, err := fx.service.Prepare(ctx, uuid.Nil)
	assert.True(t, errors.Is(err, domainerrors.ErrAuthRequired))

	userID := uuid.New()
	fx.cartRepo.EXPECT().FindLinesByUser(ctx, userID).Return([]*entity.CartLine{}, nil)

	_, err = fx.service.Prepare(ctx, userID)
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))
}
