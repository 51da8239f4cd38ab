package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type feedFixtures struct {
	feed        *notificationFeedService
	orderRepo   *mockRepo.MockOrderRepository
	contactRepo *mockRepo.MockContactRepository
	subscriber  *mockSvc.MockInsertSubscriber
	notifier    *mockSvc.MockNotificationService
}

func createTestFeed(t *testing.T, mutate ...func(*config.Config)) feedFixtures {
	cfg := newTestConfig()
	for _, fn := range mutate {
		fn(cfg)
	}

	fx := feedFixtures{
		orderRepo:   mockRepo.NewMockOrderRepository(t),
		contactRepo: mockRepo.NewMockContactRepository(t),
		subscriber:  mockSvc.NewMockInsertSubscriber(t),
		notifier:    mockSvc.NewMockNotificationService(t),
	}
	fx.feed = newNotificationFeedService(NotificationFeedParams{
		Lc:          fxtest.NewLifecycle(t),
		OrderRepo:   fx.orderRepo,
		ContactRepo: fx.contactRepo,
		Subscriber:  fx.subscriber,
		Notifier:    fx.notifier,
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})

	return fx
}

func subscribeMode(cfg *config.Config) {
	cfg.Notifications.Mode = constants.NotificationModeSubscribe
	cfg.Notifications.DisplayLimit = 3
}

// expectSubscriptions captures the insert handlers registered for both tables.
func (fx feedFixtures) expectSubscriptions() map[string]service.InsertHandler {
	handlers := make(map[string]service.InsertHandler)
	for _, table := range []string{constants.TableOrders, constants.TableContactMessages} {
		fx.subscriber.EXPECT().
			SubscribeToInserts(table, mock.Anything).
			RunAndReturn(func(table string, handler service.InsertHandler) func() {
				handlers[table] = handler

				return func() {}
			})
	}

	return handlers
}

func insertEvent(table string, id uuid.UUID, at time.Time) *service.InsertEvent {
	return &service.InsertEvent{
		Table:      table,
		RecordID:   id.String(),
		Message:    "new " + table,
		OccurredAt: at,
	}
}

func TestNotificationFeed_Poll_MergesNewestFirst(t *testing.T) {
	fx := createTestFeed(t)

	ctx := context.Background()
	now := time.Now()

	orders := []*entity.Order{
		{ID: uuid.New(), TotalAmount: decimal.NewFromInt(2200), CreatedAt: now.Add(-time.Minute)},
		{ID: uuid.New(), TotalAmount: decimal.NewFromInt(500), CreatedAt: now.Add(-3 * time.Minute)},
	}
	messages := []*entity.ContactMessage{
		{ID: uuid.New(), Name: "Amina", Subject: "Sizes", CreatedAt: now.Add(-2 * time.Minute)},
	}

	fx.orderRepo.EXPECT().FindUnseen(ctx, 5).Return(orders, nil)
	fx.contactRepo.EXPECT().FindUnseen(ctx, 5).Return(messages, nil)

	notices, err := fx.feed.List(ctx)

	require.NoError(t, err)
	require.Len(t, notices, 3)
	assert.Equal(t, orders[0].ID, notices[0].ID)
	assert.Equal(t, entity.NoticeTypeContact, notices[1].Type)
	assert.Equal(t, "New message from Amina: Sizes", notices[1].Message)
	assert.Equal(t, orders[1].ID, notices[2].ID)
}

func TestNotificationFeed_Poll_Error(t *testing.T) {
	fx := createTestFeed(t)

	ctx := context.Background()
	fx.orderRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, errors.New("db down"))

	_, err := fx.feed.List(ctx)

	require.Error(t, err)
	fx.contactRepo.AssertNotCalled(t, "FindUnseen", mock.Anything, mock.Anything)
}

func TestMergeNotices_DedupsAndCaps(t *testing.T) {
	now := time.Now()
	id := uuid.New()

	notices := []*entity.Notice{
		{Type: entity.NoticeTypeOrder, ID: id, CreatedAt: now},
		{Type: entity.NoticeTypeOrder, ID: id, CreatedAt: now},
		{Type: entity.NoticeTypeContact, ID: id, CreatedAt: now.Add(time.Second)},
		{Type: entity.NoticeTypeOrder, ID: uuid.New(), CreatedAt: now.Add(-time.Hour)},
	}

	merged := mergeNotices(notices, 2)

	require.Len(t, merged, 2)
	assert.Equal(t, entity.NoticeTypeContact, merged[0].Type)
	assert.Equal(t, entity.NoticeTypeOrder, merged[1].Type)
	assert.Equal(t, id, merged[1].ID)
}

func TestNotificationFeed_Subscribe_PrependsDedupsAndCaps(t *testing.T) {
	fx := createTestFeed(t, subscribeMode)

	ctx := context.Background()
	fx.orderRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, nil)
	fx.contactRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, nil)
	handlers := fx.expectSubscriptions()

	fx.feed.start(ctx)
	defer fx.feed.stop()

	now := time.Now()
	first := uuid.New()
	handlers[constants.TableOrders](ctx, insertEvent(constants.TableOrders, first, now))
	handlers[constants.TableOrders](ctx, insertEvent(constants.TableOrders, first, now))
	handlers[constants.TableContactMessages](ctx, insertEvent(constants.TableContactMessages, uuid.New(), now))
	handlers[constants.TableOrders](ctx, insertEvent(constants.TableOrders, uuid.New(), now))
	latest := uuid.New()
	handlers[constants.TableOrders](ctx, insertEvent(constants.TableOrders, latest, now))

	notices, err := fx.feed.List(ctx)

	require.NoError(t, err)
	require.Len(t, notices, 3)
	assert.Equal(t, latest, notices[0].ID)
	for _, notice := range notices {
		assert.NotEqual(t, first, notice.ID)
	}
}

func TestNotificationFeed_Subscribe_IgnoresBadEvents(t *testing.T) {
	fx := createTestFeed(t, subscribeMode)

	ctx := context.Background()
	fx.orderRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, nil)
	fx.contactRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, nil)
	handlers := fx.expectSubscriptions()

	fx.feed.start(ctx)
	defer fx.feed.stop()

	handlers[constants.TableOrders](ctx, &service.InsertEvent{Table: constants.TableOrders, RecordID: "not-a-uuid"})
	fx.feed.onInsert(ctx, insertEvent("products", uuid.New(), time.Now()))

	notices, err := fx.feed.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestNotificationFeed_Subscribe_PushesToAdminTopic(t *testing.T) {
	fx := createTestFeed(t, subscribeMode, func(cfg *config.Config) {
		cfg.Firebase = &config.FirebaseConfig{AdminTopic: "store-admins"}
	})

	ctx := context.Background()
	orderID := uuid.New()
	fx.orderRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, nil)
	fx.contactRepo.EXPECT().FindUnseen(ctx, 5).Return(nil, nil)
	handlers := fx.expectSubscriptions()
	fx.notifier.EXPECT().
		SendTopicNotification(mock.Anything, "store-admins", "New order", "new orders", map[string]string{
			"type": "order",
			"id":   orderID.String(),
		}).
		Return(errors.New("fcm unavailable")).
		Once()

	fx.feed.start(ctx)
	handlers[constants.TableOrders](ctx, insertEvent(constants.TableOrders, orderID, time.Now()))
	handlers[constants.TableOrders](ctx, insertEvent(constants.TableOrders, orderID, time.Now()))
	fx.feed.stop()

	notices, err := fx.feed.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notices, 1)
}

func TestNotificationFeed_NoPushWithExternalTransport(t *testing.T) {
	fx := createTestFeed(t, func(cfg *config.Config) {
		cfg.Firebase = &config.FirebaseConfig{AdminTopic: "store-admins"}
		cfg.PubSub.Provider = constants.PubSubProviderGoogle
	})

	assert.Empty(t, fx.feed.pushTopic)
}

func TestNotificationFeed_Dismiss(t *testing.T) {
	fx := createTestFeed(t, subscribeMode)

	ctx := context.Background()
	orderID := uuid.New()
	messageID := uuid.New()
	fx.feed.add(&entity.Notice{Type: entity.NoticeTypeOrder, ID: orderID})
	fx.feed.add(&entity.Notice{Type: entity.NoticeTypeContact, ID: messageID})

	fx.orderRepo.EXPECT().MarkSeen(ctx, orderID).Return(nil)
	fx.contactRepo.EXPECT().MarkSeen(ctx, messageID).Return(repository.ErrContactMessageNotFound)

	require.NoError(t, fx.feed.Dismiss(ctx, entity.NoticeTypeOrder, orderID))
	require.NoError(t, fx.feed.Dismiss(ctx, entity.NoticeTypeContact, messageID))

	notices, err := fx.feed.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestNotificationFeed_Dismiss_Errors(t *testing.T) {
	fx := createTestFeed(t)

	ctx := context.Background()
	id := uuid.New()

	err := fx.feed.Dismiss(ctx, entity.NoticeType("product"), id)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	fx.orderRepo.EXPECT().MarkSeen(ctx, id).Return(errors.New("db down"))
	err = fx.feed.Dismiss(ctx, entity.NoticeTypeOrder, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to mark order")
}

func TestNotificationFeed_ClearAll(t *testing.T) {
	fx := createTestFeed(t, subscribeMode)

	ctx := context.Background()
	fx.feed.add(&entity.Notice{Type: entity.NoticeTypeOrder, ID: uuid.New()})

	fx.orderRepo.EXPECT().MarkAllSeen(ctx).Return(nil)
	fx.contactRepo.EXPECT().MarkAllSeen(ctx).Return(nil)

	require.NoError(t, fx.feed.ClearAll(ctx))

	notices, err := fx.feed.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestNewNotificationFeedService_SubscribeModeHooks(t *testing.T) {
	cfg := newTestConfig()
	subscribeMode(cfg)

	orderRepo := mockRepo.NewMockOrderRepository(t)
	contactRepo := mockRepo.NewMockContactRepository(t)
	subscriber := mockSvc.NewMockInsertSubscriber(t)

	orderRepo.EXPECT().FindUnseen(mock.Anything, 5).Return(nil, nil)
	contactRepo.EXPECT().FindUnseen(mock.Anything, 5).Return(nil, nil)
	unsubscribed := 0
	subscriber.EXPECT().
		SubscribeToInserts(mock.Anything, mock.Anything).
		Return(func() { unsubscribed++ }).
		Twice()

	lc := fxtest.NewLifecycle(t)
	NewNotificationFeedService(NotificationFeedParams{
		Lc:          lc,
		OrderRepo:   orderRepo,
		ContactRepo: contactRepo,
		Subscriber:  subscriber,
		Notifier:    mockSvc.NewMockNotificationService(t),
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})

	lc.RequireStart()
	lc.RequireStop()

	assert.Equal(t, 2, unsubscribed)
}
