package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"
	"storefront/internal/infra/pubsub"
	mockSvc "storefront/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestPushHandler(t *testing.T, adminTopic string) (*PushHandler, *mockSvc.MockNotificationService) {
	cfg := &config.Config{
		PubSub:   &config.PubSubConfig{Provider: constants.PubSubProviderLocal},
		Firebase: &config.FirebaseConfig{AdminTopic: adminTopic},
	}
	notifier := mockSvc.NewMockNotificationService(t)

	return NewPushHandler(PushHandlerParams{
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Notifier: notifier,
	}), notifier
}

func pushRequest(t *testing.T, event *service.InsertEvent) *http.Request {
	t.Helper()

	msg, err := pubsub.NewPushMessage(event, "projects/shop/subscriptions/admin-push")
	require.NoError(t, err)
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func serve(h *PushHandler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	_ = h.HandlePush(echo.New().NewContext(req, rec))

	return rec
}

func TestPushHandler_OrderInsert_PushesToAdminTopic(t *testing.T) {
	h, notifier := createTestPushHandler(t, "store-admins")

	orderID := uuid.New()
	notifier.EXPECT().
		SendTopicNotification(mock.Anything, "store-admins", "New order", "New order #abc for 2200.00", map[string]string{
			"type": "order",
			"id":   orderID.String(),
		}).
		Return(nil)

	rec := serve(h, pushRequest(t, &service.InsertEvent{
		RequestID:  "req-1",
		Table:      constants.TableOrders,
		RecordID:   orderID.String(),
		Message:    "New order #abc for 2200.00",
		OccurredAt: time.Now(),
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_PushFailure_IsRetried(t *testing.T) {
	h, notifier := createTestPushHandler(t, "store-admins")

	notifier.EXPECT().
		SendTopicNotification(mock.Anything, "store-admins", "New contact message", mock.Anything, mock.Anything).
		Return(errors.New("fcm unavailable"))

	rec := serve(h, pushRequest(t, &service.InsertEvent{
		Table:    constants.TableContactMessages,
		RecordID: uuid.NewString(),
		Message:  "New message from Wanjiru: Sizes",
	}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPushHandler_AcknowledgesWithoutPush(t *testing.T) {
	tests := []struct {
		name       string
		adminTopic string
		event      *service.InsertEvent
	}{
		{
			name:       "unwatched table",
			adminTopic: "store-admins",
			event:      &service.InsertEvent{Table: "products", RecordID: uuid.NewString()},
		},
		{
			name:       "bad record id",
			adminTopic: "store-admins",
			event:      &service.InsertEvent{Table: constants.TableOrders, RecordID: "42"},
		},
		{
			name:  "no admin topic",
			event: &service.InsertEvent{Table: constants.TableOrders, RecordID: uuid.NewString()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, notifier := createTestPushHandler(t, tt.adminTopic)

			rec := serve(h, pushRequest(t, tt.event))

			assert.Equal(t, http.StatusOK, rec.Code)
			notifier.AssertNotCalled(t, "SendTopicNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPushHandler_MalformedMessage(t *testing.T) {
	h, _ := createTestPushHandler(t, "store-admins")

	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader([]byte(`{"message":{"data":"not base64!"}}`)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushHandler_RejectsUnverifiedPush(t *testing.T) {
	h, _ := createTestPushHandler(t, "store-admins")
	h.verifyToken = func(*http.Request) error { return errors.New("missing authorization header") }

	rec := serve(h, pushRequest(t, &service.InsertEvent{Table: constants.TableOrders, RecordID: uuid.NewString()}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNewPushHandler_VerifiesGooglePushOutsideDevelop(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: constants.PubSubProviderGoogle}}
	cfg.Env.Env = "production"

	h := NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	assert.NotNil(t, h.verifyToken)

	cfg.Env.Env = constants.EnvDevelop
	h = NewPushHandler(PushHandlerParams{Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	assert.Nil(t, h.verifyToken)
}

func TestVerifyPubSubToken_MissingHeader(t *testing.T) {
	err := verifyPubSubToken(httptest.NewRequest(http.MethodPost, "/push", nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing authorization header")
}
