package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	FeedUC usecase.NotificationFeedUsecase
}

// NotificationHandler serves the admin notification feed.
type NotificationHandler struct {
	feedUC usecase.NotificationFeedUsecase
}

// NewNotificationHandler is the constructor for NotificationHandler.
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{feedUC: params.FeedUC}
}

// List handles GET /api/v1/admin/notifications.
func (h *NotificationHandler) List(c echo.Context) error {
	notices, err := h.feedUC.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newNoticeViews(notices))
}

// Dismiss handles DELETE /api/v1/admin/notifications/:type/:id.
func (h *NotificationHandler) Dismiss(c echo.Context) error {
	noticeType := entity.NoticeType(c.Param("type"))
	if !noticeType.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown notification type")
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.feedUC.Dismiss(c.Request().Context(), noticeType, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ClearAll handles DELETE /api/v1/admin/notifications.
func (h *NotificationHandler) ClearAll(c echo.Context) error {
	if err := h.feedUC.ClearAll(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
