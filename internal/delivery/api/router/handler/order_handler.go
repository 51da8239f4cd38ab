package handler

import (
	"net/http"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
}

// OrderHandler serves order history, order QR codes and the admin order screens.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{orderUC: params.OrderUC}
}

// UpdateStatusRequest is the body of PUT /api/v1/admin/orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderDetailView struct {
	*OrderView
	Customer *ProfileView `json:"customer,omitempty"`
}

// History handles GET /api/v1/orders.
func (h *OrderHandler) History(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.GetOrderHistory(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderViews(orders))
}

// QRCode handles GET /api/v1/orders/:id/qr and returns a PNG.
func (h *OrderHandler) QRCode(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	png, err := h.orderUC.GetOrderQR(c.Request().Context(), orderID, userID, middleware.IsAdmin(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.PNG(c, png)
}

// List handles GET /api/v1/admin/orders.
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderUC.ListOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderViews(orders))
}

// Get handles GET /api/v1/admin/orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.orderUC.GetOrder(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &orderDetailView{
		OrderView: newOrderView(detail.Order),
		Customer:  newProfileView(detail.Profile),
	})
}

// UpdateStatus handles PUT /api/v1/admin/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), id, entity.OrderStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newOrderView(order))
}

// Stats handles GET /api/v1/admin/stats.
func (h *OrderHandler) Stats(c echo.Context) error {
	stats, err := h.orderUC.GetStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newStatsView(stats))
}
