package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ContactHandlerParams holds dependencies for ContactHandler, injected by Fx.
type ContactHandlerParams struct {
	fx.In

	ContactUC usecase.ContactUsecase
}

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	contactUC usecase.ContactUsecase
}

// NewContactHandler is the constructor for ContactHandler.
func NewContactHandler(params ContactHandlerParams) *ContactHandler {
	return &ContactHandler{contactUC: params.ContactUC}
}

// ContactRequest is the body of POST /api/v1/contact. Field rules live in the usecase.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Submit handles POST /api/v1/contact.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.contactUC.Submit(c.Request().Context(), &usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newContactMessageView(msg))
}

// List handles GET /api/v1/admin/contacts.
func (h *ContactHandler) List(c echo.Context) error {
	messages, err := h.contactUC.ListMessages(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*ContactMessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, newContactMessageView(m))
	}

	return response.Success(c, http.StatusOK, views)
}

// Delete handles DELETE /api/v1/admin/contacts/:id.
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.contactUC.DeleteMessage(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
