package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ProfileHandlerParams holds dependencies for ProfileHandler, injected by Fx.
type ProfileHandlerParams struct {
	fx.In

	ProfileUC usecase.ProfileUsecase
}

// ProfileHandler serves the user's own profile and the admin user screens.
type ProfileHandler struct {
	profileUC usecase.ProfileUsecase
}

// NewProfileHandler is the constructor for ProfileHandler.
func NewProfileHandler(params ProfileHandlerParams) *ProfileHandler {
	return &ProfileHandler{profileUC: params.ProfileUC}
}

// UpdateProfileRequest holds the editable contact fields. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

// AdminUpdateUserRequest adds the role to the profile fields.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *string `json:"role"`
}

func (r *UpdateProfileRequest) toInput() usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// GetProfile handles GET /api/v1/profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.profileUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileView(profile))
}

// UpdateProfile handles PUT /api/v1/profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := req.toInput()
	profile, err := h.profileUC.UpdateProfile(c.Request().Context(), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileView(profile))
}

// ListUsers handles GET /api/v1/admin/users.
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	users, err := h.profileUC.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}

	return response.Success(c, http.StatusOK, views)
}

// UpdateUser handles PUT /api/v1/admin/users/:id.
func (h *ProfileHandler) UpdateUser(c echo.Context) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req AdminUpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := &usecase.AdminUpdateUserInput{UpdateProfileInput: req.toInput()}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		input.Role = &role
	}

	profile, err := h.profileUC.UpdateUser(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileView(profile))
}

// DeleteUser handles DELETE /api/v1/admin/users/:id.
func (h *ProfileHandler) DeleteUser(c echo.Context) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.profileUC.DeleteUser(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
