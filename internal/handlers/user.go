package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/ecofinds/marketplace/internal/middleware/auth"
	"github.com/ecofinds/marketplace/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.Users.Get(c.Request().Context(), mwauth.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req service.ProfileInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Users.UpdateProfile(c.Request().Context(), mwauth.UserID(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return success(c, http.StatusOK, "Profile updated successfully", user)
}
