package controller

import (
	"errors"
	"net/http"

	"agro-market-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type userRoutesHandler struct {
	userService service.User
	validate    *validator.Validate
}

func newUserRoutesHandler(admin *echo.Group, services *service.Services, v *validator.Validate) *userRoutesHandler {
	h := &userRoutesHandler{userService: services.User, validate: v}

	admin.POST("/users/:id/suspend", h.SuspendUser)
	admin.POST("/users/:id/verify", h.VerifyUser)

	return h
}

type suspendUserInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// /users/:id/suspend
func (h *userRoutesHandler) SuspendUser(c echo.Context) error {
	var input suspendUserInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)})
	}

	user, err := h.userService.SuspendUser(c.Request().Context(), c.Param("id"), currentPrincipal(c).Id, input.Reason)
	if err == nil {
		return c.JSON(http.StatusOK, user)
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no user with given id"})
	case errors.Is(err, service.ErrUserAlreadySuspended):
		return c.JSON(http.StatusConflict, errorResponse{"User is already suspended"})
	case errors.Is(err, service.ErrReasonRequired):
		return c.JSON(http.StatusBadRequest, errorResponse{"Suspension requires a reason"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}

// /users/:id/verify
func (h *userRoutesHandler) VerifyUser(c echo.Context) error {
	user, err := h.userService.VerifyUser(c.Request().Context(), c.Param("id"), currentPrincipal(c).Id)
	if err == nil {
		return c.JSON(http.StatusOK, user)
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{"There is no user with given id"})
	case errors.Is(err, service.ErrUserAlreadyVerified):
		return c.JSON(http.StatusConflict, errorResponse{"User is already verified"})
	}

	return c.JSON(http.StatusInternalServerError, errorResponse{"Error"})
}
