package controller

import (
	"agro-market-api/internal/service"
	"agro-market-api/pkg/jwtauth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, tokens *jwtauth.Manager) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	auth := newAuthMiddleware(tokens)

	api := handler.Group("/api")
	secured := api.Group("", auth.Authenticate)
	admin := api.Group("", auth.Authenticate, auth.RequireAdmin)

	newDiagnosticRoutesHandler(api, services)
	newListingRoutesHandler(api, secured, services, validate)
	newRequestRoutesHandler(api, secured, services, validate)
	newDealRoutesHandler(secured, admin, services, validate)
	newBidRoutesHandler(secured, services, validate)
	newAuditRoutesHandler(admin, services, validate)
	newUserRoutesHandler(admin, services, validate)
	newAnnouncementRoutesHandler(api, admin, services, validate)
}
