package controller

import (
	"net/http"
	"strings"

	"agro-market-api/internal/common"
	"agro-market-api/internal/entity"
	"agro-market-api/pkg/jwtauth"

	"github.com/labstack/echo"
)

const principalContextKey = "principal"

type authMiddleware struct {
	tokens *jwtauth.Manager
}

func newAuthMiddleware(tokens *jwtauth.Manager) *authMiddleware {
	return &authMiddleware{tokens: tokens}
}

// Authenticate extracts the bearer principal into the request context. The
// token is opaque beyond subject and role; identity lives with the external
// auth collaborator.
func (m *authMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return c.JSON(http.StatusUnauthorized, errorResponse{"Missing Authorization header"})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, errorResponse{"Authorization header must be `Bearer <token>`"})
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{"Invalid or expired token"})
		}

		c.Set(principalContextKey, entity.Principal{Id: claims.Subject, Role: claims.Role})

		return next(c)
	}
}

func (m *authMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if currentPrincipal(c).Role != common.RoleAdmin {
			return c.JSON(http.StatusForbidden, errorResponse{"This action requires an admin principal"})
		}

		return next(c)
	}
}

func currentPrincipal(c echo.Context) entity.Principal {
	principal, _ := c.Get(principalContextKey).(entity.Principal)

	return principal
}
