// Package auth carries the echo middleware that resolves the accessToken
// cookie into a user identity on the request context.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecofinds/marketplace/internal/service"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// RequireLogin rejects requests without a valid access token.
func RequireLogin(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, role, err := identify(c, tokens)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			c.Set(ContextUserID, userID)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// OptionalLogin resolves the identity when a valid token is present and
// passes the request through anonymously otherwise. Used by the product
// feed, which excludes the caller's own listings only when it knows who is
// asking.
func OptionalLogin(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, role, err := identify(c, tokens); err == nil {
				c.Set(ContextUserID, userID)
				c.Set(ContextRole, role)
			}
			return next(c)
		}
	}
}

// AdminOnly must run after RequireLogin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get(ContextRole).(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	}
}

func identify(c echo.Context, tokens *service.TokenService) (uint, string, error) {
	cookie, err := c.Cookie(AccessCookie)
	if err != nil || cookie.Value == "" {
		return 0, "", service.ErrUnauthorized
	}
	return tokens.ParseAccess(cookie.Value)
}

// UserID returns the authenticated user id, zero when anonymous.
func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}

func Actor(c echo.Context) service.Actor {
	return service.Actor{UserID: UserID(c), Role: Role(c)}
}
