package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// Context keys populated by Auth.
const (
	KeySessionID = "session_id"
	KeyIdentity  = "identity"
	KeyUsername  = "username"
	KeyRole      = "role"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, domain.Identity, error)
}

// Auth validates the bearer token against the live sessions and injects the
// session id and identity into the context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			sid, identity, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set(KeySessionID, sid)
			c.Set(KeyIdentity, identity)
			c.Set(KeyUsername, identity.Username)
			c.Set(KeyRole, identity.Role())

			return next(c)
		}
	}
}
