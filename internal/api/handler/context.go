package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockwise/attendance-tracker/internal/api/middleware"
	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. Its
// absence means the route was mounted without Auth; fail with 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get(middleware.KeyIdentity).(domain.Identity)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}

// ctxEmployeeID returns the employee paired with the caller. Admin accounts
// have none and are refused.
func ctxEmployeeID(c echo.Context) (int, error) {
	identity, err := ctxIdentity(c)
	if err != nil {
		return 0, err
	}
	if identity.EmployeeID == nil {
		return 0, domain.ErrForbidden
	}
	return *identity.EmployeeID, nil
}

func ctxSessionID(c echo.Context) string {
	sid, _ := c.Get(middleware.KeySessionID).(string)
	return sid
}
