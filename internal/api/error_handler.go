package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

const internalErrorMessage = "An error occurred."

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes, echoing the domain
//     message to the client.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict, domain.ErrDuplicateUsername.Error()
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return http.StatusConflict, domain.ErrAlreadyCheckedIn.Error()
	case errors.Is(err, domain.ErrAlreadyCheckedOut):
		return http.StatusConflict, domain.ErrAlreadyCheckedOut.Error()
	case errors.Is(err, domain.ErrMustCheckInFirst):
		return http.StatusConflict, domain.ErrMustCheckInFirst.Error()
	case errors.Is(err, domain.ErrInvalidPeriod), errors.Is(err, domain.ErrInvalidAttendanceKind):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusNotFound, domain.ErrEmployeeNotFound.Error()
	case errors.Is(err, domain.ErrStoreConflict):
		log.Warn().Err(err).Str("path", c.Path()).Msg("store contention")
		return http.StatusServiceUnavailable, "the store is busy, please retry"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, internalErrorMessage
}
