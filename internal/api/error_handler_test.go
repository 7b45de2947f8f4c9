package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"duplicate", domain.ErrDuplicateUsername, http.StatusConflict, "username already exists"},
		{"checked in", domain.ErrAlreadyCheckedIn, http.StatusConflict, "already checked in today"},
		{"checked out", domain.ErrAlreadyCheckedOut, http.StatusConflict, "already checked out today"},
		{"check in first", domain.ErrMustCheckInFirst, http.StatusConflict, "must check in first"},
		{"wrapped rule", fmt.Errorf("mark: %w", domain.ErrMustCheckInFirst), http.StatusConflict, "must check in first"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"not found", domain.ErrEmployeeNotFound, http.StatusNotFound, "employee not found"},
		{"period", fmt.Errorf("%w: bad", domain.ErrInvalidPeriod), http.StatusBadRequest, "invalid report period: bad"},
		{"conflict", domain.ErrStoreConflict, http.StatusServiceUnavailable, "the store is busy, please retry"},
		{"echo", echo.NewHTTPError(http.StatusUnprocessableEntity, "email is required"), http.StatusUnprocessableEntity, "email is required"},
		{"unexpected", errors.New("redis: connection refused"), http.StatusInternalServerError, "An error occurred."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponses(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("committed response was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
