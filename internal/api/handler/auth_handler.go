package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockwise/attendance-tracker/internal/api/metrics"
	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an employee and its login account.
//
// @Summary      Register a new employee
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Employee registration details"
// @Success      201   {object}  employeeResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	emp, err := h.authService.Register(c.Request().Context(), ports.RegisterEmployeeInput{
		Username:   req.Username,
		Password:   req.Password,
		Name:       req.Name,
		Email:      req.Email,
		Position:   req.Position,
		Department: req.Department,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate_username").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusCreated, toEmployeeResponse(*emp))
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	filter := req.filter()
	token, identity, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues(filterLabel(filter), "invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues(filterLabel(filter), "error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues(filterLabel(filter), "ok").Inc()
	metrics.ActiveSessions.Set(float64(h.authService.ActiveSessions()))
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: identity})
}

// Logout ends the caller's session; its token stops working immediately.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid := ctxSessionID(c)
	if sid == "" {
		return domain.ErrUnauthenticated
	}
	if err := h.authService.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	metrics.ActiveSessions.Set(float64(h.authService.ActiveSessions()))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the identity behind the caller's session.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

func filterLabel(f domain.AdminFilter) string {
	switch f {
	case domain.AdminUser:
		return domain.RoleAdmin
	case domain.EmployeeUser:
		return domain.RoleEmployee
	default:
		return "any"
	}
}
