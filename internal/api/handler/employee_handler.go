package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// EmployeeHandler serves the admin employee directory.
type EmployeeHandler struct {
	db          ports.Database
	authService ports.AuthService
	log         zerolog.Logger
}

func NewEmployeeHandler(db ports.Database, authService ports.AuthService, log zerolog.Logger) *EmployeeHandler {
	return &EmployeeHandler{db: db, authService: authService, log: log}
}

// List handles GET /v1/employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   employeeResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	employees, err := h.db.GetEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResponse(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	emp, err := h.db.GetEmployee(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if emp == nil {
		return domain.ErrEmployeeNotFound
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(*emp))
}

// Remove handles DELETE /v1/employees/:id. The employee's user account and
// attendance go with it, and any open sessions of that user are ended.
//
// @Summary      Remove an employee
// @Tags         employees
// @Security     BearerAuth
// @Param        id   path  int  true  "Employee id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/employees/{id} [delete]
func (h *EmployeeHandler) Remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	emp, err := h.db.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	if emp == nil {
		return domain.ErrEmployeeNotFound
	}
	if err := h.db.RemoveEmployee(ctx, id); err != nil {
		return err
	}

	if n := h.authService.RevokeUser(ctx, emp.UserID); n > 0 {
		h.log.Info().Int("employee_id", id).Int("sessions", n).Msg("removed employee logged out")
	}
	return c.NoContent(http.StatusNoContent)
}

// Attendance handles GET /v1/employees/:id/attendance.
//
// @Summary      Attendance history of one employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Employee id"
// @Success      200  {array}   attendanceResponse
// @Router       /v1/employees/{id}/attendance [get]
func (h *EmployeeHandler) Attendance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	records, err := h.db.GetEmployeeAttendance(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceList(records))
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid employee id")
	}
	return id, nil
}
