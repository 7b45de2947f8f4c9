package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clockwise/attendance-tracker/internal/api/metrics"
	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
	"github.com/clockwise/attendance-tracker/internal/infrastructure/queue"
)

// AttendanceHandler serves check-in/check-out for employees and attendance
// queries for admins.
type AttendanceHandler struct {
	db    ports.Database
	queue ports.MarkQueue
}

func NewAttendanceHandler(db ports.Database, queue ports.MarkQueue) *AttendanceHandler {
	return &AttendanceHandler{db: db, queue: queue}
}

// Mine handles GET /v1/me/attendance.
//
// @Summary      Own attendance
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  myAttendanceResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/me/attendance [get]
func (h *AttendanceHandler) Mine(c echo.Context) error {
	employeeID, err := ctxEmployeeID(c)
	if err != nil {
		return err
	}
	records, err := h.db.GetEmployeeAttendance(c.Request().Context(), employeeID)
	if err != nil {
		return err
	}

	resp := myAttendanceResponse{History: toAttendanceList(records)}
	today := h.db.Today()
	for _, r := range records {
		if r.Date == today {
			rec := toAttendanceResponse(r)
			resp.Today = &rec
			break
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// CheckIn handles POST /v1/me/attendance/check-in.
//
// @Summary      Check in for today
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  attendanceResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/me/attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	return h.mark(c, domain.CheckIn, http.StatusCreated)
}

// CheckOut handles POST /v1/me/attendance/check-out.
//
// @Summary      Check out for today
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  attendanceResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/me/attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	return h.mark(c, domain.CheckOut, http.StatusOK)
}

func (h *AttendanceHandler) mark(c echo.Context, kind domain.AttendanceKind, status int) error {
	employeeID, err := ctxEmployeeID(c)
	if err != nil {
		return err
	}

	start := time.Now()
	rec, err := h.db.MarkAttendance(c.Request().Context(), employeeID, kind)
	metrics.MarkDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.MarksTotal.WithLabelValues(string(kind), queue.MarkResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(status, toAttendanceResponse(*rec))
}

// List handles GET /v1/attendance. With period and ref it returns that day,
// month or year; otherwise it filters by date, or returns everything.
//
// @Summary      Attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        date    query     string  false  "Exact date (YYYY-MM-DD)"
// @Param        period  query     string  false  "daily, monthly or yearly"
// @Param        ref     query     string  false  "Reference for period (2026-03-14, 2026-03, 2026)"
// @Success      200     {array}   attendanceResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/attendance [get]
func (h *AttendanceHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	period, ref := c.QueryParam("period"), c.QueryParam("ref")

	var (
		records []domain.Attendance
		err     error
	)
	switch {
	case period != "" || ref != "":
		records, err = h.db.GetAttendanceForPeriod(ctx, domain.Period(period), ref)
	default:
		records, err = h.db.GetAttendance(ctx, c.QueryParam("date"))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendanceList(records))
}

// EnqueueMarks handles POST /v1/attendance/marks. Marks are applied in the
// background, in order per employee; the response only confirms acceptance.
//
// @Summary      Queue a batch of attendance marks
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []markRequest  true  "Marks"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/attendance/marks [post]
func (h *AttendanceHandler) EnqueueMarks(c echo.Context) error {
	var reqs []markRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	marks := make([]ports.AttendanceMark, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("mark[%d]: %s", i, err.Error()))
		}
		marks = append(marks, ports.AttendanceMark{
			EmployeeID: req.EmployeeID,
			Kind:       domain.AttendanceKind(req.Kind),
		})
	}

	if err := h.queue.EnqueueBatch(c.Request().Context(), marks); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "marks accepted",
		Count:   len(marks),
	})
}
