package handler

import (
	"time"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username   string `json:"username"   validate:"required,min=3,max=32,username"`
	Password   string `json:"password"   validate:"required,min=6,max=256"`
	Name       string `json:"name"       validate:"required,max=100"`
	Email      string `json:"email"      validate:"required,email"`
	Position   string `json:"position"   validate:"required"`
	Department string `json:"department" validate:"required"`
}

// loginRequest selects the account kind with Admin: true for the admin
// login, false for the employee login, omitted for either.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Admin    *bool  `json:"admin"`
}

func (r loginRequest) filter() domain.AdminFilter {
	switch {
	case r.Admin == nil:
		return domain.AnyUser
	case *r.Admin:
		return domain.AdminUser
	default:
		return domain.EmployeeUser
	}
}

type loginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// --- Employees ---

type employeeResponse struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     int       `json:"userId"`
}

func toEmployeeResponse(e domain.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UserID:     e.UserID,
	}
}

// --- Attendance ---

type attendanceResponse struct {
	ID         int        `json:"id"`
	EmployeeID int        `json:"employeeId"`
	Date       string     `json:"date"`
	CheckIn    time.Time  `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
}

func toAttendanceResponse(a domain.Attendance) attendanceResponse {
	return attendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
	}
}

func toAttendanceList(records []domain.Attendance) []attendanceResponse {
	out := make([]attendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toAttendanceResponse(r))
	}
	return out
}

// myAttendanceResponse is the employee dashboard: the record for the current
// day (null before check-in) and the full history.
type myAttendanceResponse struct {
	Today   *attendanceResponse  `json:"today"`
	History []attendanceResponse `json:"history"`
}

type markRequest struct {
	EmployeeID int    `json:"employeeId" validate:"required,gt=0"`
	Kind       string `json:"kind"       validate:"required,oneof=checkIn checkOut"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
