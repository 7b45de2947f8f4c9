package ports

import (
	"context"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// RegisterEmployeeInput carries the fields collected at self-registration.
type RegisterEmployeeInput struct {
	Username   string
	Password   string
	Name       string
	Email      string
	Position   string
	Department string
}

// UserFinder is the credential lookup the session layer depends on.
type UserFinder interface {
	// GetUser returns nil, nil when no user matches.
	GetUser(ctx context.Context, username, password string, filter domain.AdminFilter) (*domain.User, error)
}

// Database is the data access layer over the persistent store.
type Database interface {
	UserFinder

	Initialize(ctx context.Context) error
	RegisterEmployee(ctx context.Context, input RegisterEmployeeInput) (*domain.Employee, error)
	GetEmployees(ctx context.Context) ([]domain.Employee, error)
	// GetEmployee returns nil, nil when the employee does not exist.
	GetEmployee(ctx context.Context, id int) (*domain.Employee, error)
	RemoveEmployee(ctx context.Context, id int) error

	// GetAttendance returns every record, or only those for date when it
	// is non-empty.
	GetAttendance(ctx context.Context, date string) ([]domain.Attendance, error)
	GetAttendanceForPeriod(ctx context.Context, period domain.Period, ref string) ([]domain.Attendance, error)
	GetEmployeeAttendance(ctx context.Context, employeeID int) ([]domain.Attendance, error)
	MarkAttendance(ctx context.Context, employeeID int, kind domain.AttendanceKind) (*domain.Attendance, error)

	// Today is the date MarkAttendance would stamp right now.
	Today() string
}
