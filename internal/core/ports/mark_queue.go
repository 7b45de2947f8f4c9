package ports

import (
	"context"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// AttendanceMark is one queued check-in or check-out.
type AttendanceMark struct {
	EmployeeID int                   `json:"employeeId"`
	Kind       domain.AttendanceKind `json:"kind"`
}

// AttendanceMarker is the subset of Database the mark queue needs.
type AttendanceMarker interface {
	MarkAttendance(ctx context.Context, employeeID int, kind domain.AttendanceKind) (*domain.Attendance, error)
}

// MarkQueue accepts marks for asynchronous processing.
type MarkQueue interface {
	Enqueue(ctx context.Context, mark AttendanceMark) error
	EnqueueBatch(ctx context.Context, marks []AttendanceMark) error
}
