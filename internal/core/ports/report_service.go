package ports

import (
	"context"
	"time"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
)

// ReportRow is one attendance record joined with its employee's name.
type ReportRow struct {
	Date     string
	Employee string
	CheckIn  time.Time
	CheckOut *time.Time
}

// AttendanceReport is the export-ready view of a reporting period.
type AttendanceReport struct {
	Period   domain.Period
	Ref      string
	Location *time.Location
	Rows     []ReportRow
}

// ReportService assembles attendance reports.
type ReportService interface {
	Build(ctx context.Context, period domain.Period, ref string) (*AttendanceReport, error)
}
