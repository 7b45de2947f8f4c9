package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

const unknownEmployee = "Unknown"

type ReportService struct {
	db  ports.Database
	loc *time.Location
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(db ports.Database, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{db: db, loc: loc}
}

// Build joins the period's attendance with employee names. Records whose
// employee no longer exists are labelled "Unknown".
func (s *ReportService) Build(ctx context.Context, period domain.Period, ref string) (*ports.AttendanceReport, error) {
	ref = strings.TrimSpace(ref)
	records, err := s.db.GetAttendanceForPeriod(ctx, period, ref)
	if err != nil {
		return nil, err
	}
	employees, err := s.db.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	names := make(map[int]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	rows := make([]ports.ReportRow, 0, len(records))
	for _, r := range records {
		name, ok := names[r.EmployeeID]
		if !ok {
			name = unknownEmployee
		}
		rows = append(rows, ports.ReportRow{
			Date:     r.Date,
			Employee: name,
			CheckIn:  r.CheckIn,
			CheckOut: r.CheckOut,
		})
	}

	return &ports.AttendanceReport{
		Period:   period,
		Ref:      ref,
		Location: s.loc,
		Rows:     rows,
	}, nil
}
