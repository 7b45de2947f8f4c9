// Package export renders attendance reports into downloadable files.
package export

import (
	"fmt"
	"time"

	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

const (
	timeLayout  = "3:04:05 PM"
	noCheckOut  = "-"
	FormatCSV   = "csv"
	FormatXLSX  = "xlsx"
	ContentCSV  = "text/csv"
	ContentXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []string{"Date", "Employee", "Check In", "Check Out"}

// FileName returns the attachment name for a report, e.g.
// attendance-report-2026-03.csv.
func FileName(report *ports.AttendanceReport, ext string) string {
	return fmt.Sprintf("attendance-report-%s.%s", report.Ref, ext)
}

func cells(row ports.ReportRow, loc *time.Location) []string {
	checkOut := noCheckOut
	if row.CheckOut != nil {
		checkOut = formatTime(*row.CheckOut, loc)
	}
	return []string{row.Date, row.Employee, formatTime(row.CheckIn, loc), checkOut}
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(timeLayout)
}
