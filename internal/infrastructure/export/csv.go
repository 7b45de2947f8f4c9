package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// WriteCSV writes the report with a header row followed by one row per
// attendance record.
func WriteCSV(w io.Writer, report *ports.AttendanceReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report.Rows {
		if err := cw.Write(cells(row, report.Location)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
