package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

const sheetName = "Attendance"

// WriteXLSX writes the report as a single-sheet workbook with a bold header.
func WriteXLSX(w io.Writer, report *ports.AttendanceReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, row := range report.Rows {
		if err := setRow(f, i+2, cells(row, report.Location)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "D", 18); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}
