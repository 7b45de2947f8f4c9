package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

func sampleReport() *ports.AttendanceReport {
	in := time.Date(2026, time.March, 14, 9, 5, 0, 0, time.UTC)
	out := time.Date(2026, time.March, 14, 17, 30, 15, 0, time.UTC)
	return &ports.AttendanceReport{
		Period:   domain.Daily,
		Ref:      "2026-03-14",
		Location: time.UTC,
		Rows: []ports.ReportRow{
			{Date: "2026-03-14", Employee: "Jane Doe", CheckIn: in, CheckOut: &out},
			{Date: "2026-03-14", Employee: "Unknown", CheckIn: in},
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "attendance-report-2026-03-14.csv", FileName(sampleReport(), FormatCSV))
	assert.Equal(t, "attendance-report-2026-03-14.xlsx", FileName(sampleReport(), FormatXLSX))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Employee", "Check In", "Check Out"},
		{"2026-03-14", "Jane Doe", "9:05:00 AM", "5:30:15 PM"},
		{"2026-03-14", "Unknown", "9:05:00 AM", "-"},
	}, records)
}

func TestWriteCSV_UsesReportLocation(t *testing.T) {
	report := sampleReport()
	report.Location = time.FixedZone("UTC-5", -5*60*60)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "4:05:00 AM", records[1][2])
}

func TestWriteCSV_EmptyReport(t *testing.T) {
	report := sampleReport()
	report.Rows = nil

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))
	assert.Equal(t, "Date,Employee,Check In,Check Out\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Employee", "Check In", "Check Out"}, rows[0])
	assert.Equal(t, []string{"2026-03-14", "Jane Doe", "9:05:00 AM", "5:30:15 PM"}, rows[1])
	assert.Equal(t, []string{"2026-03-14", "Unknown", "9:05:00 AM", "-"}, rows[2])
}
