package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

type stubReports struct {
	report *ports.AttendanceReport
	err    error
}

func (s *stubReports) Build(_ context.Context, period domain.Period, ref string) (*ports.AttendanceReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.report
	r.Period, r.Ref = period, ref
	return &r, nil
}

func sampleReports() *stubReports {
	in := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	return &stubReports{report: &ports.AttendanceReport{
		Location: time.UTC,
		Rows:     []ports.ReportRow{{Date: "2026-03-14", Employee: "J Doe", CheckIn: in}},
	}}
}

func TestReportHandler_ExportCSV(t *testing.T) {
	h := NewReportHandler(sampleReports())

	c, rec := newJSONContext(http.MethodGet, "/v1/reports/attendance?period=monthly&ref=2026-03", "")
	if err := h.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="attendance-report-2026-03.csv"` {
		t.Fatalf("unexpected disposition: %s", got)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv") {
		t.Fatalf("unexpected content type: %s", rec.Header().Get(echo.HeaderContentType))
	}
	if !strings.Contains(rec.Body.String(), "2026-03-14,J Doe,9:00:00 AM,-") {
		t.Fatalf("unexpected csv: %s", rec.Body.String())
	}
}

func TestReportHandler_ExportXLSX(t *testing.T) {
	h := NewReportHandler(sampleReports())

	c, rec := newJSONContext(http.MethodGet, "/v1/reports/attendance?period=daily&ref=2026-03-14&format=xlsx", "")
	if err := h.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "attendance-report-2026-03-14.xlsx") {
		t.Fatalf("unexpected disposition: %s", got)
	}
	// xlsx files are zip archives.
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Fatalf("body is not an xlsx archive")
	}
}

func TestReportHandler_Rejections(t *testing.T) {
	h := NewReportHandler(sampleReports())
	c, _ := newJSONContext(http.MethodGet, "/v1/reports/attendance?period=daily&ref=2026-03-14&format=pdf", "")
	if code := httpCode(t, h.Export(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}

	failing := &stubReports{err: domain.ErrInvalidPeriod}
	c, _ = newJSONContext(http.MethodGet, "/v1/reports/attendance?period=weekly&ref=x", "")
	if err := NewReportHandler(failing).Export(c); !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}
