package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockwise/attendance-tracker/internal/api/metrics"
	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
	"github.com/clockwise/attendance-tracker/internal/infrastructure/export"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Export handles GET /v1/reports/attendance and streams the report as a
// file attachment.
//
// @Summary      Export attendance report
// @Tags         reports
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        period  query  string  true   "daily, monthly or yearly"
// @Param        ref     query  string  true   "Reference for period (2026-03-14, 2026-03, 2026)"
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Router       /v1/reports/attendance [get]
func (h *ReportHandler) Export(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatXLSX {
		return echo.NewHTTPError(http.StatusBadRequest, "format must be one of: csv xlsx")
	}

	period := domain.Period(c.QueryParam("period"))
	report, err := h.reports.Build(c.Request().Context(), period, c.QueryParam("ref"))
	if err != nil {
		return err
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(&buf, report)
		contentType = export.ContentXLSX
	default:
		err = export.WriteCSV(&buf, report)
		contentType = export.ContentCSV
	}
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	metrics.ReportExportsTotal.WithLabelValues(format, string(period)).Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, export.FileName(report, format)))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
