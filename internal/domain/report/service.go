package report

import (
	"context"
)

// XLSXContentType is the media type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ReportService interface {
	// MonthlyReport builds one DayRow per day of the requested month
	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// TodaySummary builds today's row for every listed user plus dashboard counters
	TodaySummary(ctx context.Context) (TodaySummary, error)

	// ExportMonthlyReport renders the monthly report as an XLSX workbook
	ExportMonthlyReport(ctx context.Context, req MonthlyReportRequest) (Export, error)
}
