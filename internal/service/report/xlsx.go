package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

var exportHeader = []any{"Date", "Day", "Status", "In", "Out", "Duration"}

// ExportMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.Export, error) {
	monthly, err := s.MonthlyReport(ctx, req)
	if err != nil {
		return report.Export{}, err
	}

	data, err := s.renderWorkbook(monthly)
	if err != nil {
		return report.Export{}, fmt.Errorf("failed to render workbook: %w", err)
	}

	return report.Export{
		Filename:    fmt.Sprintf("consolidated_report_%s_%d_%d.xlsx", monthly.UserID, monthly.PeriodMonth, monthly.PeriodYear),
		ContentType: report.XLSXContentType,
		Data:        data,
	}, nil
}

func (s *ReportServiceImpl) renderWorkbook(monthly report.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "F1", bold); err != nil {
		return nil, err
	}

	for i, day := range monthly.Days {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{day.Date, day.Day, day.Status, s.cellTime(day.ClockIn), s.cellTime(day.ClockOut), day.Duration}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "B", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "C", "C", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "D", "F", 10); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellTime shortens an RFC 3339 timestamp to wall-clock HH:MM in the reference timezone.
func (s *ReportServiceImpl) cellTime(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.In(s.loc).Format("15:04")
}
