package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Consolidated monthly report of one user
	Consolidated(w http.ResponseWriter, r *http.Request)

	// Consolidated monthly report as an XLSX download
	ExportConsolidated(w http.ResponseWriter, r *http.Request)

	// Organization dashboard for today
	TodaySummary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Consolidated handles GET /attendance/consolidated
func (h *reportHandlerImpl) Consolidated(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseMonthlyRequest(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.MonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportConsolidated handles GET /attendance/consolidated/export
func (h *reportHandlerImpl) ExportConsolidated(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseMonthlyRequest(w, r)
	if !ok {
		return
	}

	export, err := h.reportService.ExportMonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, export.ContentType, export.Filename, export.Data)
}

// TodaySummary handles GET /attendance/today-summary (admin)
func (h *reportHandlerImpl) TodaySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.TodaySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseMonthlyRequest reads userId, month and year. Without userId the caller's own report
// is returned; employees may not ask for anyone else.
func (h *reportHandlerImpl) parseMonthlyRequest(w http.ResponseWriter, r *http.Request) (report.MonthlyReportRequest, bool) {
	callerID := getUserIDFromContext(r)
	if callerID == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return report.MonthlyReportRequest{}, false
	}

	query := r.URL.Query()

	userID := callerID
	if requested := optionalQuery(query.Get("userId"), query.Get("user_id")); requested != nil {
		userID = *requested
	}
	if userID != callerID && getRoleFromContext(r) != user.RoleAdmin {
		response.HandleError(w, user.ErrAdminPrivilegeRequired)
		return report.MonthlyReportRequest{}, false
	}

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return report.MonthlyReportRequest{}, false
	}

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return report.MonthlyReportRequest{}, false
	}

	return report.MonthlyReportRequest{
		UserID: userID,
		Month:  month,
		Year:   year,
	}, true
}
