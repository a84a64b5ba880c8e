package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/platform/ctxutil"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GET /api/v1/report
func (h *ReportHandler) GetMyReport(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAppError(c, domainagg.Unauthorized("report.get", "missing identity"))
		return
	}
	h.respond(c, rd.UserID)
}

// GET /api/v1/report/:userId
func (h *ReportHandler) GetUserReport(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	h.respond(c, userID)
}

func (h *ReportHandler) respond(c *gin.Context, userID uuid.UUID) {
	report, err := h.reports.GetUserReportData(requestCtx(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": report})
}
