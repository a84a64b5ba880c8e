package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /api/v1/admin/dashboard
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboard.GetDashboardStats(requestCtx(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
