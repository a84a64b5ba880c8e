package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type ActivityHandler struct {
	activity services.ActivityService
}

func NewActivityHandler(activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GET /api/v1/activity-log/short
func (h *ActivityHandler) ShortLog(c *gin.Context) {
	h.respond(c, true)
}

// GET /api/v1/activity-log/long
func (h *ActivityHandler) LongLog(c *gin.Context) {
	h.respond(c, false)
}

func (h *ActivityHandler) respond(c *gin.Context, short bool) {
	entries, err := h.activity.GetActivityLog(requestCtx(c), short)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": entries})
}
