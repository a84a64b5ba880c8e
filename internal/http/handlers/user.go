package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type UserHandler struct {
	content services.ContentService
}

func NewUserHandler(content services.ContentService) *UserHandler {
	return &UserHandler{content: content}
}

// DELETE /api/v1/users/:id/progress
func (h *UserHandler) DeleteProgress(c *gin.Context) {
	userID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := h.content.DeleteUserProgress(requestCtx(c), userID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
