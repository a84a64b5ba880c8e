package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type ChapterHandler struct {
	progress services.ProgressService
	content  services.ContentService
}

func NewChapterHandler(progress services.ProgressService, content services.ContentService) *ChapterHandler {
	return &ChapterHandler{progress: progress, content: content}
}

// GET /api/v1/chapters
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	chapters, err := h.progress.GetChapterList(requestCtx(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapters": chapters})
}

// GET /api/v1/chapters/:id
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	chapterID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	detail, err := h.progress.GetChapterDetail(requestCtx(c), chapterID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": detail})
}

// PUT /api/v1/chapters/:id/rearrange
// body: { "items": [ { "type": "lesson" | "quiz", "id": "..." }, ... ] }
func (h *ChapterHandler) Rearrange(c *gin.Context) {
	chapterID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	var req struct {
		Items []services.RearrangeItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, domainagg.Validation("chapter.rearrange", "invalid request body"))
		return
	}
	if err := h.content.Rearrange(requestCtx(c), chapterID, req.Items); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /api/v1/chapters/:id
func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	chapterID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := h.content.DeleteChapter(requestCtx(c), chapterID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
