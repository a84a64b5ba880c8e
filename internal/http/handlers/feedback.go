package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type FeedbackHandler struct {
	feedback services.FeedbackService
}

func NewFeedbackHandler(feedback services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// POST /api/v1/feedbacks/submit
// body: { "chapter_id": "...", "rating": 1-5, "feedback_text": "...", "feedback_keyword": "..." }
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req struct {
		ChapterID string `json:"chapter_id"`
		services.FeedbackContent
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, domainagg.Validation("feedback.submit", "invalid request body"))
		return
	}
	chapterID, err := uuid.Parse(req.ChapterID)
	if err != nil || chapterID == uuid.Nil {
		response.RespondAppError(c, domainagg.Validation("feedback.submit", "invalid chapter_id"))
		return
	}
	fb, err := h.feedback.Submit(requestCtx(c), chapterID, req.FeedbackContent)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": fb})
}

// GET /api/v1/feedbacks/:id
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	feedbackID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	fb, err := h.feedback.Get(requestCtx(c), feedbackID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": fb})
}

// GET /api/v1/feedbacks/chapter/:chapterId
func (h *FeedbackHandler) ListChapterFeedback(c *gin.Context) {
	chapterID, err := uuidParam(c, "chapterId")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	list, err := h.feedback.ListByChapter(requestCtx(c), chapterID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedbacks": list})
}

// PUT /api/v1/feedbacks/:id
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	feedbackID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	var req services.FeedbackContent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAppError(c, domainagg.Validation("feedback.update", "invalid request body"))
		return
	}
	fb, err := h.feedback.Update(requestCtx(c), feedbackID, req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": fb})
}

// DELETE /api/v1/feedbacks/:id
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	feedbackID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := h.feedback.Delete(requestCtx(c), feedbackID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
