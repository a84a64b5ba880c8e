package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type LessonHandler struct {
	lessons services.LessonService
	content services.ContentService
}

func NewLessonHandler(lessons services.LessonService, content services.ContentService) *LessonHandler {
	return &LessonHandler{lessons: lessons, content: content}
}

// GET /api/v1/lessons/chapter/:chapterId
func (h *LessonHandler) ListChapterLessons(c *gin.Context) {
	chapterID, err := uuidParam(c, "chapterId")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	lessons, err := h.lessons.ListByChapter(requestCtx(c), chapterID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/v1/lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	lessonID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	lesson, err := h.lessons.GetLesson(requestCtx(c), lessonID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// POST /api/v1/lessons/:id/start
func (h *LessonHandler) StartLesson(c *gin.Context) {
	lessonID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	attempt, err := h.lessons.Start(requestCtx(c), lessonID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}

// POST /api/v1/lessons/:id/finish
func (h *LessonHandler) FinishLesson(c *gin.Context) {
	lessonID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	attempt, err := h.lessons.Finish(requestCtx(c), lessonID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}

// DELETE /api/v1/lessons/:id
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := h.content.DeleteLesson(requestCtx(c), lessonID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
