package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/http/response"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type QuizHandler struct {
	quizzes services.QuizService
	content services.ContentService
}

func NewQuizHandler(quizzes services.QuizService, content services.ContentService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, content: content}
}

// GET /api/v1/quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	quiz, err := h.quizzes.GetQuiz(requestCtx(c), quizID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": quiz})
}

// POST /api/v1/quizzes/:id/start
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	quizID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	res, err := h.quizzes.Start(requestCtx(c), quizID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/v1/quizzes/:id/submit
// body: { "score": 7 }
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	quizID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	var req struct {
		Score *int `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Score == nil {
		response.RespondAppError(c, domainagg.Validation("quiz.submit", "score is required"))
		return
	}
	res, err := h.quizzes.Submit(requestCtx(c), quizID, *req.Score)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/v1/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, err := uuidParam(c, "id")
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := h.content.DeleteQuiz(requestCtx(c), quizID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
