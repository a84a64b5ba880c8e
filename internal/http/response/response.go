package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// CodeChapterLocked is the wire code for lock failures so clients can tell
// them apart from other 403s.
const CodeChapterLocked = "chapter_locked"

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError renders a coded error with the status and wire code for its
// code. Uncoded errors are 500s and their text is not leaked.
func RespondAppError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	status, wire := StatusForCode(code)
	msg := domainagg.MessageOf(err)
	if code == "" || code == domainagg.CodeInternal {
		msg = "internal error"
	}
	_ = c.Error(err)
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    wire,
		},
	})
}

func StatusForCode(code domainagg.ErrorCode) (int, string) {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest, "validation"
	case domainagg.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case domainagg.CodeIllegalState:
		return http.StatusConflict, "illegal_state"
	case domainagg.CodeConflict:
		return http.StatusConflict, "conflict"
	case domainagg.CodeLocked:
		return http.StatusForbidden, CodeChapterLocked
	case domainagg.CodeUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case domainagg.CodeForbidden:
		return http.StatusForbidden, "forbidden"
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable, "retryable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
