package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nekobyte/englishtek-backend/internal/data/repos/testutil"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	httpMW "github.com/nekobyte/englishtek-backend/internal/http/middleware"
)

const testSecret = "server-test-secret"

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	cfg := defaultConfig()
	cfg.JWTSecretKey = testSecret
	cfg.ServiceName = ""

	r := wireRepos(db, log)
	svc, err := wireServices(db, log, cfg, r, Clients{})
	require.NoError(t, err)
	srv := wireServer(log, cfg, wireHandlers(log, svc), wireMiddleware(log, cfg))
	return &testServer{t: t, db: db, engine: srv.Engine}
}

func (s *testServer) token(u *types.User) string {
	s.t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, httpMW.Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(s.t, err)
	return signed
}

func (s *testServer) do(u *types.User, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(u))
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(nil, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestLearnerFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	student := testutil.SeedUser(t, ctx, s.db, "maria", types.RoleUser)
	badge := testutil.SeedBadge(t, ctx, s.db, "Noun Ninja")
	chA := testutil.SeedChapter(t, ctx, s.db, "Nouns")
	lessonA := testutil.SeedLesson(t, ctx, s.db, chA.ID, "Common nouns", testutil.Ptr(0))
	quizA := testutil.SeedQuiz(t, ctx, s.db, chA.ID, "Noun check", 10, &badge.ID, testutil.Ptr(1))
	testutil.SeedQuizQuestions(t, ctx, s.db, quizA.ID, 2)
	chB := testutil.SeedChapter(t, ctx, s.db, "Verbs")
	testutil.SeedLesson(t, ctx, s.db, chB.ID, "Action verbs", testutil.Ptr(0))

	require.Equal(t, http.StatusUnauthorized, s.do(nil, http.MethodGet, "/api/v1/chapters", nil).Code)

	// Second chapter is locked until the first is complete.
	rec := s.do(student, http.MethodGet, "/api/v1/chapters/"+chB.ID.String(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	locked := decode[struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}](t, rec)
	require.Equal(t, "chapter_locked", locked.Error.Code)

	// Finishing without starting is an illegal state.
	require.Equal(t, http.StatusConflict, s.do(student, http.MethodPost, "/api/v1/lessons/"+lessonA.ID.String()+"/finish", nil).Code)

	require.Equal(t, http.StatusOK, s.do(student, http.MethodPost, "/api/v1/lessons/"+lessonA.ID.String()+"/start", nil).Code)
	require.Equal(t, http.StatusOK, s.do(student, http.MethodPost, "/api/v1/lessons/"+lessonA.ID.String()+"/finish", nil).Code)
	require.Equal(t, http.StatusOK, s.do(student, http.MethodPost, "/api/v1/quizzes/"+quizA.ID.String()+"/start", nil).Code)

	require.Equal(t, http.StatusBadRequest, s.do(student, http.MethodPost, "/api/v1/quizzes/"+quizA.ID.String()+"/submit", map[string]any{}).Code)
	require.Equal(t, http.StatusBadRequest, s.do(student, http.MethodPost, "/api/v1/quizzes/"+quizA.ID.String()+"/submit", map[string]int{"score": 11}).Code)

	rec = s.do(student, http.MethodPost, "/api/v1/quizzes/"+quizA.ID.String()+"/submit", map[string]int{"score": 9})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	submit := decode[struct {
		Passed       bool `json:"passed"`
		BadgeAwarded bool `json:"badge_awarded"`
	}](t, rec)
	require.True(t, submit.Passed)
	require.True(t, submit.BadgeAwarded)

	// A passed quiz cannot be restarted by a learner.
	require.Equal(t, http.StatusConflict, s.do(student, http.MethodPost, "/api/v1/quizzes/"+quizA.ID.String()+"/start", nil).Code)

	rec = s.do(student, http.MethodGet, "/api/v1/chapters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Chapters []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"chapters"`
	}](t, rec)
	require.Len(t, list.Chapters, 2)
	require.Equal(t, "COMPLETED", list.Chapters[0].Status)
	require.Equal(t, "AVAILABLE", list.Chapters[1].Status)

	require.Equal(t, http.StatusOK, s.do(student, http.MethodGet, "/api/v1/chapters/"+chB.ID.String(), nil).Code)

	rec = s.do(student, http.MethodGet, "/api/v1/badges/my/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, decode[struct {
		Count int64 `json:"count"`
	}](t, rec).Count)

	rec = s.do(student, http.MethodGet, "/api/v1/activity-log/short", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	activity := decode[struct {
		Activities []struct {
			Type string `json:"type"`
		} `json:"activities"`
	}](t, rec)
	require.Len(t, activity.Activities, 3)

	require.Equal(t, http.StatusOK, s.do(student, http.MethodGet, "/api/v1/report", nil).Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	student := testutil.SeedUser(t, ctx, s.db, "li", types.RoleUser)
	admin := testutil.SeedUser(t, ctx, s.db, "ops", types.RoleAdmin)
	ch := testutil.SeedChapter(t, ctx, s.db, "Adjectives")
	lesson := testutil.SeedLesson(t, ctx, s.db, ch.ID, "Describing words", nil)

	require.Equal(t, http.StatusForbidden, s.do(student, http.MethodGet, "/api/v1/admin/dashboard", nil).Code)
	require.Equal(t, http.StatusForbidden, s.do(student, http.MethodGet, "/api/v1/report/"+admin.ID.String(), nil).Code)
	require.Equal(t, http.StatusForbidden, s.do(student, http.MethodDelete, "/api/v1/lessons/"+lesson.ID.String(), nil).Code)

	rec := s.do(admin, http.MethodGet, "/api/v1/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[struct {
		TotalUsers   int64 `json:"total_users"`
		TotalLessons int64 `json:"total_lessons"`
	}](t, rec)
	require.EqualValues(t, 2, stats.TotalUsers)
	require.EqualValues(t, 1, stats.TotalLessons)

	require.Equal(t, http.StatusOK, s.do(admin, http.MethodGet, "/api/v1/report/"+student.ID.String(), nil).Code)

	rec = s.do(admin, http.MethodPut, "/api/v1/chapters/"+ch.ID.String()+"/rearrange", map[string]any{
		"items": []map[string]string{{"type": "lesson", "id": lesson.ID.String()}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Equal(t, http.StatusBadRequest, s.do(admin, http.MethodDelete, "/api/v1/lessons/not-a-uuid", nil).Code)
	require.Equal(t, http.StatusNoContent, s.do(admin, http.MethodDelete, "/api/v1/lessons/"+lesson.ID.String(), nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(admin, http.MethodGet, "/api/v1/lessons/"+lesson.ID.String(), nil).Code)
}

func TestFeedbackOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	student := testutil.SeedUser(t, ctx, s.db, "noor", types.RoleUser)
	admin := testutil.SeedUser(t, ctx, s.db, "root", types.RoleAdmin)
	ch := testutil.SeedChapter(t, ctx, s.db, "Pronouns")
	testutil.SeedLesson(t, ctx, s.db, ch.ID, "Personal pronouns", testutil.Ptr(0))

	body := map[string]any{"chapter_id": ch.ID.String(), "rating": 5, "feedback_keyword": "Fun"}
	rec := s.do(student, http.MethodPost, "/api/v1/feedbacks/submit", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fb := decode[struct {
		Feedback struct {
			ID     string `json:"id"`
			Rating int    `json:"rating"`
		} `json:"feedback"`
	}](t, rec).Feedback
	require.Equal(t, 5, fb.Rating)

	rec = s.do(student, http.MethodPost, "/api/v1/feedbacks/submit", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	dup := decode[struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}](t, rec)
	require.Equal(t, "illegal_state", dup.Error.Code)
	require.Equal(t, http.StatusBadRequest, s.do(student, http.MethodPost, "/api/v1/feedbacks/submit",
		map[string]any{"chapter_id": ch.ID.String()}).Code)

	rec = s.do(student, http.MethodGet, "/api/v1/chapters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Chapters []struct {
			HasCompletedFeedback bool `json:"has_completed_feedback"`
		} `json:"chapters"`
	}](t, rec)
	require.True(t, list.Chapters[0].HasCompletedFeedback)

	require.Equal(t, http.StatusForbidden, s.do(student, http.MethodGet, "/api/v1/feedbacks/chapter/"+ch.ID.String(), nil).Code)
	require.Equal(t, http.StatusOK, s.do(admin, http.MethodGet, "/api/v1/feedbacks/chapter/"+ch.ID.String(), nil).Code)

	require.Equal(t, http.StatusNoContent, s.do(admin, http.MethodDelete, "/api/v1/chapters/"+ch.ID.String(), nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(student, http.MethodGet, "/api/v1/feedbacks/"+fb.ID, nil).Code)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("CONFIG_FILE", "")
	_, err := LoadConfig(testutil.Logger(t))
	require.Error(t, err)
}
