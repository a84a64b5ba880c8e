package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/nekobyte/englishtek-backend/internal/http/handlers"
	httpMW "github.com/nekobyte/englishtek-backend/internal/http/middleware"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	ChapterHandler   *httpH.ChapterHandler
	LessonHandler    *httpH.LessonHandler
	QuizHandler      *httpH.QuizHandler
	BadgeHandler     *httpH.BadgeHandler
	ActivityHandler  *httpH.ActivityHandler
	DashboardHandler *httpH.DashboardHandler
	ReportHandler    *httpH.ReportHandler
	UserHandler      *httpH.UserHandler
	FeedbackHandler  *httpH.FeedbackHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api/v1")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	protected.Use(httpMW.AnnotateCaller())
	// Groups copy their parent's chain on creation, so admin comes after auth.
	admin := protected.Group("/")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	{

		// Chapters
		if cfg.ChapterHandler != nil {
			protected.GET("/chapters", cfg.ChapterHandler.ListChapters)
			protected.GET("/chapters/:id", cfg.ChapterHandler.GetChapter)
			admin.PUT("/chapters/:id/rearrange", cfg.ChapterHandler.Rearrange)
			admin.DELETE("/chapters/:id", cfg.ChapterHandler.DeleteChapter)
		}

		// Lessons
		if cfg.LessonHandler != nil {
			protected.GET("/lessons/chapter/:chapterId", cfg.LessonHandler.ListChapterLessons)
			protected.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
			protected.POST("/lessons/:id/start", cfg.LessonHandler.StartLesson)
			protected.POST("/lessons/:id/finish", cfg.LessonHandler.FinishLesson)
			admin.DELETE("/lessons/:id", cfg.LessonHandler.DeleteLesson)
		}

		// Quizzes
		if cfg.QuizHandler != nil {
			protected.GET("/quizzes/:id", cfg.QuizHandler.GetQuiz)
			protected.POST("/quizzes/:id/start", cfg.QuizHandler.StartQuiz)
			protected.POST("/quizzes/:id/submit", cfg.QuizHandler.SubmitQuiz)
			admin.DELETE("/quizzes/:id", cfg.QuizHandler.DeleteQuiz)
		}

		// Badges
		if cfg.BadgeHandler != nil {
			protected.GET("/badges/my", cfg.BadgeHandler.ListMyBadges)
			protected.GET("/badges/my/count", cfg.BadgeHandler.CountMyBadges)
			protected.POST("/badges/reconcile", cfg.BadgeHandler.Reconcile)
			admin.DELETE("/badges/:id", cfg.BadgeHandler.DeleteBadge)
		}

		// Activity log
		if cfg.ActivityHandler != nil {
			protected.GET("/activity-log/short", cfg.ActivityHandler.ShortLog)
			protected.GET("/activity-log/long", cfg.ActivityHandler.LongLog)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.POST("/feedbacks/submit", cfg.FeedbackHandler.SubmitFeedback)
			protected.GET("/feedbacks/:id", cfg.FeedbackHandler.GetFeedback)
			protected.PUT("/feedbacks/:id", cfg.FeedbackHandler.UpdateFeedback)
			protected.DELETE("/feedbacks/:id", cfg.FeedbackHandler.DeleteFeedback)
			admin.GET("/feedbacks/chapter/:chapterId", cfg.FeedbackHandler.ListChapterFeedback)
		}

		// Reports
		if cfg.ReportHandler != nil {
			protected.GET("/report", cfg.ReportHandler.GetMyReport)
			admin.GET("/report/:userId", cfg.ReportHandler.GetUserReport)
		}

		// Admin
		if cfg.DashboardHandler != nil {
			admin.GET("/admin/dashboard", cfg.DashboardHandler.GetStats)
		}
		if cfg.UserHandler != nil {
			admin.DELETE("/users/:id/progress", cfg.UserHandler.DeleteProgress)
		}
	}

	return r
}
