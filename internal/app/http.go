package app

import (
	"github.com/nekobyte/englishtek-backend/internal/http"
	httpH "github.com/nekobyte/englishtek-backend/internal/http/handlers"
	httpMW "github.com/nekobyte/englishtek-backend/internal/http/middleware"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Chapter   *httpH.ChapterHandler
	Lesson    *httpH.LessonHandler
	Quiz      *httpH.QuizHandler
	Badge     *httpH.BadgeHandler
	Activity  *httpH.ActivityHandler
	Dashboard *httpH.DashboardHandler
	Report    *httpH.ReportHandler
	User      *httpH.UserHandler
	Feedback  *httpH.FeedbackHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Chapter:   httpH.NewChapterHandler(services.Progress, services.Content),
		Lesson:    httpH.NewLessonHandler(services.Lesson, services.Content),
		Quiz:      httpH.NewQuizHandler(services.Quiz, services.Content),
		Badge:     httpH.NewBadgeHandler(services.Badge, services.Content),
		Activity:  httpH.NewActivityHandler(services.Activity),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
		Report:    httpH.NewReportHandler(services.Report),
		User:      httpH.NewUserHandler(services.Content),
		Feedback:  httpH.NewFeedbackHandler(services.Feedback),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      cfg.ServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		ChapterHandler:   handlers.Chapter,
		LessonHandler:    handlers.Lesson,
		QuizHandler:      handlers.Quiz,
		BadgeHandler:     handlers.Badge,
		ActivityHandler:  handlers.Activity,
		DashboardHandler: handlers.Dashboard,
		ReportHandler:    handlers.Report,
		UserHandler:      handlers.User,
		FeedbackHandler:  handlers.Feedback,
	})
}
