package app

import (
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type Services struct {
	Progress  services.ProgressService
	Lesson    services.LessonService
	Quiz      services.QuizService
	Badge     services.BadgeService
	Activity  services.ActivityService
	Dashboard services.DashboardService
	Report    services.ReportService
	Content   services.ContentService
	Feedback  services.FeedbackService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	loc, err := cfg.Location()
	if err != nil {
		return Services{}, err
	}
	tx := dataagg.NewGormTxRunner(db)

	// Every write path invalidates the dashboard snapshot through this service.
	dashboard := services.NewDashboardService(db, log, services.DashboardConfig{
		TopScorerLimit: cfg.TopScorerLimit,
		WindowDays:     cfg.ActivityWindowDays,
		Location:       loc,
		CacheTTL:       cfg.DashboardCacheTTL,
	}, clients.StatsCache, r.User, r.Chapter, r.Lesson, r.Quiz, r.LessonAttempt, r.QuizAttempt, r.UserBadge)

	progress := services.NewProgressService(db, log, r.Chapter, r.Lesson, r.Quiz, r.LessonAttempt, r.QuizAttempt, r.Feedback)
	badges := services.NewBadgeService(db, log, r.Quiz, r.QuizAttempt, r.UserBadge, dashboard)

	return Services{
		Progress:  progress,
		Lesson:    services.NewLessonService(db, log, tx, progress, r.Chapter, r.Lesson, r.LessonAttempt, dashboard),
		Quiz:      services.NewQuizService(db, log, tx, progress, badges, r.Quiz, r.Question, r.QuizAttempt, r.UserBadge, dashboard, nil),
		Badge:     badges,
		Activity:  services.NewActivityService(db, log, r.Lesson, r.Quiz, r.LessonAttempt, r.QuizAttempt, r.UserBadge, cfg.ActivityShortLimit),
		Dashboard: dashboard,
		Report:    services.NewReportService(db, log, r.User, r.Chapter, r.Lesson, r.Quiz, r.LessonAttempt, r.QuizAttempt),
		Content:   services.NewContentService(db, log, tx, r.content(), dashboard),
		Feedback:  services.NewFeedbackService(db, log, r.User, r.Chapter, r.Feedback),
	}, nil
}
