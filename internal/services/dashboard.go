package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	rediscache "github.com/nekobyte/englishtek-backend/internal/clients/redis"
	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/observability"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

const dashboardCacheKey = "dashboard:stats"

type DashboardConfig struct {
	TopScorerLimit int
	WindowDays     int
	Location       *time.Location
	CacheTTL       time.Duration
	Now            func() time.Time
}

type TopScorer struct {
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	TotalScore int64     `json:"total_score"`
}

type DashboardStats struct {
	TotalUsers         int64          `json:"total_users"`
	TotalChapters      int64          `json:"total_chapters"`
	TotalLessons       int64          `json:"total_lessons"`
	TotalQuizzes       int64          `json:"total_quizzes"`
	TotalBadgesAwarded int64          `json:"total_badges_awarded"`
	TopScorers         []TopScorer    `json:"top_scorers"`
	ActivityByDay      map[string]int `json:"activity_by_day"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

type DashboardService interface {
	GetDashboardStats(dbc dbctx.Context) (*DashboardStats, error)
	Invalidate(ctx context.Context)
}

type dashboardService struct {
	db             *gorm.DB
	log            *logger.Logger
	cfg            DashboardConfig
	cache          rediscache.StatsCache
	users          repos.UserRepo
	chapters       repos.ChapterRepo
	lessons        repos.LessonRepo
	quizzes        repos.QuizRepo
	lessonAttempts repos.LessonAttemptRepo
	quizAttempts   repos.QuizAttemptRepo
	userBadges     repos.UserBadgeRepo
}

func NewDashboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg DashboardConfig,
	cache rediscache.StatsCache,
	userRepo repos.UserRepo,
	chapterRepo repos.ChapterRepo,
	lessonRepo repos.LessonRepo,
	quizRepo repos.QuizRepo,
	lessonAttemptRepo repos.LessonAttemptRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	userBadgeRepo repos.UserBadgeRepo,
) DashboardService {
	if cfg.TopScorerLimit <= 0 {
		cfg.TopScorerLimit = 10
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 30
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &dashboardService{
		db:             db,
		log:            baseLog.With("service", "DashboardService"),
		cfg:            cfg,
		cache:          cache,
		users:          userRepo,
		chapters:       chapterRepo,
		lessons:        lessonRepo,
		quizzes:        quizRepo,
		lessonAttempts: lessonAttemptRepo,
		quizAttempts:   quizAttemptRepo,
		userBadges:     userBadgeRepo,
	}
}

func (s *dashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.log.Warn("dashboard cache invalidate failed", "error", err)
	}
}

func (s *dashboardService) GetDashboardStats(dbc dbctx.Context) (out *DashboardStats, err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "DashboardService.GetDashboardStats")
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	if s.cache != nil {
		var cached DashboardStats
		ok, cerr := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if cerr != nil {
			s.log.Warn("dashboard cache read failed", "error", cerr)
		}
		if ok {
			return &cached, nil
		}
	}

	now := s.cfg.Now()
	since := progression.WindowStart(now, s.cfg.WindowDays, s.cfg.Location).UTC()
	stats := &DashboardStats{GeneratedAt: now.UTC()}

	g, gctx := errgroup.WithContext(ctx)
	rc := dbctx.Context{Ctx: gctx}

	g.Go(func() error {
		var err error
		if stats.TotalChapters, err = s.chapters.Count(rc); err != nil {
			return dataagg.MapError("dashboard.chapters", err)
		}
		if stats.TotalLessons, err = s.lessons.Count(rc); err != nil {
			return dataagg.MapError("dashboard.lessons", err)
		}
		if stats.TotalQuizzes, err = s.quizzes.Count(rc); err != nil {
			return dataagg.MapError("dashboard.quizzes", err)
		}
		if stats.TotalBadgesAwarded, err = s.userBadges.Count(rc); err != nil {
			return dataagg.MapError("dashboard.badges", err)
		}
		return nil
	})

	g.Go(func() error {
		top, total, err := s.topScorers(rc)
		if err != nil {
			return err
		}
		stats.TopScorers = top
		stats.TotalUsers = total
		return nil
	})

	g.Go(func() error {
		byDay, err := s.activityByDay(rc, since, now)
		if err != nil {
			return err
		}
		stats.ActivityByDay = byDay
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.log.Warn("dashboard cache write failed", "error", err)
		}
	}
	return stats, nil
}

// topScorers ranks every user, including those without a submitted quiz.
func (s *dashboardService) topScorers(rc dbctx.Context) ([]TopScorer, int64, error) {
	users, err := s.users.ListAll(rc)
	if err != nil {
		return nil, 0, dataagg.MapError("dashboard.users", err)
	}
	sums, err := s.quizAttempts.SumCompletedScores(rc)
	if err != nil {
		return nil, 0, dataagg.MapError("dashboard.scores", err)
	}
	totals := make(map[uuid.UUID]int64, len(sums))
	for _, row := range sums {
		totals[row.UserID] = row.TotalScore
	}
	entries := make([]progression.ScoreEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, progression.ScoreEntry{UserID: u.ID, TotalScore: totals[u.ID]})
	}
	byID := make(map[uuid.UUID]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}
	ranked := progression.RankTopScorers(entries, s.cfg.TopScorerLimit)
	out := make([]TopScorer, 0, len(ranked))
	for _, e := range ranked {
		u := users[byID[e.UserID]]
		out = append(out, TopScorer{UserID: u.ID, Username: u.Username, Name: u.Name, TotalScore: e.TotalScore})
	}
	return out, int64(len(users)), nil
}

func (s *dashboardService) activityByDay(rc dbctx.Context, since, now time.Time) (map[string]int, error) {
	lessons, err := s.lessonAttempts.ListCompletedSince(rc, since)
	if err != nil {
		return nil, dataagg.MapError("dashboard.activity", err)
	}
	quizzes, err := s.quizAttempts.ListCompletedSince(rc, since)
	if err != nil {
		return nil, dataagg.MapError("dashboard.activity", err)
	}
	grants, err := s.userBadges.ListSince(rc, since)
	if err != nil {
		return nil, dataagg.MapError("dashboard.activity", err)
	}
	stamps := make([]time.Time, 0, len(lessons)+len(quizzes)+len(grants))
	for _, a := range lessons {
		if a.CompletedAt != nil {
			stamps = append(stamps, *a.CompletedAt)
		}
	}
	for _, a := range quizzes {
		if a.CompletedAt != nil {
			stamps = append(stamps, *a.CompletedAt)
		}
	}
	for _, g := range grants {
		stamps = append(stamps, g.DateObtained)
	}
	return progression.BucketByDay(stamps, now, s.cfg.WindowDays, s.cfg.Location), nil
}
