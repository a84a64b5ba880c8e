package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type ReportItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Score     *int      `json:"score,omitempty"`
	MaxScore  *int      `json:"max_score,omitempty"`
	ScoreText string    `json:"score_text,omitempty"`
}

type ChapterReport struct {
	ID         uuid.UUID                 `json:"id"`
	Title      string                    `json:"title"`
	Status     progression.ChapterStatus `json:"status"`
	Percentage float64                   `json:"progress_percentage"`
	Completed  int                       `json:"completed_tasks"`
	Total      int                       `json:"total_tasks"`
	Lessons    []ReportItem              `json:"lessons"`
	Quizzes    []ReportItem              `json:"quizzes"`
}

type ReportOverview struct {
	CompletedChapters     int     `json:"completed_chapters"`
	CompletedLessons      int     `json:"completed_lessons"`
	PassedQuizzes         int     `json:"passed_quizzes"`
	AverageQuizPercentage float64 `json:"average_quiz_percentage"`
}

type UserReport struct {
	User               *types.User     `json:"user"`
	Overview           ReportOverview  `json:"overview"`
	CompletedChapters  []ChapterReport `json:"completed_chapters"`
	IncompleteChapters []ChapterReport `json:"incomplete_chapters"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

type ReportService interface {
	// GetUserReportData builds the per-user report. Admins may read any
	// user's report, everyone else only their own.
	GetUserReportData(dbc dbctx.Context, userID uuid.UUID) (*UserReport, error)
}

type reportService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	content  curriculum
	attempts attemptIndex
}

func NewReportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	chapterRepo repos.ChapterRepo,
	lessonRepo repos.LessonRepo,
	quizRepo repos.QuizRepo,
	lessonAttemptRepo repos.LessonAttemptRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
) ReportService {
	return &reportService{
		db:       db,
		log:      baseLog.With("service", "ReportService"),
		users:    userRepo,
		content:  curriculum{chapters: chapterRepo, lessons: lessonRepo, quizzes: quizRepo},
		attempts: attemptIndex{lessonAttempts: lessonAttemptRepo, quizAttempts: quizAttemptRepo},
	}
}

func (s *reportService) GetUserReportData(dbc dbctx.Context, userID uuid.UUID) (*UserReport, error) {
	rd, err := requestIdentity(dbc, "report.get")
	if err != nil {
		return nil, err
	}
	if !rd.IsAdmin() && rd.UserID != userID {
		return nil, domainagg.Forbidden("report.get", "only administrators may view other users' reports")
	}
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, dataagg.MapError("report.get", err)
	}
	if u == nil {
		return nil, domainagg.NotFound("report.get", "user not found")
	}

	seq, err := s.content.sequence(dbc)
	if err != nil {
		return nil, err
	}
	snap, err := s.attempts.snapshot(dbc, userID)
	if err != nil {
		return nil, err
	}
	folded := progression.Fold(seq, snap)

	report := &UserReport{
		User:               u,
		CompletedChapters:  []ChapterReport{},
		IncompleteChapters: []ChapterReport{},
		GeneratedAt:        time.Now().UTC(),
	}
	var pctSum float64
	var submitted int
	for i, c := range seq {
		p := folded[i]
		cr := ChapterReport{
			ID:         c.Chapter.ID,
			Title:      c.Chapter.Title,
			Status:     p.Status,
			Percentage: p.Percentage,
			Completed:  p.Completed,
			Total:      p.Total,
			Lessons:    make([]ReportItem, 0, len(c.Lessons)),
			Quizzes:    make([]ReportItem, 0, len(c.Quizzes)),
		}
		for _, l := range c.Lessons {
			a := snap.LessonAttempt(l.ID)
			if a.IsCompleted() {
				report.Overview.CompletedLessons++
			}
			cr.Lessons = append(cr.Lessons, ReportItem{ID: l.ID, Title: l.Title, Status: progression.LessonLabel(a)})
		}
		for _, q := range c.Quizzes {
			a := snap.QuizAttempt(q.ID)
			maxScore := q.MaxScore
			item := ReportItem{ID: q.ID, Title: q.Title, Status: progression.QuizLabel(a, maxScore), MaxScore: &maxScore}
			if a.IsCompleted() && a.Score != nil {
				score := *a.Score
				item.Score = &score
				item.ScoreText = fmt.Sprintf("%d/%d", score, maxScore)
				if maxScore > 0 {
					pctSum += float64(score) * 100.0 / float64(maxScore)
					submitted++
				}
				if progression.PassesThreshold(score, maxScore) {
					report.Overview.PassedQuizzes++
				}
			}
			cr.Quizzes = append(cr.Quizzes, item)
		}
		if p.Completed >= p.Total {
			report.Overview.CompletedChapters++
			report.CompletedChapters = append(report.CompletedChapters, cr)
		} else {
			report.IncompleteChapters = append(report.IncompleteChapters, cr)
		}
	}
	if submitted > 0 {
		report.Overview.AverageQuizPercentage = pctSum / float64(submitted)
	}
	return report, nil
}
