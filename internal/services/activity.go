package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type ActivityService interface {
	// GetActivityLog merges the caller's lesson completions, quiz submissions
	// and badge grants, newest first. The short view keeps the first few.
	GetActivityLog(dbc dbctx.Context, short bool) ([]progression.ActivityEntry, error)
}

type activityService struct {
	db             *gorm.DB
	log            *logger.Logger
	lessons        repos.LessonRepo
	quizzes        repos.QuizRepo
	lessonAttempts repos.LessonAttemptRepo
	quizAttempts   repos.QuizAttemptRepo
	userBadges     repos.UserBadgeRepo
	shortLimit     int
}

func NewActivityService(
	db *gorm.DB,
	baseLog *logger.Logger,
	lessonRepo repos.LessonRepo,
	quizRepo repos.QuizRepo,
	lessonAttemptRepo repos.LessonAttemptRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	userBadgeRepo repos.UserBadgeRepo,
	shortLimit int,
) ActivityService {
	if shortLimit <= 0 {
		shortLimit = 3
	}
	return &activityService{
		db:             db,
		log:            baseLog.With("service", "ActivityService"),
		lessons:        lessonRepo,
		quizzes:        quizRepo,
		lessonAttempts: lessonAttemptRepo,
		quizAttempts:   quizAttemptRepo,
		userBadges:     userBadgeRepo,
		shortLimit:     shortLimit,
	}
}

func (s *activityService) GetActivityLog(dbc dbctx.Context, short bool) ([]progression.ActivityEntry, error) {
	rd, err := requestIdentity(dbc, "activity.log")
	if err != nil {
		return nil, err
	}

	lessonAttempts, err := s.lessonAttempts.ListCompletedByUser(dbc, rd.UserID)
	if err != nil {
		return nil, dataagg.MapError("activity.log", err)
	}
	quizAttempts, err := s.quizAttempts.ListCompletedByUser(dbc, rd.UserID)
	if err != nil {
		return nil, dataagg.MapError("activity.log", err)
	}
	grants, err := s.userBadges.ListByUser(dbc, rd.UserID)
	if err != nil {
		return nil, dataagg.MapError("activity.log", err)
	}

	lessonIDs := make([]uuid.UUID, 0, len(lessonAttempts))
	for _, a := range lessonAttempts {
		lessonIDs = append(lessonIDs, a.LessonID)
	}
	lessons, err := s.lessons.GetByIDs(dbc, lessonIDs)
	if err != nil {
		return nil, dataagg.MapError("activity.log", err)
	}
	lessonTitle := make(map[uuid.UUID]string, len(lessons))
	for _, l := range lessons {
		lessonTitle[l.ID] = l.Title
	}

	quizIDs := make([]uuid.UUID, 0, len(quizAttempts))
	for _, a := range quizAttempts {
		quizIDs = append(quizIDs, a.QuizID)
	}
	quizzes, err := s.quizzes.GetByIDs(dbc, quizIDs)
	if err != nil {
		return nil, dataagg.MapError("activity.log", err)
	}
	quizTitle := make(map[uuid.UUID]string, len(quizzes))
	for _, q := range quizzes {
		quizTitle[q.ID] = q.Title
	}

	entries := make([]progression.ActivityEntry, 0, len(lessonAttempts)+len(quizAttempts)+len(grants))
	for _, a := range lessonAttempts {
		name, ok := lessonTitle[a.LessonID]
		if !ok || a.CompletedAt == nil {
			continue
		}
		entries = append(entries, progression.ActivityEntry{Type: progression.ActivityLesson, Name: name, Date: *a.CompletedAt})
	}
	for _, a := range quizAttempts {
		name, ok := quizTitle[a.QuizID]
		if !ok || a.CompletedAt == nil {
			continue
		}
		entries = append(entries, progression.ActivityEntry{Type: progression.ActivityQuiz, Name: name, Date: *a.CompletedAt})
	}
	for _, g := range grants {
		if g.Badge == nil {
			continue
		}
		entries = append(entries, progression.ActivityEntry{Type: progression.ActivityBadge, Name: g.Badge.Name, Date: g.DateObtained})
	}

	progression.SortActivity(entries)
	if short {
		return progression.LimitActivity(entries, s.shortLimit), nil
	}
	return entries, nil
}
