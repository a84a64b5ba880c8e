package app

import (
	"gorm.io/gorm"

	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
	"github.com/nekobyte/englishtek-backend/internal/services"
)

type Repos struct {
	User     repos.UserRepo
	Chapter  repos.ChapterRepo
	Lesson   repos.LessonRepo
	Quiz     repos.QuizRepo
	Question repos.QuizQuestionRepo
	Badge    repos.BadgeRepo

	LessonAttempt repos.LessonAttemptRepo
	QuizAttempt   repos.QuizAttemptRepo
	UserBadge     repos.UserBadgeRepo
	Feedback      repos.FeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		Chapter:  repos.NewChapterRepo(db, log),
		Lesson:   repos.NewLessonRepo(db, log),
		Quiz:     repos.NewQuizRepo(db, log),
		Question: repos.NewQuizQuestionRepo(db, log),
		Badge:    repos.NewBadgeRepo(db, log),

		LessonAttempt: repos.NewLessonAttemptRepo(db, log),
		QuizAttempt:   repos.NewQuizAttemptRepo(db, log),
		UserBadge:     repos.NewUserBadgeRepo(db, log),
		Feedback:      repos.NewFeedbackRepo(db, log),
	}
}

func (r Repos) content() services.ContentRepos {
	return services.ContentRepos{
		Users:          r.User,
		Chapters:       r.Chapter,
		Lessons:        r.Lesson,
		Quizzes:        r.Quiz,
		Questions:      r.Question,
		Badges:         r.Badge,
		LessonAttempts: r.LessonAttempt,
		QuizAttempts:   r.QuizAttempt,
		UserBadges:     r.UserBadge,
		Feedback:       r.Feedback,
	}
}
