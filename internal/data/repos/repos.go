package repos

import (
	"gorm.io/gorm"

	"github.com/nekobyte/englishtek-backend/internal/data/repos/content"
	"github.com/nekobyte/englishtek-backend/internal/data/repos/progress"
	"github.com/nekobyte/englishtek-backend/internal/data/repos/user"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type ChapterRepo = content.ChapterRepo
type LessonRepo = content.LessonRepo
type QuizRepo = content.QuizRepo
type QuizQuestionRepo = content.QuizQuestionRepo
type BadgeRepo = content.BadgeRepo

type LessonAttemptRepo = progress.LessonAttemptRepo
type QuizAttemptRepo = progress.QuizAttemptRepo
type UserBadgeRepo = progress.UserBadgeRepo
type FeedbackRepo = progress.FeedbackRepo
type UserScoreTotal = progress.UserScoreTotal

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewChapterRepo(db *gorm.DB, log *logger.Logger) ChapterRepo {
	return content.NewChapterRepo(db, log)
}
func NewLessonRepo(db *gorm.DB, log *logger.Logger) LessonRepo {
	return content.NewLessonRepo(db, log)
}
func NewQuizRepo(db *gorm.DB, log *logger.Logger) QuizRepo { return content.NewQuizRepo(db, log) }
func NewQuizQuestionRepo(db *gorm.DB, log *logger.Logger) QuizQuestionRepo {
	return content.NewQuizQuestionRepo(db, log)
}
func NewBadgeRepo(db *gorm.DB, log *logger.Logger) BadgeRepo { return content.NewBadgeRepo(db, log) }

func NewLessonAttemptRepo(db *gorm.DB, log *logger.Logger) LessonAttemptRepo {
	return progress.NewLessonAttemptRepo(db, log)
}
func NewQuizAttemptRepo(db *gorm.DB, log *logger.Logger) QuizAttemptRepo {
	return progress.NewQuizAttemptRepo(db, log)
}
func NewUserBadgeRepo(db *gorm.DB, log *logger.Logger) UserBadgeRepo {
	return progress.NewUserBadgeRepo(db, log)
}
func NewFeedbackRepo(db *gorm.DB, log *logger.Logger) FeedbackRepo {
	return progress.NewFeedbackRepo(db, log)
}
