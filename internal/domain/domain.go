package domain

import (
	"github.com/nekobyte/englishtek-backend/internal/domain/learning"
	"github.com/nekobyte/englishtek-backend/internal/domain/progress"
	"github.com/nekobyte/englishtek-backend/internal/domain/user"
)

const (
	RoleUser  = user.RoleUser
	RoleAdmin = user.RoleAdmin
)

type User = user.User

type Chapter = learning.Chapter
type Lesson = learning.Lesson
type Quiz = learning.Quiz
type QuizQuestion = learning.QuizQuestion
type Badge = learning.Badge

type LessonAttempt = progress.LessonAttempt
type QuizAttempt = progress.QuizAttempt
type UserBadge = progress.UserBadge
type Feedback = progress.Feedback

// Item types accepted by chapter rearrange and returned in chapter details.
const (
	ItemTypeLesson = "lesson"
	ItemTypeQuiz   = "quiz"
)
