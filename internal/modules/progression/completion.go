package progression

import (
	"github.com/google/uuid"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
)

// A quiz counts as passed at 80% of its max score. Kept in integer form so
// boundary scores never depend on float rounding.
const (
	passNumerator   = 8
	passDenominator = 10
)

// PassesThreshold reports score >= 0.8*maxScore.
func PassesThreshold(score, maxScore int) bool {
	if maxScore <= 0 {
		return false
	}
	return score*passDenominator >= maxScore*passNumerator
}

// MinPassingScore is ceil(0.8*maxScore).
func MinPassingScore(maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return (maxScore*passNumerator + passDenominator - 1) / passDenominator
}

// ChapterContent is a chapter with its items resolved, in display order.
type ChapterContent struct {
	Chapter *types.Chapter
	Lessons []*types.Lesson
	Quizzes []*types.Quiz
}

// Snapshot indexes one user's attempts for completion checks.
type Snapshot struct {
	lessons map[uuid.UUID]*types.LessonAttempt
	quizzes map[uuid.UUID]*types.QuizAttempt
}

func NewSnapshot(lessonAttempts []*types.LessonAttempt, quizAttempts []*types.QuizAttempt) *Snapshot {
	s := &Snapshot{
		lessons: make(map[uuid.UUID]*types.LessonAttempt, len(lessonAttempts)),
		quizzes: make(map[uuid.UUID]*types.QuizAttempt, len(quizAttempts)),
	}
	for _, a := range lessonAttempts {
		if a != nil {
			s.lessons[a.LessonID] = a
		}
	}
	for _, a := range quizAttempts {
		if a != nil {
			s.quizzes[a.QuizID] = a
		}
	}
	return s
}

func (s *Snapshot) LessonAttempt(lessonID uuid.UUID) *types.LessonAttempt {
	if s == nil {
		return nil
	}
	return s.lessons[lessonID]
}

func (s *Snapshot) QuizAttempt(quizID uuid.UUID) *types.QuizAttempt {
	if s == nil {
		return nil
	}
	return s.quizzes[quizID]
}

func (s *Snapshot) IsLessonComplete(lessonID uuid.UUID) bool {
	return s.LessonAttempt(lessonID).IsCompleted()
}

func (s *Snapshot) IsQuizComplete(quiz *types.Quiz) bool {
	if quiz == nil {
		return false
	}
	return IsQuizAttemptComplete(s.QuizAttempt(quiz.ID), quiz.MaxScore)
}

// IsQuizAttemptComplete requires a submitted attempt at or above the threshold.
func IsQuizAttemptComplete(a *types.QuizAttempt, maxScore int) bool {
	if !a.IsCompleted() || a.Score == nil {
		return false
	}
	return PassesThreshold(*a.Score, maxScore)
}

func CountTotal(c ChapterContent) int {
	return len(c.Lessons) + len(c.Quizzes)
}

func (s *Snapshot) CountCompleted(c ChapterContent) int {
	n := 0
	for _, l := range c.Lessons {
		if l != nil && s.IsLessonComplete(l.ID) {
			n++
		}
	}
	for _, q := range c.Quizzes {
		if s.IsQuizComplete(q) {
			n++
		}
	}
	return n
}

// Percentage is completed*100/total, 0 for empty chapters.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) * 100.0 / float64(total)
}
