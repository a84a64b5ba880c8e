package progress

import (
	"time"

	"github.com/google/uuid"
)

// QuizAttempt is at most one row per (user, quiz). A retake deletes the old
// row before inserting the new one.
type QuizAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_attempt_user_quiz,priority:1" json:"user_id"`
	QuizID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_attempt_user_quiz,priority:2;index" json:"quiz_id"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at;index" json:"completed_at"`
	Score       *int       `gorm:"column:score" json:"score"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) IsCompleted() bool { return a != nil && a.CompletedAt != nil }

// ScoreValue is the recorded score, 0 when none was submitted.
func (a *QuizAttempt) ScoreValue() int {
	if a == nil || a.Score == nil {
		return 0
	}
	return *a.Score
}
