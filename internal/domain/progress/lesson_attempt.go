package progress

import (
	"time"

	"github.com/google/uuid"
)

// LessonAttempt is at most one row per (user, lesson).
type LessonAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_attempt_user_lesson,priority:1" json:"user_id"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_attempt_user_lesson,priority:2;index" json:"lesson_id"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at;index" json:"completed_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (LessonAttempt) TableName() string { return "lesson_attempt" }

func (a *LessonAttempt) IsCompleted() bool { return a != nil && a.CompletedAt != nil }
