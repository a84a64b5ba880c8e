package progress

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackRatingMin     = 1
	FeedbackRatingMax     = 5
	FeedbackKeywordMaxLen = 50
)

// Feedback is a learner's rating of a chapter, one per (user, chapter).
type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_chapter,priority:1" json:"user_id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_chapter,priority:2;index" json:"chapter_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Text      string    `gorm:"column:feedback_text;type:text" json:"feedback_text"`
	Keyword   string    `gorm:"column:feedback_keyword;size:50" json:"feedback_keyword"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Feedback) TableName() string { return "feedback" }
