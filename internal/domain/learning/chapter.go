package learning

import (
	"time"

	"github.com/google/uuid"
)

// Chapter is one unit of the global unlock sequence. The sequence is ordered
// by creation time with id as tiebreak.
type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	IconURL     string    `gorm:"column:icon_url" json:"icon_url"`

	Lessons []*Lesson `gorm:"foreignKey:ChapterID;references:ID" json:"lessons,omitempty"`
	Quizzes []*Quiz   `gorm:"foreignKey:ChapterID;references:ID" json:"quizzes,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }
