package learning

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	ContentMD string    `gorm:"column:content_md;type:text" json:"content_md"`
	// Position within the chapter. Nil until assigned by rearrange or the
	// order backfill.
	Position *int `gorm:"column:position" json:"position"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
