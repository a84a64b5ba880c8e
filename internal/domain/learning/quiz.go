package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Quiz struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"chapter_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	MaxScore    int        `gorm:"column:max_score;not null" json:"max_score"`
	IsRandom    bool       `gorm:"column:is_random;not null;default:false" json:"is_random"`
	BadgeID     *uuid.UUID `gorm:"type:uuid;index" json:"badge_id,omitempty"`
	Badge       *Badge     `gorm:"foreignKey:BadgeID;references:ID" json:"badge,omitempty"`
	Position    *int       `gorm:"column:position" json:"position"`

	Questions []*QuizQuestion `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

// QuizQuestion is one question of a quiz. Page is the 1-based display page;
// shuffled quizzes renumber pages per response without persisting.
type QuizQuestion struct {
	ID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Page    int            `gorm:"column:page;not null" json:"page"`
	Kind    string         `gorm:"column:kind;not null;default:'multiple_choice'" json:"kind"`
	Prompt  string         `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Choices datatypes.JSON `gorm:"column:choices" json:"choices"`
	Answer  datatypes.JSON `gorm:"column:answer" json:"answer"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }
