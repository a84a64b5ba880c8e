package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/nekobyte/englishtek-backend/internal/domain/learning"
)

// UserBadge is a grant, unique per (user, badge).
type UserBadge struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge_user_badge,priority:1" json:"user_id"`
	BadgeID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge_user_badge,priority:2;index" json:"badge_id"`
	Badge        *learning.Badge `gorm:"foreignKey:BadgeID;references:ID" json:"badge,omitempty"`
	DateObtained time.Time       `gorm:"column:date_obtained;not null;index" json:"date_obtained"`
}

func (UserBadge) TableName() string { return "user_badge" }
