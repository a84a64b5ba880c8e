package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is the learner profile. Credentials live with the identity provider;
// this table only carries what reporting needs.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Name      string    `gorm:"column:name" json:"name"`
	Bio       string    `gorm:"column:bio;type:text" json:"bio,omitempty"`
	Role      string    `gorm:"column:role;not null;default:'USER'" json:"role"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
