package db

import (
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every persisted type, in dependency order.
func Models() []interface{} {
	return []interface{}{
		// Identity
		&types.User{},

		// Content
		&types.Badge{},
		&types.Chapter{},
		&types.Lesson{},
		&types.Quiz{},
		&types.QuizQuestion{},

		// Progress
		&types.LessonAttempt{},
		&types.QuizAttempt{},
		&types.UserBadge{},
		&types.Feedback{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
