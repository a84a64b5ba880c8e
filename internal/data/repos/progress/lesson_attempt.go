package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type LessonAttemptRepo interface {
	// CreateIfAbsent inserts row unless an attempt for (user, lesson) exists.
	// created is false when the row was already there.
	CreateIfAbsent(dbc dbctx.Context, row *types.LessonAttempt) (created bool, err error)

	GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonAttempt, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonAttempt, error)
	ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonAttempt, error)
	ListCompletedSince(dbc dbctx.Context, since time.Time) ([]*types.LessonAttempt, error)
	CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)

	MarkCompleted(dbc dbctx.Context, id uuid.UUID, at time.Time) error

	DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type lessonAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonAttemptRepo(db *gorm.DB, baseLog *logger.Logger) LessonAttemptRepo {
	return &lessonAttemptRepo{db: db, log: baseLog.With("repo", "LessonAttemptRepo")}
}

func (r *lessonAttemptRepo) CreateIfAbsent(dbc dbctx.Context, row *types.LessonAttempt) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.LessonID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lessonAttemptRepo) GetByUserAndLesson(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonAttempt, error) {
	if userID == uuid.Nil || lessonID == uuid.Nil {
		return nil, nil
	}
	var row types.LessonAttempt
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *lessonAttemptRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonAttempt, error) {
	var out []*types.LessonAttempt
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Resolve(r.db).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonAttemptRepo) ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LessonAttempt, error) {
	var out []*types.LessonAttempt
	if userID == uuid.Nil {
		return out, nil
	}
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonAttemptRepo) ListCompletedSince(dbc dbctx.Context, since time.Time) ([]*types.LessonAttempt, error) {
	var out []*types.LessonAttempt
	if err := dbc.Resolve(r.db).Where("completed_at >= ?", since).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonAttemptRepo) CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).
		Model(&types.LessonAttempt{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&n).Error
	return n, err
}

func (r *lessonAttemptRepo) MarkCompleted(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).
		Model(&types.LessonAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed_at": at,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *lessonAttemptRepo) DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("lesson_id IN ?", lessonIDs).Delete(&types.LessonAttempt{}).Error
}

func (r *lessonAttemptRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).Where("user_id = ?", userID).Delete(&types.LessonAttempt{}).Error
}
