package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type QuizRepo interface {
	Create(dbc dbctx.Context, rows []*types.Quiz) ([]*types.Quiz, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Quiz, error)
	ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Quiz, error)
	ListByBadgeIDs(dbc dbctx.Context, badgeIDs []uuid.UUID) ([]*types.Quiz, error)
	ListWithBadge(dbc dbctx.Context) ([]*types.Quiz, error)
	ListAll(dbc dbctx.Context) ([]*types.Quiz, error)
	Count(dbc dbctx.Context) (int64, error)

	UpdatePosition(dbc dbctx.Context, id uuid.UUID, position int) error
	ClearBadge(dbc dbctx.Context, badgeIDs []uuid.UUID) error

	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(dbc dbctx.Context, rows []*types.Quiz) ([]*types.Quiz, error) {
	if len(rows) == 0 {
		return []*types.Quiz{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.Resolve(r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Quiz
	if err := dbc.Resolve(r.db).Preload("Badge").Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *quizRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Resolve(r.db).Preload("Badge").Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if len(chapterIDs) == 0 {
		return out, nil
	}
	q := dbc.Resolve(r.db).Preload("Badge").Where("chapter_id IN ?", chapterIDs)
	if err := orderByPosition(q).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) ListByBadgeIDs(dbc dbctx.Context, badgeIDs []uuid.UUID) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if len(badgeIDs) == 0 {
		return out, nil
	}
	if err := dbc.Resolve(r.db).Where("badge_id IN ?", badgeIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) ListWithBadge(dbc dbctx.Context) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if err := dbc.Resolve(r.db).Preload("Badge").Where("badge_id IS NOT NULL").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) ListAll(dbc dbctx.Context) ([]*types.Quiz, error) {
	var out []*types.Quiz
	if err := orderByPosition(dbc.Resolve(r.db)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.Quiz{}).Count(&n).Error
	return n, err
}

func (r *quizRepo) UpdatePosition(dbc dbctx.Context, id uuid.UUID, position int) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).
		Model(&types.Quiz{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"position":   position,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *quizRepo) ClearBadge(dbc dbctx.Context, badgeIDs []uuid.UUID) error {
	if len(badgeIDs) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).
		Model(&types.Quiz{}).
		Where("badge_id IN ?", badgeIDs).
		Updates(map[string]interface{}{
			"badge_id":   nil,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *quizRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("id IN ?", ids).Delete(&types.Quiz{}).Error
}
