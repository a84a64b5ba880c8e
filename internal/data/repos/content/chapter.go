package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, rows []*types.Chapter) ([]*types.Chapter, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	// ListOrdered returns every chapter in unlock-sequence order.
	ListOrdered(dbc dbctx.Context) ([]*types.Chapter, error)
	Count(dbc dbctx.Context) (int64, error)

	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) Create(dbc dbctx.Context, rows []*types.Chapter) ([]*types.Chapter, error) {
	if len(rows) == 0 {
		return []*types.Chapter{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.Resolve(r.db).Omit("Lessons", "Quizzes").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Chapter
	if err := dbc.Resolve(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *chapterRepo) ListOrdered(dbc dbctx.Context) ([]*types.Chapter, error) {
	var out []*types.Chapter
	if err := dbc.Resolve(r.db).Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.Chapter{}).Count(&n).Error
	return n, err
}

func (r *chapterRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("id IN ?", ids).Delete(&types.Chapter{}).Error
}
