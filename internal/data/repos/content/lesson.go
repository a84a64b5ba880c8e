package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error)
	ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Lesson, error)
	ListAll(dbc dbctx.Context) ([]*types.Lesson, error)
	Count(dbc dbctx.Context) (int64, error)

	UpdatePosition(dbc dbctx.Context, id uuid.UUID, position int) error

	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error) {
	if len(rows) == 0 {
		return []*types.Lesson{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := dbc.Resolve(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Resolve(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if len(chapterIDs) == 0 {
		return out, nil
	}
	q := dbc.Resolve(r.db).Where("chapter_id IN ?", chapterIDs)
	if err := orderByPosition(q).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListAll(dbc dbctx.Context) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := orderByPosition(dbc.Resolve(r.db)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.Lesson{}).Count(&n).Error
	return n, err
}

func (r *lessonRepo) UpdatePosition(dbc dbctx.Context, id uuid.UUID, position int) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"position":   position,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *lessonRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("id IN ?", ids).Delete(&types.Lesson{}).Error
}
