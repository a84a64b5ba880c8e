package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type BadgeRepo interface {
	Create(dbc dbctx.Context, rows []*types.Badge) ([]*types.Badge, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Badge, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Badge, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{db: db, log: baseLog.With("repo", "BadgeRepo")}
}

func (r *badgeRepo) Create(dbc dbctx.Context, rows []*types.Badge) ([]*types.Badge, error) {
	if len(rows) == 0 {
		return []*types.Badge{}, nil
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

func (r *badgeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Badge, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *badgeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Badge, error) {
	var out []*types.Badge
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Resolve(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *badgeRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("id IN ?", ids).Delete(&types.Badge{}).Error
}
