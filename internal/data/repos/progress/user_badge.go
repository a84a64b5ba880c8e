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

type UserBadgeRepo interface {
	// InsertIfAbsent grants the badge unless (user, badge) already exists.
	InsertIfAbsent(dbc dbctx.Context, row *types.UserBadge) (created bool, err error)

	GetByUserAndBadge(dbc dbctx.Context, userID, badgeID uuid.UUID) (*types.UserBadge, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserBadge, error)
	ListSince(dbc dbctx.Context, since time.Time) ([]*types.UserBadge, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	Count(dbc dbctx.Context) (int64, error)

	DeleteByBadgeIDs(dbc dbctx.Context, badgeIDs []uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type userBadgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBadgeRepo(db *gorm.DB, baseLog *logger.Logger) UserBadgeRepo {
	return &userBadgeRepo{db: db, log: baseLog.With("repo", "UserBadgeRepo")}
}

func (r *userBadgeRepo) InsertIfAbsent(dbc dbctx.Context, row *types.UserBadge) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.BadgeID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.DateObtained.IsZero() {
		row.DateObtained = time.Now().UTC()
	}
	res := dbc.Resolve(r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userBadgeRepo) GetByUserAndBadge(dbc dbctx.Context, userID, badgeID uuid.UUID) (*types.UserBadge, error) {
	if userID == uuid.Nil || badgeID == uuid.Nil {
		return nil, nil
	}
	var row types.UserBadge
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
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

func (r *userBadgeRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserBadge, error) {
	var out []*types.UserBadge
	if userID == uuid.Nil {
		return out, nil
	}
	err := dbc.Resolve(r.db).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("date_obtained DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userBadgeRepo) ListSince(dbc dbctx.Context, since time.Time) ([]*types.UserBadge, error) {
	var out []*types.UserBadge
	if err := dbc.Resolve(r.db).Where("date_obtained >= ?", since).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userBadgeRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.UserBadge{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *userBadgeRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).Model(&types.UserBadge{}).Count(&n).Error
	return n, err
}

func (r *userBadgeRepo) DeleteByBadgeIDs(dbc dbctx.Context, badgeIDs []uuid.UUID) error {
	if len(badgeIDs) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("badge_id IN ?", badgeIDs).Delete(&types.UserBadge{}).Error
}

func (r *userBadgeRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).Where("user_id = ?", userID).Delete(&types.UserBadge{}).Error
}
