package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	// InsertIfAbsent stores the row unless (user, chapter) already has one.
	InsertIfAbsent(dbc dbctx.Context, row *types.Feedback) (created bool, err error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Feedback, error)
	GetByUserAndChapter(dbc dbctx.Context, userID, chapterID uuid.UUID) (*types.Feedback, error)
	ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]*types.Feedback, error)
	// ListChapterIDsByUser returns the chapters the user has rated.
	ListChapterIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)

	UpdateContent(dbc dbctx.Context, id uuid.UUID, rating int, text, keyword string) error

	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (r *feedbackRepo) InsertIfAbsent(dbc dbctx.Context, row *types.Feedback) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.ChapterID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "chapter_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *feedbackRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Feedback, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Feedback
	if err := dbc.Resolve(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *feedbackRepo) GetByUserAndChapter(dbc dbctx.Context, userID, chapterID uuid.UUID) (*types.Feedback, error) {
	if userID == uuid.Nil || chapterID == uuid.Nil {
		return nil, nil
	}
	var row types.Feedback
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND chapter_id = ?", userID, chapterID).
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

func (r *feedbackRepo) ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]*types.Feedback, error) {
	var out []*types.Feedback
	if chapterID == uuid.Nil {
		return out, nil
	}
	err := dbc.Resolve(r.db).
		Where("chapter_id = ?", chapterID).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedbackRepo) ListChapterIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if userID == uuid.Nil {
		return out, nil
	}
	err := dbc.Resolve(r.db).
		Model(&types.Feedback{}).
		Where("user_id = ?", userID).
		Pluck("chapter_id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedbackRepo) UpdateContent(dbc dbctx.Context, id uuid.UUID, rating int, text, keyword string) error {
	return dbc.Resolve(r.db).
		Model(&types.Feedback{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":           rating,
			"feedback_text":    text,
			"feedback_keyword": keyword,
		}).Error
}

func (r *feedbackRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("id IN ?", ids).Delete(&types.Feedback{}).Error
}

func (r *feedbackRepo) DeleteByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("chapter_id IN ?", chapterIDs).Delete(&types.Feedback{}).Error
}

func (r *feedbackRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).Where("user_id = ?", userID).Delete(&types.Feedback{}).Error
}
