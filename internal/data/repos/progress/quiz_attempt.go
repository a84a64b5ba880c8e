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

// UserScoreTotal is the sum of completed quiz scores for one user.
type UserScoreTotal struct {
	UserID     uuid.UUID `gorm:"column:user_id"`
	TotalScore int64     `gorm:"column:total_score"`
}

type QuizAttemptRepo interface {
	// Create inserts row and fails with a unique violation when an attempt
	// for (user, quiz) already exists.
	Create(dbc dbctx.Context, row *types.QuizAttempt) error
	CreateIfAbsent(dbc dbctx.Context, row *types.QuizAttempt) (created bool, err error)

	GetByUserAndQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (*types.QuizAttempt, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.QuizAttempt, error)
	ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.QuizAttempt, error)
	ListCompletedSince(dbc dbctx.Context, since time.Time) ([]*types.QuizAttempt, error)
	CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	SumCompletedScores(dbc dbctx.Context) ([]UserScoreTotal, error)

	RecordScore(dbc dbctx.Context, id uuid.UUID, score int, at time.Time) error

	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteByQuizIDs(dbc dbctx.Context, quizIDs []uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, row *types.QuizAttempt) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.Resolve(r.db).Create(row).Error
}

func (r *quizAttemptRepo) CreateIfAbsent(dbc dbctx.Context, row *types.QuizAttempt) (bool, error) {
	if row == nil || row.UserID == uuid.Nil || row.QuizID == uuid.Nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *quizAttemptRepo) GetByUserAndQuiz(dbc dbctx.Context, userID, quizID uuid.UUID) (*types.QuizAttempt, error) {
	if userID == uuid.Nil || quizID == uuid.Nil {
		return nil, nil
	}
	var row types.QuizAttempt
	err := dbc.Resolve(r.db).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
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

func (r *quizAttemptRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Resolve(r.db).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
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

func (r *quizAttemptRepo) ListCompletedSince(dbc dbctx.Context, since time.Time) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if err := dbc.Resolve(r.db).Where("completed_at >= ?", since).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) CountCompletedByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Resolve(r.db).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&n).Error
	return n, err
}

func (r *quizAttemptRepo) SumCompletedScores(dbc dbctx.Context) ([]UserScoreTotal, error) {
	var out []UserScoreTotal
	err := dbc.Resolve(r.db).
		Model(&types.QuizAttempt{}).
		Select("user_id, COALESCE(SUM(score), 0) AS total_score").
		Where("completed_at IS NOT NULL").
		Group("user_id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) RecordScore(dbc dbctx.Context, id uuid.UUID, score int, at time.Time) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).
		Model(&types.QuizAttempt{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":        score,
			"completed_at": at,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *quizAttemptRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).Where("id = ?", id).Delete(&types.QuizAttempt{}).Error
}

func (r *quizAttemptRepo) DeleteByQuizIDs(dbc dbctx.Context, quizIDs []uuid.UUID) error {
	if len(quizIDs) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("quiz_id IN ?", quizIDs).Delete(&types.QuizAttempt{}).Error
}

func (r *quizAttemptRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return nil
	}
	return dbc.Resolve(r.db).Where("user_id = ?", userID).Delete(&types.QuizAttempt{}).Error
}
