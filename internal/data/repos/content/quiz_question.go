package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type QuizQuestionRepo interface {
	Create(dbc dbctx.Context, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	ListByQuizIDs(dbc dbctx.Context, quizIDs []uuid.UUID) ([]*types.QuizQuestion, error)
	DeleteByQuizIDs(dbc dbctx.Context, quizIDs []uuid.UUID) error
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(dbc dbctx.Context, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	if len(rows) == 0 {
		return []*types.QuizQuestion{}, nil
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

func (r *quizQuestionRepo) ListByQuizIDs(dbc dbctx.Context, quizIDs []uuid.UUID) ([]*types.QuizQuestion, error) {
	var out []*types.QuizQuestion
	if len(quizIDs) == 0 {
		return out, nil
	}
	err := dbc.Resolve(r.db).
		Where("quiz_id IN ?", quizIDs).
		Order("quiz_id ASC").
		Order("page ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizQuestionRepo) DeleteByQuizIDs(dbc dbctx.Context, quizIDs []uuid.UUID) error {
	if len(quizIDs) == 0 {
		return nil
	}
	return dbc.Resolve(r.db).Where("quiz_id IN ?", quizIDs).Delete(&types.QuizQuestion{}).Error
}
