package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type BadgeService interface {
	// AwardIfEligible grants the quiz badge when score passes. A grant that
	// already exists is a silent no-op; awarded reports a new row only.
	AwardIfEligible(dbc dbctx.Context, userID uuid.UUID, quiz *types.Quiz, score int) (awarded bool, err error)
	ListMyBadges(dbc dbctx.Context) ([]*types.UserBadge, error)
	CountUserBadges(dbc dbctx.Context) (int64, error)
	// ReconcileBadges grants every badge whose quiz the user has passed but
	// who lacks the grant. Returns the newly granted badges.
	ReconcileBadges(dbc dbctx.Context, userID uuid.UUID) ([]*types.Badge, error)
}

type badgeService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizzes      repos.QuizRepo
	quizAttempts repos.QuizAttemptRepo
	userBadges   repos.UserBadgeRepo
	stats        StatsInvalidator
}

func NewBadgeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	quizRepo repos.QuizRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	userBadgeRepo repos.UserBadgeRepo,
	stats StatsInvalidator,
) BadgeService {
	return &badgeService{
		db:           db,
		log:          baseLog.With("service", "BadgeService"),
		quizzes:      quizRepo,
		quizAttempts: quizAttemptRepo,
		userBadges:   userBadgeRepo,
		stats:        stats,
	}
}

func (s *badgeService) AwardIfEligible(dbc dbctx.Context, userID uuid.UUID, quiz *types.Quiz, score int) (bool, error) {
	if quiz == nil || quiz.BadgeID == nil || *quiz.BadgeID == uuid.Nil {
		return false, nil
	}
	if !progression.PassesThreshold(score, quiz.MaxScore) {
		return false, nil
	}
	created, err := s.userBadges.InsertIfAbsent(dbc, &types.UserBadge{
		UserID:       userID,
		BadgeID:      *quiz.BadgeID,
		DateObtained: time.Now().UTC(),
	})
	if err != nil {
		return false, dataagg.MapError("badge.award", err)
	}
	if created {
		s.log.Info("badge awarded", "badge_id", *quiz.BadgeID, "quiz_id", quiz.ID, "user_id", userID)
	}
	return created, nil
}

func (s *badgeService) ListMyBadges(dbc dbctx.Context) ([]*types.UserBadge, error) {
	rd, err := requestIdentity(dbc, "badge.list")
	if err != nil {
		return nil, err
	}
	rows, err := s.userBadges.ListByUser(dbc, rd.UserID)
	if err != nil {
		return nil, dataagg.MapError("badge.list", err)
	}
	return rows, nil
}

func (s *badgeService) CountUserBadges(dbc dbctx.Context) (int64, error) {
	rd, err := requestIdentity(dbc, "badge.count")
	if err != nil {
		return 0, err
	}
	n, err := s.userBadges.CountByUser(dbc, rd.UserID)
	if err != nil {
		return 0, dataagg.MapError("badge.count", err)
	}
	return n, nil
}

func (s *badgeService) ReconcileBadges(dbc dbctx.Context, userID uuid.UUID) ([]*types.Badge, error) {
	quizzes, err := s.quizzes.ListWithBadge(dbc)
	if err != nil {
		return nil, dataagg.MapError("badge.reconcile", err)
	}
	if len(quizzes) == 0 {
		return nil, nil
	}
	attempts, err := s.quizAttempts.ListCompletedByUser(dbc, userID)
	if err != nil {
		return nil, dataagg.MapError("badge.reconcile", err)
	}
	snap := progression.NewSnapshot(nil, attempts)

	var granted []*types.Badge
	for _, q := range quizzes {
		if !snap.IsQuizComplete(q) {
			continue
		}
		awarded, err := s.AwardIfEligible(dbc, userID, q, snap.QuizAttempt(q.ID).ScoreValue())
		if err != nil {
			return granted, err
		}
		if awarded && q.Badge != nil {
			granted = append(granted, q.Badge)
		}
	}
	if len(granted) > 0 {
		invalidate(dbc.Ctx, s.stats)
		s.log.Info("badges reconciled", "user_id", userID, "granted", len(granted))
	}
	return granted, nil
}
