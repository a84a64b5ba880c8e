package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

func TestQuizStartReturnsQuestionsInStoredOrder(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "kai")

	res, err := h.quizzes.Start(h.as(u), c.quizA.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Attempt.StartedAt)
	require.Nil(t, res.Attempt.CompletedAt)
	require.Len(t, res.Questions, 3)
	for i, q := range res.Questions {
		require.Equal(t, i+1, q.Page)
	}
}

func TestQuizStartShufflesRandomQuizzes(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "lee")
	require.NoError(t, h.db.Model(&types.Quiz{}).Where("id = ?", c.quizA.ID).Update("is_random", true).Error)

	stored, err := h.repos.Questions.ListByQuizIDs(dbctx.Background(h.ctx), []uuid.UUID{c.quizA.ID})
	require.NoError(t, err)

	res, err := h.quizzes.Start(h.as(u), c.quizA.ID)
	require.NoError(t, err)
	require.Len(t, res.Questions, 3)
	// reverseShuffle flips the stored order; pages are renumbered.
	require.Equal(t, stored[2].ID, res.Questions[0].ID)
	require.Equal(t, stored[0].ID, res.Questions[2].ID)
	for i, q := range res.Questions {
		require.Equal(t, i+1, q.Page)
	}

	again, err := h.repos.Questions.ListByQuizIDs(dbctx.Background(h.ctx), []uuid.UUID{c.quizA.ID})
	require.NoError(t, err)
	require.Equal(t, stored[0].ID, again[0].ID)
	require.Equal(t, 1, again[0].Page)
}

func TestQuizRetakeRules(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "max")
	dbc := h.as(u)

	_, err := h.quizzes.Start(dbc, c.quizA.ID)
	require.NoError(t, err)
	res, err := h.quizzes.Submit(dbc, c.quizA.ID, 5)
	require.NoError(t, err)
	require.False(t, res.Passed)
	require.True(t, res.IsEligibleForRetake)
	require.True(t, res.IsEligibleForBadge)
	require.False(t, res.BadgeAwarded)

	// Failed attempt is discarded on restart.
	retake, err := h.quizzes.Start(dbc, c.quizA.ID)
	require.NoError(t, err)
	require.Nil(t, retake.Attempt.Score)
	require.Nil(t, retake.Attempt.CompletedAt)

	res, err = h.quizzes.Submit(dbc, c.quizA.ID, 9)
	require.NoError(t, err)
	require.True(t, res.Passed)
	require.False(t, res.IsEligibleForRetake)
	require.True(t, res.BadgeAwarded)
	require.False(t, res.IsEligibleForBadge)
	require.NotNil(t, res.Badge)
	require.Equal(t, c.badge.ID, res.Badge.ID)

	_, err = h.quizzes.Start(dbc, c.quizA.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeIllegalState))
	require.Equal(t, progression.MsgQuizMaxEligibility, domainagg.MessageOf(err))

	stored, err := h.repos.QuizAttempts.GetByUserAndQuiz(dbc, u.ID, c.quizA.ID)
	require.NoError(t, err)
	require.Equal(t, 9, stored.ScoreValue())
}

func TestQuizSubmitGuards(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "nia")
	dbc := h.as(u)

	_, err := h.quizzes.Submit(dbc, c.quizA.ID, 8)
	require.True(t, domainagg.IsCode(err, domainagg.CodeIllegalState))
	require.Equal(t, progression.MsgQuizNotStarted, domainagg.MessageOf(err))

	_, err = h.quizzes.Start(dbc, c.quizA.ID)
	require.NoError(t, err)
	for _, bad := range []int{-1, 11} {
		_, err = h.quizzes.Submit(dbc, c.quizA.ID, bad)
		require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), "score=%d", bad)
	}
	_, err = h.quizzes.Submit(dbc, c.quizA.ID, 10)
	require.NoError(t, err)
	_, err = h.quizzes.Submit(dbc, c.quizA.ID, 10)
	require.True(t, domainagg.IsCode(err, domainagg.CodeIllegalState))
	require.Equal(t, progression.MsgQuizAlreadyComplete, domainagg.MessageOf(err))
}

func TestQuizAdminMayRetakeAndSubmitWithoutStart(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	admin := h.admin(t, "oli")
	dbc := h.as(admin)

	res, err := h.quizzes.Submit(dbc, c.quizA.ID, 10)
	require.NoError(t, err)
	require.True(t, res.BadgeAwarded)

	_, err = h.quizzes.Start(dbc, c.quizA.ID)
	require.NoError(t, err)
	res, err = h.quizzes.Submit(dbc, c.quizA.ID, 8)
	require.NoError(t, err)
	// Badge is already held; the duplicate grant is a no-op.
	require.False(t, res.BadgeAwarded)
	require.False(t, res.IsEligibleForBadge)

	n, err := h.repos.UserBadges.CountByUser(dbc, admin.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestQuizSubmitKeepsScoreWhenGrantFails(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "pam")
	dbc := h.as(u)

	h.quizzes.(*quizService).badges = failingBadges{}
	_, err := h.quizzes.Start(dbc, c.quizA.ID)
	require.NoError(t, err)
	res, err := h.quizzes.Submit(dbc, c.quizA.ID, 10)
	require.NoError(t, err)
	require.True(t, res.Passed)
	require.False(t, res.BadgeAwarded)
	require.True(t, res.IsEligibleForBadge)

	stored, err := h.repos.QuizAttempts.GetByUserAndQuiz(dbc, u.ID, c.quizA.ID)
	require.NoError(t, err)
	require.True(t, stored.IsCompleted())
	require.Equal(t, 10, stored.ScoreValue())

	granted, err := h.badges.ReconcileBadges(dbc, u.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	require.Equal(t, c.badge.ID, granted[0].ID)
}

func TestQuizGetReportsCompletion(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "quin")
	h.completeChapterA(t, u, c, 7)

	view, err := h.quizzes.GetQuiz(h.as(u), c.quizA.ID)
	require.NoError(t, err)
	require.False(t, view.Completed)
	require.Equal(t, progression.LabelIncomplete, view.Status)
	require.Equal(t, 7, *view.Score)
}

// failingBadges inserts the grant and then fails, so the savepoint must
// roll the insert back.
type failingBadges struct{ BadgeService }

func (failingBadges) AwardIfEligible(dbc dbctx.Context, userID uuid.UUID, quiz *types.Quiz, score int) (bool, error) {
	if err := dbc.Tx.Create(&types.UserBadge{ID: uuid.New(), UserID: userID, BadgeID: *quiz.BadgeID}).Error; err != nil {
		return false, err
	}
	return true, gorm.ErrInvalidTransaction
}
