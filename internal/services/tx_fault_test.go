package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	aggtestutil "github.com/nekobyte/englishtek-backend/internal/data/aggregates/testutil"
	"github.com/nekobyte/englishtek-backend/internal/data/repos/testutil"
)

func TestContentWritesSkipInvalidationWhenCommitFails(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	admin := h.admin(t, "ops")

	commitErr := errors.New("commit failed")
	runner := &aggtestutil.FaultyTxRunner{DB: h.db, FailCommit: commitErr}
	content := NewContentService(h.db, testutil.Logger(t), runner, h.repos, h.stats)

	err := content.DeleteLesson(h.as(admin), c.lessonA.ID)
	require.ErrorIs(t, err, commitErr)
	require.Zero(t, h.stats.n.Load())

	_, commits, rollbacks := runner.Counts()
	require.Equal(t, 0, commits)
	require.Equal(t, 1, rollbacks)
}

func TestLessonFinishFailsWhenTransactionCannotBegin(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "ana")
	_, err := h.lessons.Start(h.as(u), c.lessonA.ID)
	require.NoError(t, err)

	beginErr := errors.New("begin failed")
	runner := &aggtestutil.FaultyTxRunner{DB: h.db, FailBegin: beginErr}
	lessons := NewLessonService(h.db, testutil.Logger(t), runner, h.progress, h.repos.Chapters, h.repos.Lessons, h.repos.LessonAttempts, h.stats)

	_, err = lessons.Finish(h.as(u), c.lessonA.ID)
	require.Error(t, err)

	got, err := h.repos.LessonAttempts.GetByUserAndLesson(dbcWithoutUser(h), u.ID, c.lessonA.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Nil(t, got.CompletedAt)
	require.Zero(t, h.stats.n.Load())
}
