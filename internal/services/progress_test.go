package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nekobyte/englishtek-backend/internal/data/repos/testutil"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
)

func TestChapterListPassingScoreUnlocksNext(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "ana")

	res := h.completeChapterA(t, u, c, 8)
	require.True(t, res.Passed)

	list, err := h.progress.GetChapterList(h.as(u))
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, c.chapterA.ID, list[0].ID)
	require.Equal(t, progression.StatusCompleted, list[0].Status)
	require.Equal(t, 2, list[0].Completed)
	require.InDelta(t, 100.0, list[0].Percentage, 1e-9)
	require.Equal(t, progression.StatusAvailable, list[1].Status)

	detail, err := h.progress.GetChapterDetail(h.as(u), c.chapterB.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
}

func TestChapterListFailingScoreKeepsNextLocked(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "ben")

	res := h.completeChapterA(t, u, c, 7)
	require.False(t, res.Passed)
	require.True(t, res.IsEligibleForRetake)

	list, err := h.progress.GetChapterList(h.as(u))
	require.NoError(t, err)
	require.Equal(t, progression.StatusInProgress, list[0].Status)
	require.Equal(t, 1, list[0].Completed)
	require.InDelta(t, 50.0, list[0].Percentage, 1e-9)
	require.Equal(t, progression.StatusLocked, list[1].Status)

	_, err = h.progress.GetChapterDetail(h.as(u), c.chapterB.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeLocked))
	require.Equal(t, MsgChapterLocked, domainagg.MessageOf(err))

	_, err = h.lessons.Start(h.as(u), c.lessonB.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeLocked))
}

func TestChapterDetailAdminBypassesLock(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	admin := h.admin(t, "root")

	detail, err := h.progress.GetChapterDetail(h.as(admin), c.chapterB.ID)
	require.NoError(t, err)
	// Access is granted but the derived status is the same as for anyone.
	require.Equal(t, progression.StatusLocked, detail.Status)
}

func TestChapterDetailItemOrder(t *testing.T) {
	h := newHarness(t)
	u := h.user(t, "cy")
	ch := testutil.SeedChapter(t, h.ctx, h.db, "Mixed")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, ch.ID, "First", 5, nil, testutil.Ptr(0))
	lesson := testutil.SeedLesson(t, h.ctx, h.db, ch.ID, "Second", testutil.Ptr(1))
	trailing := testutil.SeedLesson(t, h.ctx, h.db, ch.ID, "Unpositioned", nil)

	detail, err := h.progress.GetChapterDetail(h.as(u), ch.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 3)
	require.Equal(t, quiz.ID, detail.Items[0].ID)
	require.Equal(t, 1, detail.Items[0].Order)
	require.Equal(t, lesson.ID, detail.Items[1].ID)
	require.Equal(t, trailing.ID, detail.Items[2].ID)
	require.Equal(t, 3, detail.Items[2].Order)
	require.Equal(t, progression.LabelNotStarted, detail.Items[0].Status)
	require.NotNil(t, detail.Items[0].MaxScore)
}

func TestEmptyChapterNeverBlocks(t *testing.T) {
	h := newHarness(t)
	u := h.user(t, "dee")
	testutil.SeedChapter(t, h.ctx, h.db, "Intro")
	next := testutil.SeedChapter(t, h.ctx, h.db, "Next")
	testutil.SeedLesson(t, h.ctx, h.db, next.ID, "Hello", nil)

	list, err := h.progress.GetChapterList(h.as(u))
	require.NoError(t, err)
	require.Equal(t, progression.StatusCompleted, list[0].Status)
	require.Equal(t, 0.0, list[0].Percentage)
	require.Equal(t, progression.StatusAvailable, list[1].Status)
}

func TestChapterDetailNotFound(t *testing.T) {
	h := newHarness(t)
	u := h.user(t, "eve")
	_, err := h.progress.GetChapterDetail(h.as(u), testutil.SeedChapter(t, h.ctx, h.db, "x").ID)
	require.NoError(t, err)

	_, err = h.progress.GetChapterDetail(h.as(u), u.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
}

func TestProgressRequiresIdentity(t *testing.T) {
	h := newHarness(t)
	_, err := h.progress.GetChapterList(h.as(h.user(t, "fay")))
	require.NoError(t, err)

	_, err = h.progress.GetChapterList(dbcWithoutUser(h))
	require.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))
}
