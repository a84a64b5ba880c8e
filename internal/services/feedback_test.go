package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nekobyte/englishtek-backend/internal/data/repos/testutil"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
)

func TestFeedbackSubmitOncePerChapter(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "ada")
	other := h.user(t, "bo")

	fb, err := h.feedback.Submit(h.as(u), c.chapterA.ID, FeedbackContent{
		Rating:  testutil.Ptr(4),
		Text:    "  nice examples ",
		Keyword: "clear",
	})
	require.NoError(t, err)
	require.Equal(t, "ada", fb.Username)
	require.Equal(t, c.chapterA.Title, fb.ChapterTitle)
	require.Equal(t, "nice examples", fb.Text)

	_, err = h.feedback.Submit(h.as(u), c.chapterA.ID, FeedbackContent{Rating: testutil.Ptr(1)})
	require.True(t, domainagg.IsCode(err, domainagg.CodeIllegalState))
	require.Equal(t, MsgFeedbackAlreadySubmitted, domainagg.MessageOf(err))

	// The first submission is untouched.
	got, err := h.feedback.Get(h.as(u), fb.ID)
	require.NoError(t, err)
	require.Equal(t, 4, got.Rating)

	list, err := h.progress.GetChapterList(h.as(u))
	require.NoError(t, err)
	require.True(t, list[0].HasCompletedFeedback)
	require.False(t, list[1].HasCompletedFeedback)
	detail, err := h.progress.GetChapterDetail(h.as(u), c.chapterA.ID)
	require.NoError(t, err)
	require.True(t, detail.HasCompletedFeedback)

	otherList, err := h.progress.GetChapterList(h.as(other))
	require.NoError(t, err)
	require.False(t, otherList[0].HasCompletedFeedback)
	_, err = h.feedback.Submit(h.as(other), c.chapterA.ID, FeedbackContent{Rating: testutil.Ptr(2)})
	require.NoError(t, err)
}

func TestFeedbackSubmitValidation(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	u := h.user(t, "cy")

	cases := map[string]FeedbackContent{
		"missing rating": {},
		"rating zero":    {Rating: testutil.Ptr(0)},
		"rating six":     {Rating: testutil.Ptr(6)},
		"long keyword":   {Rating: testutil.Ptr(3), Keyword: strings.Repeat("k", 51)},
	}
	for name, in := range cases {
		_, err := h.feedback.Submit(h.as(u), c.chapterA.ID, in)
		require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), name)
	}

	_, err := h.feedback.Submit(h.as(u), uuid.New(), FeedbackContent{Rating: testutil.Ptr(3)})
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	_, err = h.feedback.Submit(dbcWithoutUser(h), c.chapterA.ID, FeedbackContent{Rating: testutil.Ptr(3)})
	require.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))

	// Rejected submissions leave the chapter unrated.
	_, err = h.feedback.Submit(h.as(u), c.chapterA.ID, FeedbackContent{Rating: testutil.Ptr(5), Keyword: strings.Repeat("k", 50)})
	require.NoError(t, err)
}

func TestFeedbackOwnership(t *testing.T) {
	h := newHarness(t)
	c := h.seedCourse(t)
	owner := h.user(t, "dee")
	stranger := h.user(t, "eli")
	admin := h.admin(t, "fay")

	fb, err := h.feedback.Submit(h.as(owner), c.chapterA.ID, FeedbackContent{Rating: testutil.Ptr(3)})
	require.NoError(t, err)

	_, err = h.feedback.Get(h.as(stranger), fb.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeForbidden))
	_, err = h.feedback.Get(h.as(admin), fb.ID)
	require.NoError(t, err)

	_, err = h.feedback.Update(h.as(admin), fb.ID, FeedbackContent{Rating: testutil.Ptr(1)})
	require.True(t, domainagg.IsCode(err, domainagg.CodeForbidden))
	updated, err := h.feedback.Update(h.as(owner), fb.ID, FeedbackContent{Rating: testutil.Ptr(5), Keyword: "fun"})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Rating)
	require.Equal(t, "fun", updated.Keyword)

	_, err = h.feedback.ListByChapter(h.as(owner), c.chapterA.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeForbidden))
	all, err := h.feedback.ListByChapter(h.as(admin), c.chapterA.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "dee", all[0].Username)

	require.True(t, domainagg.IsCode(h.feedback.Delete(h.as(stranger), fb.ID), domainagg.CodeForbidden))
	require.NoError(t, h.feedback.Delete(h.as(owner), fb.ID))
	_, err = h.feedback.Get(h.as(owner), fb.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	// Deleting frees the slot for a new submission.
	_, err = h.feedback.Submit(h.as(owner), c.chapterA.ID, FeedbackContent{Rating: testutil.Ptr(4)})
	require.NoError(t, err)
}
