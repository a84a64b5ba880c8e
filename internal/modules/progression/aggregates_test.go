package progression

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
)

func TestSortAndLimitActivity(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	entries := []ActivityEntry{
		{Type: ActivityLesson, Name: "one", Date: t1},
		{Type: ActivityBadge, Name: "three", Date: t3},
		{Type: ActivityQuiz, Name: "two", Date: t2},
	}
	SortActivity(entries)
	require.Equal(t, []string{"three", "two", "one"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
	require.Len(t, LimitActivity(entries, 3), 3)
	require.Len(t, LimitActivity(entries[:2], 3), 2)
	require.Equal(t, "three", LimitActivity(entries, 1)[0].Name)
	require.Len(t, LimitActivity(entries, 0), 3)
}

func TestRankTopScorersTieBreak(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	c := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	got := RankTopScorers([]ScoreEntry{{UserID: c, TotalScore: 5}, {UserID: b, TotalScore: 9}, {UserID: a, TotalScore: 5}}, 2)
	require.Equal(t, []ScoreEntry{{UserID: b, TotalScore: 9}, {UserID: a, TotalScore: 5}}, got)
}

func TestBucketByDay(t *testing.T) {
	now := time.Date(2024, 3, 30, 15, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		now,
		now.Add(-2 * time.Hour),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),   // first day of the window
		time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), // just outside
	}
	got := BucketByDay(stamps, now, 30, time.UTC)
	require.Len(t, got, 30)
	require.Equal(t, 2, got["2024-03-30"])
	require.Equal(t, 1, got["2024-03-01"])
	require.Equal(t, 0, got["2024-03-15"])
	_, ok := got["2024-02-29"]
	require.False(t, ok)
}

func TestReportLabels(t *testing.T) {
	now := time.Now().UTC()
	require.Equal(t, LabelNotStarted, LessonLabel(nil))
	require.Equal(t, LabelInProgress, LessonLabel(&types.LessonAttempt{StartedAt: &now}))
	require.Equal(t, LabelCompleted, LessonLabel(&types.LessonAttempt{StartedAt: &now, CompletedAt: &now}))

	require.Equal(t, LabelNotStarted, QuizLabel(nil, 10))
	require.Equal(t, LabelInProgress, QuizLabel(&types.QuizAttempt{StartedAt: &now}, 10))
	require.Equal(t, LabelIncomplete, QuizLabel(&types.QuizAttempt{StartedAt: &now, CompletedAt: &now, Score: intPtr(7)}, 10))
	require.Equal(t, LabelCompleted, QuizLabel(&types.QuizAttempt{StartedAt: &now, CompletedAt: &now, Score: intPtr(8)}, 10))
}
