package progression

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name      string
		index     int
		prevDone  bool
		completed int
		total     int
		want      ChapterStatus
	}{
		{"first chapter never locked", 0, false, 0, 3, StatusAvailable},
		{"first chapter in progress", 0, false, 1, 3, StatusInProgress},
		{"locked before completion rule", 2, false, 3, 3, StatusLocked},
		{"unlocked available", 1, true, 0, 2, StatusAvailable},
		{"unlocked in progress", 1, true, 1, 2, StatusInProgress},
		{"unlocked completed", 1, true, 2, 2, StatusCompleted},
		{"empty first chapter", 0, true, 0, 0, StatusCompleted},
		{"empty locked chapter", 1, false, 0, 0, StatusLocked},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DeriveStatus(tc.index, tc.prevDone, tc.completed, tc.total))
		})
	}
}

func TestFoldCarriesPreviousCompletion(t *testing.T) {
	now := time.Now().UTC()
	l1 := &types.Lesson{ID: uuid.New()}
	l2 := &types.Lesson{ID: uuid.New()}
	l3 := &types.Lesson{ID: uuid.New()}

	chapters := []ChapterContent{
		{Lessons: []*types.Lesson{l1}},
		{}, // empty chapter never blocks the next one
		{Lessons: []*types.Lesson{l2}},
		{Lessons: []*types.Lesson{l3}},
	}
	snap := NewSnapshot([]*types.LessonAttempt{{LessonID: l1.ID, StartedAt: &now, CompletedAt: &now}}, nil)

	got := Fold(chapters, snap)
	require.Len(t, got, 4)
	require.Equal(t, StatusCompleted, got[0].Status)
	require.Equal(t, StatusCompleted, got[1].Status)
	require.Equal(t, 0.0, got[1].Percentage)
	require.Equal(t, StatusAvailable, got[2].Status)
	require.Equal(t, StatusLocked, got[3].Status)

	for i := range chapters {
		require.Equal(t, got[i], At(chapters, snap, i), "At(%d) must agree with Fold", i)
	}
}

func TestFoldLockIffPreviousIncomplete(t *testing.T) {
	now := time.Now().UTC()
	quiz := &types.Quiz{ID: uuid.New(), MaxScore: 10}
	chapters := []ChapterContent{
		{Quizzes: []*types.Quiz{quiz}},
		{Lessons: []*types.Lesson{{ID: uuid.New()}}},
	}
	for score := 0; score <= 10; score++ {
		snap := NewSnapshot(nil, []*types.QuizAttempt{{QuizID: quiz.ID, StartedAt: &now, CompletedAt: &now, Score: intPtr(score)}})
		got := Fold(chapters, snap)
		if score >= 8 {
			require.Equalf(t, StatusAvailable, got[1].Status, "score=%d", score)
		} else {
			require.Equalf(t, StatusLocked, got[1].Status, "score=%d", score)
		}
	}
}
