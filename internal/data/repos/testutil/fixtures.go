package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/nekobyte/englishtek-backend/internal/domain"
)

// chapterClock hands out strictly increasing creation times so seeded
// chapters keep their seeding order in the unlock sequence.
var (
	clockMu      sync.Mutex
	chapterClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func nextChapterTime() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	chapterClock = chapterClock.Add(time.Minute)
	return chapterClock
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username, role string) *types.User {
	tb.Helper()
	if role == "" {
		role = types.RoleUser
	}
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Name:     username,
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedBadge(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Badge {
	tb.Helper()
	b := &types.Badge{ID: uuid.New(), Name: name, Description: name + " badge"}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed badge: %v", err)
	}
	return b
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Chapter {
	tb.Helper()
	c := &types.Chapter{ID: uuid.New(), Title: title, CreatedAt: nextChapterTime()}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, title string, position *int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{ID: uuid.New(), ChapterID: chapterID, Title: title, Position: position}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, title string, maxScore int, badgeID *uuid.UUID, position *int) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:        uuid.New(),
		ChapterID: chapterID,
		Title:     title,
		MaxScore:  maxScore,
		BadgeID:   badgeID,
		Position:  position,
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedQuizQuestions(tb testing.TB, ctx context.Context, tx *gorm.DB, quizID uuid.UUID, n int) []*types.QuizQuestion {
	tb.Helper()
	out := make([]*types.QuizQuestion, 0, n)
	for i := 1; i <= n; i++ {
		q := &types.QuizQuestion{
			ID:      uuid.New(),
			QuizID:  quizID,
			Page:    i,
			Kind:    "multiple_choice",
			Prompt:  "question",
			Choices: datatypes.JSON([]byte(`["a","b","c"]`)),
			Answer:  datatypes.JSON([]byte(`"a"`)),
		}
		if err := tx.WithContext(ctx).Create(q).Error; err != nil {
			tb.Fatalf("seed quiz question: %v", err)
		}
		out = append(out, q)
	}
	return out
}

func Ptr[T any](v T) *T { return &v }
