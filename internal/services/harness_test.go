package services

import (
	"context"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	"github.com/nekobyte/englishtek-backend/internal/data/repos/testutil"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/ctxutil"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

type countingInvalidator struct {
	n atomic.Int64
}

func (c *countingInvalidator) Invalidate(context.Context) { c.n.Add(1) }

type harness struct {
	db    *gorm.DB
	ctx   context.Context
	repos ContentRepos
	stats *countingInvalidator

	progress  ProgressService
	lessons   LessonService
	quizzes   QuizService
	badges    BadgeService
	activity  ActivityService
	dashboard DashboardService
	reports   ReportService
	content   ContentService
	feedback  FeedbackService
}

func reverseShuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	tx := dataagg.NewGormTxRunner(db)

	r := ContentRepos{
		Users:          repos.NewUserRepo(db, log),
		Chapters:       repos.NewChapterRepo(db, log),
		Lessons:        repos.NewLessonRepo(db, log),
		Quizzes:        repos.NewQuizRepo(db, log),
		Questions:      repos.NewQuizQuestionRepo(db, log),
		Badges:         repos.NewBadgeRepo(db, log),
		LessonAttempts: repos.NewLessonAttemptRepo(db, log),
		QuizAttempts:   repos.NewQuizAttemptRepo(db, log),
		UserBadges:     repos.NewUserBadgeRepo(db, log),
		Feedback:       repos.NewFeedbackRepo(db, log),
	}
	stats := &countingInvalidator{}

	h := &harness{db: db, ctx: context.Background(), repos: r, stats: stats}
	h.progress = NewProgressService(db, log, r.Chapters, r.Lessons, r.Quizzes, r.LessonAttempts, r.QuizAttempts, r.Feedback)
	h.badges = NewBadgeService(db, log, r.Quizzes, r.QuizAttempts, r.UserBadges, stats)
	h.lessons = NewLessonService(db, log, tx, h.progress, r.Chapters, r.Lessons, r.LessonAttempts, stats)
	h.quizzes = NewQuizService(db, log, tx, h.progress, h.badges, r.Quizzes, r.Questions, r.QuizAttempts, r.UserBadges, stats, reverseShuffle)
	h.activity = NewActivityService(db, log, r.Lessons, r.Quizzes, r.LessonAttempts, r.QuizAttempts, r.UserBadges, 3)
	h.dashboard = NewDashboardService(db, log, DashboardConfig{}, nil, r.Users, r.Chapters, r.Lessons, r.Quizzes, r.LessonAttempts, r.QuizAttempts, r.UserBadges)
	h.reports = NewReportService(db, log, r.Users, r.Chapters, r.Lessons, r.Quizzes, r.LessonAttempts, r.QuizAttempts)
	h.content = NewContentService(db, log, tx, r, stats)
	h.feedback = NewFeedbackService(db, log, r.Users, r.Chapters, r.Feedback)
	return h
}

func (h *harness) as(u *types.User) dbctx.Context {
	return dbctx.Context{Ctx: ctxutil.WithRequestData(h.ctx, &ctxutil.RequestData{UserID: u.ID, Role: u.Role})}
}

func (h *harness) user(t *testing.T, name string) *types.User {
	return testutil.SeedUser(t, h.ctx, h.db, name, types.RoleUser)
}

func (h *harness) admin(t *testing.T, name string) *types.User {
	return testutil.SeedUser(t, h.ctx, h.db, name, types.RoleAdmin)
}

// course seeds two chapters: A = {lesson A1, quiz A2 (max 10, with badge)}
// and B = {lesson B1}.
type course struct {
	chapterA, chapterB *types.Chapter
	lessonA, lessonB   *types.Lesson
	quizA              *types.Quiz
	badge              *types.Badge
}

func (h *harness) seedCourse(t *testing.T) course {
	t.Helper()
	var c course
	c.badge = testutil.SeedBadge(t, h.ctx, h.db, "Grammar Star")
	c.chapterA = testutil.SeedChapter(t, h.ctx, h.db, "Nouns")
	c.lessonA = testutil.SeedLesson(t, h.ctx, h.db, c.chapterA.ID, "What is a noun", testutil.Ptr(0))
	c.quizA = testutil.SeedQuiz(t, h.ctx, h.db, c.chapterA.ID, "Noun quiz", 10, &c.badge.ID, testutil.Ptr(1))
	testutil.SeedQuizQuestions(t, h.ctx, h.db, c.quizA.ID, 3)
	c.chapterB = testutil.SeedChapter(t, h.ctx, h.db, "Verbs")
	c.lessonB = testutil.SeedLesson(t, h.ctx, h.db, c.chapterB.ID, "What is a verb", testutil.Ptr(0))
	return c
}

// completeChapterA finishes lesson A1 and submits score for quiz A2.
func (h *harness) completeChapterA(t *testing.T, u *types.User, c course, score int) *QuizSubmitResult {
	t.Helper()
	dbc := h.as(u)
	if _, err := h.lessons.Start(dbc, c.lessonA.ID); err != nil {
		t.Fatalf("start lesson: %v", err)
	}
	if _, err := h.lessons.Finish(dbc, c.lessonA.ID); err != nil {
		t.Fatalf("finish lesson: %v", err)
	}
	if _, err := h.quizzes.Start(dbc, c.quizA.ID); err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	res, err := h.quizzes.Submit(dbc, c.quizA.ID, score)
	if err != nil {
		t.Fatalf("submit quiz: %v", err)
	}
	return res
}

func dbcWithoutUser(h *harness) dbctx.Context {
	return dbctx.Context{Ctx: h.ctx}
}
