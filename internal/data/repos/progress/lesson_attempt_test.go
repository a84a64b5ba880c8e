package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nekobyte/englishtek-backend/internal/data/repos/testutil"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

func TestLessonAttemptRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLessonAttemptRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "lessonattemptrepo-"+uuid.NewString()[:8], "")
	ch := testutil.SeedChapter(t, ctx, tx, "ch")
	l1 := testutil.SeedLesson(t, ctx, tx, ch.ID, "l1", nil)
	l2 := testutil.SeedLesson(t, ctx, tx, ch.ID, "l2", nil)

	started := time.Now().UTC().Truncate(time.Second)
	first := &types.LessonAttempt{UserID: u.ID, LessonID: l1.ID, StartedAt: &started}
	created, err := repo.CreateIfAbsent(dbc, first)
	if err != nil || !created {
		t.Fatalf("CreateIfAbsent first: created=%v err=%v", created, err)
	}

	later := started.Add(time.Hour)
	created, err = repo.CreateIfAbsent(dbc, &types.LessonAttempt{UserID: u.ID, LessonID: l1.ID, StartedAt: &later})
	if err != nil || created {
		t.Fatalf("CreateIfAbsent duplicate: created=%v err=%v", created, err)
	}

	got, err := repo.GetByUserAndLesson(dbc, u.ID, l1.ID)
	if err != nil || got == nil || got.ID != first.ID {
		t.Fatalf("GetByUserAndLesson: got=%v err=%v", got, err)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) {
		t.Fatalf("startedAt changed: got=%v want=%v", got.StartedAt, started)
	}
	if miss, err := repo.GetByUserAndLesson(dbc, u.ID, l2.ID); err != nil || miss != nil {
		t.Fatalf("GetByUserAndLesson missing: got=%v err=%v", miss, err)
	}

	if err := repo.MarkCompleted(dbc, first.ID, later); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if n, err := repo.CountCompletedByUser(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("CountCompletedByUser: n=%d err=%v", n, err)
	}
	if rows, err := repo.ListCompletedSince(dbc, started); err != nil || len(rows) != 1 {
		t.Fatalf("ListCompletedSince: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListCompletedSince(dbc, later.Add(time.Minute)); err != nil || len(rows) != 0 {
		t.Fatalf("ListCompletedSince after: err=%v len=%d", err, len(rows))
	}

	if _, err := repo.CreateIfAbsent(dbc, &types.LessonAttempt{UserID: u.ID, LessonID: l2.ID, StartedAt: &started}); err != nil {
		t.Fatalf("CreateIfAbsent l2: %v", err)
	}
	if rows, err := repo.ListByUser(dbc, u.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if err := repo.DeleteByLessonIDs(dbc, []uuid.UUID{l1.ID}); err != nil {
		t.Fatalf("DeleteByLessonIDs: %v", err)
	}
	if rows, err := repo.ListByUser(dbc, u.ID); err != nil || len(rows) != 1 || rows[0].LessonID != l2.ID {
		t.Fatalf("ListByUser after delete: err=%v rows=%v", err, rows)
	}
	if err := repo.DeleteByUserID(dbc, u.ID); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	if rows, err := repo.ListByUser(dbc, u.ID); err != nil || len(rows) != 0 {
		t.Fatalf("ListByUser after user delete: err=%v len=%d", err, len(rows))
	}
}
