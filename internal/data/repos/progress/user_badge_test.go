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

func TestUserBadgeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserBadgeRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "userbadgerepo-"+uuid.NewString()[:8], "")
	b1 := testutil.SeedBadge(t, ctx, tx, "b1")
	b2 := testutil.SeedBadge(t, ctx, tx, "b2")

	for i := 0; i < 2; i++ {
		created, err := repo.InsertIfAbsent(dbc, &types.UserBadge{UserID: u.ID, BadgeID: b1.ID})
		if err != nil {
			t.Fatalf("InsertIfAbsent #%d: %v", i, err)
		}
		if created != (i == 0) {
			t.Fatalf("InsertIfAbsent #%d: created=%v", i, created)
		}
	}
	if n, err := repo.CountByUser(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("CountByUser: n=%d err=%v", n, err)
	}

	older := time.Now().UTC().Add(-48 * time.Hour)
	if _, err := repo.InsertIfAbsent(dbc, &types.UserBadge{UserID: u.ID, BadgeID: b2.ID, DateObtained: older}); err != nil {
		t.Fatalf("InsertIfAbsent b2: %v", err)
	}
	rows, err := repo.ListByUser(dbc, u.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if rows[0].BadgeID != b1.ID || rows[0].Badge == nil || rows[0].Badge.Name != "b1" {
		t.Fatalf("ListByUser order/preload: first=%+v", rows[0])
	}
	if since, err := repo.ListSince(dbc, time.Now().UTC().Add(-time.Hour)); err != nil || len(since) != 1 {
		t.Fatalf("ListSince: err=%v len=%d", err, len(since))
	}
	if got, err := repo.GetByUserAndBadge(dbc, u.ID, b2.ID); err != nil || got == nil {
		t.Fatalf("GetByUserAndBadge: got=%v err=%v", got, err)
	}

	if err := repo.DeleteByBadgeIDs(dbc, []uuid.UUID{b1.ID}); err != nil {
		t.Fatalf("DeleteByBadgeIDs: %v", err)
	}
	if n, err := repo.CountByUser(dbc, u.ID); err != nil || n != 1 {
		t.Fatalf("CountByUser after delete: n=%d err=%v", n, err)
	}
	if err := repo.DeleteByUserID(dbc, u.ID); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	if n, err := repo.CountByUser(dbc, u.ID); err != nil || n != 0 {
		t.Fatalf("CountByUser after user delete: n=%d err=%v", n, err)
	}
}
