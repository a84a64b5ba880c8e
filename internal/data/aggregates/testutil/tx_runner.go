package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

// FaultyTxRunner runs the body on DB (or with no Tx when DB is nil) and
// injects failures around it. Writes made by the body are not rolled back
// when FailCommit fires; tests assert on the caller's reaction only.
type FaultyTxRunner struct {
	DB *gorm.DB

	FailBegin  error
	FailCommit error

	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
}

var _ aggregates.TxRunner = (*FaultyTxRunner)(nil)

func (r *FaultyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.begins++
	r.mu.Unlock()

	if r.FailBegin != nil {
		return r.FailBegin
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: r.DB}); err != nil {
			r.count(&r.rollbacks)
			return err
		}
	}
	if r.FailCommit != nil {
		r.count(&r.rollbacks)
		return r.FailCommit
	}
	r.count(&r.commits)
	return nil
}

// Counts returns begin, commit and rollback totals.
func (r *FaultyTxRunner) Counts() (begins, commits, rollbacks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins, r.commits, r.rollbacks
}

func (r *FaultyTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
