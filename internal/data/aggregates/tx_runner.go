package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

// TxRunner is the transaction boundary for multi-row writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// Savepoint runs fn in a nested transaction on dbc.Tx so that a failure inside
// fn rolls back only its own writes. Without an outer transaction it behaves
// like InTx on db.
func Savepoint(dbc dbctx.Context, db *gorm.DB, fn func(dbc dbctx.Context) error) error {
	base := dbc.Tx
	if base == nil {
		base = db
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
