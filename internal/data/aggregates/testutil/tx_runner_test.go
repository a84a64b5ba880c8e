package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

func TestFaultyTxRunner(t *testing.T) {
	bodyErr := errors.New("body failed")
	commitErr := errors.New("commit failed")
	beginErr := errors.New("begin failed")

	cases := []struct {
		name         string
		runner       *FaultyTxRunner
		body         error
		wantErr      error
		wantCalled   bool
		wantBegin    int
		wantCommit   int
		wantRollback int
	}{
		{"commit", &FaultyTxRunner{}, nil, nil, true, 1, 1, 0},
		{"body error", &FaultyTxRunner{}, bodyErr, bodyErr, true, 1, 0, 1},
		{"commit error", &FaultyTxRunner{FailCommit: commitErr}, nil, commitErr, true, 1, 0, 1},
		{"begin error", &FaultyTxRunner{FailBegin: beginErr}, nil, beginErr, false, 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			err := tc.runner.InTx(context.Background(), func(dbctx.Context) error {
				called = true
				return tc.body
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err: got=%v want=%v", err, tc.wantErr)
			}
			if called != tc.wantCalled {
				t.Fatalf("body called=%v want=%v", called, tc.wantCalled)
			}
			b, c, r := tc.runner.Counts()
			if b != tc.wantBegin || c != tc.wantCommit || r != tc.wantRollback {
				t.Fatalf("counts begin=%d commit=%d rollback=%d", b, c, r)
			}
		})
	}
}
