package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nekobyte/englishtek-backend/internal/app"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

func main() {
	var dryRun bool
	flag.BoolVar(&dryRun, "dry-run", false, "report unpositioned lessons and quizzes without writing")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	res, err := application.Services.Content.BackfillItemOrder(dbctx.Context{Ctx: context.Background()}, dryRun)
	if err != nil {
		fmt.Printf("backfill item order: %v\n", err)
		os.Exit(1)
	}
	if res.DryRun {
		fmt.Printf("[dry-run] would position lessons=%d quizzes=%d\n", res.Lessons, res.Quizzes)
		return
	}
	fmt.Printf("done; positioned lessons=%d quizzes=%d\n", res.Lessons, res.Quizzes)
}
