package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/platform/ctxutil"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
)

// StatsInvalidator drops cached aggregate views after a progress write.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

func requestIdentity(dbc dbctx.Context, op string) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, domainagg.Unauthorized(op, "request user not set in context")
	}
	return rd, nil
}

func invalidate(ctx context.Context, inv StatsInvalidator) {
	if inv != nil {
		inv.Invalidate(ctx)
	}
}

// curriculum loads the ordered chapter sequence with each chapter's items.
type curriculum struct {
	chapters repos.ChapterRepo
	lessons  repos.LessonRepo
	quizzes  repos.QuizRepo
}

func (c curriculum) sequence(dbc dbctx.Context) ([]progression.ChapterContent, error) {
	chapters, err := c.chapters.ListOrdered(dbc)
	if err != nil {
		return nil, dataagg.MapError("curriculum.chapters", err)
	}
	if len(chapters) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(chapters))
	for _, ch := range chapters {
		ids = append(ids, ch.ID)
	}
	lessons, err := c.lessons.ListByChapterIDs(dbc, ids)
	if err != nil {
		return nil, dataagg.MapError("curriculum.lessons", err)
	}
	quizzes, err := c.quizzes.ListByChapterIDs(dbc, ids)
	if err != nil {
		return nil, dataagg.MapError("curriculum.quizzes", err)
	}

	lessonsByChapter := map[uuid.UUID][]*types.Lesson{}
	for _, l := range lessons {
		lessonsByChapter[l.ChapterID] = append(lessonsByChapter[l.ChapterID], l)
	}
	quizzesByChapter := map[uuid.UUID][]*types.Quiz{}
	for _, q := range quizzes {
		quizzesByChapter[q.ChapterID] = append(quizzesByChapter[q.ChapterID], q)
	}

	out := make([]progression.ChapterContent, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, progression.ChapterContent{
			Chapter: ch,
			Lessons: lessonsByChapter[ch.ID],
			Quizzes: quizzesByChapter[ch.ID],
		})
	}
	return out, nil
}

func indexOfChapter(seq []progression.ChapterContent, chapterID uuid.UUID) int {
	for i, c := range seq {
		if c.Chapter != nil && c.Chapter.ID == chapterID {
			return i
		}
	}
	return -1
}

// attemptIndex loads one user's attempts into a completion snapshot.
type attemptIndex struct {
	lessonAttempts repos.LessonAttemptRepo
	quizAttempts   repos.QuizAttemptRepo
}

func (a attemptIndex) snapshot(dbc dbctx.Context, userID uuid.UUID) (*progression.Snapshot, error) {
	la, err := a.lessonAttempts.ListByUser(dbc, userID)
	if err != nil {
		return nil, dataagg.MapError("attempts.lessons", err)
	}
	qa, err := a.quizAttempts.ListByUser(dbc, userID)
	if err != nil {
		return nil, dataagg.MapError("attempts.quizzes", err)
	}
	return progression.NewSnapshot(la, qa), nil
}

// chapterItem is a lesson or quiz in the merged display order of a chapter.
type chapterItem struct {
	typ       string
	id        uuid.UUID
	title     string
	position  *int
	createdAt int64
	lesson    *types.Lesson
	quiz      *types.Quiz
}

// mergeItems interleaves lessons and quizzes by position; unpositioned items
// trail in creation order.
func mergeItems(c progression.ChapterContent) []chapterItem {
	items := make([]chapterItem, 0, progression.CountTotal(c))
	for _, l := range c.Lessons {
		items = append(items, chapterItem{typ: types.ItemTypeLesson, id: l.ID, title: l.Title, position: l.Position, createdAt: l.CreatedAt.UnixNano(), lesson: l})
	}
	for _, q := range c.Quizzes {
		items = append(items, chapterItem{typ: types.ItemTypeQuiz, id: q.ID, title: q.Title, position: q.Position, createdAt: q.CreatedAt.UnixNano(), quiz: q})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.position == nil) != (b.position == nil) {
			return a.position != nil
		}
		if a.position != nil && *a.position != *b.position {
			return *a.position < *b.position
		}
		if a.createdAt != b.createdAt {
			return a.createdAt < b.createdAt
		}
		return a.id.String() < b.id.String()
	})
	return items
}
