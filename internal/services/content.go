package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/observability"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type RearrangeItem struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

type BackfillResult struct {
	Lessons int  `json:"lessons"`
	Quizzes int  `json:"quizzes"`
	DryRun  bool `json:"dry_run"`
}

// ContentService owns the admin writes that cascade into progress data.
// Every operation runs in one transaction.
type ContentService interface {
	// Rearrange purges the chapter's attempts and the grants of its quiz
	// badges, then sets position = index for each listed item.
	Rearrange(dbc dbctx.Context, chapterID uuid.UUID, items []RearrangeItem) error
	DeleteLesson(dbc dbctx.Context, lessonID uuid.UUID) error
	DeleteQuiz(dbc dbctx.Context, quizID uuid.UUID) error
	// DeleteChapter removes the chapter with its items, their progress and
	// every feedback left on it.
	DeleteChapter(dbc dbctx.Context, chapterID uuid.UUID) error
	DeleteBadge(dbc dbctx.Context, badgeID uuid.UUID) error
	DeleteUserProgress(dbc dbctx.Context, userID uuid.UUID) error
	// BackfillItemOrder assigns positions to unpositioned lessons and quizzes,
	// per chapter, after the highest existing position in creation order.
	BackfillItemOrder(dbc dbctx.Context, dryRun bool) (*BackfillResult, error)
}

type contentService struct {
	db             *gorm.DB
	log            *logger.Logger
	tx             dataagg.TxRunner
	users          repos.UserRepo
	chapters       repos.ChapterRepo
	lessons        repos.LessonRepo
	quizzes        repos.QuizRepo
	questions      repos.QuizQuestionRepo
	badges         repos.BadgeRepo
	lessonAttempts repos.LessonAttemptRepo
	quizAttempts   repos.QuizAttemptRepo
	userBadges     repos.UserBadgeRepo
	feedback       repos.FeedbackRepo
	stats          StatsInvalidator
}

type ContentRepos struct {
	Users          repos.UserRepo
	Chapters       repos.ChapterRepo
	Lessons        repos.LessonRepo
	Quizzes        repos.QuizRepo
	Questions      repos.QuizQuestionRepo
	Badges         repos.BadgeRepo
	LessonAttempts repos.LessonAttemptRepo
	QuizAttempts   repos.QuizAttemptRepo
	UserBadges     repos.UserBadgeRepo
	Feedback       repos.FeedbackRepo
}

func NewContentService(db *gorm.DB, baseLog *logger.Logger, tx dataagg.TxRunner, r ContentRepos, stats StatsInvalidator) ContentService {
	return &contentService{
		db:             db,
		log:            baseLog.With("service", "ContentService"),
		tx:             tx,
		users:          r.Users,
		chapters:       r.Chapters,
		lessons:        r.Lessons,
		quizzes:        r.Quizzes,
		questions:      r.Questions,
		badges:         r.Badges,
		lessonAttempts: r.LessonAttempts,
		quizAttempts:   r.QuizAttempts,
		userBadges:     r.UserBadges,
		feedback:       r.Feedback,
		stats:          stats,
	}
}

func badgeIDsOf(quizzes []*types.Quiz) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, q := range quizzes {
		if q.BadgeID == nil || *q.BadgeID == uuid.Nil || seen[*q.BadgeID] {
			continue
		}
		seen[*q.BadgeID] = true
		out = append(out, *q.BadgeID)
	}
	return out
}

func lessonIDsOf(lessons []*types.Lesson) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, l.ID)
	}
	return out
}

func quizIDsOf(quizzes []*types.Quiz) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, q.ID)
	}
	return out
}

func (s *contentService) Rearrange(dbc dbctx.Context, chapterID uuid.UUID, items []RearrangeItem) (err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "ContentService.Rearrange",
		attribute.String("chapter.id", chapterID.String()),
		attribute.Int("items", len(items)))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	// Item types are matched case-insensitively.
	normalized := make([]RearrangeItem, len(items))
	for i, it := range items {
		normalized[i] = RearrangeItem{Type: strings.ToLower(strings.TrimSpace(it.Type)), ID: it.ID}
	}
	items = normalized

	var purgedLessons, purgedQuizzes int
	err = s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		chapter, err := s.chapters.GetByID(txc, chapterID)
		if err != nil {
			return dataagg.MapError("chapter.rearrange", err)
		}
		if chapter == nil {
			return domainagg.NotFound("chapter.rearrange", "chapter not found")
		}
		lessons, err := s.lessons.ListByChapterIDs(txc, []uuid.UUID{chapterID})
		if err != nil {
			return dataagg.MapError("chapter.rearrange", err)
		}
		quizzes, err := s.quizzes.ListByChapterIDs(txc, []uuid.UUID{chapterID})
		if err != nil {
			return dataagg.MapError("chapter.rearrange", err)
		}

		lessonSet := make(map[uuid.UUID]bool, len(lessons))
		for _, l := range lessons {
			lessonSet[l.ID] = true
		}
		quizSet := make(map[uuid.UUID]bool, len(quizzes))
		for _, q := range quizzes {
			quizSet[q.ID] = true
		}
		seen := make(map[uuid.UUID]bool, len(items))
		for _, it := range items {
			switch it.Type {
			case types.ItemTypeLesson:
				if !lessonSet[it.ID] {
					return domainagg.Validation("chapter.rearrange", fmt.Sprintf("lesson %s does not belong to chapter", it.ID))
				}
			case types.ItemTypeQuiz:
				if !quizSet[it.ID] {
					return domainagg.Validation("chapter.rearrange", fmt.Sprintf("quiz %s does not belong to chapter", it.ID))
				}
			default:
				return domainagg.Validation("chapter.rearrange", fmt.Sprintf("unknown item type %q", it.Type))
			}
			if seen[it.ID] {
				return domainagg.Validation("chapter.rearrange", fmt.Sprintf("item %s listed twice", it.ID))
			}
			seen[it.ID] = true
		}

		// Reordering resets everyone's progress on this chapter.
		if err := s.lessonAttempts.DeleteByLessonIDs(txc, lessonIDsOf(lessons)); err != nil {
			return dataagg.MapError("chapter.rearrange", err)
		}
		if err := s.quizAttempts.DeleteByQuizIDs(txc, quizIDsOf(quizzes)); err != nil {
			return dataagg.MapError("chapter.rearrange", err)
		}
		if err := s.userBadges.DeleteByBadgeIDs(txc, badgeIDsOf(quizzes)); err != nil {
			return dataagg.MapError("chapter.rearrange", err)
		}
		purgedLessons, purgedQuizzes = len(lessons), len(quizzes)

		for idx, it := range items {
			var err error
			if it.Type == types.ItemTypeLesson {
				err = s.lessons.UpdatePosition(txc, it.ID, idx)
			} else {
				err = s.quizzes.UpdatePosition(txc, it.ID, idx)
			}
			if err != nil {
				return dataagg.MapError("chapter.rearrange", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("chapter rearranged", "chapter_id", chapterID, "items", len(items), "lessons_purged", purgedLessons, "quizzes_purged", purgedQuizzes)
	return nil
}

func (s *contentService) DeleteLesson(dbc dbctx.Context, lessonID uuid.UUID) error {
	err := s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		lesson, err := s.lessons.GetByID(txc, lessonID)
		if err != nil {
			return dataagg.MapError("lesson.delete", err)
		}
		if lesson == nil {
			return domainagg.NotFound("lesson.delete", "lesson not found")
		}
		if err := s.lessonAttempts.DeleteByLessonIDs(txc, []uuid.UUID{lessonID}); err != nil {
			return dataagg.MapError("lesson.delete", err)
		}
		if err := s.lessons.DeleteByIDs(txc, []uuid.UUID{lessonID}); err != nil {
			return dataagg.MapError("lesson.delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("lesson deleted", "lesson_id", lessonID)
	return nil
}

// deleteQuizzes removes quizzes with their questions, attempts, badges and
// the grants of those badges.
func (s *contentService) deleteQuizzes(txc dbctx.Context, op string, quizzes []*types.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}
	ids := quizIDsOf(quizzes)
	badgeIDs := badgeIDsOf(quizzes)
	if err := s.quizAttempts.DeleteByQuizIDs(txc, ids); err != nil {
		return dataagg.MapError(op, err)
	}
	if err := s.questions.DeleteByQuizIDs(txc, ids); err != nil {
		return dataagg.MapError(op, err)
	}
	if err := s.deleteBadges(txc, op, badgeIDs); err != nil {
		return err
	}
	if err := s.quizzes.DeleteByIDs(txc, ids); err != nil {
		return dataagg.MapError(op, err)
	}
	return nil
}

func (s *contentService) deleteBadges(txc dbctx.Context, op string, badgeIDs []uuid.UUID) error {
	if len(badgeIDs) == 0 {
		return nil
	}
	if err := s.userBadges.DeleteByBadgeIDs(txc, badgeIDs); err != nil {
		return dataagg.MapError(op, err)
	}
	if err := s.quizzes.ClearBadge(txc, badgeIDs); err != nil {
		return dataagg.MapError(op, err)
	}
	if err := s.badges.DeleteByIDs(txc, badgeIDs); err != nil {
		return dataagg.MapError(op, err)
	}
	return nil
}

func (s *contentService) DeleteQuiz(dbc dbctx.Context, quizID uuid.UUID) error {
	err := s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		quiz, err := s.quizzes.GetByID(txc, quizID)
		if err != nil {
			return dataagg.MapError("quiz.delete", err)
		}
		if quiz == nil {
			return domainagg.NotFound("quiz.delete", "quiz not found")
		}
		return s.deleteQuizzes(txc, "quiz.delete", []*types.Quiz{quiz})
	})
	if err != nil {
		return err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("quiz deleted", "quiz_id", quizID)
	return nil
}

func (s *contentService) DeleteChapter(dbc dbctx.Context, chapterID uuid.UUID) (err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "ContentService.DeleteChapter",
		attribute.String("chapter.id", chapterID.String()))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	err = s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		chapter, err := s.chapters.GetByID(txc, chapterID)
		if err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		if chapter == nil {
			return domainagg.NotFound("chapter.delete", "chapter not found")
		}
		lessons, err := s.lessons.ListByChapterIDs(txc, []uuid.UUID{chapterID})
		if err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		quizzes, err := s.quizzes.ListByChapterIDs(txc, []uuid.UUID{chapterID})
		if err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		lessonIDs := lessonIDsOf(lessons)
		if err := s.lessonAttempts.DeleteByLessonIDs(txc, lessonIDs); err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		if err := s.lessons.DeleteByIDs(txc, lessonIDs); err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		if err := s.deleteQuizzes(txc, "chapter.delete", quizzes); err != nil {
			return err
		}
		if err := s.feedback.DeleteByChapterIDs(txc, []uuid.UUID{chapterID}); err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		if err := s.chapters.DeleteByIDs(txc, []uuid.UUID{chapterID}); err != nil {
			return dataagg.MapError("chapter.delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("chapter deleted", "chapter_id", chapterID)
	return nil
}

func (s *contentService) DeleteBadge(dbc dbctx.Context, badgeID uuid.UUID) error {
	err := s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		badge, err := s.badges.GetByID(txc, badgeID)
		if err != nil {
			return dataagg.MapError("badge.delete", err)
		}
		if badge == nil {
			return domainagg.NotFound("badge.delete", "badge not found")
		}
		return s.deleteBadges(txc, "badge.delete", []uuid.UUID{badgeID})
	})
	if err != nil {
		return err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("badge deleted", "badge_id", badgeID)
	return nil
}

func (s *contentService) DeleteUserProgress(dbc dbctx.Context, userID uuid.UUID) error {
	err := s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		u, err := s.users.GetByID(txc, userID)
		if err != nil {
			return dataagg.MapError("user.progress.delete", err)
		}
		if u == nil {
			return domainagg.NotFound("user.progress.delete", "user not found")
		}
		if err := s.lessonAttempts.DeleteByUserID(txc, userID); err != nil {
			return dataagg.MapError("user.progress.delete", err)
		}
		if err := s.quizAttempts.DeleteByUserID(txc, userID); err != nil {
			return dataagg.MapError("user.progress.delete", err)
		}
		if err := s.userBadges.DeleteByUserID(txc, userID); err != nil {
			return dataagg.MapError("user.progress.delete", err)
		}
		if err := s.feedback.DeleteByUserID(txc, userID); err != nil {
			return dataagg.MapError("user.progress.delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("user progress deleted", "user_id", userID)
	return nil
}

type orderSlot struct {
	lesson *types.Lesson
	quiz   *types.Quiz
}

func (o orderSlot) createdAt() int64 {
	if o.lesson != nil {
		return o.lesson.CreatedAt.UnixNano()
	}
	return o.quiz.CreatedAt.UnixNano()
}

func (o orderSlot) id() uuid.UUID {
	if o.lesson != nil {
		return o.lesson.ID
	}
	return o.quiz.ID
}

func (s *contentService) BackfillItemOrder(dbc dbctx.Context, dryRun bool) (*BackfillResult, error) {
	result := &BackfillResult{DryRun: dryRun}
	err := s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		lessons, err := s.lessons.ListAll(txc)
		if err != nil {
			return dataagg.MapError("order.backfill", err)
		}
		quizzes, err := s.quizzes.ListAll(txc)
		if err != nil {
			return dataagg.MapError("order.backfill", err)
		}

		next := map[uuid.UUID]int{}
		pending := map[uuid.UUID][]orderSlot{}
		bump := func(chapterID uuid.UUID, pos *int) {
			if pos == nil {
				return
			}
			if cur, ok := next[chapterID]; !ok || *pos+1 > cur {
				next[chapterID] = *pos + 1
			}
		}
		for _, l := range lessons {
			bump(l.ChapterID, l.Position)
			if l.Position == nil {
				pending[l.ChapterID] = append(pending[l.ChapterID], orderSlot{lesson: l})
			}
		}
		for _, q := range quizzes {
			bump(q.ChapterID, q.Position)
			if q.Position == nil {
				pending[q.ChapterID] = append(pending[q.ChapterID], orderSlot{quiz: q})
			}
		}

		for chapterID, slots := range pending {
			sort.SliceStable(slots, func(i, j int) bool {
				if slots[i].createdAt() != slots[j].createdAt() {
					return slots[i].createdAt() < slots[j].createdAt()
				}
				return slots[i].id().String() < slots[j].id().String()
			})
			pos := next[chapterID]
			for _, slot := range slots {
				if slot.lesson != nil {
					result.Lessons++
					if !dryRun {
						if err := s.lessons.UpdatePosition(txc, slot.lesson.ID, pos); err != nil {
							return dataagg.MapError("order.backfill", err)
						}
					}
				} else {
					result.Quizzes++
					if !dryRun {
						if err := s.quizzes.UpdatePosition(txc, slot.quiz.ID, pos); err != nil {
							return dataagg.MapError("order.backfill", err)
						}
					}
				}
				pos++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("item order backfill finished", "lessons", result.Lessons, "quizzes", result.Quizzes, "dry_run", dryRun)
	return result, nil
}
