package services

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	dataagg "github.com/nekobyte/englishtek-backend/internal/data/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/data/repos"
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
	"github.com/nekobyte/englishtek-backend/internal/modules/progression"
	"github.com/nekobyte/englishtek-backend/internal/observability"
	"github.com/nekobyte/englishtek-backend/internal/platform/dbctx"
	"github.com/nekobyte/englishtek-backend/internal/platform/logger"
)

type LessonView struct {
	Lesson    *types.Lesson `json:"lesson"`
	Completed bool          `json:"completed"`
	Status    string        `json:"status"`
}

type LessonService interface {
	Start(dbc dbctx.Context, lessonID uuid.UUID) (*types.LessonAttempt, error)
	Finish(dbc dbctx.Context, lessonID uuid.UUID) (*types.LessonAttempt, error)
	GetLesson(dbc dbctx.Context, lessonID uuid.UUID) (*LessonView, error)
	ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]LessonView, error)
}

type lessonService struct {
	db       *gorm.DB
	log      *logger.Logger
	tx       dataagg.TxRunner
	progress ProgressService
	chapters repos.ChapterRepo
	lessons  repos.LessonRepo
	attempts repos.LessonAttemptRepo
	stats    StatsInvalidator
}

func NewLessonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tx dataagg.TxRunner,
	progress ProgressService,
	chapterRepo repos.ChapterRepo,
	lessonRepo repos.LessonRepo,
	attemptRepo repos.LessonAttemptRepo,
	stats StatsInvalidator,
) LessonService {
	return &lessonService{
		db:       db,
		log:      baseLog.With("service", "LessonService"),
		tx:       tx,
		progress: progress,
		chapters: chapterRepo,
		lessons:  lessonRepo,
		attempts: attemptRepo,
		stats:    stats,
	}
}

func (s *lessonService) loadLesson(dbc dbctx.Context, op string, lessonID uuid.UUID) (*types.Lesson, error) {
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if lesson == nil {
		return nil, domainagg.NotFound(op, "lesson not found")
	}
	return lesson, nil
}

func (s *lessonService) Start(dbc dbctx.Context, lessonID uuid.UUID) (out *types.LessonAttempt, err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "LessonService.Start",
		attribute.String("lesson.id", lessonID.String()))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	rd, err := requestIdentity(dbc, "lesson.start")
	if err != nil {
		return nil, err
	}
	lesson, err := s.loadLesson(dbc, "lesson.start", lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.progress.EnsureAccessible(dbc, lesson.ChapterID); err != nil {
		return nil, err
	}

	existing, err := s.attempts.GetByUserAndLesson(dbc, rd.UserID, lessonID)
	if err != nil {
		return nil, dataagg.MapError("lesson.start", err)
	}
	if progression.PlanLessonStart(existing) == progression.StartNoop {
		return existing, nil
	}

	now := time.Now().UTC()
	row := &types.LessonAttempt{UserID: rd.UserID, LessonID: lessonID, StartedAt: &now}
	created, err := s.attempts.CreateIfAbsent(dbc, row)
	if err != nil {
		return nil, dataagg.MapError("lesson.start", err)
	}
	if created {
		s.log.Debug("lesson attempt created", "lesson_id", lessonID, "user_id", rd.UserID)
		return row, nil
	}
	// Lost the race to a concurrent start; the winner's row is the attempt.
	existing, err = s.attempts.GetByUserAndLesson(dbc, rd.UserID, lessonID)
	if err != nil {
		return nil, dataagg.MapError("lesson.start", err)
	}
	return existing, nil
}

func (s *lessonService) Finish(dbc dbctx.Context, lessonID uuid.UUID) (out *types.LessonAttempt, err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "LessonService.Finish",
		attribute.String("lesson.id", lessonID.String()))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	rd, err := requestIdentity(dbc, "lesson.finish")
	if err != nil {
		return nil, err
	}
	if _, err := s.loadLesson(dbc, "lesson.finish", lessonID); err != nil {
		return nil, err
	}

	err = s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		existing, err := s.attempts.GetByUserAndLesson(txc, rd.UserID, lessonID)
		if err != nil {
			return dataagg.MapError("lesson.finish", err)
		}
		plan, err := progression.PlanLessonFinish(existing, rd.IsAdmin())
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if plan.CreateAttempt {
			row := &types.LessonAttempt{UserID: rd.UserID, LessonID: lessonID, StartedAt: &now}
			created, err := s.attempts.CreateIfAbsent(txc, row)
			if err != nil {
				return dataagg.MapError("lesson.finish", err)
			}
			existing = row
			if !created {
				if existing, err = s.attempts.GetByUserAndLesson(txc, rd.UserID, lessonID); err != nil {
					return dataagg.MapError("lesson.finish", err)
				}
			}
		}
		if err := s.attempts.MarkCompleted(txc, existing.ID, now); err != nil {
			return dataagg.MapError("lesson.finish", err)
		}
		existing.CompletedAt = &now
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("lesson finished", "lesson_id", lessonID, "user_id", rd.UserID)
	return out, nil
}

func (s *lessonService) GetLesson(dbc dbctx.Context, lessonID uuid.UUID) (*LessonView, error) {
	rd, err := requestIdentity(dbc, "lesson.get")
	if err != nil {
		return nil, err
	}
	lesson, err := s.loadLesson(dbc, "lesson.get", lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.progress.EnsureAccessible(dbc, lesson.ChapterID); err != nil {
		return nil, err
	}
	a, err := s.attempts.GetByUserAndLesson(dbc, rd.UserID, lessonID)
	if err != nil {
		return nil, dataagg.MapError("lesson.get", err)
	}
	return &LessonView{Lesson: lesson, Completed: a.IsCompleted(), Status: progression.LessonLabel(a)}, nil
}

func (s *lessonService) ListByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]LessonView, error) {
	rd, err := requestIdentity(dbc, "lesson.list")
	if err != nil {
		return nil, err
	}
	chapter, err := s.chapters.GetByID(dbc, chapterID)
	if err != nil {
		return nil, dataagg.MapError("lesson.list", err)
	}
	if chapter == nil {
		return nil, domainagg.NotFound("lesson.list", "chapter not found")
	}
	if err := s.progress.EnsureAccessible(dbc, chapterID); err != nil {
		return nil, err
	}
	lessons, err := s.lessons.ListByChapterIDs(dbc, []uuid.UUID{chapterID})
	if err != nil {
		return nil, dataagg.MapError("lesson.list", err)
	}
	attempts, err := s.attempts.ListByUser(dbc, rd.UserID)
	if err != nil {
		return nil, dataagg.MapError("lesson.list", err)
	}
	snap := progression.NewSnapshot(attempts, nil)
	out := make([]LessonView, 0, len(lessons))
	for _, l := range lessons {
		a := snap.LessonAttempt(l.ID)
		out = append(out, LessonView{Lesson: l, Completed: a.IsCompleted(), Status: progression.LessonLabel(a)})
	}
	return out, nil
}
