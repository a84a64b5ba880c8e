package services

import (
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

const MsgChapterLocked = "This chapter is locked. Please complete the previous chapter first."

type ChapterSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconURL     string    `json:"icon_url"`
	// HasCompletedFeedback reports whether the caller has rated this chapter.
	HasCompletedFeedback bool `json:"has_completed_feedback"`
	progression.ChapterProgress
}

type ChapterItem struct {
	Type      string    `json:"type"`
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Completed bool      `json:"completed"`
	Status    string    `json:"status"`
	Score     *int      `json:"score,omitempty"`
	MaxScore  *int      `json:"max_score,omitempty"`
}

type ChapterDetail struct {
	ChapterSummary
	Items []ChapterItem `json:"items"`
}

type ProgressService interface {
	GetChapterList(dbc dbctx.Context) ([]ChapterSummary, error)
	// GetChapterDetail fails with Locked for non-admins when the previous
	// chapter is not fully complete.
	GetChapterDetail(dbc dbctx.Context, chapterID uuid.UUID) (*ChapterDetail, error)
	// EnsureAccessible applies the same lock rule without building a view.
	EnsureAccessible(dbc dbctx.Context, chapterID uuid.UUID) error
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	content  curriculum
	attempts attemptIndex
	feedback repos.FeedbackRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chapterRepo repos.ChapterRepo,
	lessonRepo repos.LessonRepo,
	quizRepo repos.QuizRepo,
	lessonAttemptRepo repos.LessonAttemptRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	feedbackRepo repos.FeedbackRepo,
) ProgressService {
	return &progressService{
		db:       db,
		log:      baseLog.With("service", "ProgressService"),
		content:  curriculum{chapters: chapterRepo, lessons: lessonRepo, quizzes: quizRepo},
		attempts: attemptIndex{lessonAttempts: lessonAttemptRepo, quizAttempts: quizAttemptRepo},
		feedback: feedbackRepo,
	}
}

func summarize(c progression.ChapterContent, p progression.ChapterProgress, rated map[uuid.UUID]bool) ChapterSummary {
	return ChapterSummary{
		ID:                   c.Chapter.ID,
		Title:                c.Chapter.Title,
		Description:          c.Chapter.Description,
		IconURL:              c.Chapter.IconURL,
		HasCompletedFeedback: rated[c.Chapter.ID],
		ChapterProgress:      p,
	}
}

// ratedChapters is the set of chapters the user has left feedback on.
func (s *progressService) ratedChapters(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	if s.feedback == nil {
		return out, nil
	}
	ids, err := s.feedback.ListChapterIDsByUser(dbc, userID)
	if err != nil {
		return nil, dataagg.MapError("chapter.feedback", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *progressService) GetChapterList(dbc dbctx.Context) ([]ChapterSummary, error) {
	rd, err := requestIdentity(dbc, "chapter.list")
	if err != nil {
		return nil, err
	}
	seq, err := s.content.sequence(dbc)
	if err != nil {
		return nil, err
	}
	snap, err := s.attempts.snapshot(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}
	rated, err := s.ratedChapters(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}
	folded := progression.Fold(seq, snap)
	out := make([]ChapterSummary, 0, len(seq))
	for i, c := range seq {
		out = append(out, summarize(c, folded[i], rated))
	}
	return out, nil
}

func (s *progressService) GetChapterDetail(dbc dbctx.Context, chapterID uuid.UUID) (out *ChapterDetail, err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "ProgressService.GetChapterDetail",
		attribute.String("chapter.id", chapterID.String()))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	rd, err := requestIdentity(dbc, "chapter.detail")
	if err != nil {
		return nil, err
	}
	seq, err := s.content.sequence(dbc)
	if err != nil {
		return nil, err
	}
	idx := indexOfChapter(seq, chapterID)
	if idx < 0 {
		return nil, domainagg.NotFound("chapter.detail", "chapter not found")
	}
	snap, err := s.attempts.snapshot(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}
	progress := progression.At(seq, snap, idx)
	if progress.Status == progression.StatusLocked && !rd.IsAdmin() {
		return nil, domainagg.Locked("chapter.detail", MsgChapterLocked)
	}

	c := seq[idx]
	merged := mergeItems(c)
	items := make([]ChapterItem, 0, len(merged))
	for i, it := range merged {
		item := ChapterItem{Type: it.typ, ID: it.id, Title: it.title, Order: i + 1}
		switch it.typ {
		case types.ItemTypeLesson:
			a := snap.LessonAttempt(it.id)
			item.Completed = a.IsCompleted()
			item.Status = progression.LessonLabel(a)
		case types.ItemTypeQuiz:
			a := snap.QuizAttempt(it.id)
			maxScore := it.quiz.MaxScore
			item.Completed = snap.IsQuizComplete(it.quiz)
			item.Status = progression.QuizLabel(a, maxScore)
			item.MaxScore = &maxScore
			if a != nil && a.Score != nil {
				score := *a.Score
				item.Score = &score
			}
		}
		items = append(items, item)
	}
	rated, err := s.ratedChapters(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}
	return &ChapterDetail{ChapterSummary: summarize(c, progress, rated), Items: items}, nil
}

func (s *progressService) EnsureAccessible(dbc dbctx.Context, chapterID uuid.UUID) error {
	rd, err := requestIdentity(dbc, "chapter.access")
	if err != nil {
		return err
	}
	if rd.IsAdmin() {
		return nil
	}
	seq, err := s.content.sequence(dbc)
	if err != nil {
		return err
	}
	idx := indexOfChapter(seq, chapterID)
	if idx < 0 {
		return domainagg.NotFound("chapter.access", "chapter not found")
	}
	if idx == 0 {
		return nil
	}
	snap, err := s.attempts.snapshot(dbc, rd.UserID)
	if err != nil {
		return err
	}
	prev := seq[idx-1]
	if snap.CountCompleted(prev) < progression.CountTotal(prev) {
		return domainagg.Locked("chapter.access", MsgChapterLocked)
	}
	return nil
}
