package services

import (
	"math/rand/v2"
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

const MsgAttemptExists = "attempt already exists"

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

type QuizStartResult struct {
	Attempt   *types.QuizAttempt    `json:"attempt"`
	Quiz      *types.Quiz           `json:"quiz"`
	Questions []*types.QuizQuestion `json:"questions"`
}

type QuizSubmitResult struct {
	Score               int          `json:"score"`
	MaxScore            int          `json:"max_score"`
	Passed              bool         `json:"passed"`
	IsEligibleForRetake bool         `json:"is_eligible_for_retake"`
	IsEligibleForBadge  bool         `json:"is_eligible_for_badge"`
	BadgeAwarded        bool         `json:"badge_awarded"`
	Badge               *types.Badge `json:"badge,omitempty"`
}

type QuizView struct {
	Quiz      *types.Quiz `json:"quiz"`
	Completed bool        `json:"completed"`
	Status    string      `json:"status"`
	Score     *int        `json:"score,omitempty"`
}

type QuizService interface {
	Start(dbc dbctx.Context, quizID uuid.UUID) (*QuizStartResult, error)
	Submit(dbc dbctx.Context, quizID uuid.UUID, score int) (*QuizSubmitResult, error)
	GetQuiz(dbc dbctx.Context, quizID uuid.UUID) (*QuizView, error)
}

type quizService struct {
	db         *gorm.DB
	log        *logger.Logger
	tx         dataagg.TxRunner
	progress   ProgressService
	badges     BadgeService
	quizzes    repos.QuizRepo
	questions  repos.QuizQuestionRepo
	attempts   repos.QuizAttemptRepo
	userBadges repos.UserBadgeRepo
	stats      StatsInvalidator
	shuffle    Shuffler
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tx dataagg.TxRunner,
	progress ProgressService,
	badges BadgeService,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	attemptRepo repos.QuizAttemptRepo,
	userBadgeRepo repos.UserBadgeRepo,
	stats StatsInvalidator,
	shuffle Shuffler,
) QuizService {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &quizService{
		db:         db,
		log:        baseLog.With("service", "QuizService"),
		tx:         tx,
		progress:   progress,
		badges:     badges,
		quizzes:    quizRepo,
		questions:  questionRepo,
		attempts:   attemptRepo,
		userBadges: userBadgeRepo,
		stats:      stats,
		shuffle:    shuffle,
	}
}

func (s *quizService) loadQuiz(dbc dbctx.Context, op string, quizID uuid.UUID) (*types.Quiz, error) {
	quiz, err := s.quizzes.GetByID(dbc, quizID)
	if err != nil {
		return nil, dataagg.MapError(op, err)
	}
	if quiz == nil {
		return nil, domainagg.NotFound(op, "quiz not found")
	}
	return quiz, nil
}

func createAttempt(txc dbctx.Context, attempts repos.QuizAttemptRepo, op string, row *types.QuizAttempt) error {
	if err := attempts.Create(txc, row); err != nil {
		if dataagg.IsUniqueViolation(err) {
			return domainagg.Conflict(op, MsgAttemptExists)
		}
		return dataagg.MapError(op, err)
	}
	return nil
}

func (s *quizService) Start(dbc dbctx.Context, quizID uuid.UUID) (out *QuizStartResult, err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "QuizService.Start",
		attribute.String("quiz.id", quizID.String()))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	rd, err := requestIdentity(dbc, "quiz.start")
	if err != nil {
		return nil, err
	}
	quiz, err := s.loadQuiz(dbc, "quiz.start", quizID)
	if err != nil {
		return nil, err
	}
	if err := s.progress.EnsureAccessible(dbc, quiz.ChapterID); err != nil {
		return nil, err
	}

	var attempt *types.QuizAttempt
	retake := false
	err = s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		existing, err := s.attempts.GetByUserAndQuiz(txc, rd.UserID, quizID)
		if err != nil {
			return dataagg.MapError("quiz.start", err)
		}
		action, err := progression.PlanQuizStart(existing, quiz.MaxScore, rd.IsAdmin())
		if err != nil {
			return err
		}
		switch action {
		case progression.StartNoop:
			attempt = existing
			return nil
		case progression.StartRetake:
			retake = true
			if err := s.attempts.DeleteByID(txc, existing.ID); err != nil {
				return dataagg.MapError("quiz.start", err)
			}
		}
		now := time.Now().UTC()
		row := &types.QuizAttempt{UserID: rd.UserID, QuizID: quizID, StartedAt: &now}
		if err := createAttempt(txc, s.attempts, "quiz.start", row); err != nil {
			return err
		}
		attempt = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	if retake {
		// The dropped score may have counted toward top scorers.
		invalidate(dbc.Ctx, s.stats)
	}

	questions, err := s.questions.ListByQuizIDs(dbc, []uuid.UUID{quizID})
	if err != nil {
		return nil, dataagg.MapError("quiz.start", err)
	}
	if quiz.IsRandom {
		questions = s.shuffled(questions)
	}
	return &QuizStartResult{Attempt: attempt, Quiz: quiz, Questions: questions}, nil
}

// shuffled returns copies in a random order with pages renumbered 1..n. The
// stored order is untouched.
func (s *quizService) shuffled(in []*types.QuizQuestion) []*types.QuizQuestion {
	out := make([]*types.QuizQuestion, 0, len(in))
	for _, q := range in {
		cp := *q
		out = append(out, &cp)
	}
	s.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i, q := range out {
		q.Page = i + 1
	}
	return out
}

func (s *quizService) Submit(dbc dbctx.Context, quizID uuid.UUID, score int) (out *QuizSubmitResult, err error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "QuizService.Submit",
		attribute.String("quiz.id", quizID.String()),
		attribute.Int("quiz.score", score))
	defer func() { observability.EndSpan(span, err) }()
	dbc.Ctx = ctx

	rd, err := requestIdentity(dbc, "quiz.submit")
	if err != nil {
		return nil, err
	}
	quiz, err := s.loadQuiz(dbc, "quiz.submit", quizID)
	if err != nil {
		return nil, err
	}
	if err := progression.ValidateScore(score, quiz.MaxScore); err != nil {
		return nil, err
	}

	passed := progression.PassesThreshold(score, quiz.MaxScore)
	result := &QuizSubmitResult{
		Score:               score,
		MaxScore:            quiz.MaxScore,
		Passed:              passed,
		IsEligibleForRetake: !passed,
		Badge:               quiz.Badge,
	}

	err = s.tx.InTx(dbc.Ctx, func(txc dbctx.Context) error {
		existing, err := s.attempts.GetByUserAndQuiz(txc, rd.UserID, quizID)
		if err != nil {
			return dataagg.MapError("quiz.submit", err)
		}
		plan, err := progression.PlanQuizSubmit(existing, rd.IsAdmin())
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if plan.CreateAttempt {
			row := &types.QuizAttempt{UserID: rd.UserID, QuizID: quizID, StartedAt: &now}
			if err := createAttempt(txc, s.attempts, "quiz.submit", row); err != nil {
				return err
			}
			existing = row
		}
		if err := s.attempts.RecordScore(txc, existing.ID, score, now); err != nil {
			return dataagg.MapError("quiz.submit", err)
		}

		if quiz.BadgeID == nil {
			return nil
		}
		// The grant is best effort: a failure rolls back only the savepoint
		// and the score still commits. ReconcileBadges repairs it later.
		gerr := dataagg.Savepoint(txc, s.db, func(sp dbctx.Context) error {
			awarded, err := s.badges.AwardIfEligible(sp, rd.UserID, quiz, score)
			result.BadgeAwarded = awarded
			return err
		})
		if gerr != nil {
			result.BadgeAwarded = false
			s.log.Warn("badge grant failed; score kept", "quiz_id", quizID, "user_id", rd.UserID, "error", gerr)
		}
		held, err := s.userBadges.GetByUserAndBadge(txc, rd.UserID, *quiz.BadgeID)
		if err != nil {
			return dataagg.MapError("quiz.submit", err)
		}
		result.IsEligibleForBadge = held == nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(dbc.Ctx, s.stats)
	s.log.Info("quiz submitted",
		"quiz_id", quizID,
		"user_id", rd.UserID,
		"score", score,
		"passed", passed,
		"badge_awarded", result.BadgeAwarded,
	)
	return result, nil
}

func (s *quizService) GetQuiz(dbc dbctx.Context, quizID uuid.UUID) (*QuizView, error) {
	rd, err := requestIdentity(dbc, "quiz.get")
	if err != nil {
		return nil, err
	}
	quiz, err := s.loadQuiz(dbc, "quiz.get", quizID)
	if err != nil {
		return nil, err
	}
	if err := s.progress.EnsureAccessible(dbc, quiz.ChapterID); err != nil {
		return nil, err
	}
	a, err := s.attempts.GetByUserAndQuiz(dbc, rd.UserID, quizID)
	if err != nil {
		return nil, dataagg.MapError("quiz.get", err)
	}
	view := &QuizView{
		Quiz:      quiz,
		Completed: progression.IsQuizAttemptComplete(a, quiz.MaxScore),
		Status:    progression.QuizLabel(a, quiz.MaxScore),
	}
	if a != nil && a.Score != nil {
		score := *a.Score
		view.Score = &score
	}
	return view, nil
}
