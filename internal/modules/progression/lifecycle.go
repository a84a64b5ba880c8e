package progression

import (
	types "github.com/nekobyte/englishtek-backend/internal/domain"
	domainagg "github.com/nekobyte/englishtek-backend/internal/domain/aggregates"
)

// StartAction is what a start request must do to the attempt store.
type StartAction int

const (
	// StartNoop leaves the existing attempt untouched.
	StartNoop StartAction = iota
	// StartCreate inserts a fresh attempt.
	StartCreate
	// StartRetake deletes the completed attempt, then inserts a fresh one.
	StartRetake
)

// FinishPlan tells the caller whether an attempt must be created before the
// completion is recorded (privileged callers only).
type FinishPlan struct {
	CreateAttempt bool
}

const (
	MsgLessonNotStarted      = "lesson has not been started"
	MsgLessonAlreadyComplete = "lesson already completed"
	MsgQuizNotStarted        = "quiz has not been started"
	MsgQuizAlreadyComplete   = "quiz already completed"
	MsgQuizMaxEligibility    = "quiz already completed at max eligibility"
)

func PlanLessonStart(existing *types.LessonAttempt) StartAction {
	if existing != nil {
		return StartNoop
	}
	return StartCreate
}

// PlanQuizStart decides a quiz start. A passed attempt blocks a retake unless
// privileged; a failed one is discarded for a fresh attempt.
func PlanQuizStart(existing *types.QuizAttempt, maxScore int, privileged bool) (StartAction, error) {
	if existing == nil {
		return StartCreate, nil
	}
	if !existing.IsCompleted() {
		return StartNoop, nil
	}
	if IsQuizAttemptComplete(existing, maxScore) && !privileged {
		return StartNoop, domainagg.IllegalState("quiz.start", MsgQuizMaxEligibility)
	}
	return StartRetake, nil
}

func PlanLessonFinish(existing *types.LessonAttempt, privileged bool) (FinishPlan, error) {
	if existing == nil || existing.StartedAt == nil {
		if privileged {
			return FinishPlan{CreateAttempt: existing == nil}, nil
		}
		return FinishPlan{}, domainagg.IllegalState("lesson.finish", MsgLessonNotStarted)
	}
	if existing.IsCompleted() && !privileged {
		return FinishPlan{}, domainagg.IllegalState("lesson.finish", MsgLessonAlreadyComplete)
	}
	return FinishPlan{}, nil
}

func PlanQuizSubmit(existing *types.QuizAttempt, privileged bool) (FinishPlan, error) {
	if existing == nil || existing.StartedAt == nil {
		if privileged {
			return FinishPlan{CreateAttempt: existing == nil}, nil
		}
		return FinishPlan{}, domainagg.IllegalState("quiz.submit", MsgQuizNotStarted)
	}
	if existing.IsCompleted() && !privileged {
		return FinishPlan{}, domainagg.IllegalState("quiz.submit", MsgQuizAlreadyComplete)
	}
	return FinishPlan{}, nil
}

// ValidateScore rejects scores outside [0, maxScore].
func ValidateScore(score, maxScore int) error {
	if score < 0 || score > maxScore {
		return domainagg.Validation("quiz.submit", "score must be between 0 and the quiz max score")
	}
	return nil
}
