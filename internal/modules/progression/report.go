package progression

import types "github.com/nekobyte/englishtek-backend/internal/domain"

const (
	LabelCompleted  = "COMPLETED"
	LabelIncomplete = "INCOMPLETE"
	LabelInProgress = "IN PROGRESS"
	LabelNotStarted = "NOT STARTED"
)

func LessonLabel(a *types.LessonAttempt) string {
	switch {
	case a == nil:
		return LabelNotStarted
	case a.IsCompleted():
		return LabelCompleted
	default:
		return LabelInProgress
	}
}

// QuizLabel marks a submitted quiz below the threshold as INCOMPLETE.
func QuizLabel(a *types.QuizAttempt, maxScore int) string {
	switch {
	case a == nil:
		return LabelNotStarted
	case !a.IsCompleted():
		return LabelInProgress
	case IsQuizAttemptComplete(a, maxScore):
		return LabelCompleted
	default:
		return LabelIncomplete
	}
}
