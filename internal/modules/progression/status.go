package progression

type ChapterStatus string

const (
	StatusLocked     ChapterStatus = "LOCKED"
	StatusAvailable  ChapterStatus = "AVAILABLE"
	StatusInProgress ChapterStatus = "IN_PROGRESS"
	StatusCompleted  ChapterStatus = "COMPLETED"
)

// ChapterProgress is the derived, never persisted view of one chapter.
type ChapterProgress struct {
	Total      int           `json:"total_tasks"`
	Completed  int           `json:"completed_tasks"`
	Percentage float64       `json:"progress_percentage"`
	Status     ChapterStatus `json:"status"`
}

// DeriveStatus applies the lock rule first, then the completion rule.
// prevDone is ignored for the first chapter.
func DeriveStatus(index int, prevDone bool, completed, total int) ChapterStatus {
	if index > 0 && !prevDone {
		return StatusLocked
	}
	switch {
	case completed >= total:
		return StatusCompleted
	case completed > 0:
		return StatusInProgress
	default:
		return StatusAvailable
	}
}

// Fold derives progress for every chapter of the ordered sequence in one
// pass, carrying forward whether the previous chapter is fully done.
func Fold(chapters []ChapterContent, snap *Snapshot) []ChapterProgress {
	out := make([]ChapterProgress, len(chapters))
	prevDone := true
	for i, c := range chapters {
		total := CountTotal(c)
		completed := snap.CountCompleted(c)
		out[i] = ChapterProgress{
			Total:      total,
			Completed:  completed,
			Percentage: Percentage(completed, total),
			Status:     DeriveStatus(i, prevDone, completed, total),
		}
		prevDone = completed >= total
	}
	return out
}

// At derives progress for the chapter at index only, looking at index-1 for
// the lock rule.
func At(chapters []ChapterContent, snap *Snapshot, index int) ChapterProgress {
	if index < 0 || index >= len(chapters) {
		return ChapterProgress{}
	}
	prevDone := true
	if index > 0 {
		prev := chapters[index-1]
		prevDone = snap.CountCompleted(prev) >= CountTotal(prev)
	}
	c := chapters[index]
	total := CountTotal(c)
	completed := snap.CountCompleted(c)
	return ChapterProgress{
		Total:      total,
		Completed:  completed,
		Percentage: Percentage(completed, total),
		Status:     DeriveStatus(index, prevDone, completed, total),
	}
}
