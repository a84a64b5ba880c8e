package progression

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const DayKeyLayout = "2006-01-02"

type ScoreEntry struct {
	UserID     uuid.UUID
	TotalScore int64
}

// RankTopScorers sorts by total score descending, ties by user id ascending,
// and keeps the first limit entries.
func RankTopScorers(entries []ScoreEntry, limit int) []ScoreEntry {
	out := append([]ScoreEntry(nil), entries...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// WindowStart is midnight of the first day of a days-long window ending today.
func WindowStart(now time.Time, days int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if days <= 0 {
		days = 1
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return today.AddDate(0, 0, -(days - 1))
}

// BucketByDay counts timestamps per calendar day over the trailing window
// that includes today. Every day in the window is present, empty days as 0.
func BucketByDay(timestamps []time.Time, now time.Time, days int, loc *time.Location) map[string]int {
	if loc == nil {
		loc = time.UTC
	}
	if days <= 0 {
		days = 1
	}
	start := WindowStart(now, days, loc)
	out := make(map[string]int, days)
	for i := 0; i < days; i++ {
		out[start.AddDate(0, 0, i).Format(DayKeyLayout)] = 0
	}
	for _, ts := range timestamps {
		key := ts.In(loc).Format(DayKeyLayout)
		if _, ok := out[key]; ok {
			out[key]++
		}
	}
	return out
}
