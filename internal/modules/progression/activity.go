package progression

import (
	"sort"
	"time"
)

const (
	ActivityLesson = "lesson"
	ActivityQuiz   = "quiz"
	ActivityBadge  = "badge"
)

type ActivityEntry struct {
	Type string    `json:"type"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// SortActivity orders newest first. Equal timestamps fall back to type then
// name so output is deterministic.
func SortActivity(entries []ActivityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Name < b.Name
	})
}

// LimitActivity truncates after sorting. limit <= 0 keeps everything.
func LimitActivity(entries []ActivityEntry, limit int) []ActivityEntry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	return entries[:limit]
}
