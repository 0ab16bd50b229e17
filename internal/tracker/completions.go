package tracker

import (
	"sort"
	"time"

	"github.com/julianstephens/habitgrid/internal/utils"
)

// CompletionSet is a habit's completion history keyed by YYYY-MM-DD date key.
// Membership is exact string equality on the key.
type CompletionSet map[string]struct{}

// NewCompletionSet builds a set from date keys. Duplicates collapse.
func NewCompletionSet(keys []string) CompletionSet {
	set := make(CompletionSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Contains reports whether key is in the set.
func (s CompletionSet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Has reports whether the calendar day of t is in the set.
func (s CompletionSet) Has(t time.Time) bool {
	return s.Contains(utils.FormatDateKey(t))
}

// Dates returns the parsable completion days on or before until, oldest first.
// Keys that do not parse are skipped.
func (s CompletionSet) Dates(until time.Time) []time.Time {
	until = utils.DateOnly(until)
	dates := make([]time.Time, 0, len(s))
	for key := range s {
		d, err := utils.ParseDateKey(key)
		if err != nil || d.After(until) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// countInWeek counts completions in the Sunday..Saturday week starting at start.
func (s CompletionSet) countInWeek(start time.Time) int {
	count := 0
	for i := 0; i < 7; i++ {
		if s.Has(utils.AddDays(start, i)) {
			count++
		}
	}
	return count
}

// CompletionsThisWeek counts completions in the Sunday-start week containing
// today, both ends inclusive. The habit's frequency plays no part.
func CompletionsThisWeek(completions CompletionSet, today time.Time) int {
	return completions.countInWeek(utils.WeekStart(today))
}
