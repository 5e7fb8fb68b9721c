package stats

import "time"

// Streak counts the consecutive calendar days, walking back from
// the most recent practice day, on which the user has at least one
// session. The chain only counts if it is still alive: the most
// recent practice day must be today or yesterday, otherwise the
// streak is 0. days may arrive in any order and may contain
// duplicates; only the calendar date of each entry matters.
func Streak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool, len(days))
	var latest time.Time
	for _, d := range days {
		day := truncateDay(d)
		seen[day] = true
		if day.After(latest) {
			latest = day
		}
	}

	today = truncateDay(today)
	yesterday := today.AddDate(0, 0, -1)
	if !latest.Equal(today) && !latest.Equal(yesterday) {
		return 0
	}

	streak := 0
	for day := latest; seen[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
