// Package stats derives shooting statistics from recorded practice
// data: per-block accuracy, per-session aggregation, the user
// dashboard (lifetime totals and the practice-day streak) and the
// global leaderboard. The package only reads; it never mutates the
// store.
package stats

import "fmt"

// Percent2 formats made/total as a percentage with two decimals.
// A zero total yields "0.00%" rather than dividing by zero.
func Percent2(made, total int64) string {
	if total <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(made)/float64(total)*100)
}

// Accuracy1 formats made/planned with one decimal, the dashboard
// style. When nothing was planned there is no meaningful ratio and
// the client shows "N/A".
func Accuracy1(made, planned int64) string {
	if planned <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", float64(made)/float64(planned)*100)
}
