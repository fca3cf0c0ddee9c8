package service

import (
	"math"
	"time"
)

// GoalProgress expresses actual as a percentage of goal, rounded to the
// nearest integer and capped at 100. A zero or negative goal yields 0 so no
// caller ever divides by zero.
func GoalProgress(actual, goal float64) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(actual / goal * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// PercentChange returns the rounded percentage change from previous to
// current. When previous is zero the change is 0 if current is also zero and
// 100 otherwise; the sentinel stands in for an undefined ratio.
func PercentChange(current, previous float64) int {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return int(math.Round((current - previous) / previous * 100))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// dayStart truncates t to local midnight.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dayEnd is the last instant of t's calendar day.
func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// weekStartMonday returns the Monday of t's ISO week. Distinct from the
// rolling 7-day window used by the dashboard overview; the two conventions
// answer different questions and are kept separate on purpose.
func weekStartMonday(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

// weekdayNames indexes Monday-first day names the way the weekly workout
// buckets are keyed.
var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
