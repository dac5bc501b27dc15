package domain

import "time"

const (
	// HistoryDays is the fixed length of a link's click history.
	HistoryDays = 7

	// DateLayout formats DailyClicks.Date labels.
	DateLayout = "2006-01-02"

	secondsPerDay = 24 * 60 * 60
)

// EpochDay returns the number of days between 1970-01-01 and the calendar
// date of t, read in t's own location. Two instants on the same local date
// always map to the same value, whatever their time of day.
func EpochDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// DayLabel renders an epoch day as YYYY-MM-DD.
func DayLabel(day int64) string {
	return time.Unix(day*secondsPerDay, 0).UTC().Format(DateLayout)
}

// WindowDays returns the epoch days of a window of n days ending at today,
// oldest first.
func WindowDays(today time.Time, n int) []int64 {
	if n <= 0 {
		return nil
	}
	last := EpochDay(today)
	days := make([]int64, n)
	for i := 0; i < n; i++ {
		days[i] = last - int64(n-1-i)
	}
	return days
}

// NewHistory returns n zero-click entries ending at today.
func NewHistory(today time.Time, n int) []DailyClicks {
	days := WindowDays(today, n)
	history := make([]DailyClicks, len(days))
	for i, day := range days {
		history[i] = DailyClicks{Day: day, Date: DayLabel(day)}
	}
	return history
}

// RollHistory re-aligns history onto the n-day window ending at today.
// Counts for days still inside the window are carried over; older days are
// dropped and new days start at zero. The second value reports whether
// anything changed.
func RollHistory(history []DailyClicks, today time.Time, n int) ([]DailyClicks, bool) {
	days := WindowDays(today, n)

	byDay := make(map[int64]int64, len(history))
	for _, entry := range history {
		byDay[entry.Day] += entry.Clicks
	}

	rolled := make([]DailyClicks, len(days))
	changed := len(history) != len(days)
	for i, day := range days {
		rolled[i] = DailyClicks{Day: day, Date: DayLabel(day), Clicks: byDay[day]}
		if !changed && (history[i].Day != day || history[i].Clicks != rolled[i].Clicks) {
			changed = true
		}
	}
	return rolled, changed
}

// ClicksOn returns the clicks recorded for an epoch day.
// Days absent from the history count as zero.
func (a LinkAnalytics) ClicksOn(day int64) int64 {
	for _, entry := range a.History {
		if entry.Day == day {
			return entry.Clicks
		}
	}
	return 0
}

// RecordClick counts one visit at now. The history is rolled first so the
// click always lands on today's entry.
func (a *LinkAnalytics) RecordClick(now time.Time) {
	n := len(a.History)
	if n == 0 {
		n = HistoryDays
	}
	a.History, _ = RollHistory(a.History, now, n)
	a.History[len(a.History)-1].Clicks++

	a.Clicks++
	ts := now.UTC()
	a.LastClicked = &ts
}
