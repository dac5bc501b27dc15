// Package analytics folds per-link click histories into a dashboard series.
package analytics

import (
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
)

// DefaultWindowDays is used when a caller asks for a non-positive window.
const DefaultWindowDays = domain.HistoryDays

// DailyTotal is the number of clicks across all links on one calendar day.
type DailyTotal struct {
	Day         int64  `json:"day"`
	Date        string `json:"date"`
	TotalClicks int64  `json:"totalClicks"`
}

// Summary holds the derived figures shown above the chart.
type Summary struct {
	TotalClicks         int64 `json:"totalClicks"`
	AverageClicksPerDay int64 `json:"averageClicksPerDay"`
}

// AggregateDaily returns windowDays totals, oldest first, ending at today's
// calendar day. History entries are joined on their epoch day; days a link
// has no entry for contribute zero.
//
// The result depends only on the multiset of history entries, never on the
// order of links.
func AggregateDaily(links []domain.Link, windowDays int, today time.Time) []DailyTotal {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	days := domain.WindowDays(today, windowDays)

	slot := make(map[int64]int, len(days))
	series := make([]DailyTotal, len(days))
	for i, day := range days {
		slot[day] = i
		series[i] = DailyTotal{Day: day, Date: domain.DayLabel(day)}
	}

	for _, link := range links {
		for _, entry := range link.Analytics.History {
			if i, ok := slot[entry.Day]; ok {
				series[i].TotalClicks += entry.Clicks
			}
		}
	}
	return series
}

// Summarize sums the series and computes the per-day average, rounded to the
// nearest integer with ties going to the even neighbour. An empty series
// averages to zero.
func Summarize(series []DailyTotal) Summary {
	var total int64
	for _, d := range series {
		total += d.TotalClicks
	}
	return Summary{
		TotalClicks:         total,
		AverageClicksPerDay: roundHalfEven(total, int64(len(series))),
	}
}

// roundHalfEven divides num by den (den > 0, num >= 0) without going through
// floating point.
func roundHalfEven(num, den int64) int64 {
	if den <= 0 {
		return 0
	}
	q, r := num/den, num%den
	switch twice := 2 * r; {
	case twice > den:
		q++
	case twice == den && q%2 != 0:
		q++
	}
	return q
}
