package analytics

import (
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
)

// Report is everything the analytics view renders.
type Report struct {
	WindowDays  int          `json:"windowDays"`
	Series      []DailyTotal `json:"series"`
	ActiveLinks int          `json:"activeLinks"`
	Summary
}

func BuildReport(links []domain.Link, windowDays int, today time.Time) Report {
	series := AggregateDaily(links, windowDays, today)
	return Report{
		WindowDays:  len(series),
		Series:      series,
		ActiveLinks: len(links),
		Summary:     Summarize(series),
	}
}
