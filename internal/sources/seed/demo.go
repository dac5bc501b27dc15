package seed

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
)

// Demo returns the two sample links shown on a fresh dashboard. Their daily
// clicks are random so the chart has something to draw.
func Demo(today time.Time) []domain.Link {
	return []domain.Link{
		{
			ID:          uuid.NewString(),
			OriginalURL: "https://developer.google.com/gemini",
			ShortCode:   "gm-dev",
			Title:       "Google Gemini Developers",
			Tags:        []string{"AI", "Google", "Dev"},
			Summary:     "Powerful generative AI models for developers.",
			CreatedAt:   today.AddDate(0, 0, -3).UTC(),
			Analytics: domain.LinkAnalytics{
				Clicks:  1245,
				History: randomHistory(today, 100, 200),
			},
		},
		{
			ID:          uuid.NewString(),
			OriginalURL: "https://tailwindcss.com/docs/installation",
			ShortCode:   "tw-docs",
			Title:       "Tailwind CSS Installation",
			Tags:        []string{"UI", "CSS", "Framework"},
			Summary:     "Quick start guide for Tailwind CSS styling.",
			CreatedAt:   today.AddDate(0, 0, -1).UTC(),
			Analytics: domain.LinkAnalytics{
				Clicks:  856,
				History: randomHistory(today, 50, 100),
			},
		},
	}
}

// randomHistory draws each day's clicks from [base, base+spread).
func randomHistory(today time.Time, base, spread int64) []domain.DailyClicks {
	history := domain.NewHistory(today, domain.HistoryDays)
	for i := range history {
		history[i].Clicks = base + rand.Int64N(spread)
	}
	return history
}
