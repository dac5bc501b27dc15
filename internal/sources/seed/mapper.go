package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/enrich"
)

// Mapper converts seed entries to links
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapLinks converts entries to links, keeping file order. Entries whose URL
// lacks an http(s) scheme are skipped. Missing title, tags or summary take
// the URL fallback.
func (m *Mapper) MapLinks(file File, today time.Time) ([]domain.Link, error) {
	links := make([]domain.Link, 0, len(file.Links))

	for _, entry := range file.Links {
		raw := strings.TrimSpace(entry.URL)
		lower := strings.ToLower(raw)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}

		fallback := enrich.Fallback(raw)
		link := domain.Link{
			ID:          uuid.NewString(),
			OriginalURL: raw,
			ShortCode:   entry.ShortCode,
			Title:       firstNonEmpty(entry.Title, fallback.Title),
			Tags:        entry.Tags,
			Summary:     firstNonEmpty(entry.Summary, fallback.Summary),
			CreatedAt:   today.AddDate(0, 0, -max(entry.AgeDays, 0)).UTC(),
			Analytics: domain.LinkAnalytics{
				Clicks:  max(entry.Clicks, 0), // counters never go negative
				History: historyFrom(entry.History, today),
			},
		}
		if len(link.Tags) == 0 {
			link.Tags = fallback.Tags
		}
		if link.ShortCode == "" {
			link.ShortCode = strings.ReplaceAll(link.ID, "-", "")[:6]
		}

		links = append(links, link)
	}

	if len(links) == 0 {
		return nil, fmt.Errorf("no valid links found in seed file")
	}

	return links, nil
}

// historyFrom right-aligns counts on the window ending today.
// Extra values at the old end are dropped.
func historyFrom(counts []int64, today time.Time) []domain.DailyClicks {
	history := domain.NewHistory(today, domain.HistoryDays)
	if len(counts) > len(history) {
		counts = counts[len(counts)-len(history):]
	}
	offset := len(history) - len(counts)
	for i, c := range counts {
		if c > 0 {
			history[offset+i].Clicks = c
		}
	}
	return history
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
