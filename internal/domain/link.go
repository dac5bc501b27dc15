package domain

import (
	"strings"
	"time"
)

// Link is a user-submitted URL plus its derived metadata and click analytics.
//
// The JSON shape is the persisted snapshot format, so field names must stay
// stable across releases.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is unique within the collection (UUID v4).
	ID string `json:"id"`

	// OriginalURL is the destination. Always starts with http:// or https://.
	OriginalURL string `json:"originalUrl"`

	// ShortCode is a display token only; nothing resolves it.
	ShortCode string `json:"shortCode"`

	// ─────────────────────────────
	// Enrichment
	// ─────────────────────────────

	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`

	// CreatedAt is set once, in UTC.
	CreatedAt time.Time `json:"createdAt"`

	// Analytics is owned by the link and has no lifecycle of its own.
	Analytics LinkAnalytics `json:"analytics"`
}

// LinkAnalytics holds the click counters of a single link.
type LinkAnalytics struct {
	// Clicks is the cumulative number of visits.
	Clicks int64 `json:"clicks"`

	// LastClicked stays nil until the first visit.
	LastClicked *time.Time `json:"lastClicked,omitempty"`

	// History is one entry per calendar day, oldest first, ending today.
	History []DailyClicks `json:"history"`
}

// DailyClicks is one point of a link's click history.
// Day is the join key; Date is only a display label derived from it.
type DailyClicks struct {
	Day    int64  `json:"day"`
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// Clone returns a deep copy so callers can never alias store-owned slices.
func (l Link) Clone() Link {
	out := l
	if l.Tags != nil {
		out.Tags = append(make([]string, 0, len(l.Tags)), l.Tags...)
	}
	if l.Analytics.History != nil {
		out.Analytics.History = append(make([]DailyClicks, 0, len(l.Analytics.History)), l.Analytics.History...)
	}
	if l.Analytics.LastClicked != nil {
		ts := *l.Analytics.LastClicked
		out.Analytics.LastClicked = &ts
	}
	return out
}

// Matches reports whether term occurs, case-insensitively, in the title,
// the original URL or any tag. An empty term matches every link.
func (l Link) Matches(term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)

	if strings.Contains(strings.ToLower(l.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(l.OriginalURL), needle) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
