package domain

import (
	"testing"
	"time"
)

func TestLinkMatches(t *testing.T) {
	link := Link{
		Title:       "Google Gemini Developers",
		OriginalURL: "https://developer.google.com/gemini",
		Tags:        []string{"AI", "Google", "Dev"},
	}

	tests := []struct {
		name string
		term string
		want bool
	}{
		{name: "empty term", term: "", want: true},
		{name: "title substring", term: "gemini dev", want: true},
		{name: "title case insensitive", term: "GOOGLE", want: true},
		{name: "url substring", term: "developer.google", want: true},
		{name: "tag match", term: "ai", want: true},
		{name: "no match", term: "tailwind", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := link.Matches(tt.term); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestLinkCloneIsDeep(t *testing.T) {
	clicked := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	original := Link{
		ID:   "1",
		Tags: []string{"a"},
		Analytics: LinkAnalytics{
			LastClicked: &clicked,
			History:     []DailyClicks{{Day: 1, Clicks: 1}},
		},
	}

	clone := original.Clone()
	clone.Tags[0] = "changed"
	clone.Analytics.History[0].Clicks = 99
	*clone.Analytics.LastClicked = clicked.Add(time.Hour)

	if original.Tags[0] != "a" {
		t.Error("Clone() shares the tags slice")
	}
	if original.Analytics.History[0].Clicks != 1 {
		t.Error("Clone() shares the history slice")
	}
	if !original.Analytics.LastClicked.Equal(clicked) {
		t.Error("Clone() shares the lastClicked pointer")
	}
}
