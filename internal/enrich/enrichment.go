package enrich

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultTitle   = "Untitled Link"
	DefaultSummary = "No description available."
	DefaultTag     = "General"

	// FallbackTag is used when the model could not be reached at all.
	FallbackTag = "Web"
)

// Enrichment is the title, tags and summary derived for a URL.
type Enrichment struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// Outcome tells which variant produced an Enrichment.
type Outcome string

const (
	OutcomeEnriched Outcome = "enriched"
	// OutcomeDefaulted: the model answered but at least one field had to be
	// defaulted. Such answers are never cached.
	OutcomeDefaulted Outcome = "defaulted"
	OutcomeFallback  Outcome = "fallback"
)

// Result is the value produced internally by the Analyzer.
// Err is set only for OutcomeFallback and records why the model was not used.
type Result struct {
	Enrichment
	Outcome Outcome
	Err     error
}

// Prompt builds the instruction sent to the model for url.
func Prompt(rawURL string) string {
	return fmt.Sprintf("Analyze the following URL and provide a concise title, "+
		"3 relevant tags, and a one-sentence summary of what the content likely is: %s", rawURL)
}

// payload mirrors the response schema. Pointers distinguish absent fields
// from present-but-empty ones; both end up defaulted.
type payload struct {
	Title   *string   `json:"title"`
	Tags    []*string `json:"tags"`
	Summary *string   `json:"summary"`
}

// Parse decodes a model response. An empty or malformed body, or any missing
// or blank field, is replaced field by field with the defaults. complete is
// false as soon as one field was defaulted.
func Parse(text string) (e Enrichment, complete bool) {
	var p payload
	if body := strings.TrimSpace(text); body != "" {
		// A syntax error decodes nothing, a type mismatch still decodes the
		// other fields. Defaults cover both.
		_ = json.Unmarshal([]byte(body), &p)
	}

	out := Enrichment{
		Title:   DefaultTitle,
		Tags:    []string{DefaultTag},
		Summary: DefaultSummary,
	}
	complete = true
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		out.Title = strings.TrimSpace(*p.Title)
	} else {
		complete = false
	}
	if p.Summary != nil && strings.TrimSpace(*p.Summary) != "" {
		out.Summary = strings.TrimSpace(*p.Summary)
	} else {
		complete = false
	}

	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if tag == nil {
			continue
		}
		if t := strings.TrimSpace(*tag); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		out.Tags = tags
	} else {
		complete = false
	}
	return out, complete
}

// Fallback is the deterministic enrichment used when the model call fails.
func Fallback(rawURL string) Enrichment {
	return Enrichment{
		Title:   lastPathSegment(rawURL),
		Tags:    []string{FallbackTag},
		Summary: "Shortened link for " + rawURL,
	}
}

// lastPathSegment returns the final "/"-separated segment of the URL path,
// ignoring query and fragment. A URL with no path, or one ending in "/",
// yields DefaultTitle.
func lastPathSegment(rawURL string) string {
	path := ""
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		path = u.EscapedPath()
	} else {
		// Not a URL we can parse; cut at the first query or fragment marker.
		path = rawURL
		if i := strings.IndexAny(path, "?#"); i >= 0 {
			path = path[:i]
		}
	}

	segment := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		segment = path[i+1:]
	}
	if unescaped, err := url.PathUnescape(segment); err == nil {
		segment = unescaped
	}
	if strings.TrimSpace(segment) == "" {
		return DefaultTitle
	}
	return segment
}
