package links

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/enrich"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

type stubEnricher struct {
	result enrich.Enrichment
	calls  atomic.Int32
}

func (e *stubEnricher) Analyze(context.Context, string) enrich.Enrichment {
	e.calls.Add(1)
	return e.result
}

type failingModel struct{}

func (failingModel) Generate(context.Context, string) (string, error) {
	return "", errors.New("503 service unavailable")
}

type eventCounter struct {
	created, deleted, visited atomic.Int32
}

func (c *eventCounter) LinkCreated() { c.created.Add(1) }
func (c *eventCounter) LinkDeleted() { c.deleted.Add(1) }
func (c *eventCounter) LinkVisited() { c.visited.Add(1) }

func newService(t *testing.T, enricher Enricher, seed ...domain.Link) (*Service, *Store, *spyKV) {
	t.Helper()
	kv := newSpyKV()
	s := openStore(t, kv, seedWith(seed...))
	return NewService(s, enricher, WithClock(clock)), s, kv
}

var shortCodePattern = regexp.MustCompile(`^[a-z0-9]{6}$`)

func TestCreateLink_WithEnrichment(t *testing.T) {
	enricher := &stubEnricher{result: enrich.Enrichment{Title: "Example", Tags: []string{"a", "b", "c"}, Summary: "s"}}
	svc, store, _ := newService(t, enricher, sampleLink("existing"))

	link, err := svc.CreateLink(context.Background(), "https://example.com/foo/bar")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/foo/bar", link.OriginalURL)
	assert.Equal(t, "Example", link.Title)
	assert.Equal(t, []string{"a", "b", "c"}, link.Tags)
	assert.Equal(t, "s", link.Summary)
	assert.Zero(t, link.Analytics.Clicks)
	assert.Nil(t, link.Analytics.LastClicked)
	require.Len(t, link.Analytics.History, 7)
	for _, d := range link.Analytics.History {
		assert.Zero(t, d.Clicks)
	}
	assert.Equal(t, domain.EpochDay(fixedNow), link.Analytics.History[6].Day)
	assert.Equal(t, fixedNow, link.CreatedAt)
	assert.Regexp(t, shortCodePattern, link.ShortCode)
	_, err = uuid.Parse(link.ID)
	assert.NoError(t, err)

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, link, all[0])
}

func TestCreateLink_EnrichmentFailureUsesFallback(t *testing.T) {
	analyzer := enrich.NewAnalyzer(failingModel{}, logger.NewNop())
	svc, store, _ := newService(t, analyzer)

	link, err := svc.CreateLink(context.Background(), "https://example.com/foo/bar")
	require.NoError(t, err)

	assert.Equal(t, "bar", link.Title)
	assert.Equal(t, []string{"Web"}, link.Tags)
	assert.Equal(t, "Shortened link for https://example.com/foo/bar", link.Summary)
	assert.Equal(t, link.ID, store.All()[0].ID)
}

func TestCreateLink_InvalidURL(t *testing.T) {
	tests := []string{
		"",
		"example.com",
		"ftp://example.com",
		"javascript:alert(1)",
		"http:/example.com",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			enricher := &stubEnricher{}
			svc, store, kv := newService(t, enricher, sampleLink("a"))
			before := store.All()
			writes := kv.writes()

			_, err := svc.CreateLink(context.Background(), raw)

			assert.ErrorIs(t, err, ErrInvalidURL)
			assert.Zero(t, enricher.calls.Load(), "analyzer must not be called")
			assert.Equal(t, before, store.All())
			assert.Equal(t, writes, kv.writes())
		})
	}
}

func TestValidateURL_SchemeIsCaseInsensitive(t *testing.T) {
	assert.NoError(t, ValidateURL("HTTPS://EXAMPLE.COM"))
	assert.NoError(t, ValidateURL("Http://example.com"))
	assert.ErrorIs(t, ValidateURL("https:example.com"), ErrInvalidURL)
}

func TestCreateLink_PersistFailureStillCreates(t *testing.T) {
	svc, store, kv := newService(t, &stubEnricher{result: enrich.Fallback("https://a.example")})
	kv.failPut = errors.New("unavailable")

	link, err := svc.CreateLink(context.Background(), "https://a.example")

	assert.ErrorIs(t, err, ErrPersist)
	assert.NotEmpty(t, link.ID)
	assert.Equal(t, 1, store.Count())
}

func TestCreateLink_UniqueIDs(t *testing.T) {
	enricher := &stubEnricher{result: enrich.Enrichment{Title: "t", Tags: []string{"x"}, Summary: "s"}}
	svc, store, _ := newService(t, enricher)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateLink(context.Background(), "https://example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, l := range store.All() {
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
		assert.Regexp(t, shortCodePattern, l.ShortCode)
	}
	assert.Len(t, seen, 50)
}

func TestDeleteLink(t *testing.T) {
	events := &eventCounter{}
	kv := newSpyKV()
	store := openStore(t, kv, seedWith(sampleLink("a"), sampleLink("b")))
	svc := NewService(store, &stubEnricher{}, WithClock(clock), WithEvents(events))

	removed, err := svc.DeleteLink(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteLink(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, int32(1), events.deleted.Load())
	assert.Equal(t, 1, store.Count())
}

func TestSearch(t *testing.T) {
	a := sampleLink("a")
	a.Title = "Google Gemini API"
	b := sampleLink("b")
	b.Title = "Tailwind CSS"
	b.Tags = []string{"design"}
	svc, _, _ := newService(t, &stubEnricher{}, a, b)

	assert.Len(t, svc.Search(""), 2)
	assert.Len(t, svc.Search("   "), 2)

	got := svc.Search("gemini")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = svc.Search("DESIGN")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestVisit(t *testing.T) {
	events := &eventCounter{}
	store := openStore(t, newSpyKV(), seedWith(sampleLink("a")))
	svc := NewService(store, &stubEnricher{}, WithClock(clock), WithEvents(events))

	link, err := svc.Visit(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, int64(4), link.Analytics.Clicks)
	assert.Equal(t, int64(1), link.Analytics.History[6].Clicks)

	_, err = svc.Visit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), events.visited.Load())
}

func TestAnalytics(t *testing.T) {
	a := sampleLink("a")
	a.Analytics.History[6].Clicks = 4
	b := sampleLink("b")
	b.Analytics.History[0].Clicks = 3
	svc, _, _ := newService(t, &stubEnricher{}, a, b)

	report := svc.Analytics(7)

	assert.Equal(t, 2, report.ActiveLinks)
	assert.Equal(t, int64(7), report.TotalClicks)
	assert.Equal(t, int64(1), report.AverageClicksPerDay)
	assert.Equal(t, int64(4), report.Series[6].TotalClicks)
	assert.Equal(t, int64(3), report.Series[0].TotalClicks)
}
