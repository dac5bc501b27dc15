package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/config"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/enrich"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/httpserver/deps"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/links"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/metrics"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/store/memory"
)

var now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

type stubEnricher struct{}

func (stubEnricher) Analyze(_ context.Context, url string) enrich.Enrichment {
	return enrich.Enrichment{Title: "Docs", Tags: []string{"go"}, Summary: "About " + url}
}

// flakyKV fails writes once broken is set.
type flakyKV struct {
	*memory.Store
	broken bool
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.Store.Put(ctx, key, value)
}

func (f *flakyKV) Ping(ctx context.Context) error {
	if f.broken {
		return errors.New("disk full")
	}
	return nil
}

type fixture struct {
	handler http.Handler
	kv      *flakyKV
	store   *links.Store
	trigger chan struct{}
}

func newFixture(t *testing.T, seed ...domain.Link) *fixture {
	t.Helper()
	clock := func() time.Time { return now }
	kv := &flakyKV{Store: memory.New()}

	store, err := links.Open(context.Background(), kv, links.Options{
		Seed:  func(context.Context, time.Time) ([]domain.Link, error) { return seed, nil },
		Clock: clock,
	})
	require.NoError(t, err)

	m := metrics.New(store.Count)
	d := deps.Deps{
		Logger:        logger.NewNop(),
		StartTime:     now,
		Version:       "test",
		TimeNow:       clock,
		Links:         links.NewService(store, stubEnricher{}, links.WithClock(clock), links.WithEvents(m)),
		Store:         store,
		ShortDomain:   "lp.ai",
		WindowDays:    7,
		EnrichMode:    "fallback",
		ReloadTrigger: make(chan struct{}, 1),
		Metrics:       m,
	}
	cfg := &config.Config{RequestTimeout: 5 * time.Second}

	return &fixture{handler: NewRouter(cfg, d.Logger, d), kv: kv, store: store, trigger: d.ReloadTrigger}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	return rec
}

func seedLink(id, title string) domain.Link {
	return domain.Link{
		ID:          id,
		OriginalURL: "https://example.com/" + id,
		ShortCode:   "abc123",
		Title:       title,
		Tags:        []string{"docs"},
		Summary:     "s",
		CreatedAt:   now.Add(-time.Hour),
		Analytics:   domain.LinkAnalytics{History: domain.NewHistory(now, domain.HistoryDays)},
	}
}

type linkBody struct {
	ID          string   `json:"id"`
	OriginalURL string   `json:"originalUrl"`
	ShortCode   string   `json:"shortCode"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	ShortURL    string   `json:"shortUrl"`
	QRCodeURL   string   `json:"qrCodeUrl"`
	Warning     string   `json:"warning"`
	Destination string   `json:"destination"`
	Analytics   struct {
		Clicks int64 `json:"clicks"`
	} `json:"analytics"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestCreateLink(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/links", `{"url":"https://go.dev/doc"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[linkBody](t, rec)
	assert.Equal(t, "https://go.dev/doc", body.OriginalURL)
	assert.Equal(t, "Docs", body.Title)
	assert.Equal(t, "lp.ai/"+body.ShortCode, body.ShortURL)
	assert.Equal(t, "https://api.qrserver.com/v1/create-qr-code/?data=https%3A%2F%2Fgo.dev%2Fdoc&size=150x150", body.QRCodeURL)
	assert.Empty(t, body.Warning)
	assert.Empty(t, rec.Header().Get("X-Persist-Warning"))
	assert.Equal(t, 1, f.store.Count())
}

func TestCreateLink_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing scheme", body: `{"url":"example.com"}`},
		{name: "empty", body: `{"url":""}`},
		{name: "not json", body: `url=https://example.com`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/api/links", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, f.store.Count())
		})
	}
}

func TestCreateLink_PersistWarning(t *testing.T) {
	f := newFixture(t)
	f.kv.broken = true

	rec := f.do(http.MethodPost, "/api/links", `{"url":"https://go.dev"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Persist-Warning"))
	assert.NotEmpty(t, decode[linkBody](t, rec).Warning)
	assert.Equal(t, 1, f.store.Count())
}

func TestListLinks(t *testing.T) {
	f := newFixture(t, seedLink("a", "Gemini API"), seedLink("b", "Tailwind"))

	rec := f.do(http.MethodGet, "/api/links", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[struct {
		Links []linkBody `json:"links"`
		Count int        `json:"count"`
	}](t, rec)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, "a", all.Links[0].ID)

	rec = f.do(http.MethodGet, "/api/links?q=tailwind", "")
	filtered := decode[struct {
		Links []linkBody `json:"links"`
	}](t, rec)
	require.Len(t, filtered.Links, 1)
	assert.Equal(t, "b", filtered.Links[0].ID)

	rec = f.do(http.MethodGet, "/api/links?q=nothing-matches", "")
	assert.JSONEq(t, `{"links":[],"count":0}`, rec.Body.String())
}

func TestDeleteLink(t *testing.T) {
	f := newFixture(t, seedLink("a", "A"), seedLink("b", "B"))

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/links/a", "").Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/links/a", "").Code)
	assert.Equal(t, 1, f.store.Count())
}

func TestVisitLink(t *testing.T) {
	f := newFixture(t, seedLink("a", "A"))

	rec := f.do(http.MethodPost, "/api/links/a/visit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[linkBody](t, rec)
	assert.Equal(t, "https://example.com/a", body.Destination)
	assert.Equal(t, int64(1), body.Analytics.Clicks)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/links/missing/visit", "").Code)
}

func TestAnalytics(t *testing.T) {
	a := seedLink("a", "A")
	a.Analytics.History[6].Clicks = 5
	a.Analytics.History[0].Clicks = 2
	f := newFixture(t, a)

	rec := f.do(http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[struct {
		WindowDays          int   `json:"windowDays"`
		TotalClicks         int64 `json:"totalClicks"`
		AverageClicksPerDay int64 `json:"averageClicksPerDay"`
		ActiveLinks         int   `json:"activeLinks"`
		Series              []struct {
			TotalClicks int64 `json:"totalClicks"`
		} `json:"series"`
	}](t, rec)
	assert.Equal(t, 7, report.WindowDays)
	assert.Equal(t, int64(7), report.TotalClicks)
	assert.Equal(t, int64(1), report.AverageClicksPerDay)
	assert.Equal(t, 1, report.ActiveLinks)
	assert.Equal(t, int64(5), report.Series[6].TotalClicks)

	rec = f.do(http.MethodGet, "/api/analytics?days=3", "")
	assert.Contains(t, rec.Body.String(), `"windowDays":3`)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/analytics?days=abc", "").Code)
}

func TestReload(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/reload", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/api/reload", "").Code)

	<-f.trigger
	assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/reload", "").Code)
}

func TestProbes(t *testing.T) {
	f := newFixture(t, seedLink("a", "A"))

	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)

	rec = f.do(http.MethodGet, "/infra", "")
	require.Equal(t, http.StatusOK, rec.Code)
	infra := decode[struct {
		Mode       string `json:"mode"`
		Components map[string]struct {
			OK          bool   `json:"ok"`
			LinksLoaded *int   `json:"links_loaded"`
			Mode        string `json:"mode"`
		} `json:"components"`
	}](t, rec)
	assert.Equal(t, "degraded", infra.Mode, "enrichment runs in fallback mode")
	require.NotNil(t, infra.Components["links"].LinksLoaded)
	assert.Equal(t, 1, *infra.Components["links"].LinksLoaded)
	assert.Equal(t, "memory", infra.Components["store"].Mode)

	f.kv.broken = true
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/readyz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/links", `{"url":"https://go.dev"}`)

	rec := f.do(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `linkpulse_link_events_total{event="created"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/links"`)
	assert.Contains(t, rec.Body.String(), "linkpulse_links 1")
}
