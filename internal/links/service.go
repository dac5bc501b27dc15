package links

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/analytics"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/enrich"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

// ErrInvalidURL rejects submissions without an http:// or https:// prefix.
var ErrInvalidURL = errors.New("url must start with http:// or https://")

const (
	shortCodeLength   = 6
	shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Enricher derives title, tags and summary for a URL. It must not fail.
type Enricher interface {
	Analyze(ctx context.Context, url string) enrich.Enrichment
}

// Events is notified after successful mutations. Optional.
type Events interface {
	LinkCreated()
	LinkDeleted()
	LinkVisited()
}

type Service struct {
	store    *Store
	enricher Enricher
	events   Events
	now      func() time.Time
	logger   logger.Logger
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithEvents(e Events) ServiceOption {
	return func(s *Service) { s.events = e }
}

func WithLogger(l logger.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func NewService(store *Store, enricher Enricher, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		enricher: enricher,
		now:      time.Now,
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateURL checks the scheme prefix, case-insensitively. Nothing else
// about the URL is verified.
func ValidateURL(raw string) error {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return nil
	}
	return ErrInvalidURL
}

// CreateLink enriches rawURL and stores the new link at position 0.
//
// The link is returned even when err wraps ErrPersist: it exists in memory
// but the snapshot write failed.
func (s *Service) CreateLink(ctx context.Context, rawURL string) (domain.Link, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		return domain.Link{}, err
	}

	// Enrichment runs outside the store lock.
	e := s.enricher.Analyze(ctx, rawURL)

	code, err := newShortCode()
	if err != nil {
		return domain.Link{}, fmt.Errorf("failed to generate short code: %w", err)
	}

	now := s.now()
	link := domain.Link{
		ID:          uuid.NewString(),
		OriginalURL: rawURL,
		ShortCode:   code,
		Title:       e.Title,
		Tags:        append([]string(nil), e.Tags...),
		Summary:     e.Summary,
		CreatedAt:   now.UTC(),
		Analytics: domain.LinkAnalytics{
			History: domain.NewHistory(now, domain.HistoryDays),
		},
	}

	err = s.store.Insert(ctx, link)
	s.logger.Info("link created",
		logger.String("id", link.ID),
		logger.String("url", link.OriginalURL),
		logger.String("short_code", link.ShortCode))
	if s.events != nil {
		s.events.LinkCreated()
	}
	return link, err
}

// DeleteLink removes a link. Deleting an unknown id is a no-op.
func (s *Service) DeleteLink(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Delete(ctx, id)
	if removed {
		s.logger.Info("link deleted", logger.String("id", id))
		if s.events != nil {
			s.events.LinkDeleted()
		}
	}
	return removed, err
}

// Search filters on title, original URL and tags. Order is preserved.
func (s *Service) Search(term string) []domain.Link {
	return s.store.Query(strings.TrimSpace(term))
}

// Visit records a simulated click and returns the updated link.
func (s *Service) Visit(ctx context.Context, id string) (domain.Link, error) {
	link, err := s.store.RecordVisit(ctx, id, s.now())
	if errors.Is(err, ErrNotFound) {
		return domain.Link{}, err
	}
	if s.events != nil {
		s.events.LinkVisited()
	}
	return link, err
}

// Analytics aggregates the current collection over windowDays ending today.
func (s *Service) Analytics(windowDays int) analytics.Report {
	return analytics.BuildReport(s.store.All(), windowDays, s.now())
}

// Get returns a single link.
func (s *Service) Get(id string) (domain.Link, bool) {
	return s.store.Get(id)
}

// newShortCode draws shortCodeLength characters uniformly from the alphabet.
func newShortCode() (string, error) {
	const limit = 256 - 256%len(shortCodeAlphabet) // bytes at or above limit would bias the draw

	code := make([]byte, 0, shortCodeLength)
	buf := make([]byte, shortCodeLength*2)
	for len(code) < shortCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, shortCodeAlphabet[int(b)%len(shortCodeAlphabet)])
			if len(code) == shortCodeLength {
				break
			}
		}
	}
	return string(code), nil
}
