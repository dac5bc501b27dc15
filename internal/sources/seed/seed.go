// Package seed provides the initial link collection used when the snapshot
// slot is empty: links from a YAML file, or the built-in demo set.
package seed

import (
	"context"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/domain"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

// Func matches links.SeedFunc.
type Func func(ctx context.Context, today time.Time) ([]domain.Link, error)

// Source returns the seed for path. An empty path selects Demo.
func Source(path string, log logger.Logger) Func {
	if path == "" {
		return func(_ context.Context, today time.Time) ([]domain.Link, error) {
			log.Info("seeding demo links")
			return Demo(today), nil
		}
	}

	return func(_ context.Context, today time.Time) ([]domain.Link, error) {
		file, err := NewLoader(path).Load()
		if err != nil {
			return nil, err
		}
		links, err := NewMapper().MapLinks(file, today)
		if err != nil {
			return nil, err
		}
		log.Info("seeding links from file",
			logger.String("path", path),
			logger.Int("links", len(links)))
		return links, nil
	}
}
