package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 20 * time.Second

// ErrDisabled is the fallback cause when no model is configured.
var ErrDisabled = errors.New("enrichment disabled")

// Model produces the raw (JSON) text answer for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder receives one observation per Analyze call.
type Recorder interface {
	ObserveEnrichment(outcome string, elapsed time.Duration)
}

// Cache keeps model answers per URL. Only enriched results are stored.
type Cache interface {
	Lookup(ctx context.Context, url string) (Enrichment, bool, error)
	Remember(ctx context.Context, url string, e Enrichment) error
}

// Analyzer turns a URL into an Enrichment. It never fails: any problem with
// the model degrades to Fallback.
type Analyzer struct {
	model    Model
	timeout  time.Duration
	logger   logger.Logger
	recorder Recorder
	cache    Cache
}

type Option func(*Analyzer)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

func WithCache(c Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// NewAnalyzer builds an analyzer. A nil model disables enrichment and every
// call returns the fallback.
func NewAnalyzer(model Model, log logger.Logger, opts ...Option) *Analyzer {
	if log == nil {
		log = logger.NewNop()
	}
	a := &Analyzer{
		model:   model,
		timeout: DefaultTimeout,
		logger:  log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a model is wired in.
func (a *Analyzer) Enabled() bool { return a.model != nil }

// Analyze returns the enrichment for rawURL.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) Enrichment {
	return a.Resolve(ctx, rawURL).Enrichment
}

// Resolve is Analyze with the outcome kept visible.
func (a *Analyzer) Resolve(ctx context.Context, rawURL string) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = fallback(rawURL, fmt.Errorf("model panicked: %v", r))
		}
		switch {
		case res.Outcome == OutcomeDefaulted:
			a.logger.Warn("enrichment answer incomplete, defaults applied",
				logger.String("url", rawURL))
		case res.Outcome != OutcomeFallback:
		case errors.Is(res.Err, ErrDisabled):
			a.logger.Debug("enrichment disabled, using fallback",
				logger.String("url", rawURL))
		default:
			a.logger.Warn("enrichment failed, using fallback",
				logger.String("url", rawURL),
				logger.Error(res.Err))
		}
		if a.recorder != nil {
			a.recorder.ObserveEnrichment(string(res.Outcome), time.Since(start))
		}
	}()

	if a.model == nil {
		return fallback(rawURL, ErrDisabled)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if e, ok := a.cached(callCtx, rawURL); ok {
		return Result{Enrichment: e, Outcome: OutcomeEnriched}
	}

	text, err := a.model.Generate(callCtx, Prompt(rawURL))
	if err != nil {
		return fallback(rawURL, err)
	}

	a.logger.Debug("enrichment received",
		logger.String("url", rawURL),
		logger.Int("bytes", len(text)))

	e, complete := Parse(text)
	if !complete {
		return Result{Enrichment: e, Outcome: OutcomeDefaulted}
	}

	res = Result{Enrichment: e, Outcome: OutcomeEnriched}
	if a.cache != nil {
		if err := a.cache.Remember(callCtx, rawURL, res.Enrichment); err != nil {
			a.logger.Debug("failed to cache enrichment",
				logger.String("url", rawURL),
				logger.Error(err))
		}
	}
	return res
}

// cached consults the cache. Cache errors count as a miss.
func (a *Analyzer) cached(ctx context.Context, rawURL string) (Enrichment, bool) {
	if a.cache == nil {
		return Enrichment{}, false
	}
	e, ok, err := a.cache.Lookup(ctx, rawURL)
	if err != nil {
		a.logger.Debug("enrichment cache lookup failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return Enrichment{}, false
	}
	if ok {
		a.logger.Debug("enrichment cache hit", logger.String("url", rawURL))
	}
	return e, ok
}

func fallback(rawURL string, cause error) Result {
	return Result{Enrichment: Fallback(rawURL), Outcome: OutcomeFallback, Err: cause}
}
