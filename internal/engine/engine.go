// Package engine validates lists of candidate image URLs concurrently while
// keeping the caller's submission order authoritative for the final result.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

var (
	// ErrNoCandidates and ErrBadLimit are precondition violations, distinct
	// from a scrape that simply found nothing.
	ErrNoCandidates = errors.New("engine: no candidates supplied")
	ErrBadLimit     = errors.New("engine: max images must be at least 1")

	// ErrNoImages means every candidate failed validation. Callers map this to
	// a structured empty response, not a server error.
	ErrNoImages = errors.New("engine: no candidates validated")
)

const (
	// DefaultConcurrency suits the common 5-20 candidate probe space; brands
	// with larger spaces pass their own bound.
	DefaultConcurrency = 10
	// MaxConcurrency caps caller-requested fan-out per validation call.
	MaxConcurrency = 20
)

// Prober resolves one candidate URL under one rule. Satisfied by
// *fetcher.Fetcher.
type Prober interface {
	Probe(ctx context.Context, url string, rule fetcher.Rule) fetcher.Outcome
}

// Options bound one validation call.
type Options struct {
	MaxImages      int
	MaxConcurrency int // 0 means DefaultConcurrency; clamped to MaxConcurrency
}

type Engine struct {
	prober Prober
	logger *slog.Logger
}

func New(prober Prober, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{prober: prober, logger: logger.With("component", "engine")}
}

// Validate fans probes out across a bounded pool, then finalizes in submission
// order: workers complete in arbitrary order, but the output preserves the
// relative order of the input candidates. Duplicate content hashes keep only
// their first (lowest-index) occurrence, and the result is capped at
// opts.MaxImages. All scheduled probes settle before finalizing; a failed
// probe is skipped silently.
func (e *Engine) Validate(ctx context.Context, candidates []models.Candidate, rule fetcher.Rule, opts Options) ([]models.ValidatedImage, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if opts.MaxImages < 1 {
		return nil, ErrBadLimit
	}

	workers := opts.MaxConcurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}
	if workers > MaxConcurrency {
		workers = MaxConcurrency
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	// Each outcome is written to its own slot, so no lock is needed around
	// the results and submission order is kept implicitly.
	outcomes := make([]fetcher.Outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.prober.Probe(gctx, cand.URL, rule)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := make([]models.ValidatedImage, 0, opts.MaxImages)
	seen := make(map[string]struct{}, len(candidates))
	for i, out := range outcomes {
		if !out.Valid {
			continue
		}
		if out.Hash != "" {
			if _, dup := seen[out.Hash]; dup {
				continue
			}
			seen[out.Hash] = struct{}{}
		}
		images = append(images, models.ValidatedImage{
			URL:      candidates[i].URL,
			Index:    len(images) + 1,
			Metadata: candidates[i].Metadata,
		})
		if len(images) == opts.MaxImages {
			break
		}
	}

	e.logger.Debug("validation finished",
		"candidates", len(candidates), "valid", len(images), "workers", workers)

	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}
