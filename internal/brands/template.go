package brands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/assembler"
	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

// Parsed is a brand formatter's output: the SKU reshaped into the vendor's
// code plus the candidate URLs in the brand's required photo order. That
// order is authoritative; the engine never reorders by completion time.
type Parsed struct {
	FormattedSKU string
	VendorCode   string
	Candidates   []models.Candidate
}

// Spec declares one template-driven brand as data. Most brands differ only in
// these values; anything needing its own control flow (lookup tables, search
// pages, prefix probing) implements Scraper directly instead.
type Spec struct {
	Name    string
	Aliases []string
	Code    string // brand code echoed in responses, e.g. "DS"

	MinBytes     int
	Concurrency  int
	HeadOnly     bool
	DecodeVerify bool
	Headers      map[string]string

	// Placeholder exclusion for CDNs that serve a fixed "not available"
	// graphic with a 200 status instead of a 404.
	PlaceholderSizes  []int
	PlaceholderHashes []string

	// Format parses the SKU and enumerates candidates. Returns ErrInvalidSKU
	// (wrapped) when the SKU doesn't match the brand's shape.
	Format func(sku string) (*Parsed, error)

	// Rank, when set, reorders validated images by category (stable) before
	// filenames are assigned, e.g. product-only shots behind model shots.
	Rank func(models.ValidatedImage) int
}

type templateScraper struct {
	spec    Spec
	engine  *engine.Engine
	workers int
	timeout time.Duration
	logger  *slog.Logger
}

func newTemplateScraper(spec Spec, deps Deps) *templateScraper {
	workers := spec.Concurrency
	if workers == 0 {
		workers = deps.Concurrency
	}
	return &templateScraper{
		spec:    spec,
		engine:  deps.Engine,
		workers: workers,
		timeout: deps.FetchTimeout,
		logger:  deps.Logger.With("brand", spec.Name),
	}
}

func (s *templateScraper) Brand() string { return s.spec.Name }

func (s *templateScraper) Scrape(ctx context.Context, sku string, maxImages int) (*models.ScrapeResult, error) {
	parsed, err := s.spec.Format(sku)
	if err != nil {
		return nil, err
	}

	result := models.NewScrapeResult(sku, parsed.FormattedSKU)
	result.BrandCode = s.spec.Code
	result.VendorCode = parsed.VendorCode

	images, err := s.engine.Validate(ctx, parsed.Candidates, s.rule(), engine.Options{
		MaxImages:      maxImages,
		MaxConcurrency: s.workers,
	})
	if errors.Is(err, engine.ErrNoImages) {
		result.Error = "No images found"
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if s.spec.Rank != nil {
		images = assembler.Reorder(images, s.spec.Rank)
	}
	result.Images = assembler.Assemble(parsed.FormattedSKU, images)
	result.Count = len(result.Images)
	return result, nil
}

func (s *templateScraper) rule() fetcher.Rule {
	rule := fetcher.Rule{
		Timeout:           s.timeout,
		MinBytes:          s.spec.MinBytes,
		Headers:           s.spec.Headers,
		DecodeVerify:      s.spec.DecodeVerify,
		PlaceholderSizes:  s.spec.PlaceholderSizes,
		PlaceholderHashes: s.spec.PlaceholderHashes,
	}
	if s.spec.HeadOnly {
		rule.Method = http.MethodHead
	}
	return rule
}
