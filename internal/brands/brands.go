// Package brands holds the per-brand scrapers: each one knows how to turn an
// internal SKU into the vendor's product code, enumerate candidate image URLs
// in the brand's required photo order, and pick the validation rule for its
// CDN. The concurrent validation itself lives in the engine package.
package brands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/lookup"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
	"github.com/stylefeed/fashion-image-scraper/internal/ratelimit"
)

var (
	// ErrInvalidSKU means the SKU does not match the brand's format. The API
	// maps it to a client error, unlike "no images found" which is a normal
	// empty result.
	ErrInvalidSKU = errors.New("invalid sku format")

	ErrUnknownBrand = errors.New("unknown brand")
)

// Scraper resolves one SKU to validated image URLs for a single brand.
type Scraper interface {
	Brand() string
	Scrape(ctx context.Context, sku string, maxImages int) (*models.ScrapeResult, error)
}

// Deps carries the shared collaborators brand scrapers are built from. The
// HTTP client is constructed once at startup and reused everywhere; no brand
// owns a session of its own.
type Deps struct {
	Engine       *engine.Engine
	Fetcher      *fetcher.Fetcher
	Lookup       lookup.Store
	Limiter      *ratelimit.Limiter
	Client       *http.Client
	Concurrency  int // engine fan-out for brands that do not set their own
	FetchTimeout time.Duration
	Logger       *slog.Logger
}

// Registry maps brand names (and their aliases) to scrapers.
type Registry struct {
	scrapers map[string]Scraper
}

func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := &Registry{scrapers: make(map[string]Scraper)}

	for _, spec := range []Spec{
		bossSpec(),
		majeSpec(),
		mangoSpec(),
		tommySpec(),
		allSaintsSpec(),
		boggiSpec(),
		dieselSpec(),
		scotchSpec(),
	} {
		r.register(newTemplateScraper(spec, deps), spec.Aliases...)
	}

	r.register(newArmaniScraper(deps), "emporio armani", "ea")
	r.register(newJoopScraper(deps))
	r.register(newLiuJoScraper(deps), "liu jo")

	return r
}

func (r *Registry) register(s Scraper, aliases ...string) {
	r.scrapers[normalizeBrand(s.Brand())] = s
	for _, alias := range aliases {
		r.scrapers[normalizeBrand(alias)] = s
	}
}

// Get resolves a brand name or alias to its scraper.
func (r *Registry) Get(name string) (Scraper, error) {
	s, ok := r.scrapers[normalizeBrand(name)]
	if !ok {
		return nil, ErrUnknownBrand
	}
	return s, nil
}

// Brands returns the canonical brand names, sorted, aliases excluded.
func (r *Registry) Brands() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, s := range r.scrapers {
		if _, ok := seen[s.Brand()]; ok {
			continue
		}
		seen[s.Brand()] = struct{}{}
		names = append(names, s.Brand())
	}
	sort.Strings(names)
	return names
}

func normalizeBrand(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
