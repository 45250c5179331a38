package brands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/assembler"
	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const (
	armaniBase   = "https://assets-cf.armani.com/image/upload"
	armaniParams = "f_auto,q_auto:best,ar_4:5,w_1350,c_fill"
)

var (
	// Fabric prefixes by observed frequency; AF covers most articles.
	armaniPrefixes = []string{"AF", "TE", "TS", "TF", "TK", "TN"}
	// Newest season first.
	armaniSeasons  = []string{"FW2025", "SS2025", "FW2024", "SS2024"}
	armaniSuffixes = []string{"F", "D", "R", "E", "A", "B"}
)

// armaniScraper cannot build CDN names from the SKU alone: the fabric prefix
// and season are not encoded in it. It discovers both by probing the front
// ("F") image with HEAD requests, then validates the full suffix set under
// the discovered combination. Everything runs HEAD-only; the CDN's
// Content-Length is trusted.
type armaniScraper struct {
	fetcher *fetcher.Fetcher
	engine  *engine.Engine
	timeout time.Duration
	logger  *slog.Logger
}

func newArmaniScraper(deps Deps) *armaniScraper {
	return &armaniScraper{
		fetcher: deps.Fetcher,
		engine:  deps.Engine,
		timeout: deps.FetchTimeout,
		logger:  deps.Logger.With("brand", "armani"),
	}
}

func (a *armaniScraper) Brand() string { return "armani" }

type armaniSKU struct {
	line   string // EM or EW
	model  string
	fabric string
	color  string
}

// parseArmaniSKU: EAEM00282913666UB104 -> line EM, model 002829, fabric
// 13666, color UB104.
func parseArmaniSKU(sku string) (*armaniSKU, error) {
	clean := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(sku))
	if !strings.HasPrefix(clean, "EAEM") && !strings.HasPrefix(clean, "EAEW") {
		return nil, fmt.Errorf("%w: %q, must start with EAEM or EAEW", ErrInvalidSKU, sku)
	}
	code := clean[2:]
	if len(code) < 16 {
		return nil, fmt.Errorf("%w: %q, code too short", ErrInvalidSKU, sku)
	}
	return &armaniSKU{
		line:   code[:2],
		model:  code[2:8],
		fabric: code[8:13],
		color:  code[13:],
	}, nil
}

func (a *armaniScraper) url(s *armaniSKU, prefix, suffix, season string) string {
	return fmt.Sprintf("%s/%s/%s%s_%s%s_%s_%s_%s.jpg",
		armaniBase, armaniParams, s.line, s.model, prefix, s.fabric, s.color, suffix, season)
}

// detect finds the (fabric prefix, season) pair under which the article is
// published, probing the front image for each combination and stopping at the
// first hit.
func (a *armaniScraper) detect(ctx context.Context, s *armaniSKU, rule fetcher.Rule) (prefix, season string) {
	for _, p := range armaniPrefixes {
		for _, se := range armaniSeasons {
			if ctx.Err() != nil {
				return "", ""
			}
			if out := a.fetcher.Probe(ctx, a.url(s, p, "F", se), rule); out.Valid {
				return p, se
			}
		}
	}
	return "", ""
}

func (a *armaniScraper) Scrape(ctx context.Context, sku string, maxImages int) (*models.ScrapeResult, error) {
	parsed, err := parseArmaniSKU(sku)
	if err != nil {
		return nil, err
	}

	formatted := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(sku))
	result := models.NewScrapeResult(sku, formatted)
	result.BrandCode = "EA"

	rule := fetcher.Rule{Method: http.MethodHead, Timeout: a.timeout}

	prefix, season := a.detect(ctx, parsed, rule)
	if prefix == "" {
		result.VendorCode = fmt.Sprintf("%s%s-??%s-%s", parsed.line, parsed.model, parsed.fabric, parsed.color)
		result.Error = fmt.Sprintf("Product not found on CDN for %s%s", parsed.line, parsed.model)
		return result, nil
	}
	result.VendorCode = fmt.Sprintf("%s%s-%s%s-%s", parsed.line, parsed.model, prefix, parsed.fabric, parsed.color)

	candidates := make([]models.Candidate, 0, len(armaniSuffixes))
	for _, suffix := range armaniSuffixes {
		candidates = append(candidates, models.Candidate{
			URL: a.url(parsed, prefix, suffix, season),
			Metadata: map[string]string{
				"suffix": suffix,
				"season": season,
				"prefix": prefix,
			},
		})
	}

	images, err := a.engine.Validate(ctx, candidates, rule, engine.Options{
		MaxImages:      maxImages,
		MaxConcurrency: len(armaniSuffixes),
	})
	if errors.Is(err, engine.ErrNoImages) {
		result.Error = fmt.Sprintf("No images found for %s", result.VendorCode)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Images = assembler.Assemble(formatted, images)
	result.Count = len(result.Images)
	return result, nil
}
