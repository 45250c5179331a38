package brands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/assembler"
	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/lookup"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
)

const (
	joopSite     = "https://joop.com"
	joopMinBytes = 5000
)

// Media URLs live inside script blobs on the product page, so a raw scan
// beats DOM traversal here.
var joopMediaRe = regexp.MustCompile(`https://joop\.com/medias/sys_master/images/images/[^"'>\s]+`)

// joopScraper resolves the vendor code through the lookup table (the catalog
// prefix, 300 or 301 or 304, is assigned per article and cannot be derived),
// finds the product page via the site search, and validates the gallery
// images it links.
type joopScraper struct {
	lookup  lookup.Store
	client  *http.Client
	engine  *engine.Engine
	timeout time.Duration
	logger  *slog.Logger
}

func newJoopScraper(deps Deps) *joopScraper {
	return &joopScraper{
		lookup:  deps.Lookup,
		client:  deps.Client,
		engine:  deps.Engine,
		timeout: deps.FetchTimeout,
		logger:  deps.Logger.With("brand", "joop"),
	}
}

func (j *joopScraper) Brand() string { return "joop" }

// vendorCode resolves JP10017927-00030-01 to 30100030-10017927-01, preferring
// the lookup table and falling back to the most common catalog prefix.
func (j *joopScraper) vendorCode(ctx context.Context, sku string) (string, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if !strings.HasPrefix(sku, "JP") {
		sku = "JP" + sku
	}

	if code, ok, err := j.lookup.Resolve(ctx, "joop", sku); err != nil {
		return "", err
	} else if ok {
		return code, nil
	}

	parts := strings.Split(strings.TrimPrefix(sku, "JP"), "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q, expected JP<model>-<middle>-<color>", ErrInvalidSKU, sku)
	}
	return fmt.Sprintf("301%s-%s-%s", parts[1], parts[0], parts[2]), nil
}

// findProductPage searches the site for the vendor code and returns the
// product page URL, retrying without the color segment when the exact code
// has no hit.
func (j *joopScraper) findProductPage(ctx context.Context, code string) (string, error) {
	searchURL := fmt.Sprintf("%s/int/en/search?text=%s", joopSite, url.QueryEscape(code))
	page, err := fetchPage(ctx, j.client, searchURL, j.timeout)
	if err != nil {
		return "", err
	}

	if m := regexp.MustCompile(`/p/` + regexp.QuoteMeta(code)).Find(page); m != nil {
		return joopSite + string(m), nil
	}
	if segs := strings.Split(code, "-"); len(segs) >= 2 {
		noColor := strings.Join(segs[:2], "-")
		if m := regexp.MustCompile(`/p/` + regexp.QuoteMeta(noColor) + `-\d+`).Find(page); m != nil {
			return joopSite + string(m), nil
		}
	}
	return "", nil
}

// extractJoopMedia pulls gallery URLs out of the product page's script blobs,
// keeping .jpg files only, query strings stripped, first occurrence wins.
func extractJoopMedia(page []byte) []models.Candidate {
	var candidates []models.Candidate
	seen := make(map[string]struct{})
	for _, raw := range joopMediaRe.FindAllString(string(page), -1) {
		clean := strings.SplitN(raw, "?", 2)[0]
		if !strings.HasSuffix(clean, ".jpg") {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		candidates = append(candidates, models.Candidate{URL: clean})
	}
	return candidates
}

func (j *joopScraper) Scrape(ctx context.Context, sku string, maxImages int) (*models.ScrapeResult, error) {
	code, err := j.vendorCode(ctx, sku)
	if err != nil {
		return nil, err
	}

	formatted := strings.ToUpper(strings.TrimSpace(sku))
	result := models.NewScrapeResult(sku, formatted)
	result.BrandCode = "JP"
	result.VendorCode = code

	productURL, err := j.findProductPage(ctx, code)
	if err != nil || productURL == "" {
		result.Error = fmt.Sprintf("Product not found for %s (searched as %s)", sku, code)
		return result, nil
	}
	result.LandingPage = productURL

	page, err := fetchPage(ctx, j.client, productURL, j.timeout)
	if err != nil {
		result.Error = fmt.Sprintf("Product page unavailable for %s", sku)
		return result, nil
	}

	candidates := extractJoopMedia(page)
	if len(candidates) == 0 {
		result.Error = "No images found"
		return result, nil
	}

	rule := fetcher.Rule{Timeout: j.timeout, MinBytes: joopMinBytes}
	images, err := j.engine.Validate(ctx, candidates, rule, engine.Options{MaxImages: maxImages})
	if errors.Is(err, engine.ErrNoImages) {
		result.Error = "No images found"
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.Images = assembler.Assemble(formatted, images)
	result.Count = len(result.Images)
	return result, nil
}
