package brands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stylefeed/fashion-image-scraper/internal/assembler"
	"github.com/stylefeed/fashion-image-scraper/internal/engine"
	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
	"github.com/stylefeed/fashion-image-scraper/internal/models"
	"github.com/stylefeed/fashion-image-scraper/internal/ratelimit"
)

const (
	liuJoSite     = "https://www.liujo.com"
	liuJoMinBytes = 5000
	liuJoImgQuery = "?sw=1200&sh=1600&q=90"
)

// Galleries are also embedded as JSON in script tags; those URLs never show
// up as img attributes.
var liuJoJSONImgRe = regexp.MustCompile(`"(https?:[^"]+demandware\.static[^"]+\.jpg)"`)

// liuJoScraper has no guessable CDN scheme: it searches liujo.com for the
// converted SKU, follows the first matching product page and harvests the
// gallery image URLs from it. Search requests are rate limited to stay polite
// with the vendor's HTML endpoints.
type liuJoScraper struct {
	client  *http.Client
	engine  *engine.Engine
	limiter *ratelimit.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

func newLiuJoScraper(deps Deps) *liuJoScraper {
	return &liuJoScraper{
		client:  deps.Client,
		engine:  deps.Engine,
		limiter: deps.Limiter,
		timeout: deps.FetchTimeout,
		logger:  deps.Logger.With("brand", "liujo"),
	}
}

func (l *liuJoScraper) Brand() string { return "liujo" }

// convertLiuJoSKU: "LJAA6096 E0958 00070" -> "AA6096E095800070" (drop the LJ
// prefix, join without spaces).
func convertLiuJoSKU(sku string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(sku))
	code = strings.TrimPrefix(code, "LJ")
	code = strings.ReplaceAll(code, " ", "")
	if len(code) < 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSKU, sku)
	}
	return code, nil
}

// search runs one site search and returns the first product page whose URL
// contains the vendor code.
func (l *liuJoScraper) search(ctx context.Context, term, code string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	searchURL := fmt.Sprintf("%s/int/search?q=%s", liuJoSite, url.QueryEscape(term))
	page, err := fetchPage(ctx, l.client, searchURL, l.timeout)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}

	var productURL string
	doc.Find(`a[href^="/int/"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.HasSuffix(href, ".html") && strings.Contains(strings.ToUpper(href), code) {
			productURL = liuJoSite + href
			return false
		}
		return true
	})
	return productURL, nil
}

// extractImages harvests gallery URLs from a product page: img src/data-src
// and srcset attributes, plus JSON-embedded gallery data. Order of first
// appearance is preserved; it becomes the photo order after validation.
func (l *liuJoScraper) extractImages(page []byte, code string) []models.Candidate {
	var candidates []models.Candidate
	seen := make(map[string]struct{})

	add := func(raw string) {
		raw = strings.ReplaceAll(raw, "\\u002F", "/")
		if strings.HasPrefix(raw, "//") {
			raw = "https:" + raw
		}
		if !strings.Contains(raw, "demandware.static") || !strings.Contains(strings.ToUpper(raw), code) {
			return
		}
		clean := strings.SplitN(raw, "?", 2)[0]
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		candidates = append(candidates, models.Candidate{URL: clean + liuJoImgQuery})
	}

	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page)); err == nil {
		doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
			for _, attr := range []string{"src", "data-src"} {
				if v, ok := sel.Attr(attr); ok {
					add(v)
				}
			}
			if srcset, ok := sel.Attr("srcset"); ok {
				for _, entry := range strings.Split(srcset, ",") {
					if fields := strings.Fields(strings.TrimSpace(entry)); len(fields) > 0 {
						add(fields[0])
					}
				}
			}
		})
	}

	for _, m := range liuJoJSONImgRe.FindAllStringSubmatch(string(page), -1) {
		add(m[1])
	}
	return candidates
}

func (l *liuJoScraper) Scrape(ctx context.Context, sku string, maxImages int) (*models.ScrapeResult, error) {
	code, err := convertLiuJoSKU(sku)
	if err != nil {
		return nil, err
	}

	formatted := strings.ReplaceAll(strings.TrimSpace(sku), " ", "_")
	result := models.NewScrapeResult(sku, formatted)
	result.BrandCode = "LJ"
	result.VendorCode = code

	// A partial code (model + material) searches better than the full one;
	// fall back to the bare model code.
	term := code
	if len(code) > 11 {
		term = code[:11]
	}
	productURL, err := l.search(ctx, term, code)
	if err != nil {
		return nil, err
	}
	if productURL == "" && len(code) > 6 {
		if productURL, err = l.search(ctx, code[:6], code); err != nil {
			return nil, err
		}
	}
	if productURL == "" {
		result.Error = fmt.Sprintf("Product not found for SKU: %s (searched as: %s)", sku, code)
		return result, nil
	}
	result.LandingPage = productURL

	page, err := fetchPage(ctx, l.client, productURL, l.timeout)
	if err != nil {
		result.Error = fmt.Sprintf("Product page unavailable for %s", sku)
		return result, nil
	}

	candidates := l.extractImages(page, code)
	if len(candidates) == 0 {
		result.Error = "No images found"
		return result, nil
	}

	rule := fetcher.Rule{Timeout: l.timeout, MinBytes: liuJoMinBytes}
	images, err := l.engine.Validate(ctx, candidates, rule, engine.Options{MaxImages: maxImages})
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
