package brands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stylefeed/fashion-image-scraper/internal/fetcher"
)

const maxPageBytes = 4 * 1024 * 1024

var defaultPageHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// fetchPage downloads a vendor HTML page with browser-like headers. Used by
// the search-based brands; CDN image probing goes through the fetcher instead.
func fetchPage(ctx context.Context, client *http.Client, pageURL string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build page request: %w", err)
	}
	req.Header.Set("User-Agent", fetcher.DefaultUserAgent)
	for k, v := range defaultPageHeaders {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}
